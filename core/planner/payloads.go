package planner

import (
	"time"

	"github.com/trezcool/shule/core"
)

type TaskPayload struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	StartTime   *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     *string `json:"end_time" validate:"omitempty,hhmm,afterfield=start_time"`
	IsActive    *bool   `json:"is_active"`
}

func (p *TaskPayload) Clean() { p.Title = core.CleanString(p.Title) }

func (p TaskPayload) Apply(t *Task) {
	t.Title = p.Title
	t.Description = p.Description
	t.StartTime = p.StartTime
	t.EndTime = p.EndTime
	switch {
	case p.IsActive != nil:
		t.IsActive = *p.IsActive
	case t.ID == 0:
		t.IsActive = true
	}
}

// NewDailyTask adds a task to one day without a master task.
type NewDailyTask struct {
	TaskDate    core.Date `json:"task_date" validate:"required"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	StartTime   *string   `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     *string   `json:"end_time" validate:"omitempty,hhmm,afterfield=start_time"`
}

func (p *NewDailyTask) Clean() { p.Title = core.CleanString(p.Title) }

func (p NewDailyTask) Apply(t *DailyTask) {
	t.TaskDate = p.TaskDate
	t.Title = p.Title
	t.Description = p.Description
	t.StartTime = p.StartTime
	t.EndTime = p.EndTime
	t.Status = StatusPending
}

// UpdateDailyTask only changes the fields that were sent.
type UpdateDailyTask struct {
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed skipped"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	StartTime   *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     *string `json:"end_time" validate:"omitempty,hhmm,afterfield=start_time"`
}

func (p *UpdateDailyTask) Clean() {
	if p.Status != nil {
		status := core.CleanString(*p.Status, true /* lower */)
		p.Status = &status
	}
	if p.Title != nil {
		title := core.CleanString(*p.Title)
		p.Title = &title
	}
}

func (p UpdateDailyTask) Apply(t *DailyTask) {
	if p.Status != nil {
		t.SetStatus(*p.Status, core.Now())
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.StartTime != nil {
		t.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = p.EndTime
	}
}

// OpenFocusLog starts a focus session.
type OpenFocusLog struct {
	StartTime     time.Time `json:"start_time" validate:"required"`
	DpDailyTaskID *int      `json:"dp_daily_task_id" validate:"omitempty,exists=dp_daily_tasks"`
	Notes         string    `json:"notes" validate:"max=2000"`
}

func (p OpenFocusLog) Apply(l *FocusLog) {
	l.StartTime = p.StartTime.UTC()
	l.DpDailyTaskID = p.DpDailyTaskID
	l.Notes = p.Notes
}

// CloseFocusLog ends a focus session. The duration is the focused time reported by the
// client, which may be shorter than the elapsed time.
type CloseFocusLog struct {
	EndTime         time.Time `json:"end_time" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes" validate:"required,min=0,max=1440"`
	Notes           *string   `json:"notes" validate:"omitempty,max=2000"`
}

func (p CloseFocusLog) Apply(l *FocusLog) {
	end := p.EndTime.UTC()
	l.EndTime = &end
	l.DurationMinutes = p.DurationMinutes
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
}
