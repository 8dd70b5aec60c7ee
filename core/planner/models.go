// Package planner is the personal daily planner: master tasks, their daily
// copies, focus sessions and the productivity reports computed from them.
package planner

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Daily task statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
)

// Task is a master task, copied into the daily list of its owner every day while active.
type Task struct {
	core.Model
	UserID      int     `json:"user_id" gorm:"not null;index"`
	Title       string  `json:"title" gorm:"size:255;not null"`
	Description string  `json:"description"`
	StartTime   *string `json:"start_time" gorm:"size:5"`
	EndTime     *string `json:"end_time" gorm:"size:5"`
	IsActive    bool    `json:"is_active" gorm:"not null"`
}

func (Task) TableName() string { return "dp_tasks" }

func (t Task) OwnerID() int         { return t.UserID }
func (t *Task) SetOwner(userID int) { t.UserID = userID }

// DailyTask is one entry of the daily list of a user. Entries copied from a
// master task keep a reference to it.
type DailyTask struct {
	core.Model
	UserID      int        `json:"user_id" gorm:"not null;uniqueIndex:ux_dp_daily_tasks_user_date_task,priority:1"`
	TaskDate    core.Date  `json:"task_date" gorm:"not null;uniqueIndex:ux_dp_daily_tasks_user_date_task,priority:2"`
	DpTaskID    *int       `json:"dp_task_id" gorm:"uniqueIndex:ux_dp_daily_tasks_user_date_task,priority:3"`
	DpTask      *Task      `json:"dp_task,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description"`
	StartTime   *string    `json:"start_time" gorm:"size:5"`
	EndTime     *string    `json:"end_time" gorm:"size:5"`
	Status      string     `json:"status" gorm:"size:10;not null;default:pending"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (DailyTask) TableName() string { return "dp_daily_tasks" }

func (t DailyTask) OwnerID() int         { return t.UserID }
func (t *DailyTask) SetOwner(userID int) { t.UserID = userID }

// SetStatus moves the task to status: completing stamps the completion time, any other status clears it.
func (t *DailyTask) SetStatus(status string, now time.Time) {
	if status == StatusCompleted {
		if t.Status != StatusCompleted || t.CompletedAt == nil {
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

// FocusLog is a focus session. It is open until an update sets its end time.
type FocusLog struct {
	core.Model
	UserID           int        `json:"user_id" gorm:"not null;index"`
	DpDailyTaskID    *int       `json:"dp_daily_task_id" gorm:"index"`
	DpDailyTask      *DailyTask `json:"dp_daily_task,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	StartTime        time.Time  `json:"start_time" gorm:"not null;index"`
	EndTime          *time.Time `json:"end_time"`
	DurationMinutes  *int       `json:"duration_minutes"`
	Notes            string     `json:"notes"`
	DistractionCount int        `json:"distraction_count" gorm:"not null;default:0"`
}

func (FocusLog) TableName() string { return "dp_focus_logs" }

func (l FocusLog) OwnerID() int         { return l.UserID }
func (l *FocusLog) SetOwner(userID int) { l.UserID = userID }

func (l FocusLog) IsOpen() bool { return l.EndTime == nil }
