package planner

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

type (
	TaskService      = resource.Service[Task, TaskPayload, TaskPayload]
	DailyTaskService = resource.Service[DailyTask, NewDailyTask, UpdateDailyTask]
	FocusLogService  = resource.Service[FocusLog, OpenFocusLog, CloseFocusLog]
)

var TaskResource = resource.Config[Task]{
	Name:      "dp-tasks",
	Label:     "task",
	Component: "Planner/Tasks",
	Filters:   []resource.Filter{{Param: "is_active", Column: "is_active", Bool: true}},
	Orderable: map[string]string{
		"id":         "id",
		"title":      "title",
		"start_time": "start_time",
		"created_at": "created_at",
	},
	Owned: true,
}

var DailyTaskResource = resource.Config[DailyTask]{
	Name:      "dp-daily-tasks",
	Label:     "daily task",
	Component: "Planner/DailyTasks",
	Filters: []resource.Filter{
		{Param: "task_date", Column: "task_date", Date: true},
		{Param: "status", Column: "status"},
	},
	Orderable: map[string]string{
		"id":         "id",
		"task_date":  "task_date",
		"start_time": "start_time",
		"status":     "status",
	},
	Owned: true,
	// partial updates are checked against the stored times
	Check: func(_ context.Context, _ core.Identity, t *DailyTask) error {
		if t.StartTime != nil && t.EndTime != nil && *t.EndTime <= *t.StartTime {
			return core.NewValidationError(
				errors.New("invalid end time"),
				core.FieldError{Field: "end_time", Error: "end_time must be after start_time"},
			)
		}
		return nil
	},
}

// FocusLogResource checks that focus sessions only link the daily tasks of their owner
// and never end before they start. The start_time filter selects the sessions started
// on a day of loc.
func FocusLogResource(repo Repository, loc *time.Location) resource.Config[FocusLog] {
	return resource.Config[FocusLog]{
		Name:      "dp-focus-logs",
		Label:     "focus log",
		Component: "Planner/FocusLogs",
		Filters: []resource.Filter{
			{Param: "start_time", Column: "start_time", Date: true, Instant: true},
			{Param: "dp_daily_task_id", Column: "dp_daily_task_id"},
		},
		Orderable: map[string]string{
			"id":         "id",
			"start_time": "start_time",
			"end_time":   "end_time",
		},
		Location: loc,
		Owned:    true,
		Check: func(ctx context.Context, caller core.Identity, l *FocusLog) error {
			if l.EndTime != nil && !l.EndTime.After(l.StartTime) {
				return core.NewValidationError(
					errors.New("invalid end time"),
					core.FieldError{Field: "end_time", Error: "end_time must be after start_time"},
				)
			}
			if l.DpDailyTaskID != nil {
				ownerID, err := repo.DailyTaskOwner(ctx, *l.DpDailyTaskID)
				if err != nil && !core.IsNotFound(err) {
					return errors.Wrap(err, "getting daily task owner")
				}
				if err != nil || !caller.Owns(ownerID) {
					return core.NewValidationError(
						errors.New("invalid daily task"),
						core.FieldError{Field: "dp_daily_task_id", Error: "the selected dp_daily_task_id is invalid"},
					)
				}
			}
			return nil
		},
	}
}
