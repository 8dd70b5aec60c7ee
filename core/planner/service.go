package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

type (
	Repository interface {
		// CountDailyTasks counts the daily tasks of a user on one day.
		CountDailyTasks(ctx context.Context, userID int, date core.Date) (int64, error)
		// CountCompletedDailyTasks counts the completed daily tasks of a user on one day.
		CountCompletedDailyTasks(ctx context.Context, userID int, date core.Date) (int64, error)
		ActiveTasks(ctx context.Context, userID int) ([]Task, error)
		// InsertDailyTasks inserts the rows, ignoring the ones already present
		// for their (user, date, master task), and returns how many were inserted.
		InsertDailyTasks(ctx context.Context, rows []DailyTask) (int64, error)
		DailyTaskOwner(ctx context.Context, id int) (int, error)
		GetFocusLog(ctx context.Context, id int) (FocusLog, error)
		IncrementDistractions(ctx context.Context, id int) error
		// FocusTotals sums the durations and counts the sessions started in [from, to).
		FocusTotals(ctx context.Context, userID int, from, to time.Time) (minutes int64, sessions int64, err error)
	}

	// Service runs the planner operations that are not plain CRUD: the daily
	// materialization, distraction counting and the reports.
	Service struct {
		repo      Repository
		daily     *DailyTaskService
		tx        core.Transactor
		loc       *time.Location
		weekStart time.Weekday
		group     singleflight.Group
	}
)

func NewService(repo Repository, daily *DailyTaskService, tx core.Transactor, conf *core.Config) *Service {
	return &Service{
		repo:      repo,
		daily:     daily,
		tx:        tx,
		loc:       conf.Timezone,
		weekStart: conf.WeekStart,
	}
}

// Today returns the current day in the planner timezone.
func (svc *Service) Today() core.Date {
	return core.DateOf(core.NowFunc(), svc.loc)
}

// ListDaily returns the daily list of the caller for date (today when zero), narrowed and
// ordered by the DailyTaskResource filters of params.
// The first listing of a day that has not passed yet copies the active master tasks of the caller into it.
func (svc *Service) ListDaily(ctx context.Context, caller core.Identity, date core.Date, params resource.ListParams) ([]DailyTask, error) {
	if date.IsZero() {
		date = svc.Today()
	}
	if !date.Before(svc.Today()) {
		if _, err := svc.Materialize(ctx, caller.UserID, date); err != nil {
			return nil, errors.Wrap(err, "materializing daily tasks")
		}
	}
	filters := make(map[string]string, len(params.Filters)+1)
	for k, v := range params.Filters {
		filters[k] = v
	}
	filters["task_date"] = date.String()
	params.Filters = filters

	listing, err := svc.daily.List(ctx, caller, params)
	if err != nil {
		return nil, err
	}
	return listing.Items, nil
}

// Materialize copies the active master tasks of the user into the list of date, once.
// Concurrent calls for the same (user, date) share one run; the unique
// (user_id, task_date, dp_task_id) constraint covers other processes.
func (svc *Service) Materialize(ctx context.Context, userID int, date core.Date) (int64, error) {
	key := fmt.Sprintf("%d:%s", userID, date)
	v, err, _ := svc.group.Do(key, func() (interface{}, error) {
		var created int64
		err := svc.tx.InTx(ctx, func(ctx context.Context) error {
			count, err := svc.repo.CountDailyTasks(ctx, userID, date)
			if err != nil {
				return errors.Wrap(err, "counting daily tasks")
			}
			if count > 0 {
				return nil
			}

			masters, err := svc.repo.ActiveTasks(ctx, userID)
			if err != nil {
				return errors.Wrap(err, "listing active tasks")
			}
			if len(masters) == 0 {
				return nil
			}

			rows := make([]DailyTask, 0, len(masters))
			for _, m := range masters {
				masterID := m.ID
				rows = append(rows, DailyTask{
					UserID:      userID,
					TaskDate:    date,
					DpTaskID:    &masterID,
					Title:       m.Title,
					Description: m.Description,
					StartTime:   m.StartTime,
					EndTime:     m.EndTime,
					Status:      StatusPending,
				})
			}
			created, err = svc.repo.InsertDailyTasks(ctx, rows)
			return errors.Wrap(err, "inserting daily tasks")
		})
		return created, err
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// AddDistraction increments the distraction count of a focus session of the caller by one.
func (svc *Service) AddDistraction(ctx context.Context, caller core.Identity, id int) (FocusLog, error) {
	log, err := svc.repo.GetFocusLog(ctx, id)
	if err != nil {
		return FocusLog{}, errors.Wrap(err, "getting focus log")
	}
	if !caller.Owns(log.UserID) {
		return FocusLog{}, core.ErrForbidden
	}
	if err := svc.repo.IncrementDistractions(ctx, id); err != nil {
		return FocusLog{}, errors.Wrap(err, "incrementing distractions")
	}
	log, err = svc.repo.GetFocusLog(ctx, id)
	return log, errors.Wrap(err, "getting focus log")
}
