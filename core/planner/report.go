package planner

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type (
	DailyReport struct {
		Date          core.Date `json:"date"`
		Completed     int64     `json:"completed"`
		Total         int64     `json:"total"`
		FocusMinutes  int64     `json:"focus_minutes"`
		FocusSessions int64     `json:"focus_sessions"`
	}

	WeeklyReport struct {
		WeekStart     core.Date     `json:"week_start"`
		WeekEnd       core.Date     `json:"week_end"`
		Completed     int64         `json:"completed"`
		Total         int64         `json:"total"`
		FocusMinutes  int64         `json:"focus_minutes"`
		FocusSessions int64         `json:"focus_sessions"`
		Days          []DailyReport `json:"days"`
	}
)

// DailyReport aggregates the daily tasks and focus sessions of the caller on date (today when zero).
// Focus sessions count on the day they started.
func (svc *Service) DailyReport(ctx context.Context, caller core.Identity, date core.Date) (DailyReport, error) {
	if date.IsZero() {
		date = svc.Today()
	}
	rep := DailyReport{Date: date}

	var err error
	if rep.Total, err = svc.repo.CountDailyTasks(ctx, caller.UserID, date); err != nil {
		return rep, errors.Wrap(err, "counting daily tasks")
	}
	if rep.Completed, err = svc.repo.CountCompletedDailyTasks(ctx, caller.UserID, date); err != nil {
		return rep, errors.Wrap(err, "counting completed daily tasks")
	}

	from, to := date.Bounds(svc.loc)
	if rep.FocusMinutes, rep.FocusSessions, err = svc.repo.FocusTotals(ctx, caller.UserID, from, to); err != nil {
		return rep, errors.Wrap(err, "summing focus sessions")
	}
	return rep, nil
}

// WeeklyReport aggregates the days from the start of the current week to today, inclusive.
func (svc *Service) WeeklyReport(ctx context.Context, caller core.Identity) (WeeklyReport, error) {
	today := svc.Today()
	rep := WeeklyReport{
		WeekStart: today.WeekStart(svc.weekStart),
		WeekEnd:   today,
	}
	for day := rep.WeekStart; !day.After(today); day = day.AddDays(1) {
		daily, err := svc.DailyReport(ctx, caller, day)
		if err != nil {
			return rep, errors.Wrapf(err, "reporting %s", day)
		}
		rep.Completed += daily.Completed
		rep.Total += daily.Total
		rep.FocusMinutes += daily.FocusMinutes
		rep.FocusSessions += daily.FocusSessions
		rep.Days = append(rep.Days, daily)
	}
	return rep, nil
}
