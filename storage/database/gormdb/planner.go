package gormdb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/planner"
)

type PlannerRepository struct {
	db *gorm.DB
}

var _ planner.Repository = (*PlannerRepository)(nil) // interface compliance check

func NewPlannerRepository(db *gorm.DB) *PlannerRepository {
	return &PlannerRepository{db: db}
}

func (repo *PlannerRepository) dailyTasks(ctx context.Context, userID int, date core.Date) *gorm.DB {
	return conn(ctx, repo.db).Model(&planner.DailyTask{}).Where("user_id = ? AND task_date = ?", userID, date)
}

func (repo *PlannerRepository) CountDailyTasks(ctx context.Context, userID int, date core.Date) (int64, error) {
	var count int64
	err := repo.dailyTasks(ctx, userID, date).Count(&count).Error
	return count, errors.Wrap(err, "counting daily tasks")
}

func (repo *PlannerRepository) CountCompletedDailyTasks(ctx context.Context, userID int, date core.Date) (int64, error) {
	var count int64
	err := repo.dailyTasks(ctx, userID, date).Where("status = ?", planner.StatusCompleted).Count(&count).Error
	return count, errors.Wrap(err, "counting completed daily tasks")
}

func (repo *PlannerRepository) ActiveTasks(ctx context.Context, userID int) ([]planner.Task, error) {
	var tasks []planner.Task
	err := conn(ctx, repo.db).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, errors.Wrap(err, "listing active tasks")
}

func (repo *PlannerRepository) InsertDailyTasks(ctx context.Context, rows []planner.DailyTask) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := conn(ctx, repo.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_date"}, {Name: "dp_task_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, translateErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (repo *PlannerRepository) DailyTaskOwner(ctx context.Context, id int) (int, error) {
	var task planner.DailyTask
	if err := conn(ctx, repo.db).Select("id", "user_id").First(&task, id).Error; err != nil {
		return 0, translateErr(err)
	}
	return task.UserID, nil
}

func (repo *PlannerRepository) GetFocusLog(ctx context.Context, id int) (planner.FocusLog, error) {
	var log planner.FocusLog
	err := conn(ctx, repo.db).First(&log, id).Error
	return log, translateErr(err)
}

// IncrementDistractions adds one in a single UPDATE so concurrent increments are never lost.
func (repo *PlannerRepository) IncrementDistractions(ctx context.Context, id int) error {
	res := conn(ctx, repo.db).
		Model(&planner.FocusLog{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"distraction_count": gorm.Expr("distraction_count + ?", 1),
			"updated_at":        core.Now(),
		})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (repo *PlannerRepository) FocusTotals(ctx context.Context, userID int, from, to time.Time) (int64, int64, error) {
	var totals struct {
		Minutes  int64
		Sessions int64
	}
	err := conn(ctx, repo.db).
		Model(&planner.FocusLog{}).
		Select("COALESCE(SUM(duration_minutes), 0) AS minutes, COUNT(*) AS sessions").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from.UTC(), to.UTC()).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "summing focus sessions")
	}
	return totals.Minutes, totals.Sessions, nil
}
