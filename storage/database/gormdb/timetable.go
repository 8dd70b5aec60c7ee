package gormdb

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/shule/core/hr"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/timetable"
)

// ImportRepository resolves names and upserts the imported assignments.
type ImportRepository struct {
	db *gorm.DB
}

var _ timetable.ImportRepository = (*ImportRepository)(nil) // interface compliance check

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (repo *ImportRepository) ids(ctx context.Context, model interface{}, column string, names []string) (map[string]int, error) {
	ids := make(map[string]int, len(names))
	if len(names) == 0 {
		return ids, nil
	}
	var rows []struct {
		ID   int
		Name string
	}
	err := conn(ctx, repo.db).
		Model(model).
		Select("id, "+column+" AS name").
		Where(column+" IN ?", names).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		// the oldest record wins on duplicate names
		if _, ok := ids[row.Name]; !ok {
			ids[row.Name] = row.ID
		}
	}
	return ids, nil
}

func (repo *ImportRepository) ClassroomIDs(ctx context.Context, names []string) (map[string]int, error) {
	return repo.ids(ctx, &school.Classroom{}, "name", names)
}

func (repo *ImportRepository) SubjectIDs(ctx context.Context, names []string) (map[string]int, error) {
	return repo.ids(ctx, &school.Subject{}, "name", names)
}

func (repo *ImportRepository) TeacherIDs(ctx context.Context, names []string) (map[string]int, error) {
	return repo.ids(ctx, &hr.Record{}, "full_name", names)
}

func (repo *ImportRepository) UpsertAssignment(ctx context.Context, a timetable.Assignment) error {
	err := conn(ctx, repo.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "classroom_id"}, {Name: "subject_id"}, {Name: "hr_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"weekly_classes", "updated_at"}),
		}).
		Create(&a).Error
	if err != nil {
		return errors.Wrap(translateErr(err), "upserting assignment")
	}
	return nil
}

