package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/shule/core/behavior"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/hr"
	"github.com/trezcool/shule/core/planner"
	"github.com/trezcool/shule/core/project"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/timetable"
	"github.com/trezcool/shule/core/tree"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/core/vocab"
)

// Models lists every stored model, parents first.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&school.AcademicYear{},
		&school.School{},
		&school.SchoolSection{},
		&school.Stage{},
		&school.Grade{},
		&school.Classroom{},
		&school.Semester{},
		&school.SemesterTest{},
		&school.PeriodDetail{},
		&school.Subject{},
		&hr.Record{},
		&behavior.Behavior{},
		&behavior.ClassroomRecord{},
		&timetable.Assignment{},
		&project.Task{},
		&project.QuestionType{},
		&vocab.Vocabulary{},
		&planner.Task{},
		&planner.DailyTask{},
		&planner.FocusLog{},
		&tree.Document{},
		&classroom.Token{},
	}
}

// AutoMigrate creates the schema from the models. It backs the sqlite
// databases used in development and tests; postgres uses the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(Models()...), "migrating models")
}
