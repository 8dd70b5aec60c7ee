// Package di wires the application services by hand.
package di

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/behavior"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/hr"
	"github.com/trezcool/shule/core/media"
	"github.com/trezcool/shule/core/planner"
	"github.com/trezcool/shule/core/project"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/timetable"
	"github.com/trezcool/shule/core/tree"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/core/vocab"
	"github.com/trezcool/shule/storage/database/gormdb"
)

type (
	Deps struct {
		Conf     *core.Config
		DB       *gorm.DB
		Validate *validator.Validate
		Blobs    media.BlobStore
		Google   classroom.Provider
	}

	Services struct {
		AcademicYears  *school.AcademicYearService
		Schools        *school.SchoolService
		SchoolSections *school.SchoolSectionService
		Stages         *school.StageService
		Grades         *school.GradeService
		Classrooms     *school.ClassroomService
		Semesters      *school.SemesterService
		SemesterTests  *school.SemesterTestService
		PeriodDetails  *school.PeriodDetailService
		Subjects       *school.SubjectService

		Staff            *hr.Service
		Behaviors        *behavior.Service
		ClassroomRecords *behavior.ClassroomRecordService
		Assignments      *timetable.Service
		Importer         *timetable.Importer
		ProjectTasks     *project.TaskService
		QuestionTypes    *project.QuestionTypeService
		Vocabularies     *vocab.Service

		Tasks      *planner.TaskService
		DailyTasks *planner.DailyTaskService
		FocusLogs  *planner.FocusLogService
		Planner    *planner.Service

		Tree      *tree.Service
		Videos    *media.VideoService
		Classroom *classroom.Service
		Users     *user.Service
	}
)

func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// NewValidator returns the validator with every custom validation registered.
func NewValidator(db *gorm.DB, translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	core.RegisterExistsValidation(validate, translator, gormdb.NewExistenceChecker(db))
	user.InitValidators(validate, translator)
	return validate
}

func crud[T any, C resource.Payload[T], U resource.Payload[T]](conf resource.Config[T], deps Deps) *resource.Service[T, C, U] {
	return resource.NewService[T, C, U](conf, gormdb.NewRepository[T](deps.DB), deps.Validate)
}

func NewServices(deps Deps) *Services {
	tx := gormdb.NewTransactor(deps.DB)
	plannerRepo := gormdb.NewPlannerRepository(deps.DB)
	dailyTasks := crud[planner.DailyTask, planner.NewDailyTask, planner.UpdateDailyTask](planner.DailyTaskResource, deps)

	return &Services{
		AcademicYears:  crud[school.AcademicYear, school.AcademicYearPayload, school.AcademicYearPayload](school.AcademicYearResource, deps),
		Schools:        crud[school.School, school.SchoolPayload, school.SchoolPayload](school.SchoolResource, deps),
		SchoolSections: crud[school.SchoolSection, school.SchoolSectionPayload, school.SchoolSectionPayload](school.SchoolSectionResource, deps),
		Stages:         crud[school.Stage, school.StagePayload, school.StagePayload](school.StageResource, deps),
		Grades:         crud[school.Grade, school.GradePayload, school.GradePayload](school.GradeResource, deps),
		Classrooms:     crud[school.Classroom, school.ClassroomPayload, school.ClassroomPayload](school.ClassroomResource, deps),
		Semesters:      crud[school.Semester, school.SemesterPayload, school.SemesterPayload](school.SemesterResource, deps),
		SemesterTests:  crud[school.SemesterTest, school.SemesterTestPayload, school.SemesterTestPayload](school.SemesterTestResource, deps),
		PeriodDetails:  crud[school.PeriodDetail, school.PeriodDetailPayload, school.PeriodDetailPayload](school.PeriodDetailResource, deps),
		Subjects:       crud[school.Subject, school.SubjectPayload, school.SubjectPayload](school.SubjectResource, deps),

		Staff:            crud[hr.Record, hr.Payload, hr.Payload](hr.Resource, deps),
		Behaviors:        crud[behavior.Behavior, behavior.NewBehavior, behavior.UpdateBehavior](behavior.Resource, deps),
		ClassroomRecords: crud[behavior.ClassroomRecord, behavior.ClassroomRecordPayload, behavior.ClassroomRecordPayload](behavior.ClassroomRecordResource, deps),
		Assignments:      crud[timetable.Assignment, timetable.Payload, timetable.Payload](timetable.Resource, deps),
		Importer:         timetable.NewImporter(gormdb.NewImportRepository(deps.DB), tx, deps.Conf),
		ProjectTasks:     crud[project.Task, project.TaskPayload, project.TaskPayload](project.TaskResource, deps),
		QuestionTypes:    crud[project.QuestionType, project.QuestionTypePayload, project.QuestionTypePayload](project.QuestionTypeResource, deps),
		Vocabularies:     vocab.NewService(
			crud[vocab.Vocabulary, vocab.Payload, vocab.Payload](vocab.Resource, deps),
			gormdb.NewVocabRepository(deps.DB),
		),

		Tasks:      crud[planner.Task, planner.TaskPayload, planner.TaskPayload](planner.TaskResource, deps),
		DailyTasks: dailyTasks,
		FocusLogs:  crud[planner.FocusLog, planner.OpenFocusLog, planner.CloseFocusLog](planner.FocusLogResource(plannerRepo, deps.Conf.Timezone), deps),
		Planner:    planner.NewService(plannerRepo, dailyTasks, tx, deps.Conf),

		Tree:      tree.NewService(gormdb.NewTreeRepository(deps.DB)),
		Videos:    media.NewVideoService(deps.Blobs, deps.Conf),
		Classroom: classroom.NewService(deps.Google, gormdb.NewTokenRepository(deps.DB), deps.Conf),
		Users:     user.NewService(gormdb.NewUserRepository(deps.DB), deps.Validate),
	}
}
