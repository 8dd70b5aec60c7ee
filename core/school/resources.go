package school

import (
	"github.com/trezcool/shule/core/resource"
)

// Services
type (
	AcademicYearService  = resource.Service[AcademicYear, AcademicYearPayload, AcademicYearPayload]
	SchoolService        = resource.Service[School, SchoolPayload, SchoolPayload]
	SchoolSectionService = resource.Service[SchoolSection, SchoolSectionPayload, SchoolSectionPayload]
	StageService         = resource.Service[Stage, StagePayload, StagePayload]
	GradeService         = resource.Service[Grade, GradePayload, GradePayload]
	ClassroomService     = resource.Service[Classroom, ClassroomPayload, ClassroomPayload]
	SemesterService      = resource.Service[Semester, SemesterPayload, SemesterPayload]
	SemesterTestService  = resource.Service[SemesterTest, SemesterTestPayload, SemesterTestPayload]
	PeriodDetailService  = resource.Service[PeriodDetail, PeriodDetailPayload, PeriodDetailPayload]
	SubjectService       = resource.Service[Subject, SubjectPayload, SubjectPayload]
)

var defaultOrdering = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func orderable(extra ...string) map[string]string {
	m := make(map[string]string, len(defaultOrdering)+len(extra))
	for k, v := range defaultOrdering {
		m[k] = v
	}
	for _, col := range extra {
		m[col] = col
	}
	return m
}

func nameGuard[T any](name func(*T) string) resource.Guard[T] {
	return resource.Guard[T]{
		Fields:  []string{"name"},
		Columns: []string{"name"},
		Key:     func(rec *T) []interface{} { return []interface{}{name(rec)} },
	}
}

var AcademicYearResource = resource.Config[AcademicYear]{
	Name:        "academic-years",
	Label:       "academic year",
	Component:   "AcademicYears",
	PageSize:    10,
	Filters:     []resource.Filter{{Param: "is_current", Column: "is_current", Bool: true}},
	Orderable:   orderable("start_date", "end_date"),
	Unique:      []resource.Guard[AcademicYear]{nameGuard(func(y *AcademicYear) string { return y.Name })},
	AdminWrites: true,
}

var SchoolResource = resource.Config[School]{
	Name:      "schools",
	Label:     "school",
	Component: "Schools",
	PageSize:  10,
	Filters: []resource.Filter{
		{Param: "name", Column: "name"},
		{Param: "code", Column: "code"},
	},
	Orderable:   orderable("code"),
	Unique:      []resource.Guard[School]{nameGuard(func(s *School) string { return s.Name })},
	AdminWrites: true,
}

var SchoolSectionResource = resource.Config[SchoolSection]{
	Name:      "school-sections",
	Label:     "school section",
	Component: "SchoolSections",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "school_id", Column: "school_id"},
		{Param: "gender", Column: "gender"},
	},
	Orderable: orderable("school_id"),
	Preloads:  []string{"School"},
	Unique: []resource.Guard[SchoolSection]{{
		Fields:  []string{"school_id", "name"},
		Columns: []string{"school_id", "name"},
		Key:     func(s *SchoolSection) []interface{} { return []interface{}{s.SchoolID, s.Name} },
	}},
	AdminWrites: true,
}

var StageResource = resource.Config[Stage]{
	Name:      "stages",
	Label:     "stage",
	Component: "Stages",
	PageSize:  40,
	Filters:   []resource.Filter{{Param: "school_id", Column: "school_id"}},
	Orderable: orderable("school_id", "sort_order"),
	Preloads:  []string{"School"},
	Unique: []resource.Guard[Stage]{{
		Fields:  []string{"school_id", "name"},
		Columns: []string{"school_id", "name"},
		Key:     func(s *Stage) []interface{} { return []interface{}{s.SchoolID, s.Name} },
	}},
	AdminWrites: true,
}

var GradeResource = resource.Config[Grade]{
	Name:      "grades",
	Label:     "grade",
	Component: "Grades",
	PageSize:  40,
	Filters:   []resource.Filter{{Param: "stage_id", Column: "stage_id"}},
	Orderable: orderable("stage_id", "sort_order"),
	Preloads:  []string{"Stage"},
	Unique: []resource.Guard[Grade]{{
		Fields:  []string{"stage_id", "name"},
		Columns: []string{"stage_id", "name"},
		Key:     func(g *Grade) []interface{} { return []interface{}{g.StageID, g.Name} },
	}},
	AdminWrites: true,
}

var ClassroomResource = resource.Config[Classroom]{
	Name:      "classrooms",
	Label:     "classroom",
	Component: "Classrooms",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "grade_id", Column: "grade_id"},
		{Param: "school_section_id", Column: "school_section_id"},
	},
	Orderable:   orderable("grade_id", "capacity"),
	Preloads:    []string{"Grade", "SchoolSection"},
	Unique:      []resource.Guard[Classroom]{nameGuard(func(c *Classroom) string { return c.Name })},
	AdminWrites: true,
}

var SemesterResource = resource.Config[Semester]{
	Name:      "semesters",
	Label:     "semester",
	Component: "Semesters",
	PageSize:  10,
	Filters: []resource.Filter{
		{Param: "school_id", Column: "school_id"},
		{Param: "academic_year_id", Column: "academic_year_id"},
	},
	Orderable:   orderable("start_date", "end_date"),
	Preloads:    []string{"School", "AcademicYear"},
	AdminWrites: true,
}

var SemesterTestResource = resource.Config[SemesterTest]{
	Name:      "semester-tests",
	Label:     "semester test",
	Component: "SemesterTests",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "semester_id", Column: "semester_id"},
		{Param: "test_date", Column: "test_date", Date: true},
	},
	Orderable:   orderable("test_date", "max_score"),
	Preloads:    []string{"Semester"},
	AdminWrites: true,
}

var PeriodDetailResource = resource.Config[PeriodDetail]{
	Name:      "period-details",
	Label:     "period",
	Component: "PeriodDetails",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "school_id", Column: "school_id"},
		{Param: "day_of_week", Column: "day_of_week"},
	},
	Orderable: map[string]string{
		"id":            "id",
		"period_number": "period_number",
		"start_time":    "start_time",
		"day_of_week":   "day_of_week",
	},
	Unique: []resource.Guard[PeriodDetail]{{
		Fields:  []string{"school_id", "day_of_week", "period_number"},
		Columns: []string{"school_id", "day_of_week", "period_number"},
		Key: func(d *PeriodDetail) []interface{} {
			return []interface{}{d.SchoolID, d.DayOfWeek, d.PeriodNumber}
		},
	}},
	AdminWrites: true,
}

var SubjectResource = resource.Config[Subject]{
	Name:        "subjects",
	Label:       "subject",
	Component:   "Subjects",
	PageSize:    40,
	Filters:     []resource.Filter{{Param: "code", Column: "code"}},
	Orderable:   orderable("code"),
	Unique:      []resource.Guard[Subject]{nameGuard(func(s *Subject) string { return s.Name })},
	AdminWrites: true,
}
