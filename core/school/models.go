package school

import (
	"github.com/trezcool/shule/core"
)

// Section genders
const (
	GenderBoys  = "boys"
	GenderGirls = "girls"
	GenderMixed = "mixed"
)

type AcademicYear struct {
	core.Model
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	StartDate core.Date `json:"start_date" gorm:"not null"`
	EndDate   core.Date `json:"end_date" gorm:"not null"`
	IsCurrent bool      `json:"is_current" gorm:"not null;default:false"`
}

func (AcademicYear) TableName() string { return "academic_years" }

type School struct {
	core.Model
	Name          string `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Code          string `json:"code" gorm:"size:20"`
	Address       string `json:"address"`
	Phone         string `json:"phone" gorm:"size:30"`
	Email         string `json:"email"`
	PrincipalName string `json:"principal_name"`
}

func (School) TableName() string { return "schools" }

type SchoolSection struct {
	core.Model
	SchoolID int     `json:"school_id" gorm:"not null;uniqueIndex:ux_school_sections_school_name,priority:1"`
	School   *School `json:"school,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Name     string  `json:"name" gorm:"size:100;not null;uniqueIndex:ux_school_sections_school_name,priority:2"`
	Gender   string  `json:"gender" gorm:"size:10;not null;default:mixed"`
}

func (SchoolSection) TableName() string { return "school_sections" }

type Stage struct {
	core.Model
	SchoolID  int     `json:"school_id" gorm:"not null;uniqueIndex:ux_stages_school_name,priority:1"`
	School    *School `json:"school,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Name      string  `json:"name" gorm:"size:100;not null;uniqueIndex:ux_stages_school_name,priority:2"`
	SortOrder int     `json:"sort_order" gorm:"not null;default:1"`
}

func (Stage) TableName() string { return "stages" }

type Grade struct {
	core.Model
	StageID   int    `json:"stage_id" gorm:"not null;uniqueIndex:ux_grades_stage_name,priority:1"`
	Stage     *Stage `json:"stage,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Name      string `json:"name" gorm:"size:100;not null;uniqueIndex:ux_grades_stage_name,priority:2"`
	SortOrder int    `json:"sort_order" gorm:"not null;default:1"`
}

func (Grade) TableName() string { return "grades" }

type Classroom struct {
	core.Model
	GradeID         int            `json:"grade_id" gorm:"not null;index"`
	Grade           *Grade         `json:"grade,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	SchoolSectionID *int           `json:"school_section_id" gorm:"index"`
	SchoolSection   *SchoolSection `json:"school_section,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Name            string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Capacity        int            `json:"capacity" gorm:"not null"`
}

func (Classroom) TableName() string { return "classrooms" }

type Semester struct {
	core.Model
	SchoolID       int           `json:"school_id" gorm:"not null;index"`
	School         *School       `json:"school,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	AcademicYearID int           `json:"academic_year_id" gorm:"not null;index"`
	AcademicYear   *AcademicYear `json:"academic_year,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Name           string        `json:"name" gorm:"size:100;not null"`
	StartDate      core.Date     `json:"start_date" gorm:"not null"`
	EndDate        core.Date     `json:"end_date" gorm:"not null"`
}

func (Semester) TableName() string { return "semesters" }

type SemesterTest struct {
	core.Model
	SemesterID int       `json:"semester_id" gorm:"not null;index"`
	Semester   *Semester `json:"semester,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	TestDate   core.Date `json:"test_date" gorm:"not null"`
	MaxScore   int       `json:"max_score" gorm:"not null"`
}

func (SemesterTest) TableName() string { return "semester_tests" }

type PeriodDetail struct {
	core.Model
	SchoolID     int     `json:"school_id" gorm:"not null;uniqueIndex:ux_period_details_slot,priority:1"`
	School       *School `json:"school,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	DayOfWeek    string  `json:"day_of_week" gorm:"size:10;not null;uniqueIndex:ux_period_details_slot,priority:2"`
	PeriodNumber int     `json:"period_number" gorm:"not null;uniqueIndex:ux_period_details_slot,priority:3"`
	StartTime    string  `json:"start_time" gorm:"size:5;not null"`
	EndTime      string  `json:"end_time" gorm:"size:5;not null"`
}

func (PeriodDetail) TableName() string { return "period_details" }

type Subject struct {
	core.Model
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Code string `json:"code" gorm:"size:20"`
}

func (Subject) TableName() string { return "subjects" }
