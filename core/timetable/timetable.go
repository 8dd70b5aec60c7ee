// Package timetable assigns teachers to the subjects of each classroom.
package timetable

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hr"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/school"
)

// Assignment is a ClassroomSubjectTeacher row: a teacher giving a subject to a classroom weekly.
type Assignment struct {
	core.Model
	ClassroomID   int               `json:"classroom_id" gorm:"not null;uniqueIndex:ux_classroom_subject_teachers,priority:1"`
	Classroom     *school.Classroom `json:"classroom,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	SubjectID     int               `json:"subject_id" gorm:"not null;uniqueIndex:ux_classroom_subject_teachers,priority:2"`
	Subject       *school.Subject   `json:"subject,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	HRID          int               `json:"hr_id" gorm:"column:hr_id;not null;uniqueIndex:ux_classroom_subject_teachers,priority:3"`
	Teacher       *hr.Record        `json:"teacher,omitempty" gorm:"foreignKey:HRID;constraint:OnDelete:CASCADE"`
	WeeklyClasses int               `json:"weekly_classes" gorm:"not null;default:0"`
}

func (Assignment) TableName() string { return "classroom_subject_teachers" }

type Payload struct {
	ClassroomID   int `json:"classroom_id" validate:"required,exists=classrooms"`
	SubjectID     int `json:"subject_id" validate:"required,exists=subjects"`
	HRID          int `json:"hr_id" validate:"required,exists=hr"`
	WeeklyClasses int `json:"weekly_classes" validate:"min=0,max=40"`
}

func (p Payload) Apply(a *Assignment) {
	a.ClassroomID = p.ClassroomID
	a.SubjectID = p.SubjectID
	a.HRID = p.HRID
	a.WeeklyClasses = p.WeeklyClasses
}

type Service = resource.Service[Assignment, Payload, Payload]

var Resource = resource.Config[Assignment]{
	Name:      "classroom-subject-teachers",
	Label:     "classroom subject teacher",
	Component: "ClassroomSubjectTeachers",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "classroom_id", Column: "classroom_id"},
		{Param: "subject_id", Column: "subject_id"},
		{Param: "hr_id", Column: "hr_id"},
	},
	Orderable: map[string]string{
		"id":             "id",
		"classroom_id":   "classroom_id",
		"subject_id":     "subject_id",
		"weekly_classes": "weekly_classes",
	},
	Preloads: []string{"Classroom", "Subject", "Teacher"},
	Unique: []resource.Guard[Assignment]{{
		Fields:  []string{"classroom_id", "subject_id", "hr_id"},
		Columns: []string{"classroom_id", "subject_id", "hr_id"},
		Key: func(a *Assignment) []interface{} {
			return []interface{}{a.ClassroomID, a.SubjectID, a.HRID}
		},
	}},
	AdminWrites: true,
}
