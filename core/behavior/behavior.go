// Package behavior tracks positive and negative student behaviors per classroom.
package behavior

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/school"
)

// Behavior types
const (
	TypePositive = "positive"
	TypeNegative = "negative"
)

type Behavior struct {
	core.Model
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex:ux_behaviors_name_type,priority:1"`
	Type        string `json:"type" gorm:"size:10;not null;uniqueIndex:ux_behaviors_name_type,priority:2"`
	Points      int    `json:"points" gorm:"not null;default:0"`
	Description string `json:"description"`
}

func (Behavior) TableName() string { return "behaviors" }

type NewBehavior struct {
	Name        string `json:"name" validate:"required,max=100"`
	Type        string `json:"type" validate:"required,oneof=positive negative"`
	Points      int    `json:"points" validate:"min=-100,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

func (nb *NewBehavior) Clean() {
	nb.Name = core.CleanString(nb.Name)
	nb.Type = core.CleanString(nb.Type, true /* lower */)
}

func (nb NewBehavior) Apply(b *Behavior) {
	b.Name = nb.Name
	b.Type = nb.Type
	b.Points = nb.Points
	b.Description = nb.Description
}

// UpdateBehavior only changes the fields that were sent.
type UpdateBehavior struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Type        *string `json:"type" validate:"omitempty,oneof=positive negative"`
	Points      *int    `json:"points" validate:"omitempty,min=-100,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (ub *UpdateBehavior) Clean() {
	if ub.Name != nil {
		name := core.CleanString(*ub.Name)
		ub.Name = &name
	}
	if ub.Type != nil {
		typ := core.CleanString(*ub.Type, true /* lower */)
		ub.Type = &typ
	}
}

func (ub UpdateBehavior) Apply(b *Behavior) {
	if ub.Name != nil {
		b.Name = *ub.Name
	}
	if ub.Type != nil {
		b.Type = *ub.Type
	}
	if ub.Points != nil {
		b.Points = *ub.Points
	}
	if ub.Description != nil {
		b.Description = *ub.Description
	}
}

type Service = resource.Service[Behavior, NewBehavior, UpdateBehavior]

var Resource = resource.Config[Behavior]{
	Name:      "behaviors",
	Label:     "behavior",
	Component: "Behaviors",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "type", Column: "type"},
		{Param: "name", Column: "name"},
	},
	Orderable: map[string]string{
		"id":         "id",
		"name":       "name",
		"type":       "type",
		"points":     "points",
		"created_at": "created_at",
	},
	Unique: []resource.Guard[Behavior]{{
		Fields:  []string{"name", "type"},
		Columns: []string{"name", "type"},
		Key:     func(b *Behavior) []interface{} { return []interface{}{b.Name, b.Type} },
	}},
}

// ClassroomRecord is one behavior observed for a student of a classroom.
type ClassroomRecord struct {
	core.Model
	ClassroomID int               `json:"classroom_id" gorm:"not null;index"`
	Classroom   *school.Classroom `json:"classroom,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	BehaviorID  int               `json:"behavior_id" gorm:"not null;index"`
	Behavior    *Behavior         `json:"behavior,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	StudentName string            `json:"student_name" gorm:"size:255;not null"`
	RecordDate  core.Date         `json:"record_date" gorm:"not null;index"`
	Notes       string            `json:"notes"`
}

func (ClassroomRecord) TableName() string { return "classroom_records" }

type ClassroomRecordPayload struct {
	ClassroomID int       `json:"classroom_id" validate:"required,exists=classrooms"`
	BehaviorID  int       `json:"behavior_id" validate:"required,exists=behaviors"`
	StudentName string    `json:"student_name" validate:"required,max=255"`
	RecordDate  core.Date `json:"record_date" validate:"required"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

func (p *ClassroomRecordPayload) Clean() { p.StudentName = core.CleanString(p.StudentName) }

func (p ClassroomRecordPayload) Apply(r *ClassroomRecord) {
	r.ClassroomID = p.ClassroomID
	r.BehaviorID = p.BehaviorID
	r.StudentName = p.StudentName
	r.RecordDate = p.RecordDate
	r.Notes = p.Notes
}

type ClassroomRecordService = resource.Service[ClassroomRecord, ClassroomRecordPayload, ClassroomRecordPayload]

var ClassroomRecordResource = resource.Config[ClassroomRecord]{
	Name:      "classroom-records",
	Label:     "classroom record",
	Component: "ClassroomRecords",
	PageSize:  40,
	Filters: []resource.Filter{
		{Param: "classroom_id", Column: "classroom_id"},
		{Param: "behavior_id", Column: "behavior_id"},
		{Param: "student_name", Column: "student_name"},
		{Param: "record_date", Column: "record_date", Date: true},
	},
	Orderable: map[string]string{
		"id":           "id",
		"record_date":  "record_date",
		"student_name": "student_name",
		"created_at":   "created_at",
	},
	Preloads: []string{"Classroom", "Behavior"},
}
