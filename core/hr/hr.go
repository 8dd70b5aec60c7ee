// Package hr holds the staff records of the schools.
package hr

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/school"
)

// Employment statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on_leave"
)

type Record struct {
	core.Model
	SchoolID   *int           `json:"school_id" gorm:"index"`
	School     *school.School `json:"school,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	FullName   string         `json:"full_name" gorm:"size:255;not null;index"`
	NationalID *string        `json:"national_id" gorm:"size:50;uniqueIndex"`
	JobTitle   string         `json:"job_title" gorm:"size:100"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone" gorm:"size:30"`
	HireDate   *core.Date     `json:"hire_date"`
	Status     string         `json:"status" gorm:"size:10;not null;default:active"`
}

func (Record) TableName() string { return "hr" }

type Payload struct {
	SchoolID   *int       `json:"school_id" validate:"omitempty,exists=schools"`
	FullName   string     `json:"full_name" validate:"required,max=255"`
	NationalID *string    `json:"national_id" validate:"omitempty,max=50"`
	JobTitle   string     `json:"job_title" validate:"max=100"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone" validate:"max=30"`
	HireDate   *core.Date `json:"hire_date"`
	Status     string     `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
}

func (p *Payload) Clean() {
	p.FullName = core.CleanString(p.FullName)
	p.Email = core.CleanString(p.Email, true /* lower */)
	if p.NationalID != nil {
		if id := core.CleanString(*p.NationalID); id != "" {
			p.NationalID = &id
		} else {
			p.NationalID = nil
		}
	}
}

func (p Payload) Apply(r *Record) {
	r.SchoolID = p.SchoolID
	r.FullName = p.FullName
	r.NationalID = p.NationalID
	r.JobTitle = p.JobTitle
	r.Email = p.Email
	r.Phone = p.Phone
	r.HireDate = p.HireDate
	r.Status = p.Status
	if r.Status == "" {
		r.Status = StatusActive
	}
}

type Service = resource.Service[Record, Payload, Payload]

var Resource = resource.Config[Record]{
	Name:      "hr",
	Label:     "staff member",
	Component: "HR",
	PageSize:  10,
	Filters: []resource.Filter{
		{Param: "school_id", Column: "school_id"},
		{Param: "status", Column: "status"},
		{Param: "job_title", Column: "job_title"},
		{Param: "hire_date", Column: "hire_date", Date: true},
	},
	Orderable: map[string]string{
		"id":         "id",
		"full_name":  "full_name",
		"hire_date":  "hire_date",
		"created_at": "created_at",
	},
	Preloads: []string{"School"},
	Unique: []resource.Guard[Record]{{
		Fields:  []string{"national_id"},
		Columns: []string{"national_id"},
		Key: func(r *Record) []interface{} {
			if r.NationalID == nil {
				return []interface{}{nil}
			}
			return []interface{}{*r.NationalID}
		},
	}},
	AdminWrites: true,
}
