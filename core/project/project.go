// Package project holds the project board tasks and the exam question types.
package project

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/hr"
	"github.com/trezcool/shule/core/resource"
)

type Task struct {
	core.Model
	Title        string     `json:"title" gorm:"size:255;not null"`
	Description  string     `json:"description"`
	Status       string     `json:"status" gorm:"size:20;not null;default:todo;index"`
	Priority     string     `json:"priority" gorm:"size:10;not null;default:medium"`
	DueDate      *core.Date `json:"due_date"`
	AssignedToID *int       `json:"assigned_to" gorm:"column:assigned_to;index"`
	AssignedTo   *hr.Record `json:"assignee,omitempty" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
}

func (Task) TableName() string { return "project_tasks" }

type TaskPayload struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description" validate:"max=5000"`
	Status       string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate      *core.Date `json:"due_date"`
	AssignedToID *int       `json:"assigned_to" validate:"omitempty,exists=hr"`
}

func (p *TaskPayload) Clean() {
	p.Title = core.CleanString(p.Title)
	p.Status = core.CleanString(p.Status, true /* lower */)
	p.Priority = core.CleanString(p.Priority, true /* lower */)
}

func (p TaskPayload) Apply(t *Task) {
	t.Title = p.Title
	t.Description = p.Description
	t.Status = p.Status
	if t.Status == "" {
		t.Status = "todo"
	}
	t.Priority = p.Priority
	if t.Priority == "" {
		t.Priority = "medium"
	}
	t.DueDate = p.DueDate
	t.AssignedToID = p.AssignedToID
}

type TaskService = resource.Service[Task, TaskPayload, TaskPayload]

var TaskResource = resource.Config[Task]{
	Name:      "project-tasks",
	Label:     "project task",
	Component: "ProjectTasks",
	PageSize:  10,
	Filters: []resource.Filter{
		{Param: "status", Column: "status"},
		{Param: "priority", Column: "priority"},
		{Param: "assigned_to", Column: "assigned_to"},
		{Param: "due_date", Column: "due_date", Date: true},
	},
	Orderable: map[string]string{
		"id":         "id",
		"title":      "title",
		"due_date":   "due_date",
		"priority":   "priority",
		"status":     "status",
		"created_at": "created_at",
	},
	Preloads: []string{"AssignedTo"},
}

type QuestionType struct {
	core.Model
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string `json:"description"`
}

func (QuestionType) TableName() string { return "question_types" }

type QuestionTypePayload struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

func (p *QuestionTypePayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p QuestionTypePayload) Apply(q *QuestionType) {
	q.Name = p.Name
	q.Description = p.Description
}

type QuestionTypeService = resource.Service[QuestionType, QuestionTypePayload, QuestionTypePayload]

var QuestionTypeResource = resource.Config[QuestionType]{
	Name:      "question-types",
	Label:     "question type",
	Component: "QuestionTypes",
	PageSize:  40,
	Orderable: map[string]string{"id": "id", "name": "name", "created_at": "created_at"},
	Unique: []resource.Guard[QuestionType]{{
		Fields:  []string{"name"},
		Columns: []string{"name"},
		Key:     func(q *QuestionType) []interface{} { return []interface{}{q.Name} },
	}},
}
