package school

import (
	"github.com/trezcool/shule/core"
)

type AcademicYearPayload struct {
	Name      string    `json:"name" validate:"required,max=100"`
	StartDate core.Date `json:"start_date" validate:"required"`
	EndDate   core.Date `json:"end_date" validate:"required,afterfield=start_date"`
	IsCurrent bool      `json:"is_current"`
}

func (p *AcademicYearPayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p AcademicYearPayload) Apply(y *AcademicYear) {
	y.Name = p.Name
	y.StartDate = p.StartDate
	y.EndDate = p.EndDate
	y.IsCurrent = p.IsCurrent
}

type SchoolPayload struct {
	Name          string `json:"name" validate:"required,max=255"`
	Code          string `json:"code" validate:"omitempty,alphanum,max=20"`
	Address       string `json:"address" validate:"max=500"`
	Phone         string `json:"phone" validate:"max=30"`
	Email         string `json:"email" validate:"omitempty,email"`
	PrincipalName string `json:"principal_name" validate:"max=255"`
}

func (p *SchoolPayload) Clean() {
	p.Name = core.CleanString(p.Name)
	p.Code = core.CleanString(p.Code)
	p.Email = core.CleanString(p.Email, true /* lower */)
}

func (p SchoolPayload) Apply(s *School) {
	s.Name = p.Name
	s.Code = p.Code
	s.Address = p.Address
	s.Phone = p.Phone
	s.Email = p.Email
	s.PrincipalName = p.PrincipalName
}

type SchoolSectionPayload struct {
	SchoolID int    `json:"school_id" validate:"required,exists=schools"`
	Name     string `json:"name" validate:"required,max=100"`
	Gender   string `json:"gender" validate:"omitempty,oneof=boys girls mixed"`
}

func (p *SchoolSectionPayload) Clean() {
	p.Name = core.CleanString(p.Name)
	p.Gender = core.CleanString(p.Gender, true /* lower */)
}

func (p SchoolSectionPayload) Apply(s *SchoolSection) {
	s.SchoolID = p.SchoolID
	s.Name = p.Name
	s.Gender = p.Gender
	if s.Gender == "" {
		s.Gender = GenderMixed
	}
}

type StagePayload struct {
	SchoolID  int    `json:"school_id" validate:"required,exists=schools"`
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder int    `json:"sort_order" validate:"min=0,max=50"`
}

func (p *StagePayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p StagePayload) Apply(s *Stage) {
	s.SchoolID = p.SchoolID
	s.Name = p.Name
	s.SortOrder = p.SortOrder
	if s.SortOrder == 0 {
		s.SortOrder = 1
	}
}

type GradePayload struct {
	StageID   int    `json:"stage_id" validate:"required,exists=stages"`
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder int    `json:"sort_order" validate:"min=0,max=50"`
}

func (p *GradePayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p GradePayload) Apply(g *Grade) {
	g.StageID = p.StageID
	g.Name = p.Name
	g.SortOrder = p.SortOrder
	if g.SortOrder == 0 {
		g.SortOrder = 1
	}
}

type ClassroomPayload struct {
	GradeID         int    `json:"grade_id" validate:"required,exists=grades"`
	SchoolSectionID *int   `json:"school_section_id" validate:"omitempty,exists=school_sections"`
	Name            string `json:"name" validate:"required,max=100"`
	Capacity        int    `json:"capacity" validate:"required,min=1,max=200"`
}

func (p *ClassroomPayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p ClassroomPayload) Apply(c *Classroom) {
	c.GradeID = p.GradeID
	c.SchoolSectionID = p.SchoolSectionID
	c.Name = p.Name
	c.Capacity = p.Capacity
}

type SemesterPayload struct {
	SchoolID       int       `json:"school_id" validate:"required,exists=schools"`
	AcademicYearID int       `json:"academic_year_id" validate:"required,exists=academic_years"`
	Name           string    `json:"name" validate:"required,max=100"`
	StartDate      core.Date `json:"start_date" validate:"required"`
	EndDate        core.Date `json:"end_date" validate:"required,afterfield=start_date"`
}

func (p *SemesterPayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p SemesterPayload) Apply(s *Semester) {
	s.SchoolID = p.SchoolID
	s.AcademicYearID = p.AcademicYearID
	s.Name = p.Name
	s.StartDate = p.StartDate
	s.EndDate = p.EndDate
}

type SemesterTestPayload struct {
	SemesterID int       `json:"semester_id" validate:"required,exists=semesters"`
	Name       string    `json:"name" validate:"required,max=100"`
	TestDate   core.Date `json:"test_date" validate:"required"`
	MaxScore   int       `json:"max_score" validate:"required,min=1,max=1000"`
}

func (p *SemesterTestPayload) Clean() { p.Name = core.CleanString(p.Name) }

func (p SemesterTestPayload) Apply(t *SemesterTest) {
	t.SemesterID = p.SemesterID
	t.Name = p.Name
	t.TestDate = p.TestDate
	t.MaxScore = p.MaxScore
}

type PeriodDetailPayload struct {
	SchoolID     int    `json:"school_id" validate:"required,exists=schools"`
	DayOfWeek    string `json:"day_of_week" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	PeriodNumber int    `json:"period_number" validate:"required,min=1,max=20"`
	StartTime    string `json:"start_time" validate:"required,hhmm"`
	EndTime      string `json:"end_time" validate:"required,hhmm,afterfield=start_time"`
}

func (p *PeriodDetailPayload) Clean() {
	p.DayOfWeek = core.CleanString(p.DayOfWeek, true /* lower */)
	p.StartTime = core.CleanString(p.StartTime)
	p.EndTime = core.CleanString(p.EndTime)
}

func (p PeriodDetailPayload) Apply(d *PeriodDetail) {
	d.SchoolID = p.SchoolID
	d.DayOfWeek = p.DayOfWeek
	d.PeriodNumber = p.PeriodNumber
	d.StartTime = p.StartTime
	d.EndTime = p.EndTime
}

type SubjectPayload struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"max=20"`
}

func (p *SubjectPayload) Clean() {
	p.Name = core.CleanString(p.Name)
	p.Code = core.CleanString(p.Code)
}

func (p SubjectPayload) Apply(s *Subject) {
	s.Name = p.Name
	s.Code = p.Code
}
