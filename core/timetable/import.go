package timetable

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Import modes
const (
	ModeStrict   = "strict"
	ModeTolerant = "tolerant"
)

var csvHeader = []string{"classroom", "subject", "teacher", "weekly_classes"}

type (
	// Row assigns a teacher to a classroom subject by names.
	Row struct {
		Classroom     string `json:"classroom"`
		Subject       string `json:"subject"`
		Teacher       string `json:"teacher"`
		WeeklyClasses int    `json:"weekly_classes"`
	}

	Skipped struct {
		Row    int    `json:"row"` // 1-based
		Reason string `json:"reason"`
	}

	Result struct {
		Imported int       `json:"imported"`
		Skipped  []Skipped `json:"skipped"`
	}

	ImportRepository interface {
		// ClassroomIDs, SubjectIDs and TeacherIDs map exact names to ids. Unknown names are absent.
		ClassroomIDs(ctx context.Context, names []string) (map[string]int, error)
		SubjectIDs(ctx context.Context, names []string) (map[string]int, error)
		TeacherIDs(ctx context.Context, names []string) (map[string]int, error)
		// UpsertAssignment creates the assignment or updates the weekly classes of the existing one.
		UpsertAssignment(ctx context.Context, a Assignment) error
	}

	// Importer reconciles named rows into classroom subject teacher assignments.
	Importer struct {
		repo   ImportRepository
		tx     core.Transactor
		strict bool
	}
)

func NewImporter(repo ImportRepository, tx core.Transactor, conf *core.Config) *Importer {
	return &Importer{repo: repo, tx: tx, strict: conf.Imports.Strict}
}

// IsStrict resolves mode ("" for the configured default).
func (imp *Importer) IsStrict(mode string) (bool, error) {
	switch core.CleanString(mode, true /* lower */) {
	case "":
		return imp.strict, nil
	case ModeStrict:
		return true, nil
	case ModeTolerant:
		return false, nil
	}
	return false, core.NewValidationError(
		errors.New("invalid import mode"),
		core.FieldError{Field: "mode", Error: "mode must be one of [strict tolerant]"},
	)
}

// Import resolves every row by exact names and upserts the resolved ones.
// Tolerant mode skips the rows that do not resolve; strict mode rejects the
// whole import when one row does not resolve. Nothing is written on error.
func (imp *Importer) Import(ctx context.Context, rows []Row, mode string) (Result, error) {
	strict, err := imp.IsStrict(mode)
	if err != nil {
		return Result{}, err
	}
	res := Result{Skipped: []Skipped{}}

	err = imp.tx.InTx(ctx, func(ctx context.Context) error {
		classrooms, subjects, teachers, err := imp.resolve(ctx, rows)
		if err != nil {
			return err
		}

		var resolved []Assignment
		for i, row := range rows {
			a, reason := resolveRow(row, classrooms, subjects, teachers)
			if reason != "" {
				res.Skipped = append(res.Skipped, Skipped{Row: i + 1, Reason: reason})
				continue
			}
			resolved = append(resolved, a)
		}

		if strict && len(res.Skipped) > 0 {
			fldErrs := make([]core.FieldError, 0, len(res.Skipped))
			for _, s := range res.Skipped {
				fldErrs = append(fldErrs, core.FieldError{Field: fmt.Sprintf("rows[%d]", s.Row), Error: s.Reason})
			}
			return core.NewValidationError(errors.New("unresolved rows"), fldErrs...)
		}

		for _, a := range resolved {
			if err := imp.repo.UpsertAssignment(ctx, a); err != nil {
				return errors.Wrap(err, "upserting assignment")
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (imp *Importer) resolve(ctx context.Context, rows []Row) (classrooms, subjects, teachers map[string]int, err error) {
	var cNames, sNames, tNames []string
	for _, row := range rows {
		cNames = append(cNames, strings.TrimSpace(row.Classroom))
		sNames = append(sNames, strings.TrimSpace(row.Subject))
		tNames = append(tNames, strings.TrimSpace(row.Teacher))
	}
	if classrooms, err = imp.repo.ClassroomIDs(ctx, cNames); err != nil {
		return nil, nil, nil, errors.Wrap(err, "resolving classrooms")
	}
	if subjects, err = imp.repo.SubjectIDs(ctx, sNames); err != nil {
		return nil, nil, nil, errors.Wrap(err, "resolving subjects")
	}
	if teachers, err = imp.repo.TeacherIDs(ctx, tNames); err != nil {
		return nil, nil, nil, errors.Wrap(err, "resolving teachers")
	}
	return classrooms, subjects, teachers, nil
}

func resolveRow(row Row, classrooms, subjects, teachers map[string]int) (Assignment, string) {
	if row.WeeklyClasses < 0 || row.WeeklyClasses > 40 {
		return Assignment{}, "weekly_classes must be between 0 and 40"
	}
	classroomID, ok := classrooms[strings.TrimSpace(row.Classroom)]
	if !ok {
		return Assignment{}, fmt.Sprintf("unknown classroom %q", row.Classroom)
	}
	subjectID, ok := subjects[strings.TrimSpace(row.Subject)]
	if !ok {
		return Assignment{}, fmt.Sprintf("unknown subject %q", row.Subject)
	}
	teacherID, ok := teachers[strings.TrimSpace(row.Teacher)]
	if !ok {
		return Assignment{}, fmt.Sprintf("unknown teacher %q", row.Teacher)
	}
	return Assignment{
		ClassroomID:   classroomID,
		SubjectID:     subjectID,
		HRID:          teacherID,
		WeeklyClasses: row.WeeklyClasses,
	}, ""
}

// ParseCSV reads rows from a CSV document whose header names the classroom,
// subject, teacher and weekly_classes columns, in any order.
func ParseCSV(r io.Reader) ([]Row, error) {
	rdr := csv.NewReader(r)
	rdr.TrimLeadingSpace = true
	rdr.FieldsPerRecord = -1

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, core.NewValidationError(errors.New("empty csv"), core.FieldError{Field: "file", Error: "the file is empty"})
	}
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range csvHeader {
		if _, ok := cols[name]; !ok {
			return nil, core.NewValidationError(
				errors.New("invalid csv header"),
				core.FieldError{Field: "file", Error: "missing column " + name},
			)
		}
	}

	var rows []Row
	for {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
		}
		weekly := -1 // rejected by resolveRow
		if s := strings.TrimSpace(cell(rec, cols["weekly_classes"])); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				weekly = n
			}
		} else {
			weekly = 0
		}
		rows = append(rows, Row{
			Classroom:     cell(rec, cols["classroom"]),
			Subject:       cell(rec, cols["subject"]),
			Teacher:       cell(rec, cols["teacher"]),
			WeeklyClasses: weekly,
		})
	}
	return rows, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
