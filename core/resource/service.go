package resource

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Service implements the CRUD contract of one resource.
// C is the create payload, U the update payload (the same type unless updates are partial).
type Service[T any, C Payload[T], U Payload[T]] struct {
	conf     Config[T]
	repo     Repository[T]
	validate *validator.Validate
}

func NewService[T any, C Payload[T], U Payload[T]](conf Config[T], repo Repository[T], validate *validator.Validate) *Service[T, C, U] {
	return &Service[T, C, U]{conf: conf, repo: repo, validate: validate}
}

func (svc *Service[T, C, U]) Config() Config[T] { return svc.conf }

func (svc *Service[T, C, U]) Repository() Repository[T] { return svc.repo }

func (svc *Service[T, C, U]) List(ctx context.Context, caller core.Identity, params ListParams) (Listing[T], error) {
	q := Query{
		Preloads:   svc.conf.Preloads,
		Pagination: core.Pagination{Page: params.Page, Size: svc.conf.PageSize},
	}
	if q.Pagination.Enabled() && q.Pagination.Page < 1 {
		q.Pagination.Page = 1
	}

	var fldErrs []core.FieldError
	for param, val := range params.Filters {
		f, ok := svc.conf.filter(param)
		if !ok || val == "" {
			continue
		}
		cond := Condition{Column: f.Column, Value: val, Date: f.Date}
		if f.Date {
			d, err := core.ParseDate(val)
			if err != nil {
				fldErrs = append(fldErrs, core.FieldError{Field: param, Error: param + " must be a date formatted as YYYY-MM-DD"})
				continue
			}
			cond.Value = d.String()
			if f.Instant {
				from, until := d.Bounds(svc.conf.Location)
				cond = Condition{Column: f.Column, Value: from, Until: until}
			}
		}
		if f.Bool {
			b, err := strconv.ParseBool(val)
			if err != nil {
				fldErrs = append(fldErrs, core.FieldError{Field: param, Error: param + " must be true or false"})
				continue
			}
			cond.Value = b
		}
		q.Conditions = append(q.Conditions, cond)
	}
	for _, ord := range params.Ordering {
		col, ok := svc.conf.Orderable[ord.Field]
		if !ok {
			fldErrs = append(fldErrs, core.FieldError{Field: "ordering", Error: "cannot order by " + ord.Field})
			continue
		}
		q.Ordering = append(q.Ordering, core.DBOrdering{Field: col, Ascending: ord.Ascending})
	}
	if fldErrs != nil {
		return Listing[T]{}, core.NewValidationError(errors.New("invalid query"), fldErrs...)
	}

	if svc.conf.Owned {
		q.Conditions = append(q.Conditions, Condition{Column: "user_id", Value: caller.UserID})
	}

	items, total, err := svc.repo.List(ctx, q)
	if err != nil {
		return Listing[T]{}, errors.Wrapf(err, "listing %s", svc.conf.Name)
	}
	return Listing[T]{Items: items, Total: total, Pagination: q.Pagination}, nil
}

func (svc *Service[T, C, U]) Get(ctx context.Context, caller core.Identity, id int) (T, error) {
	rec, err := svc.repo.Get(ctx, id, svc.conf.Preloads...)
	if err != nil {
		return rec, errors.Wrapf(err, "getting %s", svc.conf.Label)
	}
	if err := svc.checkOwner(caller, &rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (svc *Service[T, C, U]) Create(ctx context.Context, caller core.Identity, payload C) (T, error) {
	var rec T
	if err := svc.clean(ctx, &payload); err != nil {
		return rec, err
	}

	payload.Apply(&rec)
	if o, ok := ownerOf(&rec); ok && svc.conf.Owned {
		o.SetOwner(caller.UserID)
	}
	if err := svc.beforeSave(ctx, caller, &rec); err != nil {
		return rec, err
	}

	if err := svc.repo.Create(ctx, &rec); err != nil {
		return rec, errors.Wrapf(err, "creating %s", svc.conf.Label)
	}
	return rec, nil
}

func (svc *Service[T, C, U]) Update(ctx context.Context, caller core.Identity, id int, payload U) (T, error) {
	rec, err := svc.repo.Get(ctx, id)
	if err != nil {
		return rec, errors.Wrapf(err, "getting %s", svc.conf.Label)
	}
	if err := svc.checkOwner(caller, &rec); err != nil {
		return rec, err
	}
	if err := svc.clean(ctx, &payload); err != nil {
		return rec, err
	}

	payload.Apply(&rec)
	if err := svc.beforeSave(ctx, caller, &rec); err != nil {
		return rec, err
	}

	if err := svc.repo.Update(ctx, &rec); err != nil {
		return rec, errors.Wrapf(err, "updating %s", svc.conf.Label)
	}
	return rec, nil
}

func (svc *Service[T, C, U]) Delete(ctx context.Context, caller core.Identity, id int) error {
	if svc.conf.Owned {
		rec, err := svc.repo.Get(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "getting %s", svc.conf.Label)
		}
		if err := svc.checkOwner(caller, &rec); err != nil {
			return err
		}
	}
	if err := svc.repo.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "deleting %s", svc.conf.Label)
	}
	return nil
}

func (svc *Service[T, C, U]) clean(ctx context.Context, payload interface{}) error {
	if c, ok := payload.(Cleaner); ok {
		c.Clean()
	}
	return core.ValidateStruct(ctx, svc.validate, payload)
}

func (svc *Service[T, C, U]) checkOwner(caller core.Identity, rec *T) error {
	if !svc.conf.Owned {
		return nil
	}
	if o, ok := ownerOf(rec); ok && !caller.Owns(o.OwnerID()) {
		return core.ErrForbidden
	}
	return nil
}

func (svc *Service[T, C, U]) beforeSave(ctx context.Context, caller core.Identity, rec *T) error {
	if svc.conf.Check != nil {
		if err := svc.conf.Check(ctx, caller, rec); err != nil {
			return err
		}
	}
	return svc.guard(ctx, rec)
}

// guard enforces the uniqueness guards of the resource. The storage layer
// carries matching unique constraints for concurrent writers.
func (svc *Service[T, C, U]) guard(ctx context.Context, rec *T) error {
	for _, g := range svc.conf.Unique {
		vals := g.Key(rec)
		conds := make([]Condition, 0, len(g.Columns))
		skip := false
		for i, col := range g.Columns {
			if i >= len(vals) || isNil(vals[i]) {
				skip = true
				break
			}
			v := vals[i]
			if s, ok := v.(string); ok {
				v = strings.TrimSpace(s)
			}
			conds = append(conds, Condition{Column: col, Value: v})
		}
		if skip {
			continue
		}
		exists, err := svc.repo.Exists(ctx, conds, idOf(rec))
		if err != nil {
			return errors.Wrapf(err, "checking %s uniqueness", svc.conf.Label)
		}
		if exists {
			return core.NewConflictError(svc.conf.Label, g.Fields...)
		}
	}
	return nil
}

func isNil(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *string:
		return x == nil
	case *int:
		return x == nil
	}
	return false
}
