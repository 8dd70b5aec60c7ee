package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// dateParam parses an optional YYYY-MM-DD query param. The zero Date means absent.
func dateParam(ctx echo.Context, name string) (core.Date, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(val)
	if err != nil {
		return core.Date{}, core.NewValidationError(
			errors.Wrapf(err, "parsing %s", name),
			core.FieldError{Field: name, Error: name + " must be a date formatted as YYYY-MM-DD"},
		)
	}
	return d, nil
}

// intParam parses an optional integer query param, returning 0 when absent.
func intParam(ctx echo.Context, name string) (int, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(
			errors.Wrapf(err, "parsing %s", name),
			core.FieldError{Field: name, Error: name + " must be an integer"},
		)
	}
	return n, nil
}
