// Package resource implements the CRUD contract shared by every school resource:
// validated create/update, optional uniqueness guards, ownership checks on
// personal records, and filtered, ordered, optionally paginated listings.
package resource

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
)

type (
	// Record is implemented by every stored model.
	Record interface {
		GetID() int
	}

	// Owned is implemented by personal records. The owner is set once at creation.
	Owned interface {
		OwnerID() int
		SetOwner(userID int)
	}

	// Payload is a write request that knows how to apply itself onto a record.
	// Partial payloads only apply the fields that were sent.
	Payload[T any] interface {
		Apply(rec *T)
	}

	// Cleaner is optionally implemented (on the pointer) by payloads that normalize their input before validation.
	Cleaner interface {
		Clean()
	}

	// Filter declares a list query parameter.
	Filter struct {
		Param   string // JSON name, used as query param
		Column  string
		Date    bool // compare the calendar day of Column
		Instant bool // Column holds instants, whose day is taken in Config.Location
		Bool    bool
	}

	// Condition is one equality condition of a Query, or a half-open range when Until is set.
	Condition struct {
		Column string
		Value  interface{}
		Date   bool
		Until  interface{}
	}

	Query struct {
		Conditions []Condition
		Ordering   []core.DBOrdering // columns, already resolved
		Preloads   []string
		Pagination core.Pagination
	}

	// Guard rejects a write whose logical key is already taken by another record.
	Guard[T any] struct {
		Fields  []string // JSON names, reported to the client
		Columns []string
		Key     func(rec *T) []interface{} // nil values disable the guard for that record
	}

	Repository[T any] interface {
		// List returns the matching records and, when paginated, the total count.
		List(ctx context.Context, q Query) ([]T, int64, error)
		Get(ctx context.Context, id int, preloads ...string) (T, error)
		Exists(ctx context.Context, conds []Condition, excludeID int) (bool, error)
		Create(ctx context.Context, rec *T) error
		Update(ctx context.Context, rec *T) error
		Delete(ctx context.Context, id int) error
	}
)

// Config parameterizes a Service.
type Config[T any] struct {
	Name        string // URL segment, e.g. "behaviors"
	Label       string // singular, e.g. "behavior"
	Component   string // page-model component prefix, e.g. "Behaviors"
	PageSize    int    // 0: no pagination
	Filters     []Filter
	Orderable   map[string]string // JSON name -> column
	Preloads    []string
	Unique      []Guard[T]
	Owned       bool // listings are scoped to the caller, mutations are owner only
	AdminWrites bool
	Location    *time.Location // day boundaries of Instant filters; UTC when nil

	// Check runs after the payload is applied and before the record is persisted.
	Check func(ctx context.Context, caller core.Identity, rec *T) error
}

func (c Config[T]) filter(param string) (Filter, bool) {
	for _, f := range c.Filters {
		if f.Param == param {
			return f, true
		}
	}
	return Filter{}, false
}

// ListParams are the raw list parameters of a request.
type ListParams struct {
	Filters  map[string]string
	Ordering []core.DBOrdering // JSON names
	Page     int
}

// Listing is one list result.
type Listing[T any] struct {
	Items      []T
	Total      int64
	Pagination core.Pagination
}

// Result renders the listing as a bare slice, or as a core.Page when paginated.
func (l Listing[T]) Result() interface{} {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	if !l.Pagination.Enabled() {
		return items
	}
	return core.NewPage(items, l.Pagination, l.Total)
}

func idOf[T any](rec *T) int {
	if r, ok := any(rec).(Record); ok {
		return r.GetID()
	}
	return 0
}

func ownerOf[T any](rec *T) (Owned, bool) {
	o, ok := any(rec).(Owned)
	return o, ok
}
