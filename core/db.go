package core

import "context"

type (
	// Transactor runs fn in a single database transaction; every repository
	// reached through the ctx handed to fn joins it.
	Transactor interface {
		InTx(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// ExistenceChecker backs the `exists=<table>` validation tag.
	ExistenceChecker interface {
		Exists(ctx context.Context, table string, id interface{}) (bool, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Pagination describes one page of a listing. Size 0 means "no pagination".
type Pagination struct {
	Page int
	Size int
}

func (p Pagination) Enabled() bool { return p.Size > 0 }

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// Page is a paginated listing.
type Page struct {
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"current_page"`
	PerPage     int         `json:"per_page"`
	Total       int64       `json:"total"`
	LastPage    int         `json:"last_page"`
}

func NewPage(data interface{}, p Pagination, total int64) Page {
	page := p.Page
	if page < 1 {
		page = 1
	}
	last := 1
	if p.Size > 0 && total > 0 {
		last = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Page{Data: data, CurrentPage: page, PerPage: p.Size, Total: total, LastPage: last}
}
