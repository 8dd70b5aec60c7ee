package gormdb

import (
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/shule/core"
)

// postgres error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateErr maps driver errors to the core errors.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return core.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return core.NewConflictError("record")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return core.ErrReferenced
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return core.NewConflictError("record")
		case pgForeignKeyViolation:
			return core.ErrReferenced
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return core.NewConflictError("record")
		case sqlite3.ErrConstraintForeignKey:
			return core.ErrReferenced
		}
	}
	return err
}
