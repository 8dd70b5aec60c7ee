// Package gormdb implements the repositories on top of gorm.
package gormdb

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

type txKey struct{}

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type Transactor struct {
	db *gorm.DB
}

var _ core.Transactor = (*Transactor)(nil) // interface compliance check

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// InTx runs fn in a transaction. Nested calls join the outer transaction.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Repository is the generic resource repository of the model T.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func where(db *gorm.DB, conds []resource.Condition) *gorm.DB {
	for _, c := range conds {
		switch {
		case c.Until != nil:
			db = db.Where(fmt.Sprintf("%s >= ? AND %s < ?", c.Column, c.Column), c.Value, c.Until)
		case c.Date:
			db = db.Where(fmt.Sprintf("DATE(%s) = ?", c.Column), c.Value)
		default:
			db = db.Where(fmt.Sprintf("%s = ?", c.Column), c.Value)
		}
	}
	return db
}

func (repo *Repository[T]) List(ctx context.Context, q resource.Query) ([]T, int64, error) {
	db := where(conn(ctx, repo.db).Model(new(T)), q.Conditions)

	var total int64
	if q.Pagination.Enabled() {
		if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return nil, 0, errors.Wrap(err, "counting records")
		}
		db = db.Offset(q.Pagination.Offset()).Limit(q.Pagination.Size)
	}
	for _, ord := range q.Ordering {
		db = db.Order(ord.String())
	}
	db = db.Order("id ASC")
	for _, rel := range q.Preloads {
		db = db.Preload(rel)
	}

	var recs []T
	if err := db.Find(&recs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "listing records")
	}
	if !q.Pagination.Enabled() {
		total = int64(len(recs))
	}
	return recs, total, nil
}

func (repo *Repository[T]) Get(ctx context.Context, id int, preloads ...string) (T, error) {
	var rec T
	db := conn(ctx, repo.db)
	for _, rel := range preloads {
		db = db.Preload(rel)
	}
	err := db.First(&rec, id).Error
	return rec, translateErr(err)
}

func (repo *Repository[T]) Exists(ctx context.Context, conds []resource.Condition, excludeID int) (bool, error) {
	db := where(conn(ctx, repo.db).Model(new(T)), conds)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "checking existence")
	}
	return count > 0, nil
}

func (repo *Repository[T]) Create(ctx context.Context, rec *T) error {
	return translateErr(conn(ctx, repo.db).Omit(clause.Associations).Create(rec).Error)
}

func (repo *Repository[T]) Update(ctx context.Context, rec *T) error {
	return translateErr(conn(ctx, repo.db).Omit(clause.Associations).Save(rec).Error)
}

func (repo *Repository[T]) Delete(ctx context.Context, id int) error {
	res := conn(ctx, repo.db).Delete(new(T), id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}
