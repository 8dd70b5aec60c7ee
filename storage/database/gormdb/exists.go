package gormdb

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/shule/core"
)

// ExistenceChecker looks records up by table and id for the `exists` validation tag.
type ExistenceChecker struct {
	db *gorm.DB
}

var _ core.ExistenceChecker = (*ExistenceChecker)(nil) // interface compliance check

func NewExistenceChecker(db *gorm.DB) *ExistenceChecker {
	return &ExistenceChecker{db: db}
}

func (c *ExistenceChecker) Exists(ctx context.Context, table string, id interface{}) (bool, error) {
	var count int64
	if err := conn(ctx, c.db).Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "checking %s existence", table)
	}
	return count > 0, nil
}
