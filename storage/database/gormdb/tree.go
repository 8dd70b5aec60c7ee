package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/shule/core/tree"
)

type TreeRepository struct {
	db *gorm.DB
}

var _ tree.Repository = (*TreeRepository)(nil) // interface compliance check

func NewTreeRepository(db *gorm.DB) *TreeRepository {
	return &TreeRepository{db: db}
}

func (repo *TreeRepository) GetDocument(ctx context.Context, name string) (tree.Document, error) {
	var doc tree.Document
	err := conn(ctx, repo.db).Where("name = ?", name).First(&doc).Error
	return doc, translateErr(err)
}

func (repo *TreeRepository) SaveDocument(ctx context.Context, doc tree.Document) (tree.Document, error) {
	err := conn(ctx, repo.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return doc, translateErr(err)
	}
	// the upsert does not report the id of an updated row
	return repo.GetDocument(ctx, doc.Name)
}
