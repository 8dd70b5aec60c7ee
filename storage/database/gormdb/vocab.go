package gormdb

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/shule/core/vocab"
)

type VocabRepository struct {
	db *gorm.DB
}

var _ vocab.Repository = (*VocabRepository)(nil) // interface compliance check

func NewVocabRepository(db *gorm.DB) *VocabRepository {
	return &VocabRepository{db: db}
}

// Random returns up to count random words, of the given level when level is set.
func (repo *VocabRepository) Random(ctx context.Context, level string, count int) ([]vocab.Vocabulary, error) {
	db := conn(ctx, repo.db)
	if level != "" {
		db = db.Where("level = ?", level)
	}
	var words []vocab.Vocabulary
	// RANDOM() exists on both postgres and sqlite
	err := db.Order("RANDOM()").Limit(count).Find(&words).Error
	return words, errors.Wrap(err, "picking random words")
}
