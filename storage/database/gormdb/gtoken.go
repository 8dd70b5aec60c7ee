package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/classroom"
)

type TokenRepository struct {
	db *gorm.DB
}

var _ classroom.TokenRepository = (*TokenRepository)(nil) // interface compliance check

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (repo *TokenRepository) GetToken(ctx context.Context, userID int) (classroom.Token, error) {
	var tok classroom.Token
	err := conn(ctx, repo.db).Where("user_id = ?", userID).First(&tok).Error
	return tok, translateErr(err)
}

func (repo *TokenRepository) SaveToken(ctx context.Context, tok classroom.Token) error {
	err := conn(ctx, repo.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "token_type", "expiry", "updated_at"}),
		}).
		Create(&tok).Error
	return translateErr(err)
}

func (repo *TokenRepository) DeleteToken(ctx context.Context, userID int) error {
	res := conn(ctx, repo.db).Where("user_id = ?", userID).Delete(&classroom.Token{})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}
