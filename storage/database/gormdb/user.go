package gormdb

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

type UserRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (repo *UserRepository) CheckUniqueness(ctx context.Context, username, email string) error {
	check := func(column, value string, errExists error) error {
		if value == "" {
			return nil
		}
		var count int64
		if err := conn(ctx, repo.db).Model(&user.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking user uniqueness")
		}
		if count > 0 {
			return errExists
		}
		return nil
	}
	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr *user.User) error {
	return translateErr(conn(ctx, repo.db).Create(usr).Error)
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	err := conn(ctx, repo.db).First(&usr, id).Error
	return usr, translateErr(err)
}

func (repo *UserRepository) GetUserByUsernameOrEmail(ctx context.Context, uname string) (user.User, error) {
	var usr user.User
	if uname == "" {
		return usr, core.ErrNotFound
	}
	err := conn(ctx, repo.db).Where("username = ? OR email = ?", uname, uname).First(&usr).Error
	return usr, translateErr(err)
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr *user.User) error {
	return translateErr(conn(ctx, repo.db).Omit(clause.Associations).Save(usr).Error)
}
