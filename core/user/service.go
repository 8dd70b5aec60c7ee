package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		// CheckUniqueness returns ErrUsernameExists or ErrEmailExists when a user
		// already uses one of the non-blank username and email.
		CheckUniqueness(ctx context.Context, username, email string) error
		CreateUser(ctx context.Context, usr *User) error
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByUsernameOrEmail(ctx context.Context, uname string) (User, error)
		UpdateUser(ctx context.Context, usr *User) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) checkUniqueness(ctx context.Context, uname, email string) error {
	if err := svc.repo.CheckUniqueness(ctx, uname, email); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := core.ValidateStruct(ctx, svc.validate, nu); err != nil {
		return User{}, err
	}
	if err := svc.checkUniqueness(ctx, nu.Username, nu.Email); err != nil {
		return User{}, err
	}

	usr := User{
		Name:     nu.Name,
		Username: nu.Username,
		Email:    nu.Email,
		IsActive: true,
		Roles:    nu.Roles,
	}
	if usr.Roles == nil {
		usr.Roles = []string{}
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	if err := svc.repo.CreateUser(ctx, &usr); err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	return usr, errors.Wrap(err, "getting user")
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	usr, err := svc.repo.GetUserByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
	return usr, errors.Wrap(err, "getting user")
}

// Authenticate returns the active user matching the credentials, or ErrBadCredentials.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, uname)
	if core.IsNotFound(err) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !usr.IsActive || usr.CheckPassword(pwd) != nil {
		return User{}, ErrBadCredentials
	}
	return usr, nil
}

// ResetPassword sets a new password, applying the password policy.
func (svc *Service) ResetPassword(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return User{}, err
	}
	if err := core.ValidateStruct(ctx, svc.validate, newPasswordReset(usr, pwd, pwd)); err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	if err := svc.repo.UpdateUser(ctx, &usr); err != nil {
		return User{}, errors.Wrap(err, "resetting password")
	}
	return usr, nil
}

func (svc *Service) SetLastLogin(ctx context.Context, usr *User) error {
	now := core.Now()
	usr.LastLogin = &now
	return errors.Wrap(svc.repo.UpdateUser(ctx, usr), "setting last login")
}
