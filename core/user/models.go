package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Roles are prefixes: "admin:principal" is an admin role.
const (
	RoleAdmin          = "admin:"
	RoleAdminOwner     = "admin:owner"
	RoleAdminPrincipal = "admin:principal"
	RoleTeacher        = "teacher:"
	RoleStudent        = "student:"
)

var AllRoles = []string{RoleAdmin, RoleAdminOwner, RoleAdminPrincipal, RoleTeacher, RoleStudent}

func isRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account of the school. Accounts sign in to the API and own the planner records;
// they are created and reset from the admin CLI.
type User struct {
	ID           int        `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Username     string     `json:"username" gorm:"size:150;index:ux_users_username,unique,where:username <> ''"`
	Email        string     `json:"email" gorm:"size:255;index:ux_users_email,unique,where:email <> ''"`
	IsActive     bool       `json:"is_active" gorm:"not null"`
	Roles        []string   `json:"roles" gorm:"type:text;serializer:json"`
	PasswordHash []byte     `json:"-" gorm:"not null"`
	CreatedAt    time.Time  `json:"created_at"` // UTC
	UpdatedAt    time.Time  `json:"updated_at"` // UTC
	LastLogin    *time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Identity().HasRolePrefix(RoleAdmin) }
func (u *User) IsTeacher() bool { return u.Identity().HasRolePrefix(RoleTeacher) }
func (u *User) IsStudent() bool { return u.Identity().HasRolePrefix(RoleStudent) }

// Identity returns the caller identity of u.
func (u User) Identity() core.Identity {
	return core.Identity{UserID: u.ID, Username: u.Username, Email: u.Email, Roles: u.Roles}
}

// NewUser is an account to create.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
}

// PasswordReset is a new password for an existing account, checked against its attributes.
type PasswordReset struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	name, username, email string
}

func newPasswordReset(usr User, pwd, confirm string) PasswordReset {
	return PasswordReset{
		Password:        pwd,
		PasswordConfirm: confirm,
		name:            usr.Name,
		username:        usr.Username,
		email:           usr.Email,
	}
}
