package core

import "strings"

// Identity is the authenticated caller, passed explicitly into every service call.
type Identity struct {
	UserID   int
	Username string
	Email    string
	Roles    []string
}

func (id Identity) IsZero() bool { return id.UserID == 0 }

func (id Identity) HasRolePrefix(prefix string) bool {
	for _, role := range id.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

// Owns reports whether the record owner is the caller.
func (id Identity) Owns(ownerID int) bool {
	return !id.IsZero() && id.UserID == ownerID
}
