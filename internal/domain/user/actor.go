// Package user models the people who act on service requests. Accounts are
// managed elsewhere; this package only reads them.
package user

import (
	"context"
	"fmt"
)

// Role is the coarse authorization role carried in access tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// NewRole parses s, rejecting unknown roles.
func NewRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID       uint
	Username string
	Role     Role
}

func (a Actor) IsZero() bool {
	return a.ID == 0
}

// Account is a row of the user directory.
type Account struct {
	ID       uint
	Username string
	Role     Role
}

// Directory resolves user ids to display identities.
type Directory interface {
	// GetUsernames returns the username for each known id; unknown ids are absent.
	GetUsernames(ctx context.Context, ids []uint) (map[uint]string, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	// Ensure inserts the account if no account with that username exists.
	Ensure(ctx context.Context, account *Account) (created bool, err error)
}
