// Package authz decides whether an authenticated identity may act on a resource.
// It never fetches anything; callers resolve the owning user id first.
package authz

import (
	"slices"

	"github.com/geocoder89/cotobang/internal/apperr"
)

type Access int

const (
	Read Access = iota
	Mutate
)

func (a Access) String() string {
	if a == Mutate {
		return "mutate"
	}
	return "read"
}

type Identity struct {
	UserID int64
	Roles  []string
}

func (i Identity) HasRole(name string) bool {
	return name != "" && slices.Contains(i.Roles, name)
}

type Gate struct {
	// AdminRole, when non-empty, lets holders mutate resources they do not own.
	AdminRole string
}

func NewGate(adminRole string) Gate {
	return Gate{AdminRole: adminRole}
}

func (g Gate) Authorize(id *Identity, owner int64, access Access) error {
	if access == Read {
		return nil
	}

	if id == nil {
		return apperr.ErrUnauthenticated
	}

	if id.UserID == owner {
		return nil
	}

	if id.HasRole(g.AdminRole) {
		return nil
	}

	return apperr.ErrForbidden
}
