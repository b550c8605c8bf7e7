package models

import (
	"errors"
	"strings"
)

var ErrInvalidPermission = errors.New("invalid permission string")

// Permission is an (action, resource) capability, e.g. "manage:user".
// Implication is exact equality only: hierarchy is baked into how each
// role's set is composed below, never into the match.
type Permission struct {
	Action   string
	Resource string
}

func (p Permission) String() string {
	return p.Action + ":" + p.Resource
}

// ParsePermission parses an "action:resource" string. Both parts are
// required and must be non-blank, with exactly one separator.
func ParsePermission(s string) (Permission, error) {
	action, resource, ok := strings.Cut(s, ":")
	if !ok || strings.Contains(resource, ":") {
		return Permission{}, ErrInvalidPermission
	}

	action = strings.ToLower(strings.TrimSpace(action))
	resource = strings.ToLower(strings.TrimSpace(resource))
	if action == "" || resource == "" {
		return Permission{}, ErrInvalidPermission
	}

	return Permission{Action: action, Resource: resource}, nil
}

const (
	ActionCreate  = "create"
	ActionView    = "view"
	ActionViewAll = "view_all"
	ActionManage  = "manage"

	ResourceUser     = "user"
	ResourceMovie    = "movie"
	ResourceShowtime = "showtime"
	ResourceBooking  = "booking"
)

// rolePermissions maps each role to its granted permissions. This is the
// single source of truth for the authorisation model. Sets are strictly
// additive: customer = staff, then manager and admin each extend the
// previous role.
var rolePermissions = buildRolePermissions()

func buildRolePermissions() map[UserRole][]Permission {
	customer := []Permission{
		{ActionCreate, ResourceBooking},
		{ActionView, ResourceBooking},
		{ActionView, ResourceMovie},
		{ActionView, ResourceShowtime},
	}

	staff := append([]Permission(nil), customer...)

	manager := append(append([]Permission(nil), staff...),
		Permission{ActionManage, ResourceMovie},
		Permission{ActionManage, ResourceShowtime},
	)

	admin := append(append([]Permission(nil), manager...),
		Permission{ActionManage, ResourceUser},
	)

	return map[UserRole][]Permission{
		UserRoleCustomer: customer,
		UserRoleStaff:    staff,
		UserRoleManager:  manager,
		UserRoleAdmin:    admin,
	}
}

// HasPermission reports whether the role's permission set contains the
// given "action:resource" capability. Malformed strings are an error, not
// a silent deny.
func HasPermission(role UserRole, permission string) (bool, error) {
	perm, err := ParsePermission(permission)
	if err != nil {
		return false, err
	}

	for _, p := range rolePermissions[role] {
		if p == perm {
			return true, nil
		}
	}
	return false, nil
}

// PermissionsForRole returns a copy of the role's permission set.
// Returns nil for unknown roles.
func PermissionsForRole(role UserRole) []Permission {
	perms := rolePermissions[role]
	if perms == nil {
		return nil
	}
	result := make([]Permission, len(perms))
	copy(result, perms)
	return result
}
