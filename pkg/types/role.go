package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned when a role string matches no known role.
var ErrUnknownRole = errors.New("unknown role")

// Role identifies who is browsing. The zero value is RoleGuest.
type Role int

// Role constants.
const (
	RoleGuest Role = iota
	RoleTourist
	RoleAdvertiser
	RoleSeller
	RoleAdmin
)

// Roles lists every role in declaration order.
var Roles = []Role{RoleGuest, RoleTourist, RoleAdvertiser, RoleSeller, RoleAdmin}

// ParseRole converts the role cookie value into a Role. An empty value is a
// guest.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "guest":
		return RoleGuest, nil
	case "tourist":
		return RoleTourist, nil
	case "advertiser":
		return RoleAdvertiser, nil
	case "seller":
		return RoleSeller, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleGuest, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// String returns the role name as used in cookies and API paths.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleTourist:
		return "tourist"
	case RoleAdvertiser:
		return "advertiser"
	case RoleSeller:
		return "seller"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// PathPrefix returns the API path segment for listing requests.
func (r Role) PathPrefix() string {
	switch r {
	case RoleGuest, RoleTourist, RoleAdvertiser, RoleSeller, RoleAdmin:
		return r.String()
	default:
		return RoleGuest.String()
	}
}

// CanSave reports whether the role owns a saved set / wishlist.
func (r Role) CanSave() bool {
	switch r {
	case RoleTourist:
		return true
	case RoleGuest, RoleAdvertiser, RoleSeller, RoleAdmin:
		return false
	default:
		return false
	}
}

// ConvertsPrices reports whether prices are shown in the user's preferred
// currency rather than the base currency.
func (r Role) ConvertsPrices() bool {
	switch r {
	case RoleTourist:
		return true
	case RoleGuest, RoleAdvertiser, RoleSeller, RoleAdmin:
		return false
	default:
		return false
	}
}

// HasProfile reports whether the role has a profile to load preferences from.
func (r Role) HasProfile() bool {
	switch r {
	case RoleGuest:
		return false
	case RoleTourist, RoleAdvertiser, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}
