package domain

import "fmt"

// Role is an ordinal capability level for a user on a board. Higher roles
// include all permissions of lower ones; comparisons are plain integer
// comparisons, never special-cased per role.
type Role uint32

const (
	RoleGuest Role = iota
	RoleMember
	RoleModerator
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleMember:
		return "member"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

// Valid reports whether r is one of the five defined levels.
func (r Role) Valid() bool {
	return r <= RoleOwner
}

// AtLeast reports whether r grants the permissions of min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// ParseRole converts a wire-level role name back to its ordinal.
func ParseRole(s string) (Role, error) {
	switch s {
	case "guest":
		return RoleGuest, nil
	case "member":
		return RoleMember, nil
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	}
	return RoleGuest, fmt.Errorf("unknown role %q", s)
}

// PermissionSet is a snapshot of everything a user may do on a board,
// resolved from role and ban state at a single point in time.
type PermissionSet struct {
	Role        Role `json:"role"`
	CanView     bool `json:"can_view"`
	CanPost     bool `json:"can_post"`
	CanModerate bool `json:"can_moderate"`
	CanAdmin    bool `json:"can_admin"`
	IsBanned    bool `json:"is_banned"`
}
