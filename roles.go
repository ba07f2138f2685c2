package tableside

// Role is the user's role as reported by the backend.
type Role string

const (
	// RoleUser is a regular diner (browse, order, pay).
	RoleUser Role = "USER"
	// RoleAdmin manages the menu and sees every order.
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is one of the predefined valid roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role grants access to the admin dashboard.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole safely parses a string into a Role.
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// AllRoles returns all predefined roles.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}
