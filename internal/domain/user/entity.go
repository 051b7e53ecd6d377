package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can act on any employee's attendance
	RoleEmployee Role = "employee" // Own attendance only
)

// IsManager reports whether the role may act on other employees.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}
