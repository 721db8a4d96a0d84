package user

type Role string

const (
	RoleAdmin      Role = "admin"      // Full payroll authority, including unlock and force
	RoleAccountant Role = "accountant" // Calculates, confirms and locks payroll
	RoleEmployee   Role = "employee"   // Read-only caller
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleEmployee:
		return true
	}
	return false
}

// Caller is the authenticated identity acting on payroll. It is built from
// the access token by the HTTP layer and passed explicitly to services.
type Caller struct {
	UserID   string
	Username string
	Role     Role
}

// IsAdmin checks if caller holds the admin role
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Can checks if the caller's role grants permission
func (c Caller) Can(permission Permission) bool {
	return HasPermission(c.Role, permission)
}

// System returns the identity used by scheduled jobs.
func System() Caller {
	return Caller{UserID: "system", Username: "system", Role: RoleAccountant}
}
