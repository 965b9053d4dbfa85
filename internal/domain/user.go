package domain

import "time"

// Role controls ticket visibility and mutation rights.
type Role string

const (
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the directory: requesters, technicians and admins
// share one table, differentiated by Role.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSignInAt *time.Time
}

// Identity is the resolved caller passed explicitly into every service
// operation; nothing below the handler layer reads ambient request state.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsTechnicianOrAdmin reports whether the caller may handle tickets.
func (i Identity) IsTechnicianOrAdmin() bool {
	return i.Role == RoleTechnician || i.Role == RoleAdmin
}
