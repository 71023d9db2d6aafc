package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Manages shifts and team attendance
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID              string
	CompanyID       string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeID *string
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsManager is true for managers and owners.
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleOwner
}

// HasGoogleLink reports whether a Google identity is attached.
func (u *User) HasGoogleLink() bool {
	return u.OAuthProvider != nil && u.OAuthProviderID != nil
}
