package models

import "time"

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

type User struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// Session is the visitor state handed to the access guard. User is nil for
// anonymous visitors and for authenticated sessions whose user record is gone.
type Session struct {
	Authenticated bool      `json:"authenticated"`
	User          *User     `json:"user,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
}

// Role returns the session role or an empty string when there is no user.
func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func Anonymous() Session {
	return Session{}
}
