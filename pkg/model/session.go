package model

import "time"

// Session represents an authenticated dashboard session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Token     string    `json:"-"` // dealer API bearer token, never exposed
	TokenExp  time.Time `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsTokenExpired reports whether the API token has expired. A zero expiry
// means the token does not carry one.
func (s *Session) IsTokenExpired() bool {
	return !s.TokenExp.IsZero() && time.Now().After(s.TokenExp)
}

// IsAdmin reports whether the session has the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
