package sessions

import (
	"time"

	"github.com/jrsteele09/go-rental-portal/users"
)

// Session is the record of who is logged in within one browser context
type Session struct {
	users.User
	LoggedInAt time.Time // when login or signup succeeded, zero if unknown
	ExpiresAt  time.Time // embedded token expiry, zero if the token carries none
}

// HasRole reports whether the session's role is one of roles
func (s *Session) HasRole(roles ...users.RoleType) bool {
	if s == nil {
		return false
	}
	for _, role := range roles {
		if s.Role == role {
			return true
		}
	}
	return false
}
