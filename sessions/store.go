package sessions

import (
	"context"

	"github.com/google/uuid"
)

// Key names one of the fixed values persisted per browser context
type Key string

const (
	KeyUser      Key = "user"      // JSON encoded users.User
	KeyToken     Key = "token"     // bearer token
	KeyRole      Key = "role"      // users.RoleType
	KeyLoginTime Key = "loginTime" // RFC3339 timestamp of the last successful login
)

// AllKeys is every key a session writes
var AllKeys = []Key{KeyUser, KeyToken, KeyRole, KeyLoginTime}

// Store persists the session keys of each browser context. Missing keys read
// as absent (ok == false) rather than as an error.
type Store interface {
	Get(ctx context.Context, browserID string, key Key) (value string, ok bool, err error)
	Set(ctx context.Context, browserID string, key Key, value string) error
	Remove(ctx context.Context, browserID string, keys ...Key) error
}

// NewBrowserID returns a fresh opaque identifier for a browser context
func NewBrowserID() string {
	return uuid.NewString()
}
