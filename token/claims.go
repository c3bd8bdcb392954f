package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
	"github.com/jrsteele09/go-rental-portal/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims are the identity claims the remote API embeds in its bearer tokens
type Claims struct {
	UserID users.ID `json:"id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Role   string   `json:"role,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	jwtlib.RegisteredClaims
}

// Decode reads the claims out of a cached bearer token without verifying its
// signature and without any network call.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.ErrInvalidToken
	}

	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	return claims, nil
}

// Expired reports whether the embedded expiry is in the past. A token without
// an expiry is treated as still valid.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// SubjectID returns the user id, preferring the explicit id claim over sub
func (c *Claims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID.String()
	}
	return c.RegisteredClaims.Subject
}

// User builds the identity carried by the token
func (c *Claims) User() users.User {
	role, _ := users.ParseRole(c.Role)
	return users.User{
		ID:    users.ID(c.SubjectID()),
		Email: c.Email,
		Name:  c.Name,
		Role:  role,
		Phone: c.Phone,
	}
}

// Expiry returns the embedded expiry, zero when absent
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
