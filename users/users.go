package users

import (
	"fmt"
	"strings"
)

// RoleType is the portal role carried by a user and embedded in their token
type RoleType string

const (
	RoleTenant    RoleType = "tenant"    // Rents a room, signs leases, pays rent and bills
	RoleCaretaker RoleType = "caretaker" // Manages rooms, water readings and maintenance
	RoleAdmin     RoleType = "admin"     // Manages tenants and approves vacate notices
)

// Roles lists every role the portal knows about
var Roles = []RoleType{RoleTenant, RoleCaretaker, RoleAdmin}

// ParseRole maps a raw role string onto a known RoleType
func ParseRole(s string) (RoleType, error) {
	role := RoleType(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

func (r RoleType) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r RoleType) String() string {
	return string(r)
}

// User is the identity returned by the remote API
type User struct {
	ID         ID       `json:"id" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Name       string   `json:"name,omitempty"`
	Role       RoleType `json:"role" validate:"required,oneof=tenant caretaker admin"`
	Phone      string   `json:"phone,omitempty"`
	IDNumber   string   `json:"id_number,omitempty"`
	RoomNumber string   `json:"room_number,omitempty"`
}

// DisplayName falls back to the email when no name has been set
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}

// ProfileUpdate carries only the fields a user asked to change
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IDNumber *string `json:"id_number,omitempty" validate:"omitempty,max=20"`
}

// Empty reports whether the update would change nothing
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil && p.IDNumber == nil
}

// SignupForm is the registration payload sent to the remote API
type SignupForm struct {
	Name            string   `json:"name" validate:"required,min=2,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required,phone"`
	IDNumber        string   `json:"id_number,omitempty" validate:"omitempty,max=20"`
	Password        string   `json:"password" validate:"required,password"`
	ConfirmPassword string   `json:"-" validate:"eqfield=Password"`
	Role            RoleType `json:"role" validate:"required,oneof=tenant caretaker"`
}
