package user

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/ticketsync/ticketsync/internal/shared/authorization"
)

// User is a party to tickets. Only the fields the lifecycle reads are
// modelled here.
type User struct {
	id          uint
	email       string
	displayName string
	role        authorization.UserRole
}

func NewUser(email, displayName string, role authorization.UserRole) (*User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	if displayName == "" {
		displayName = email
	}
	return &User{
		email:       email,
		displayName: displayName,
		role:        role,
	}, nil
}

func ReconstructUser(id uint, email, displayName string, role authorization.UserRole) *User {
	return &User{
		id:          id,
		email:       email,
		displayName: displayName,
		role:        role,
	}
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Email() string                { return u.email }
func (u *User) DisplayName() string          { return u.displayName }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) IsOperator() bool             { return u.role.IsOperator() }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	u.id = id
	return nil
}
