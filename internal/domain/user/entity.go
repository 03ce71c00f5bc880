package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInactive     = errors.New("user is inactive")
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is a scheduling subject: an account that owns rulesets and event types.
type User struct {
	id             uuid.UUID
	organizationID uuid.UUID
	email          string
	passwordHash   string
	role           Role
	isActive       bool
}

func NewUser(organizationID uuid.UUID, email, passwordHash string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &User{
		id:             uuid.New(),
		organizationID: organizationID,
		email:          email,
		passwordHash:   passwordHash,
		role:           role,
		isActive:       true,
	}, nil
}

func ReconstructUser(id, organizationID uuid.UUID, email, passwordHash string, role Role, isActive bool) *User {
	return &User{
		id:             id,
		organizationID: organizationID,
		email:          email,
		passwordHash:   passwordHash,
		role:           role,
		isActive:       isActive,
	}
}

func (u *User) ID() uuid.UUID             { return u.id }
func (u *User) OrganizationID() uuid.UUID { return u.organizationID }
func (u *User) Email() string             { return u.email }
func (u *User) PasswordHash() string      { return u.passwordHash }
func (u *User) Role() Role                { return u.role }
func (u *User) IsActive() bool            { return u.isActive }

func (u *User) EnsureActive() error {
	if !u.isActive {
		return ErrInactive
	}
	return nil
}
