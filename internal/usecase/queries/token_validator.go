package queries

import (
	"context"

	"timegrid/internal/domain/user"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/pkg/jwt"

	"github.com/google/uuid"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   user.Role
}

// TokenValidator turns a bearer token into a live principal. The user row is
// re-checked so deactivation takes effect before token expiry.
type TokenValidator struct {
	jwt   *jwt.Service
	users UserReader
}

func NewTokenValidator(jwtService *jwt.Service, users UserReader) *TokenValidator {
	return &TokenValidator{jwt: jwtService, users: users}
}

func (v *TokenValidator) Validate(ctx context.Context, token string) (*Principal, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	u, err := v.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	if err := u.EnsureActive(); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	return &Principal{
		UserID: u.ID(),
		OrgID:  u.OrganizationID(),
		Role:   u.Role(),
	}, nil
}
