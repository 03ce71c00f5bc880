package commands

import (
	"context"
	"errors"

	"timegrid/internal/domain/user"
	"timegrid/internal/pkg/errs"
	"timegrid/internal/pkg/jwt"
	"timegrid/internal/pkg/password"
)

type AuthCommands struct {
	users UserRepository
	jwt   *jwt.Service
}

func NewAuthCommands(users UserRepository, jwtService *jwt.Service) *AuthCommands {
	return &AuthCommands{users: users, jwt: jwtService}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (c *AuthCommands) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	u, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and bad password are indistinguishable.
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	if err := u.EnsureActive(); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	if err := password.Verify(u.PasswordHash(), plainPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	return c.issue(u)
}

func (c *AuthCommands) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := c.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	u, err := c.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	if err := u.EnsureActive(); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	return c.issue(u)
}

func (c *AuthCommands) issue(u *user.User) (*TokenPair, error) {
	access, err := c.jwt.GenerateAccessToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign access token")
	}
	refresh, err := c.jwt.GenerateRefreshToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
