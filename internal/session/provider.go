package session

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/apiclient"
	"github.com/talkincode/shopdesk/internal/domain"
)

// Provider is the identity provider the manager delegates to
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
	EndSession(ctx context.Context) error
}

// Authenticator is the backend auth endpoint pair. *apiclient.AuthService satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
	Logout(ctx context.Context) error
}

// CredentialsProvider signs in with email and password against the backend
type CredentialsProvider struct {
	auth Authenticator
}

func NewCredentialsProvider(auth Authenticator) *CredentialsProvider {
	return &CredentialsProvider{auth: auth}
}

func (p *CredentialsProvider) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	res, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user := domain.SessionUser{
		ID:       res.ID,
		Email:    res.Email,
		Name:     res.FullName,
		Username: res.Username,
		Roles:    res.Roles,
	}
	if claimed, ok := userFromClaims(res.AccessToken); ok {
		if user.ID == "" {
			user.ID = claimed.ID
		}
		if user.Email == "" {
			user.Email = claimed.Email
		}
		if user.Username == "" {
			user.Username = claimed.Username
		}
		if user.Name == "" {
			user.Name = claimed.Name
		}
		if len(user.Roles) == 0 {
			user.Roles = claimed.Roles
		}
	}
	return &domain.Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         user,
		ExpiresAt:    Expiry(res.AccessToken, res.Expires),
	}, nil
}

func (p *CredentialsProvider) EndSession(ctx context.Context) error {
	return p.auth.Logout(ctx)
}
