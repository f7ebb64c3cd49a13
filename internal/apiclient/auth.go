package apiclient

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// LoginResult is the answer to a successful credentials login
type LoginResult struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	Roles        []string `json:"roles"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Expires      string   `json:"expires,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService wraps /auth/login and /auth/logout
type AuthService struct {
	c *Client
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	r, err := jsonRequest(http.MethodPost, "/auth/login", credentials{Email: email, Password: password})
	if err != nil {
		return out, err
	}
	if err = s.c.do(ctx, r, &out); err != nil {
		return out, errors.WithMessage(err, "login")
	}
	if out.AccessToken == "" {
		return out, errors.New("login: backend returned no access token")
	}
	return out, nil
}

// Logout tells the backend the current token is no longer in use
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
	return errors.WithMessage(err, "logout")
}
