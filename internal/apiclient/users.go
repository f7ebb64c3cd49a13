package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

// UserService wraps /user and user registration
type UserService struct {
	c *Client
}

func (s *UserService) List(ctx context.Context, f domain.Filter, p domain.Pagination) (domain.PagedResult[domain.User], error) {
	var body pagedBody[domain.User]
	err := s.c.do(ctx, request{method: http.MethodGet, path: "/user", query: BuildQuery(f, p)}, &body)
	if err != nil {
		return domain.PagedResult[domain.User]{}, errors.WithMessage(err, "list users")
	}
	return body.result, nil
}

// Create registers a new user through /auth/register
func (s *UserService) Create(ctx context.Context, payload domain.UserPayload) (domain.User, error) {
	var out domain.User
	r, err := jsonRequest(http.MethodPost, "/auth/register", payload)
	if err != nil {
		return out, err
	}
	if err = s.c.do(ctx, r, &out); err != nil {
		return out, errors.WithMessage(err, "create user")
	}
	return out, nil
}

// Update replaces user id. A blank password in payload is not sent.
func (s *UserService) Update(ctx context.Context, id string, payload domain.UserPayload) (domain.User, error) {
	var out domain.User
	r, err := jsonRequest(http.MethodPut, "/user/"+url.PathEscape(id), payload)
	if err != nil {
		return out, err
	}
	if err = s.c.do(ctx, r, &out); err != nil {
		return out, errors.WithMessage(err, "update user")
	}
	return out, nil
}
