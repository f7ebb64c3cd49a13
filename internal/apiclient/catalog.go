package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

// CatalogService wraps the category and brand resources, which share one shape
type CatalogService[T any] struct {
	c    *Client
	path string
}

func (s *CatalogService[T]) noun() string {
	return strings.TrimSuffix(strings.TrimPrefix(s.path, "/"), "s")
}

// List fetches categories or brands. A bare array answer is normalized into one page.
func (s *CatalogService[T]) List(ctx context.Context, f domain.Filter, p domain.Pagination) (domain.PagedResult[T], error) {
	var body pagedBody[T]
	err := s.c.do(ctx, request{method: http.MethodGet, path: s.path, query: BuildQuery(f, p)}, &body)
	if err != nil {
		return domain.PagedResult[T]{}, errors.WithMessagef(err, "list %s", strings.TrimPrefix(s.path, "/"))
	}
	return body.result, nil
}

// Create posts a new entry
func (s *CatalogService[T]) Create(ctx context.Context, payload domain.CatalogPayload) (T, error) {
	var out T
	r, err := jsonRequest(http.MethodPost, s.path, payload)
	if err != nil {
		return out, err
	}
	if err = s.c.do(ctx, r, &out); err != nil {
		return out, errors.WithMessagef(err, "create %s", s.noun())
	}
	return out, nil
}

// Update replaces entry id
func (s *CatalogService[T]) Update(ctx context.Context, id int64, payload domain.CatalogPayload) (T, error) {
	var out T
	r, err := jsonRequest(http.MethodPut, s.path+"/"+strconv.FormatInt(id, 10), payload)
	if err != nil {
		return out, err
	}
	if err = s.c.do(ctx, r, &out); err != nil {
		return out, errors.WithMessagef(err, "update %s", s.noun())
	}
	return out, nil
}
