package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

// ProductService wraps /products
type ProductService struct {
	c *Client
}

// List fetches one page of products matching f
func (s *ProductService) List(ctx context.Context, f domain.Filter, p domain.Pagination) (domain.PagedResult[domain.Product], error) {
	var body pagedBody[domain.Product]
	err := s.c.do(ctx, request{method: http.MethodGet, path: "/products", query: BuildQuery(f, p)}, &body)
	if err != nil {
		return domain.PagedResult[domain.Product]{}, errors.WithMessage(err, "list products")
	}
	return body.result, nil
}

// Create posts a new product as multipart form data
func (s *ProductService) Create(ctx context.Context, payload domain.ProductPayload) (domain.Product, error) {
	return s.write(ctx, http.MethodPost, "/products", payload)
}

// Update replaces product id. A payload without Photo leaves the stored image alone.
func (s *ProductService) Update(ctx context.Context, id int64, payload domain.ProductPayload) (domain.Product, error) {
	return s.write(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), payload)
}

func (s *ProductService) write(ctx context.Context, method, path string, payload domain.ProductPayload) (domain.Product, error) {
	body, ctype, err := EncodeProductForm(payload)
	if err != nil {
		return domain.Product{}, err
	}
	var out domain.Product
	err = s.c.do(ctx, request{method: method, path: path, body: body, contentType: ctype}, &out)
	if err != nil {
		return domain.Product{}, errors.WithMessagef(err, "%s product", verb(method))
	}
	return out, nil
}

func verb(method string) string {
	if method == http.MethodPost {
		return "create"
	}
	return "update"
}
