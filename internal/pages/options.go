package pages

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CatalogLister lists categories or brands
type CatalogLister[T any] interface {
	List(ctx context.Context, f domain.Filter, p domain.Pagination) (domain.PagedResult[T], error)
}

// OptionLoader fetches category and brand pickers in parallel
type OptionLoader struct {
	Categories CatalogLister[domain.Category]
	Brands     CatalogLister[domain.Brand]
}

// Options loads both lists; the first failure cancels the other
func (l OptionLoader) Options(ctx context.Context) (categories, brands []domain.Option, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := l.Categories.List(gctx, domain.Filter{}, domain.Pagination{})
		if err != nil {
			return errors.WithMessage(err, "load categories")
		}
		categories = domain.CategoryOptions(res.Items)
		return nil
	})
	g.Go(func() error {
		res, err := l.Brands.List(gctx, domain.Filter{}, domain.Pagination{})
		if err != nil {
			return errors.WithMessage(err, "load brands")
		}
		brands = domain.BrandOptions(res.Items)
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, brands, nil
}
