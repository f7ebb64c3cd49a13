package pages

import (
	"io"

	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/internal/export"
	"github.com/talkincode/shopdesk/internal/form"
	"github.com/talkincode/shopdesk/internal/view"
)

const (
	ProductsPage   = "products"
	CategoriesPage = "categories"
	BrandsPage     = "brands"
	UsersPage      = "users"
)

// Products is the product page; it also loads the category and brand pickers
type Products struct {
	*Page[domain.Product]
}

func NewProducts(d Deps) *Products {
	p := newPage(d, ProductsPage, form.KindProduct, d.Client.Products.List, view.ProductColumns,
		func(p domain.Product) string { return cast.ToString(p.ID) }, export.Products)
	p.emptyText = "No products found."
	p.options = &OptionLoader{Categories: d.Client.Categories, Brands: d.Client.Brands}
	return &Products{Page: p}
}

// Render adds the price summary below the product table
func (p *Products) Render(w io.Writer) error {
	if err := p.Page.Render(w); err != nil {
		return err
	}
	if sum, ok := view.SummarizePrices(p.List().State().Items()); ok {
		return view.Summary(w, sum)
	}
	return nil
}

func NewCategories(d Deps) *Page[domain.Category] {
	p := newPage(d, CategoriesPage, form.KindCategory, d.Client.Categories.List, view.CategoryColumns,
		func(c domain.Category) string { return cast.ToString(c.ID) }, export.Categories)
	p.emptyText = "No categories yet."
	return p
}

func NewBrands(d Deps) *Page[domain.Brand] {
	p := newPage(d, BrandsPage, form.KindBrand, d.Client.Brands.List, view.BrandColumns,
		func(b domain.Brand) string { return cast.ToString(b.ID) }, export.Brands)
	p.emptyText = "No brands yet."
	return p
}

// NewUsers builds the user page, which needs the admin role
func NewUsers(d Deps) *Page[domain.User] {
	p := newPage(d, UsersPage, form.KindUser, d.Client.Users.List, view.UserColumns,
		func(u domain.User) string { return u.ID }, export.Users)
	p.emptyText = "No users."
	p.role = domain.RoleAdmin
	return p
}
