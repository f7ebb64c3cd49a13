package form

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/apiclient"
	"github.com/talkincode/shopdesk/internal/domain"
)

type Kind string

const (
	KindCategory Kind = "category"
	KindBrand    Kind = "brand"
	KindProduct  Kind = "product"
	KindUser     Kind = "user"
)

type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

// ProductWriter is the slice of the product API a form needs
type ProductWriter interface {
	Create(ctx context.Context, payload domain.ProductPayload) (domain.Product, error)
	Update(ctx context.Context, id int64, payload domain.ProductPayload) (domain.Product, error)
}

// CatalogWriter writes categories or brands
type CatalogWriter[T any] interface {
	Create(ctx context.Context, payload domain.CatalogPayload) (T, error)
	Update(ctx context.Context, id int64, payload domain.CatalogPayload) (T, error)
}

type UserWriter interface {
	Create(ctx context.Context, payload domain.UserPayload) (domain.User, error)
	Update(ctx context.Context, id string, payload domain.UserPayload) (domain.User, error)
}

// Backend groups the writers used by form submission
type Backend struct {
	Products   ProductWriter
	Categories CatalogWriter[domain.Category]
	Brands     CatalogWriter[domain.Brand]
	Users      UserWriter
}

// BackendFrom exposes the writers of an API client
func BackendFrom(c *apiclient.Client) Backend {
	return Backend{
		Products:   c.Products,
		Categories: c.Categories,
		Brands:     c.Brands,
		Users:      c.Users,
	}
}

// Spec is the configuration of one form kind
type Spec struct {
	Kind        Kind
	Titles      [2]string // indexed by Mode
	Description [2]string
	Fields      []string
	Validate    func(d Draft, m Mode) FieldErrors
	Submit      func(ctx context.Context, b Backend, m Mode, id string, d Draft) (interface{}, error)
}

// Title returns the heading for mode m
func (s Spec) Title(m Mode) string {
	return s.Titles[m]
}

var registry = map[Kind]Spec{
	KindCategory: catalogSpec(KindCategory, "Category", func(b Backend) CatalogWriter[domain.Category] { return b.Categories }),
	KindBrand:    catalogSpec(KindBrand, "Brand", func(b Backend) CatalogWriter[domain.Brand] { return b.Brands }),
	KindProduct: {
		Kind:        KindProduct,
		Titles:      [2]string{"New product", "Edit product"},
		Description: [2]string{"Fill in the product details.", "Change the product details."},
		Fields:      []string{"name", "price", "categoryId", "brandId", "isActive", "photo"},
		Validate:    validateProduct,
		Submit:      submitProduct,
	},
	KindUser: {
		Kind:        KindUser,
		Titles:      [2]string{"New user", "Edit user"},
		Description: [2]string{"Create a back-office account.", "Leave the password blank to keep it."},
		Fields:      []string{"username", "email", "fullName", "password", "roles", "isActive"},
		Validate:    validateUser,
		Submit:      submitUser,
	},
}

// Lookup returns the spec registered for kind
func Lookup(kind Kind) (Spec, error) {
	s, ok := registry[kind]
	if !ok {
		return Spec{}, errors.Errorf("unknown form kind %q", kind)
	}
	return s, nil
}

// Kinds lists the registered kinds
func Kinds() []Kind {
	return []Kind{KindCategory, KindBrand, KindProduct, KindUser}
}

type catalogRules struct {
	Name string `json:"name" validate:"required"`
}

func catalogSpec[T any](kind Kind, noun string, writer func(Backend) CatalogWriter[T]) Spec {
	lower := strings.ToLower(noun)
	return Spec{
		Kind:        kind,
		Titles:      [2]string{"New " + lower, "Edit " + lower},
		Description: [2]string{"Create a new " + lower + ".", "Change the " + lower + " name or status."},
		Fields:      []string{"name", "isActive"},
		Validate: func(d Draft, _ Mode) FieldErrors {
			return check(catalogRules{Name: strings.TrimSpace(d.Name)})
		},
		Submit: func(ctx context.Context, b Backend, m Mode, id string, d Draft) (interface{}, error) {
			w := writer(b)
			if w == nil {
				return nil, errors.Errorf("no %s backend", lower)
			}
			active := d.IsActive
			payload := domain.CatalogPayload{Name: strings.TrimSpace(d.Name), IsActive: &active}
			if m == Edit {
				return w.Update(ctx, cast.ToInt64(id), payload)
			}
			return w.Create(ctx, payload)
		},
	}
}

type productRules struct {
	Name       string `json:"name" validate:"required"`
	Price      string `json:"price" validate:"required,price"`
	CategoryID int64  `json:"categoryId" validate:"gt=0"`
	BrandID    int64  `json:"brandId" validate:"gt=0"`
}

type productEditRules struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required,price"`
}

func validateProduct(d Draft, m Mode) FieldErrors {
	name, price := strings.TrimSpace(d.Name), strings.TrimSpace(d.Price)
	if m == Edit {
		return check(productEditRules{Name: name, Price: price})
	}
	return check(productRules{Name: name, Price: price, CategoryID: d.CategoryID, BrandID: d.BrandID})
}

func submitProduct(ctx context.Context, b Backend, m Mode, id string, d Draft) (interface{}, error) {
	if b.Products == nil {
		return nil, errors.New("no product backend")
	}
	payload := domain.ProductPayload{
		Name:       strings.TrimSpace(d.Name),
		Price:      strings.TrimSpace(d.Price),
		IsActive:   d.IsActive,
		CategoryID: d.CategoryID,
		BrandID:    d.BrandID,
		Photo:      d.Photo,
	}
	if m == Edit {
		return b.Products.Update(ctx, cast.ToInt64(id), payload)
	}
	return b.Products.Create(ctx, payload)
}

type userRules struct {
	Username string        `json:"username" validate:"min=4,max=50"`
	Email    string        `json:"email" validate:"required,shopemail"`
	FullName string        `json:"fullName" validate:"min=2,max=100"`
	Password string        `json:"password" validate:"required,password"`
	Roles    []domain.Role `json:"roles" validate:"min=1,dive,oneof=admin sales"`
}

type userEditRules struct {
	Username string        `json:"username" validate:"min=4,max=50"`
	Email    string        `json:"email" validate:"required,shopemail"`
	FullName string        `json:"fullName" validate:"min=2,max=100"`
	Password string        `json:"password" validate:"omitempty,password"`
	Roles    []domain.Role `json:"roles" validate:"min=1,dive,oneof=admin sales"`
}

func normalizeUser(d Draft) Draft {
	d.Username = strings.ToLower(strings.TrimSpace(d.Username))
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FullName = strings.TrimSpace(d.FullName)
	return d
}

func validateUser(d Draft, m Mode) FieldErrors {
	d = normalizeUser(d)
	if m == Edit {
		return check(userEditRules{d.Username, d.Email, d.FullName, d.Password, d.Roles})
	}
	return check(userRules{d.Username, d.Email, d.FullName, d.Password, d.Roles})
}

func submitUser(ctx context.Context, b Backend, m Mode, id string, d Draft) (interface{}, error) {
	if b.Users == nil {
		return nil, errors.New("no user backend")
	}
	d = normalizeUser(d)
	payload := domain.UserPayload{
		Username: d.Username,
		Email:    d.Email,
		FullName: d.FullName,
		Password: d.Password,
		IsActive: d.IsActive,
		Roles:    d.Roles,
	}
	if m == Edit {
		return b.Users.Update(ctx, id, payload)
	}
	return b.Users.Create(ctx, payload)
}
