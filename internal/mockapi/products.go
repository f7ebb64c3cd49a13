package mockapi

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
)

const maxPhotoSize = 4 << 20

// hydrate replaces the category and brand refs with their current records
func (s *Server) hydrate(p domain.Product) domain.Product {
	if p.Category != nil {
		if c, found := s.store.categories.Get(domain.Category{ID: p.Category.ID}); found {
			p.Category = &c
		}
	}
	if p.Brand != nil {
		if b, found := s.store.brands.Get(domain.Brand{ID: p.Brand.ID}); found {
			p.Brand = &b
		}
	}
	return p
}

func (s *Server) listProducts(c echo.Context) error {
	limit, offset := parsePagination(c)
	name := strings.TrimSpace(c.QueryParam("name"))
	categoryID := cast.ToInt64(c.QueryParam("categoryId"))
	brandID := cast.ToInt64(c.QueryParam("brandId"))
	active := strings.TrimSpace(c.QueryParam("isActive"))
	minPrice, hasMin := priceParam(c, "minPrice")
	maxPrice, hasMax := priceParam(c, "maxPrice")

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var matched []domain.Product
	s.store.products.Ascend(func(p domain.Product) bool {
		switch {
		case name != "" && !containsFold(p.Name, name):
		case categoryID > 0 && p.CategoryID() != categoryID:
		case brandID > 0 && p.BrandID() != brandID:
		case active != "" && cast.ToBool(active) != p.IsActive:
		case hasMin && p.Price.Float() < minPrice:
		case hasMax && p.Price.Float() > maxPrice:
		default:
			matched = append(matched, p)
		}
		return true
	})
	items := make([]domain.Product, 0, limit)
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		items = append(items, s.hydrate(matched[i]))
	}
	return paged(c, items, len(matched), limit, offset)
}

func priceParam(c echo.Context, key string) (float64, bool) {
	v := strings.TrimSpace(c.QueryParam(key))
	if v == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}

// productForm reads the multipart fields of a product write. Absent fields stay nil-valued.
type productForm struct {
	name       *string
	price      *string
	isActive   *bool
	categoryID *int64
	brandID    *int64
	photo      *photo
	photoExt   string
}

func readProductForm(c echo.Context) (productForm, error) {
	var f productForm
	form, err := c.MultipartForm()
	if err != nil {
		return f, errors.Wrap(err, "parse multipart form")
	}
	value := func(key string) (string, bool) {
		vs, found := form.Value[key]
		if !found || len(vs) == 0 {
			return "", false
		}
		return strings.TrimSpace(vs[0]), true
	}
	if v, found := value("name"); found {
		f.name = &v
	}
	if v, found := value("price"); found {
		f.price = &v
	}
	if v, found := value("isActive"); found {
		b := cast.ToBool(v)
		f.isActive = &b
	}
	if v, found := value("categoryId"); found {
		id := cast.ToInt64(v)
		f.categoryID = &id
	}
	if v, found := value("brandId"); found {
		id := cast.ToInt64(v)
		f.brandID = &id
	}
	if files := form.File["photo"]; len(files) > 0 {
		fh := files[0]
		if fh.Size > maxPhotoSize {
			return f, errors.New("photo exceeds 4MB")
		}
		src, err := fh.Open()
		if err != nil {
			return f, errors.Wrap(err, "open photo")
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			return f, errors.Wrap(err, "read photo")
		}
		mt := mimetype.Detect(data)
		if !strings.HasPrefix(mt.String(), "image/") {
			return f, errors.New("photo must be an image")
		}
		f.photo = &photo{ContentType: mt.String(), Data: data}
		f.photoExt = mt.Extension()
		if f.photoExt == "" {
			f.photoExt = filepath.Ext(fh.Filename)
		}
	}
	return f, nil
}

// apply validates f and merges it into p
func (s *Server) apply(c echo.Context, p *domain.Product, f productForm) (int, string) {
	if f.name != nil {
		p.Name = *f.name
	}
	if p.Name == "" {
		return http.StatusBadRequest, "name should not be empty"
	}
	if f.price != nil {
		v, err := cast.ToFloat64E(*f.price)
		if *f.price == "" || err != nil || v < 0 {
			return http.StatusBadRequest, "price must be a positive number"
		}
		p.Price = domain.Decimal(*f.price)
	}
	if p.Price == "" {
		return http.StatusBadRequest, "price must be a positive number"
	}
	if f.isActive != nil {
		p.IsActive = *f.isActive
	}
	if f.categoryID != nil {
		if _, found := s.store.categories.Get(domain.Category{ID: *f.categoryID}); !found {
			return http.StatusBadRequest, "Category not found"
		}
		p.Category = &domain.Category{ID: *f.categoryID}
	}
	if p.Category == nil {
		return http.StatusBadRequest, "categoryId is required"
	}
	if f.brandID != nil {
		if _, found := s.store.brands.Get(domain.Brand{ID: *f.brandID}); !found {
			return http.StatusBadRequest, "Brand not found"
		}
		p.Brand = &domain.Brand{ID: *f.brandID}
	}
	if p.Brand == nil {
		return http.StatusBadRequest, "brandId is required"
	}
	if f.photo != nil {
		name := "product-" + strconv.FormatInt(p.ID, 10) + "-" + strconv.Itoa(len(s.store.photos)+1) + f.photoExt
		s.store.photos[name] = *f.photo
		p.Photo = c.Scheme() + "://" + c.Request().Host + "/uploads/" + name
	}
	return 0, ""
}

func (s *Server) createProduct(c echo.Context) error {
	f, err := readProductForm(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p := domain.Product{ID: s.store.nextID + 1, IsActive: true}
	if status, msg := s.apply(c, &p, f); status != 0 {
		return fail(c, status, msg)
	}
	p.ID = s.store.id()
	s.store.products.ReplaceOrInsert(p)
	return created(c, s.hydrate(p))
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID")
	}
	f, err := readProductForm(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, found := s.store.products.Get(domain.Product{ID: id})
	if !found {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	if status, msg := s.apply(c, &p, f); status != 0 {
		return fail(c, status, msg)
	}
	s.store.products.ReplaceOrInsert(p)
	return ok(c, s.hydrate(p))
}

func (s *Server) servePhoto(c echo.Context) error {
	s.store.mu.RLock()
	ph, found := s.store.photos[c.Param("name")]
	s.store.mu.RUnlock()
	if !found {
		return fail(c, http.StatusNotFound, "Photo not found")
	}
	return c.Blob(http.StatusOK, ph.ContentType, ph.Data)
}
