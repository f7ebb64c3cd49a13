package apiclient

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/internal/domain"
)

type recorded struct {
	method  string
	path    string
	query   url.Values
	header  http.Header
	body    []byte
	ctype   string
	partMap map[string]string
	files   map[string][]byte
}

type recorder struct {
	mu     sync.Mutex
	calls  []recorded
	status int
	reply  string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rec := recorded{
		method: req.Method,
		path:   req.URL.Path,
		query:  req.URL.Query(),
		header: req.Header.Clone(),
		ctype:  req.Header.Get("Content-Type"),
	}
	mt, params, _ := mime.ParseMediaType(rec.ctype)
	if mt == "multipart/form-data" {
		rec.partMap = map[string]string{}
		rec.files = map[string][]byte{}
		mr := multipart.NewReader(req.Body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(p)
			if p.FileName() != "" {
				rec.files[p.FormName()] = data
			} else {
				rec.partMap[p.FormName()] = string(data)
			}
		}
	} else {
		rec.body, _ = io.ReadAll(req.Body)
	}
	r.mu.Lock()
	r.calls = append(r.calls, rec)
	status, reply := r.status, r.reply
	r.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

func (r *recorder) last(t *testing.T) recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.calls)
	return r.calls[len(r.calls)-1]
}

func newTestClient(t *testing.T, rec *recorder, opts ...Option) *Client {
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", opts...)
}

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func TestBuildQuery_OmitsAllAndEmpty(t *testing.T) {
	q := BuildQuery(domain.Filter{
		Name:       "",
		CategoryID: domain.All,
		BrandID:    "3",
		IsActive:   domain.All,
		MinPrice:   " ",
	}, domain.Pagination{Limit: 10, Offset: 20})
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "20", q.Get("offset"))
	assert.Equal(t, "3", q.Get("brandId"))
	for _, k := range []string{"name", "categoryId", "isActive", "minPrice", "maxPrice"} {
		_, ok := q[k]
		assert.False(t, ok, k)
	}
}

func TestProducts_List(t *testing.T) {
	rec := &recorder{reply: `{"items":[{"id":1,"name":"Cola","price":"1.50","isActive":true,"category":{"id":2,"name":"Gaseosas"}}],"total":21,"limit":10,"offset":10}`}
	c := newTestClient(t, rec, WithTokenSource(staticToken("tok")))

	res, err := c.Products.List(context.Background(), domain.Filter{Name: "co", IsActive: "true"}, domain.PageOf(2, 10))
	require.NoError(t, err)
	assert.Equal(t, 21, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(2), res.Items[0].CategoryID())

	got := rec.last(t)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/products", got.path)
	assert.Equal(t, "co", got.query.Get("name"))
	assert.Equal(t, "true", got.query.Get("isActive"))
	assert.Equal(t, "10", got.query.Get("offset"))
	assert.Equal(t, "Bearer tok", got.header.Get("Authorization"))
	assert.NotEmpty(t, got.header.Get("X-Request-Id"))
	assert.Equal(t, int64(1), c.Calls())
}

func TestCategories_ListBareArray(t *testing.T) {
	rec := &recorder{reply: `[{"id":1,"name":"Gaseosas","isActive":true},{"id":2,"name":"Lácteos","isActive":false}]`}
	c := newTestClient(t, rec)

	res, err := c.Categories.List(context.Background(), domain.Filter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.True(t, res.Unpaged)
	assert.Equal(t, "Lácteos", res.Items[1].Name)
	assert.Empty(t, rec.last(t).header.Get("Authorization"))
}

func TestStatusError_WithMessage(t *testing.T) {
	rec := &recorder{status: http.StatusConflict, reply: `{"message":"category already exists"}`}
	c := newTestClient(t, rec)

	_, err := c.Categories.Create(context.Background(), domain.CatalogPayload{Name: "Gaseosas"})
	require.Error(t, err)
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.Equal(t, "category already exists", ae.Message)
	assert.False(t, IsTransport(err))
}

func TestStatusError_MessageList(t *testing.T) {
	rec := &recorder{status: http.StatusBadRequest, reply: `{"message":["name should not be empty","price must be a number"]}`}
	c := newTestClient(t, rec)

	_, err := c.Brands.Update(context.Background(), 4, domain.CatalogPayload{})
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "name should not be empty; price must be a number", ae.Message)
}

func TestStatusError_WithoutMessage(t *testing.T) {
	rec := &recorder{status: http.StatusInternalServerError, reply: `oops`}
	c := newTestClient(t, rec)

	_, err := c.Users.List(context.Background(), domain.Filter{}, domain.Pagination{})
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: 500", ae.Message)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	root := srv.URL + "/api"
	srv.Close()

	c := New(root)
	_, err := c.Products.List(context.Background(), domain.Filter{}, domain.PageOf(1, 10))
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	_, isStatus := AsAPIError(err)
	assert.False(t, isStatus)
}

func TestUsers_UpdateBlankPasswordOmitted(t *testing.T) {
	rec := &recorder{reply: `{"id":"u1","username":"john"}`}
	c := newTestClient(t, rec)

	_, err := c.Users.Update(context.Background(), "u1", domain.UserPayload{
		Username: "john", Email: "john@shop.test", FullName: "John Doe", IsActive: true,
		Roles: []domain.Role{domain.RoleSales},
	})
	require.NoError(t, err)
	got := rec.last(t)
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/user/u1", got.path)
	body := string(got.body)
	assert.NotContains(t, body, "password")
	assert.Contains(t, body, `"username":"john"`)
	assert.Contains(t, body, `"fullName":"John Doe"`)
	assert.Contains(t, body, `"isActive":true`)
}

func TestUsers_CreateGoesToRegister(t *testing.T) {
	rec := &recorder{reply: `{"id":"u2"}`}
	c := newTestClient(t, rec)

	u, err := c.Users.Create(context.Background(), domain.UserPayload{Username: "maria", Password: "Secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)
	got := rec.last(t)
	assert.Equal(t, "/api/auth/register", got.path)
	assert.Contains(t, string(got.body), `"password":"Secret1"`)
}

func TestProducts_UpdateWithoutPhoto(t *testing.T) {
	rec := &recorder{reply: `{"id":7,"name":"Cola","price":"2.00"}`}
	c := newTestClient(t, rec)

	p, err := c.Products.Update(context.Background(), 7, domain.ProductPayload{
		Name: "Cola", Price: "2.00", IsActive: true, CategoryID: 1, BrandID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Decimal("2.00"), p.Price)

	got := rec.last(t)
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/products/7", got.path)
	assert.True(t, strings.HasPrefix(got.ctype, "multipart/form-data"))
	assert.Equal(t, "Cola", got.partMap["name"])
	assert.Equal(t, "true", got.partMap["isActive"])
	assert.Equal(t, "1", got.partMap["categoryId"])
	assert.Empty(t, got.files)
	_, hasPhoto := got.partMap["photo"]
	assert.False(t, hasPhoto)
}

func TestProducts_CreateWithPhoto(t *testing.T) {
	rec := &recorder{reply: `{"id":8}`}
	c := newTestClient(t, rec)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	_, err := c.Products.Create(context.Background(), domain.ProductPayload{
		Name: "Agua", Price: "1", CategoryID: 1, BrandID: 1,
		Photo: &domain.Attachment{Data: png},
	})
	require.NoError(t, err)
	got := rec.last(t)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, png, got.files["photo"])
}

func TestAuth_LoginRequiresToken(t *testing.T) {
	rec := &recorder{reply: `{"id":"u1"}`}
	c := newTestClient(t, rec)
	_, err := c.Auth.Login(context.Background(), "a@b.c", "x")
	assert.Error(t, err)
}
