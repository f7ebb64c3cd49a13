package mockapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/internal/apiclient"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/internal/session"
)

type harness struct {
	srv     *httptest.Server
	client  *apiclient.Client
	session *session.Manager
}

func newHarness(t *testing.T) *harness {
	srv := httptest.NewServer(New(Config{JwtSecret: "test-secret", Seed: true}).Handler())
	t.Cleanup(srv.Close)
	h := &harness{srv: srv}
	var tokens tokenFunc = func() string { return h.session.AccessToken() }
	h.client = apiclient.New(srv.URL+"/api", apiclient.WithTokenSource(tokens))
	h.session = session.NewManager(session.NewCredentialsProvider(h.client.Auth), nil, nil)
	return h
}

type tokenFunc func() string

func (f tokenFunc) AccessToken() string { return f() }

func (h *harness) signIn(t *testing.T, email, password string) *domain.Session {
	s, err := h.session.SignIn(context.Background(), email, password)
	require.NoError(t, err)
	return s
}

func TestLogin_IssuesSessionWithExpiry(t *testing.T) {
	h := newHarness(t)
	s := h.signIn(t, "Admin@ShopDesk.local", AdminPassword)
	assert.Equal(t, "admin", s.User.Username)
	assert.True(t, s.User.HasRole(domain.RoleAdmin))
	assert.False(t, s.ExpiresAt.IsZero())
	assert.NotEmpty(t, s.RefreshToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.SignIn(context.Background(), AdminEmail, "wrong")
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Invalid credentials", ae.Message)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)
	_, err := h.client.Products.List(context.Background(), domain.Filter{}, domain.PageOf(1, 10))
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Unauthorized", ae.Message)
}

func TestProducts_PagingAndFilters(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, SalesEmail, SalesPassword)
	ctx := context.Background()

	page1, err := h.client.Products.List(ctx, domain.Filter{}, domain.PageOf(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 12, page1.Total)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, "Gaseosas", page1.Items[0].Category.Name)
	assert.Equal(t, 2, domain.TotalPages(page1.Total, 10))

	page2, err := h.client.Products.List(ctx, domain.Filter{}, domain.PageOf(2, 10))
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)

	res, err := h.client.Products.List(ctx, domain.Filter{CategoryID: "1", IsActive: domain.All}, domain.PageOf(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)

	res, err = h.client.Products.List(ctx, domain.Filter{IsActive: "false"}, domain.PageOf(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = h.client.Products.List(ctx, domain.Filter{Name: "COLA"}, domain.PageOf(1, 10))
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Coca-Cola 1.5L", res.Items[0].Name)

	res, err = h.client.Products.List(ctx, domain.Filter{MinPrice: "5", MaxPrice: "7"}, domain.PageOf(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
}

func TestCategories_CreateAndDuplicate(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, AdminEmail, AdminPassword)
	ctx := context.Background()

	c, err := h.client.Categories.Create(ctx, domain.CatalogPayload{Name: "Beverages"})
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	list, err := h.client.Categories.List(ctx, domain.Filter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, "Beverages", list.Items[3].Name)

	_, err = h.client.Categories.Create(ctx, domain.CatalogPayload{Name: "beverages"})
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.Equal(t, "Category already exists", ae.Message)

	inactive := false
	b, err := h.client.Brands.Update(ctx, 4, domain.CatalogPayload{Name: "Andina SA", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Andina SA", b.Name)
	assert.False(t, b.IsActive)
}

func TestProducts_CreateWithPhotoAndEditKeepsIt(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, AdminEmail, AdminPassword)
	ctx := context.Background()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

	p, err := h.client.Products.Create(ctx, domain.ProductPayload{
		Name: "Kola Real", Price: "3.10", IsActive: true, CategoryID: 1, BrandID: 4,
		Photo: &domain.Attachment{Filename: "kola.png", Data: png},
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.Photo)
	assert.Equal(t, "Andina", p.Brand.Name)

	resp, err := http.Get(p.Photo)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, png, body)

	edited, err := h.client.Products.Update(ctx, p.ID, domain.ProductPayload{
		Name: "Kola Real 1L", Price: "4.00", IsActive: false, CategoryID: 1, BrandID: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, p.Photo, edited.Photo)
	assert.Equal(t, "Kola Real 1L", edited.Name)
}

func TestProducts_ValidationErrors(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, AdminEmail, AdminPassword)
	_, err := h.client.Products.Create(context.Background(), domain.ProductPayload{Name: "Sin precio", CategoryID: 1, BrandID: 4})
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusBadRequest, ae.Status)

	_, err = h.client.Products.Update(context.Background(), 999, domain.ProductPayload{Name: "x", Price: "1"})
	ae, isAPI = apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusNotFound, ae.Status)
}

func TestUsers_AdminOnly(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, SalesEmail, SalesPassword)
	_, err := h.client.Users.List(context.Background(), domain.Filter{}, domain.Pagination{})
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusForbidden, ae.Status)
}

func TestUsers_RegisterAndEditWithoutPassword(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, AdminEmail, AdminPassword)
	ctx := context.Background()

	u, err := h.client.Users.Create(ctx, domain.UserPayload{
		Username: "maria", Email: "maria@shopdesk.local", FullName: "Maria Perez",
		Password: "Maria123", IsActive: true, Roles: []domain.Role{domain.RoleSales},
	})
	require.NoError(t, err)

	_, err = h.client.Users.Update(ctx, u.ID, domain.UserPayload{
		Username: "maria", Email: "maria@shopdesk.local", FullName: "Maria P. Perez",
		IsActive: true, Roles: []domain.Role{domain.RoleSales, domain.RoleAdmin},
	})
	require.NoError(t, err)

	users, err := h.client.Users.List(ctx, domain.Filter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 3, users.Total)

	require.NoError(t, h.session.SignOut(ctx))
	s := h.signIn(t, "maria@shopdesk.local", "Maria123")
	assert.True(t, s.User.HasRole(domain.RoleAdmin))
	assert.Equal(t, "Maria P. Perez", s.User.Name)
}

func TestUsers_DuplicateUsername(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, AdminEmail, AdminPassword)
	_, err := h.client.Users.Create(context.Background(), domain.UserPayload{
		Username: "admin", Email: "other@shopdesk.local", FullName: "Other", Password: "Other123",
		Roles: []domain.Role{domain.RoleSales},
	})
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.Equal(t, "Username already exists", ae.Message)
}

func TestLogout_RevokesToken(t *testing.T) {
	h := newHarness(t)
	s := h.signIn(t, AdminEmail, AdminPassword)
	ctx := context.Background()
	require.NoError(t, h.client.Auth.Logout(ctx))

	raw := apiclient.New(h.srv.URL+"/api", apiclient.WithTokenSource(tokenFunc(func() string { return s.AccessToken })))
	_, err := raw.Categories.List(ctx, domain.Filter{}, domain.Pagination{})
	ae, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
}
