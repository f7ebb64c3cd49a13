package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/config"
	"github.com/talkincode/shopdesk/internal/form"
	"github.com/talkincode/shopdesk/internal/mockapi"
	"github.com/talkincode/shopdesk/internal/session"
)

type harness struct {
	t   *testing.T
	cfg *config.AppConfig
}

func newHarness(t *testing.T) *harness {
	srv := httptest.NewServer(mockapi.New(mockapi.Config{Seed: true}).Handler())
	t.Cleanup(srv.Close)
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Api.BaseURL = srv.URL
	cfg.Session.Filename = filepath.Join(cfg.System.Workdir, "data", "session.db")
	return &harness{t: t, cfg: cfg}
}

// run executes one invocation; the session survives in the bolt file between runs
func (h *harness) run(stdin string, args ...string) (string, error) {
	cfg := *h.cfg
	var out bytes.Buffer
	err := Execute(context.Background(), args, strings.NewReader(stdin), &out, WithConfig(&cfg))
	return out.String(), err
}

func (h *harness) login(email, password string) {
	out, err := h.run("", "login", "--email", email, "--password", password)
	require.NoError(h.t, err)
	require.Contains(h.t, out, "Signed in as "+email)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "whoami")
	assert.ErrorIs(t, err, session.ErrNoSession)

	h.login(mockapi.AdminEmail, mockapi.AdminPassword)
	out, err := h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "<"+mockapi.AdminEmail+">")
	assert.Contains(t, out, "roles: admin")

	out, err = h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	_, err = h.run("", "whoami")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogin_BadPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "login", "--email", mockapi.AdminEmail, "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestProductsList_Filters(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.SalesEmail, mockapi.SalesPassword)
	out, err := h.run("", "products", "list", "--category", "2", "--active", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "Leche Gloria 1L")
	assert.NotContains(t, out, "Yogurt Fresa 1L")
	assert.Contains(t, out, "(3 total)")
	assert.Contains(t, out, "[category: Lácteos ×]")
}

func TestProductsList_NeedsSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "products", "list")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestUsersList_AdminOnly(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.SalesEmail, mockapi.SalesPassword)
	_, err := h.run("", "users", "list")
	assert.ErrorIs(t, err, session.ErrForbidden)
}

func TestCategoriesCreate_ShowsRefreshedList(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.AdminEmail, mockapi.AdminPassword)
	out, err := h.run("", "categories", "create", "--name", "Beverages")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved category.")
	assert.Contains(t, out, "Beverages")
	assert.Contains(t, out, "(4 total)")
}

func TestUsersCreate_ValidationPrintsForm(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.AdminEmail, mockapi.AdminPassword)
	out, err := h.run("", "users", "create", "--username", "abc", "--email", "abc@shop.test",
		"--full-name", "Abc Def", "--password", "Secret1", "--roles", "sales")
	require.Error(t, err)
	assert.True(t, form.IsValidation(err))
	assert.Contains(t, out, "username")
	assert.Contains(t, out, "4 and 50")
}

func TestProductsEdit_OnSecondPage(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.AdminEmail, mockapi.AdminPassword)
	out, err := h.run("", "products", "edit", "18", "--price", "7.90")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved product.")

	out, err = h.run("", "products", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "7.90")
}

func TestProductsExport_CSVFile(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.SalesEmail, mockapi.SalesPassword)
	path := filepath.Join(t.TempDir(), "snacks.csv")
	out, err := h.run("", "products", "export", "--category", "3", "--format", "csv", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, string(data), "Doritos 90g")
}

func TestProductsExport_BadFormat(t *testing.T) {
	h := newHarness(t)
	h.login(mockapi.SalesEmail, mockapi.SalesPassword)
	_, err := h.run("", "products", "export", "--format", "pdf")
	assert.EqualError(t, err, `unsupported export format "pdf"`)
}

func TestBrowse_DrivesConsole(t *testing.T) {
	h := newHarness(t)
	h.cfg.List.DebounceMs = 10
	h.login(mockapi.SalesEmail, mockapi.SalesPassword)
	out, err := h.run("/doritos\nx 1\nq\n", "browse", "products", "--category", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 total)")
	assert.Contains(t, out, "(1 total)")
	assert.Contains(t, out, "products> ")
}

func TestBrowse_UnknownResource(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "browse", "orders")
	assert.ErrorContains(t, err, `unknown resource "orders"`)
}
