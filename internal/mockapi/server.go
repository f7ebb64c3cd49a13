package mockapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"go.uber.org/zap"
)

// Config of the fake backend
type Config struct {
	JwtSecret string
	Seed      bool
}

// Server is an echo application serving the shop REST API from memory
type Server struct {
	e      *echo.Echo
	store  *Store
	secret []byte
}

type errorBody struct {
	Message string `json:"message"`
}

type pagedBody struct {
	Items  interface{} `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorBody{Message: msg})
}

func ok(c echo.Context, v interface{}) error {
	return c.JSON(http.StatusOK, v)
}

func created(c echo.Context, v interface{}) error {
	return c.JSON(http.StatusCreated, v)
}

func paged(c echo.Context, items interface{}, total, limit, offset int) error {
	return c.JSON(http.StatusOK, pagedBody{Items: items, Total: total, Limit: limit, Offset: offset})
}

// parsePagination reads limit/offset; limit defaults to 10 and is capped at 100
func parsePagination(c echo.Context) (limit, offset int) {
	limit, offset = 10, 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// New builds the server; Seed loads the demo catalog and accounts
func New(cfg Config) *Server {
	if cfg.JwtSecret == "" {
		cfg.JwtSecret = "shopdesk-dev-secret"
	}
	s := &Server{
		e:      echo.New(),
		store:  NewStore(),
		secret: []byte(cfg.JwtSecret),
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.errorHandler
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "" },
		RequestIDHandler: func(c echo.Context, id string) {
			zap.L().Debug("mockapi request",
				zap.String("namespace", "mockapi"),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", id))
		},
	}))
	if cfg.Seed {
		s.seed()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.e.Group("/api")
	api.POST("/auth/login", s.login)

	protected := api.Group("", s.authMiddleware())
	protected.POST("/auth/logout", s.logout)
	protected.POST("/auth/register", s.createUser, s.requireRole("admin"))
	protected.GET("/user", s.listUsers, s.requireRole("admin"))
	protected.PUT("/user/:id", s.updateUser, s.requireRole("admin"))

	protected.GET("/products", s.listProducts)
	protected.POST("/products", s.createProduct)
	protected.PUT("/products/:id", s.updateProduct)

	categories := catalogHandlers[domain.Category]{s: s, noun: "Category", table: categoryTable{s.store}}
	protected.GET("/categories", categories.list)
	protected.POST("/categories", categories.create)
	protected.PUT("/categories/:id", categories.update)

	brands := catalogHandlers[domain.Brand]{s: s, noun: "Brand", table: brandTable{s.store}}
	protected.GET("/brands", brands.list)
	protected.POST("/brands", brands.create)
	protected.PUT("/brands/:id", brands.update)

	s.e.GET("/uploads/:name", s.servePhoto)
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := http.StatusInternalServerError, err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, isStr := he.Message.(string); isStr {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("mockapi handler error", zap.String("namespace", "mockapi"), zap.Error(err))
	}
	_ = fail(c, status, msg)
}

// Handler exposes the server for httptest
func (s *Server) Handler() http.Handler {
	return s.e
}

// Store exposes the backing tables
func (s *Server) Store() *Store {
	return s.store
}

// Start listens on addr until Shutdown
func (s *Server) Start(addr string) error {
	zap.S().Infof("mockapi listening on %s", addr)
	err := s.e.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
