package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/pkg/common"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenSource supplies the bearer token of the current session, empty when signed out
type TokenSource interface {
	AccessToken() string
}

// Client is the HTTP client for the shop backend. Calls are single-shot: no retry and
// no timeout beyond what the caller's context imposes.
type Client struct {
	root   string
	hc     *http.Client
	tokens TokenSource
	calls  atomic.Int64

	Products   *ProductService
	Categories *CatalogService[domain.Category]
	Brands     *CatalogService[domain.Brand]
	Users      *UserService
	Auth       *AuthService
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTokenSource attaches a session token source
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New creates a client rooted at root, e.g. http://localhost:3001/api
func New(root string, opts ...Option) *Client {
	c := &Client{
		root: strings.TrimRight(root, "/"),
		hc:   &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Products = &ProductService{c: c}
	c.Categories = &CatalogService[domain.Category]{c: c, path: "/categories"}
	c.Brands = &CatalogService[domain.Brand]{c: c, path: "/brands"}
	c.Users = &UserService{c: c}
	c.Auth = &AuthService{c: c}
	return c
}

// SetTokenSource attaches ts; call it before the client is shared
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Root returns the API root URL
func (c *Client) Root() string {
	return c.root
}

// Calls returns the number of requests issued so far
func (c *Client) Calls() int64 {
	return c.calls.Load()
}

// request is one outgoing call
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, payload interface{}) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, errors.Wrap(err, "encode request body")
	}
	return request{method: method, path: path, body: body, contentType: "application/json"}, nil
}

// do executes r and decodes a 2xx body into out (when out is non-nil)
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	u := c.root + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	reqID := common.RequestID()
	headers := gout.H{
		"X-Request-Id": reqID,
		"Accept":       "application/json",
	}
	if r.contentType != "" {
		headers["Content-Type"] = r.contentType
	}
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			headers["Authorization"] = "Bearer " + tok
		}
	}

	g := gout.New(c.hc)
	start := g.GET
	switch r.method {
	case http.MethodPost:
		start = g.POST
	case http.MethodPut:
		start = g.PUT
	case http.MethodDelete:
		start = g.DELETE
	}
	flow := start(u).WithContext(ctx).SetHeader(headers)
	if r.body != nil {
		flow = flow.SetBody(r.body)
	}

	var (
		raw  string
		code int
	)
	c.calls.Add(1)
	err := flow.BindBody(&raw).Code(&code).Do()
	if err != nil {
		zap.L().Warn("backend request failed",
			zap.String("namespace", "apiclient"),
			zap.String("method", r.method),
			zap.String("url", u),
			zap.String("request_id", reqID),
			zap.Error(err))
		return &TransportError{Op: r.method + " " + r.path, Err: err}
	}
	zap.L().Debug("backend request",
		zap.String("namespace", "apiclient"),
		zap.String("method", r.method),
		zap.String("url", u),
		zap.String("request_id", reqID),
		zap.Int("status", code))

	if code < 200 || code > 299 {
		return statusError(code, []byte(raw))
	}
	if out == nil || strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", r.method, r.path)
	}
	return nil
}
