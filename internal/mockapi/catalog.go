package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
)

// catalogTable adapts the category and brand trees to one handler set
type catalogTable[T any] interface {
	all() []T
	get(id int64) (T, bool)
	put(v T)
	build(id int64, name string, active bool) T
	fields(v T) (id int64, name string, active bool)
}

type categoryTable struct{ s *Store }

func (t categoryTable) all() []domain.Category {
	out := make([]domain.Category, 0, t.s.categories.Len())
	t.s.categories.Ascend(func(c domain.Category) bool {
		out = append(out, c)
		return true
	})
	return out
}

func (t categoryTable) get(id int64) (domain.Category, bool) {
	return t.s.categories.Get(domain.Category{ID: id})
}

func (t categoryTable) put(v domain.Category) { t.s.categories.ReplaceOrInsert(v) }

func (t categoryTable) build(id int64, name string, active bool) domain.Category {
	return domain.Category{ID: id, Name: name, IsActive: active}
}

func (t categoryTable) fields(v domain.Category) (int64, string, bool) {
	return v.ID, v.Name, v.IsActive
}

type brandTable struct{ s *Store }

func (t brandTable) all() []domain.Brand {
	out := make([]domain.Brand, 0, t.s.brands.Len())
	t.s.brands.Ascend(func(b domain.Brand) bool {
		out = append(out, b)
		return true
	})
	return out
}

func (t brandTable) get(id int64) (domain.Brand, bool) {
	return t.s.brands.Get(domain.Brand{ID: id})
}

func (t brandTable) put(v domain.Brand) { t.s.brands.ReplaceOrInsert(v) }

func (t brandTable) build(id int64, name string, active bool) domain.Brand {
	return domain.Brand{ID: id, Name: name, IsActive: active}
}

func (t brandTable) fields(v domain.Brand) (int64, string, bool) {
	return v.ID, v.Name, v.IsActive
}

type catalogPayload struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

type catalogHandlers[T any] struct {
	s     *Server
	noun  string
	table catalogTable[T]
}

// list answers with a bare array, filtered by name and isActive when given
func (h catalogHandlers[T]) list(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	active := strings.TrimSpace(c.QueryParam("isActive"))
	h.s.store.mu.RLock()
	defer h.s.store.mu.RUnlock()
	out := make([]T, 0)
	for _, v := range h.table.all() {
		_, n, a := h.table.fields(v)
		if name != "" && !containsFold(n, name) {
			continue
		}
		if active != "" && cast.ToBool(active) != a {
			continue
		}
		out = append(out, v)
	}
	return ok(c, out)
}

func (h catalogHandlers[T]) nameTaken(name string, except int64) bool {
	for _, v := range h.table.all() {
		id, n, _ := h.table.fields(v)
		if id != except && fold(n) == fold(name) {
			return true
		}
	}
	return false
}

func (h catalogHandlers[T]) create(c echo.Context) error {
	var payload catalogPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return fail(c, http.StatusBadRequest, "name should not be empty")
	}
	active := payload.IsActive == nil || *payload.IsActive

	h.s.store.mu.Lock()
	defer h.s.store.mu.Unlock()
	if h.nameTaken(name, 0) {
		return fail(c, http.StatusConflict, h.noun+" already exists")
	}
	v := h.table.build(h.s.store.id(), name, active)
	h.table.put(v)
	return created(c, v)
}

func (h catalogHandlers[T]) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid "+strings.ToLower(h.noun)+" ID")
	}
	var payload catalogPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	h.s.store.mu.Lock()
	defer h.s.store.mu.Unlock()
	cur, found := h.table.get(id)
	if !found {
		return fail(c, http.StatusNotFound, h.noun+" not found")
	}
	_, name, active := h.table.fields(cur)
	if n := strings.TrimSpace(payload.Name); n != "" {
		name = n
	}
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	if h.nameTaken(name, id) {
		return fail(c, http.StatusConflict, h.noun+" already exists")
	}
	v := h.table.build(id, name, active)
	h.table.put(v)
	return ok(c, v)
}
