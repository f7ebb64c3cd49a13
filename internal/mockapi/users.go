package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type userPayload struct {
	Username string        `json:"username"`
	Email    string        `json:"email"`
	FullName string        `json:"fullName"`
	Password *string       `json:"password"`
	IsActive *bool         `json:"isActive"`
	Roles    []domain.Role `json:"roles"`
}

func (s *Server) listUsers(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	active := strings.TrimSpace(c.QueryParam("isActive"))
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	out := make([]domain.User, 0, s.store.users.Len())
	s.store.users.Ascend(func(u userRow) bool {
		if name != "" && !containsFold(u.Username, name) && !containsFold(u.FullName, name) && !containsFold(u.Email, name) {
			return true
		}
		if active != "" && cast.ToBool(active) != u.IsActive {
			return true
		}
		out = append(out, u.User)
		return true
	})
	return ok(c, out)
}

// checkUser enforces the same rules as the back-office form
func (s *Server) checkUser(u domain.User, except string) string {
	switch {
	case len(u.Username) < 4 || len(u.Username) > 50:
		return "username must be between 4 and 50 characters"
	case !strings.Contains(u.Email, "@"):
		return "email must be an email"
	case len(u.FullName) < 2 || len(u.FullName) > 100:
		return "fullName must be between 2 and 100 characters"
	case len(u.Roles) == 0:
		return "roles should not be empty"
	}
	for _, r := range u.Roles {
		if !domain.ValidRole(r) {
			return "each value in roles must be one of: admin, sales"
		}
	}
	taken := ""
	s.store.users.Ascend(func(o userRow) bool {
		if o.ID == except {
			return true
		}
		if fold(o.Username) == fold(u.Username) {
			taken = "Username already exists"
			return false
		}
		if fold(o.Email) == fold(u.Email) {
			taken = "Email already exists"
			return false
		}
		return true
	})
	return taken
}

func hashPassword(pw string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	return h, errors.Wrap(err, "hash password")
}

func (s *Server) createUser(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if payload.Password == nil || len(*payload.Password) < 6 {
		return fail(c, http.StatusBadRequest, "password must be longer than or equal to 6 characters")
	}
	u := domain.User{
		Username: strings.TrimSpace(payload.Username),
		Email:    strings.TrimSpace(payload.Email),
		FullName: strings.TrimSpace(payload.FullName),
		IsActive: payload.IsActive == nil || *payload.IsActive,
		Roles:    payload.Roles,
	}
	hash, err := hashPassword(*payload.Password)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if msg := s.checkUser(u, ""); msg != "" {
		status := http.StatusBadRequest
		if strings.HasSuffix(msg, "already exists") {
			status = http.StatusConflict
		}
		return fail(c, status, msg)
	}
	u.ID = "u" + strconv.FormatInt(s.store.id(), 10)
	s.store.users.ReplaceOrInsert(userRow{User: u, PasswordHash: hash})
	return created(c, u)
}

func (s *Server) updateUser(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	var hash []byte
	if payload.Password != nil {
		if len(*payload.Password) < 6 {
			return fail(c, http.StatusBadRequest, "password must be longer than or equal to 6 characters")
		}
		h, err := hashPassword(*payload.Password)
		if err != nil {
			return err
		}
		hash = h
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	row, found := s.store.users.Get(userRow{User: domain.User{ID: c.Param("id")}})
	if !found {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if v := strings.TrimSpace(payload.Username); v != "" {
		row.Username = v
	}
	if v := strings.TrimSpace(payload.Email); v != "" {
		row.Email = v
	}
	if v := strings.TrimSpace(payload.FullName); v != "" {
		row.FullName = v
	}
	if payload.IsActive != nil {
		row.IsActive = *payload.IsActive
	}
	if payload.Roles != nil {
		row.Roles = payload.Roles
	}
	if msg := s.checkUser(row.User, row.ID); msg != "" {
		status := http.StatusBadRequest
		if strings.HasSuffix(msg, "already exists") {
			status = http.StatusConflict
		}
		return fail(c, status, msg)
	}
	if hash != nil {
		row.PasswordHash = hash
	}
	s.store.users.ReplaceOrInsert(row)
	return ok(c, row.User)
}
