package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/pkg/common"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
	claimsKey  = "claims"
)

type tokenClaims struct {
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	Roles        []string `json:"roles"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Expires      string   `json:"expires"`
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s *Server) sign(u domain.User, ttl time.Duration, now time.Time) (string, error) {
	claims := tokenClaims{
		Email:    u.Email,
		Username: u.Username,
		Name:     u.FullName,
		Roles:    roleStrings(u.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        strconv.FormatInt(common.UUIDint64(), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	email := fold(payload.Email)

	s.store.mu.RLock()
	var found *userRow
	s.store.users.Ascend(func(u userRow) bool {
		if fold(u.Email) == email {
			found = &u
			return false
		}
		return true
	})
	s.store.mu.RUnlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.PasswordHash, []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if !found.IsActive {
		return fail(c, http.StatusUnauthorized, "User is inactive")
	}
	now := time.Now()
	access, err := s.sign(found.User, accessTTL, now)
	if err != nil {
		return errors.Wrap(err, "sign access token")
	}
	refresh, err := s.sign(found.User, refreshTTL, now)
	if err != nil {
		return errors.Wrap(err, "sign refresh token")
	}
	return ok(c, loginResponse{
		ID:           found.ID,
		Username:     found.Username,
		Email:        found.Email,
		FullName:     found.FullName,
		Roles:        roleStrings(found.Roles),
		AccessToken:  access,
		RefreshToken: refresh,
		Expires:      now.Add(accessTTL).UTC().Format(time.RFC3339),
	})
}

func (s *Server) logout(c echo.Context) error {
	claims := c.Get(claimsKey).(*tokenClaims)
	s.store.mu.Lock()
	s.store.revoked[claims.ID] = struct{}{}
	s.store.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) parseToken(_ echo.Context, auth string) (interface{}, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(auth, claims, func(t *jwt.Token) (interface{}, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	_, revoked := s.store.revoked[claims.ID]
	s.store.mu.RUnlock()
	if revoked {
		return nil, errors.New("token revoked")
	}
	return claims, nil
}

func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     claimsKey,
		ParseTokenFunc: s.parseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		},
	})
}

func (s *Server) requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := c.Get(claimsKey).(*tokenClaims)
			if claims == nil {
				return fail(c, http.StatusUnauthorized, "Unauthorized")
			}
			for _, r := range claims.Roles {
				if strings.EqualFold(r, role) {
					return next(c)
				}
			}
			return fail(c, http.StatusForbidden, "Forbidden resource")
		}
	}
}
