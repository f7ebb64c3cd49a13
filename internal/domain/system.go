package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleSales Role = "sales"
)

// Roles is the fixed set of assignable roles
var Roles = []Role{RoleAdmin, RoleSales}

// ValidRole reports whether r belongs to Roles
func ValidRole(r Role) bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// User mirrors the backend user record. Password is never read back.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	IsActive bool   `json:"isActive"`
	Roles    []Role `json:"roles"`
}

// UserPayload is the JSON body for user writes.
// An empty Password is omitted, which the backend treats as unchanged.
type UserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password,omitempty"`
	IsActive bool   `json:"isActive"`
	Roles    []Role `json:"roles"`
}

// SessionUser is the identity exposed by the session provider
type SessionUser struct {
	ID       string   `json:"id" mapstructure:"id"`
	Email    string   `json:"email" mapstructure:"email"`
	Name     string   `json:"name" mapstructure:"name"`
	Username string   `json:"username" mapstructure:"username"`
	Roles    []string `json:"roles" mapstructure:"roles"`
}

// HasRole reports whether the user carries role r
func (u SessionUser) HasRole(r Role) bool {
	for _, v := range u.Roles {
		if strings.EqualFold(v, string(r)) {
			return true
		}
	}
	return false
}

// Session is an authenticated session handed out by the identity provider
type Session struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         SessionUser `json:"user"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry. A zero expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
