package session

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
)

// tokenClaims reads the claims of an access token without verifying it.
// Verification is the backend's job; the client only needs exp and identity hints.
func tokenClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Expiry returns the token exp claim, else the provider's expires text, else zero
func Expiry(token, expires string) time.Time {
	if claims, ok := tokenClaims(token); ok {
		if exp, ok := claims["exp"]; ok {
			if sec, err := cast.ToInt64E(exp); err == nil && sec > 0 {
				return time.Unix(sec, 0)
			}
		}
	}
	if strings.TrimSpace(expires) != "" {
		if t, err := dateparse.ParseAny(expires); err == nil {
			return t
		}
	}
	return time.Time{}
}

// userFromClaims decodes identity claims (sub, email, username, name, roles) into a SessionUser
func userFromClaims(token string) (domain.SessionUser, bool) {
	claims, ok := tokenClaims(token)
	if !ok {
		return domain.SessionUser{}, false
	}
	var u domain.SessionUser
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &u,
	})
	if err != nil {
		return u, false
	}
	if err := dec.Decode(map[string]interface{}(claims)); err != nil {
		return u, false
	}
	if u.ID == "" {
		u.ID = cast.ToString(claims["sub"])
	}
	return u, true
}
