package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal_UnmarshalStringAndNumber(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Cola","price":"12.50"}`), &p))
	assert.Equal(t, Decimal("12.50"), p.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"name":"Agua","price":3.2}`), &p))
	assert.Equal(t, Decimal("3.2"), p.Price)
	assert.InDelta(t, 3.2, p.Price.Float(), 0.0001)
}

func TestDecimal_Invalid(t *testing.T) {
	var p Product
	assert.Error(t, json.Unmarshal([]byte(`{"price":"abc"}`), &p))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestPageOf(t *testing.T) {
	assert.Equal(t, Pagination{Limit: 10, Offset: 20}, PageOf(3, 10))
	assert.Equal(t, Pagination{Limit: 10, Offset: 0}, PageOf(0, 10))
}

func TestSessionUser_HasRole(t *testing.T) {
	u := SessionUser{Roles: []string{"Admin"}}
	assert.True(t, u.HasRole(RoleAdmin))
	assert.False(t, u.HasRole(RoleSales))
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	var nilSession *Session
	assert.True(t, nilSession.Expired(now))
	assert.False(t, (&Session{}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
}

func TestUserPayload_OmitsBlankPassword(t *testing.T) {
	b, err := json.Marshal(UserPayload{Username: "john", Roles: []Role{RoleSales}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
}

func TestFindOption(t *testing.T) {
	opts := CategoryOptions([]Category{{ID: 1, Name: "Gaseosas"}, {ID: 2, Name: "Lácteos"}})
	o, ok := FindOption(opts, 2)
	assert.True(t, ok)
	assert.Equal(t, "Lácteos", o.Name)
	_, ok = FindOption(opts, 9)
	assert.False(t, ok)
}
