package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64_Unique(t *testing.T) {
	seen := make(map[int64]struct{})
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestRequestID_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, RequestID())
	assert.NotEqual(t, RequestID(), RequestID())
}

func TestIsEmptyOrNA(t *testing.T) {
	assert.True(t, IsEmptyOrNA(""))
	assert.True(t, IsEmptyOrNA("  "))
	assert.True(t, IsEmptyOrNA("n/a"))
	assert.False(t, IsEmptyOrNA("x"))
}

func TestIfEmptyStr(t *testing.T) {
	assert.Equal(t, "def", IfEmptyStr(" ", "def"))
	assert.Equal(t, "v", IfEmptyStr("v", "def"))
}
