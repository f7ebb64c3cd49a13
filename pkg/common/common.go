package common

import (
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

func idNode() *snowflake.Node {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			zap.S().Fatalf("snowflake node init error %s", err.Error())
		}
	})
	return node
}

// UUIDint64 returns a unique, time ordered int64 id
func UUIDint64() int64 {
	return idNode().Generate().Int64()
}

// RequestID returns a unique id suitable for the X-Request-Id header
func RequestID() string {
	return idNode().Generate().Base36()
}

// IsEmptyOrNA reports whether s carries no usable value
func IsEmptyOrNA(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "N/A")
}

// IfEmptyStr returns def when src is blank
func IfEmptyStr(src string, def string) string {
	if strings.TrimSpace(src) == "" {
		return def
	}
	return src
}
