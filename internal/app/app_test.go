package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/config"
)

func testConfig(t *testing.T, store string) *config.AppConfig {
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Api.BaseURL = "http://127.0.0.1:3999"
	cfg.Session.Store = store
	cfg.Session.Filename = filepath.Join(cfg.System.Workdir, "data", "session.db")
	return cfg
}

func TestApplication_InitWiresCollaborators(t *testing.T) {
	cfg := testConfig(t, "memory")
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	defer a.Release()

	assert.Equal(t, "http://127.0.0.1:3999/api", a.Client().Root())
	assert.Nil(t, a.Sessions().Current())
	assert.Len(t, a.Scheduler().Entries(), 1)

	d := a.Deps()
	assert.Same(t, a.Client(), d.Client)
	assert.Equal(t, a.Sessions(), d.Guard)
	assert.Equal(t, 10, d.PageSize)
	assert.Equal(t, cfg.Debounce(), d.Debounce)
	assert.NotNil(t, d.Pool)
	assert.NotNil(t, a.Bus())
}

func TestApplication_BoltStoreCreatesFile(t *testing.T) {
	cfg := testConfig(t, "bolt")
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	a.Release()

	_, err := os.Stat(cfg.Session.Filename)
	assert.NoError(t, err)
}

func TestApplication_SessionExpireTaskWithoutSession(t *testing.T) {
	cfg := testConfig(t, "memory")
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	defer a.Release()
	assert.NotPanics(t, a.SchedSessionExpireTask)
	assert.Nil(t, a.Sessions().Current())
}
