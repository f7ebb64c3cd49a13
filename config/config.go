package config

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SysConfig system settings
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// ApiConfig backend REST API settings
type ApiConfig struct {
	BaseURL string `yaml:"base_url"`
	Prefix  string `yaml:"prefix"`
}

// ListConfig list screen settings
type ListConfig struct {
	PageSize   int `yaml:"page_size"`
	DebounceMs int `yaml:"debounce_ms"`
	Workers    int `yaml:"workers"`
}

// SessionConfig session store settings
type SessionConfig struct {
	Store    string `yaml:"store"` // bolt | memory
	Filename string `yaml:"filename"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// MockConfig fake backend settings
type MockConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JwtSecret string `yaml:"jwt_secret"`
	Seed      bool   `yaml:"seed"`
}

type AppConfig struct {
	System  SysConfig     `yaml:"system"`
	Api     ApiConfig     `yaml:"api"`
	List    ListConfig    `yaml:"list"`
	Session SessionConfig `yaml:"session"`
	Logger  LogConfig     `yaml:"logger"`
	Mock    MockConfig    `yaml:"mock"`
}

// GetLogDir returns the log directory under workdir
func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

// GetDataDir returns the data directory under workdir
func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// ApiRoot returns the base url joined with the api prefix
func (c *AppConfig) ApiRoot() string {
	base := strings.TrimRight(c.Api.BaseURL, "/")
	prefix := strings.Trim(c.Api.Prefix, "/")
	if prefix == "" {
		return base
	}
	return base + "/" + prefix
}

// Debounce returns the search debounce interval
func (c *AppConfig) Debounce() time.Duration {
	return time.Duration(c.List.DebounceMs) * time.Millisecond
}

func defaultWorkdir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".shopdesk"
	}
	return filepath.Join(home, ".shopdesk")
}

// DefaultAppConfig returns the built-in defaults
func DefaultAppConfig() *AppConfig {
	workdir := defaultWorkdir()
	return &AppConfig{
		System: SysConfig{
			Appid:    "shopdesk",
			Location: "Local",
			Workdir:  workdir,
			Debug:    false,
		},
		Api: ApiConfig{
			BaseURL: "http://localhost:3001",
			Prefix:  "api",
		},
		List: ListConfig{
			PageSize:   10,
			DebounceMs: 500,
			Workers:    8,
		},
		Session: SessionConfig{
			Store:    "bolt",
			Filename: path.Join(workdir, "data", "session.db"),
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   path.Join(workdir, "logs", "shopdesk.log"),
		},
		Mock: MockConfig{
			Host:      "127.0.0.1",
			Port:      3001,
			JwtSecret: "shopdesk-dev-secret",
			Seed:      true,
		},
	}
}

// LoadConfig reads the yaml file when present, then applies environment overrides.
// An empty cfile means defaults plus environment.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("SHOPDESK_WORKDIR", &cfg.System.Workdir)
	setEnvValue("SHOPDESK_API_URL", &cfg.Api.BaseURL)
	setEnvValue("SHOPDESK_API_PREFIX", &cfg.Api.Prefix)
	setEnvValue("SHOPDESK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvValue("SHOPDESK_SESSION_STORE", &cfg.Session.Store)
	setEnvValue("SHOPDESK_SESSION_FILE", &cfg.Session.Filename)
	setEnvBoolValue("SHOPDESK_DEBUG", &cfg.System.Debug)
	setEnvBoolValue("SHOPDESK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvIntValue("SHOPDESK_PAGE_SIZE", &cfg.List.PageSize)
	setEnvIntValue("SHOPDESK_DEBOUNCE_MS", &cfg.List.DebounceMs)
	setEnvIntValue("SHOPDESK_MOCK_PORT", &cfg.Mock.Port)
	setEnvValue("SHOPDESK_MOCK_JWT_SECRET", &cfg.Mock.JwtSecret)
}

func (c *AppConfig) validate() error {
	if strings.TrimSpace(c.Api.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.List.PageSize <= 0 {
		c.List.PageSize = 10
	}
	if c.List.DebounceMs < 0 {
		return errors.Errorf("list.debounce_ms must be >= 0, got %d", c.List.DebounceMs)
	}
	if c.List.Workers <= 0 {
		c.List.Workers = 8
	}
	switch c.Session.Store {
	case "bolt", "memory":
	default:
		return errors.Errorf("session.store must be bolt or memory, got %q", c.Session.Store)
	}
	return nil
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = v == "true" || v == "1" || v == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*val = i
		}
	}
}
