package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/shopdesk/config"
	"github.com/talkincode/shopdesk/internal/apiclient"
	"github.com/talkincode/shopdesk/internal/pages"
	"github.com/talkincode/shopdesk/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// ClientProvider provides the backend api client
type ClientProvider interface {
	Client() *apiclient.Client
}

// SessionProvider provides the process session
type SessionProvider interface {
	Sessions() *session.Manager
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Commands should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	ClientProvider
	SessionProvider
	SchedulerProvider

	Bus() EventBus.Bus
	// Deps returns what every list page is built from
	Deps() pages.Deps
	Release()
}
