package app

import (
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/shopdesk/config"
	"github.com/talkincode/shopdesk/internal/apiclient"
	"github.com/talkincode/shopdesk/internal/pages"
	"github.com/talkincode/shopdesk/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig *config.AppConfig
	client    *apiclient.Client
	sessions  *session.Manager
	bus       EventBus.Bus
	pool      *ants.Pool
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ ClientProvider    = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Client() *apiclient.Client {
	return a.client
}

func (a *Application) Sessions() *session.Manager {
	return a.sessions
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Deps returns the collaborators shared by the list pages
func (a *Application) Deps() pages.Deps {
	return pages.Deps{
		Client:   a.client,
		Guard:    a.sessions,
		Bus:      a.bus,
		Pool:     a.pool,
		PageSize: a.appConfig.List.PageSize,
		Debounce: a.appConfig.Debounce(),
	}
}

// InitLogger installs the global zap logger for cfg
func InitLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	// stdout belongs to the tables and the prompt
	zapConfig.OutputPaths = []string{"stderr"}
	if !cfg.System.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zap.NewAtomicLevelAt(zap.DebugLevel),
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stderr),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// Init builds the api client, the session manager, the worker pool and the background jobs
func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	a.bus = EventBus.New()
	a.client = apiclient.New(cfg.ApiRoot())
	a.sessions = session.NewManager(session.NewCredentialsProvider(a.client.Auth), store, a.bus)
	a.client.SetTokenSource(a.sessions)
	session.SetDefault(a.sessions)

	a.pool, err = ants.NewPool(cfg.List.Workers)
	if err != nil {
		_ = a.sessions.Close()
		return errors.Wrap(err, "create worker pool")
	}
	zap.S().Debugf("application ready, api %s, session store %s", cfg.ApiRoot(), cfg.Session.Store)

	a.initJob()
	return nil
}

func (a *Application) openStore() (session.Store, error) {
	if a.appConfig.Session.Store == "memory" {
		return session.NewMemoryStore(), nil
	}
	fname := a.appConfig.Session.Filename
	if err := os.MkdirAll(filepath.Dir(fname), 0700); err != nil {
		return nil, errors.Wrap(err, "create session directory")
	}
	return session.OpenBoltStore(fname)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.pool != nil {
		a.pool.Release()
	}
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			zap.S().Error(err)
		}
	}
	_ = zap.L().Sync()
}
