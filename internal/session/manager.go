package session

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"go.uber.org/zap"
)

// Topic carries *domain.Session values; nil means signed out
const Topic = "session:changed"

// ErrNoSession is returned when an action needs a session and none is active
var ErrNoSession = errors.New("not signed in")

// ErrForbidden is returned when the session lacks a required role
var ErrForbidden = errors.New("permission denied")

// Manager owns the process session. The stored session is read lazily on first use.
type Manager struct {
	provider Provider
	store    Store
	bus      EventBus.Bus
	now      func() time.Time

	loadOnce sync.Once
	mu       sync.RWMutex
	current  *domain.Session
}

// NewManager creates a manager over provider and store. A nil store keeps the session in memory.
func NewManager(provider Provider, store Store, bus EventBus.Bus) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if bus == nil {
		bus = EventBus.New()
	}
	return &Manager{provider: provider, store: store, bus: bus, now: time.Now}
}

func (m *Manager) load() {
	m.loadOnce.Do(func() {
		s, err := m.store.Load()
		if err != nil {
			zap.L().Error("load stored session failed", zap.String("namespace", "session"), zap.Error(err))
			return
		}
		if s == nil {
			return
		}
		if s.Expired(m.now()) {
			zap.L().Info("stored session expired", zap.String("namespace", "session"), zap.String("email", s.User.Email))
			_ = m.store.Clear()
			return
		}
		m.mu.Lock()
		m.current = s
		m.mu.Unlock()
	})
}

// Current returns a copy of the active session, nil when signed out or expired
func (m *Manager) Current() *domain.Session {
	m.load()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || m.current.Expired(m.now()) {
		return nil
	}
	cp := *m.current
	return &cp
}

// AccessToken returns the bearer token of the active session
func (m *Manager) AccessToken() string {
	if s := m.Current(); s != nil {
		return s.AccessToken
	}
	return ""
}

// Require returns the active session, checking role when non-empty
func (m *Manager) Require(role domain.Role) (*domain.Session, error) {
	s := m.Current()
	if s == nil {
		return nil, ErrNoSession
	}
	if role != "" && !s.User.HasRole(role) {
		return nil, errors.Wrapf(ErrForbidden, "%s role required", role)
	}
	return s, nil
}

// SignIn authenticates through the provider and makes the result current
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.provider == nil {
		return nil, errors.New("no identity provider configured")
	}
	m.load()
	s, err := m.provider.Authenticate(ctx, email, password)
	if err != nil {
		return nil, errors.WithMessage(err, "sign in")
	}
	if err := m.store.Save(s); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	zap.L().Info("signed in",
		zap.String("namespace", "session"),
		zap.String("email", s.User.Email),
		zap.Strings("roles", s.User.Roles),
		zap.Time("expires_at", s.ExpiresAt))
	cp := *s
	m.bus.Publish(Topic, &cp)
	return s, nil
}

// SignOut ends the provider session, clears the store and notifies subscribers.
// The local session is torn down even if the provider call fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.load()
	var perr error
	if m.provider != nil && m.Current() != nil {
		perr = m.provider.EndSession(ctx)
		if perr != nil {
			zap.L().Warn("end provider session failed", zap.String("namespace", "session"), zap.Error(perr))
		}
	}
	m.teardown()
	return perr
}

func (m *Manager) teardown() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		zap.L().Error("clear session store failed", zap.String("namespace", "session"), zap.Error(err))
	}
	m.bus.Publish(Topic, (*domain.Session)(nil))
}

// ExpireIfDue tears the session down when it is past its expiry
func (m *Manager) ExpireIfDue() bool {
	m.load()
	m.mu.RLock()
	s := m.current
	m.mu.RUnlock()
	if s == nil || !s.Expired(m.now()) {
		return false
	}
	zap.L().Info("session expired", zap.String("namespace", "session"), zap.String("email", s.User.Email))
	m.teardown()
	return true
}

// Subscribe calls fn on every sign-in and sign-out. The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(s *domain.Session)) (func(), error) {
	if err := m.bus.Subscribe(Topic, fn); err != nil {
		return nil, errors.Wrap(err, "subscribe session")
	}
	return func() {
		_ = m.bus.Unsubscribe(Topic, fn)
	}, nil
}

// Close releases the store
func (m *Manager) Close() error {
	return m.store.Close()
}

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// SetDefault installs the process-wide manager
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defaultManager = m
	defaultMu.Unlock()
}

// Default returns the process-wide manager, creating a memory-backed one without a provider on first use
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewManager(nil, nil, nil)
	}
	return defaultManager
}
