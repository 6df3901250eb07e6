// Package session holds the single authoritative record of who is using
// the client. Identity-scoped consumers subscribe and are re-resolved
// synchronously on every change, so nothing reads under a stale identity.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/eventify/eventify-desk/internal/domain"
	"github.com/eventify/eventify-desk/internal/eventsapi"
	"github.com/eventify/eventify-desk/internal/sessionstore"
	"github.com/golang-jwt/jwt/v5"
)

// API is the slice of the remote client the session manager needs.
type API interface {
	Login(ctx context.Context, email, password string) (eventsapi.LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) (eventsapi.LoginResult, error)
	Me(ctx context.Context) (domain.Identity, error)
	SetToken(token string)
	ClearToken()
}

// Subscriber is notified with the new identity (zero when unauthenticated)
// before the triggering call returns.
type Subscriber func(domain.Identity)

type Manager struct {
	api      API
	store    sessionstore.Store
	vaultKey string
	persist  bool
	log      *slog.Logger

	mu          sync.RWMutex
	identity    domain.Identity
	subscribers []Subscriber
}

type Options struct {
	API API
	// StorePath enables durable session persistence when non-empty.
	StorePath string
	VaultKey  string
	Logger    *slog.Logger
}

func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:      opts.API,
		store:    sessionstore.Store{Path: opts.StorePath},
		vaultKey: opts.VaultKey,
		persist:  opts.StorePath != "",
		log:      logger,
	}
}

// Subscribe registers fn for identity changes. Not safe to call
// concurrently with auth operations; wire subscribers during startup.
func (m *Manager) Subscribe(fn Subscriber) {
	m.subscribers = append(m.subscribers, fn)
}

// Current returns the cached identity, zero when unauthenticated.
func (m *Manager) Current() domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

func (m *Manager) Authenticated() bool { return !m.Current().IsZero() }

// Initialize resolves the persisted token into an identity. Every failure
// path is silent: an expired or invalid token is steady state, not an
// anomaly, so it resets to unauthenticated without surfacing an error.
func (m *Manager) Initialize(ctx context.Context) {
	if !m.persist {
		m.setIdentity(domain.Identity{})
		return
	}
	state, err := m.store.Load(m.vaultKey)
	if err != nil || state.AccessToken == "" {
		m.reset("no usable persisted session", err)
		return
	}
	if tokenExpired(state.AccessToken) {
		m.reset("persisted token expired", nil)
		return
	}
	m.api.SetToken(state.AccessToken)
	who, err := m.api.Me(ctx)
	if err != nil {
		m.reset("identity lookup failed", err)
		return
	}
	m.log.Info("session restored", "user_id", who.ID, "role", string(who.Role))
	m.setIdentity(who)
}

func (m *Manager) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	m.establish(result)
	return result.User, nil
}

func (m *Manager) Register(ctx context.Context, reg domain.Registration) (domain.Identity, error) {
	result, err := m.api.Register(ctx, reg)
	if err != nil {
		return domain.Identity{}, err
	}
	m.establish(result)
	return result.User, nil
}

// Logout discards the token and resolves to unauthenticated. It is
// synchronous and has no network dependency.
func (m *Manager) Logout() {
	m.api.ClearToken()
	if m.persist {
		if err := m.store.Clear(); err != nil {
			m.log.Warn("clear persisted session", "err", err)
		}
	}
	m.setIdentity(domain.Identity{})
}

func (m *Manager) establish(result eventsapi.LoginResult) {
	m.api.SetToken(result.AccessToken)
	if m.persist {
		state := sessionstore.State{AccessToken: result.AccessToken, Identity: result.User}
		if err := m.store.Save(state, m.vaultKey); err != nil {
			m.log.Warn("persist session", "err", err)
		}
	}
	m.setIdentity(result.User)
}

func (m *Manager) reset(why string, err error) {
	if err != nil {
		m.log.Debug("session reset", "reason", why, "err", err)
	} else {
		m.log.Debug("session reset", "reason", why)
	}
	m.api.ClearToken()
	if err := m.store.Clear(); err != nil {
		m.log.Warn("clear persisted session", "err", err)
	}
	m.setIdentity(domain.Identity{})
}

func (m *Manager) setIdentity(who domain.Identity) {
	m.mu.Lock()
	m.identity = who
	m.mu.Unlock()
	for _, fn := range m.subscribers {
		fn(who)
	}
}

// tokenExpired checks the exp claim of the stored token without verifying
// the signature; verification belongs to the server. Tokens that are not
// parseable JWTs are passed through for the server to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
