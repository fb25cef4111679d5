package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduevents/eduevents-hub/internal/cache"
	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// RegistryConfig bounds the set of live managers.
type RegistryConfig struct {
	Capacity    int           // maximum live managers; least recently used is dropped
	IdleTTL     time.Duration // managers unused for this long are dropped
	InitTimeout time.Duration // bound on restoring a session from storage
	Now         func() time.Time
}

// SessionRegistryDeps are the collaborators shared by every manager.
type SessionRegistryDeps struct {
	Storage ports.Storage
	API     ports.AuthAPI
	Decoder ports.TokenDecoder
	Effects AuthEffects
}

// SessionRegistryOptions groups dependencies for SessionRegistry.
type SessionRegistryOptions struct {
	Deps    SessionRegistryDeps // Required
	Config  RegistryConfig      // Optional: zero values use defaults
	Logger  *slog.Logger        // Optional: structured logger
	Metrics statsd.Sink         // Optional: metrics sink (StatsD-compatible)
}

// SessionRegistry maps browsers to their AuthSessionManager. Managers are
// built lazily and dropped when idle; a dropped manager is rebuilt from
// storage on the browser's next request.
//
// It also implements ports.Authenticator for the shared API client: the
// bearer token and 401 teardown are resolved through the browser bound to
// the request context.
type SessionRegistry struct {
	deps        SessionRegistryDeps
	managers    *cache.LRU[*AuthSessionManager]
	idleTTL     time.Duration
	initTimeout time.Duration
	base        *slog.Logger
	logger      *slog.Logger
	metrics     statsd.Sink
}

var _ ports.Authenticator = (*SessionRegistry)(nil)

// NewSessionRegistry constructs a SessionRegistry.
func NewSessionRegistry(opts SessionRegistryOptions) (*SessionRegistry, error) {
	d := opts.Deps
	switch {
	case d.Storage == nil:
		return nil, errors.New("storage is required")
	case d.API == nil:
		return nil, errors.New("AuthAPI is required")
	case d.Decoder == nil:
		return nil, errors.New("TokenDecoder is required")
	case d.Effects.Navigator == nil || d.Effects.Notifier == nil:
		return nil, errors.New("navigator and notifier are required")
	}

	cfg := opts.Config
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 5 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &SessionRegistry{
		deps:        d,
		idleTTL:     cfg.IdleTTL,
		initTimeout: cfg.InitTimeout,
		base:        logger,
		logger:      logger.With("component", "session_registry"),
		metrics:     opts.Metrics,
	}
	r.managers = cache.NewLRU(cache.Config[*AuthSessionManager]{
		Capacity: cfg.Capacity,
		Sliding:  true,
		Now:      cfg.Now,
		OnEvict: func(_ string, m *AuthSessionManager) {
			m.Close()
		},
	})
	return r, nil
}

// Acquire returns the browser's manager, building it and starting session
// restore in the background on first use. Callers wait on Ready as needed.
func (r *SessionRegistry) Acquire(ctx context.Context, browserID string) (*AuthSessionManager, error) {
	if browserID == "" {
		return nil, errors.New("browser ID is required")
	}

	var buildErr error
	m, created := r.managers.GetOrCreate(browserID, r.idleTTL, func() *AuthSessionManager {
		var built *AuthSessionManager
		built, buildErr = r.build(browserID)
		return built
	})
	if buildErr != nil {
		r.managers.Delete(browserID)
		return nil, fmt.Errorf("build session manager: %w", buildErr)
	}

	if created {
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.initTimeout)
		go func() {
			defer cancel()
			m.Start(initCtx)
		}()
	}
	return m, nil
}

// Lookup returns the live manager for a browser without creating one.
func (r *SessionRegistry) Lookup(browserID string) (*AuthSessionManager, bool) {
	if browserID == "" {
		return nil, false
	}
	return r.managers.Get(browserID)
}

// Token returns the bearer token of the browser bound to ctx, or "".
func (r *SessionRegistry) Token(ctx context.Context) string {
	id, ok := domainauth.BrowserIDFrom(ctx)
	if !ok {
		return ""
	}
	m, ok := r.Lookup(id)
	if !ok {
		return ""
	}
	st := m.State()
	if !st.IsAuthenticated() {
		return ""
	}
	return st.Session.Token
}

// Unauthorized tears down the session of the browser bound to ctx after the
// API rejected its token, then sends the browser to the login page.
func (r *SessionRegistry) Unauthorized(ctx context.Context) {
	id, ok := domainauth.BrowserIDFrom(ctx)
	if !ok {
		return
	}
	if m, ok := r.Lookup(id); ok {
		m.Invalidate(ctx, ReasonUnauthorized)
	} else if store, err := r.store(id); err == nil {
		if cerr := store.Clear(context.WithoutCancel(ctx)); cerr != nil {
			r.logger.WarnContext(ctx, "clear rejected session failed", "error", cerr)
		}
	}
	r.deps.Effects.Navigator.Navigate(ctx, PathLogin)
}

// Sweep drops idle managers and returns how many were removed.
func (r *SessionRegistry) Sweep() int { return r.managers.Sweep() }

// Len reports the number of live managers.
func (r *SessionRegistry) Len() int { return r.managers.Len() }

func (r *SessionRegistry) store(browserID string) (*SessionStore, error) {
	return NewSessionStore(SessionStoreOptions{
		Storage:   r.deps.Storage,
		BrowserID: browserID,
		Logger:    r.base,
	})
}

func (r *SessionRegistry) build(browserID string) (*AuthSessionManager, error) {
	store, err := r.store(browserID)
	if err != nil {
		return nil, err
	}
	return NewAuthSessionManager(AuthSessionOptions{
		API:     r.deps.API,
		Store:   store,
		Decoder: r.deps.Decoder,
		Effects: r.deps.Effects,
		Logger:  r.base.With("browser", shortID(browserID)),
		Metrics: r.metrics,
	})
}

// shortID keeps browser identifiers out of logs in full.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
