package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/observability/metrics"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// ErrInFlight rejects a login or registration while another one is running
// for the same browser.
var ErrInFlight = apperrors.Conflict("a sign-in request is already in progress")

// Reasons passed to Invalidate.
const (
	ReasonLogout       = "logout"
	ReasonUnauthorized = "unauthorized"
)

// Toast texts.
const (
	msgInvalidResponse  = "invalid server response"
	msgLoginFallback    = "Login failed. Please try again."
	msgRegisterFallback = "Registration failed. Please try again."
)

// subscriberBuffer bounds each subscriber's queue; slow readers lose the
// oldest snapshots, never the newest.
const subscriberBuffer = 8

// AuthEffects are the user-visible side effects of auth transitions.
type AuthEffects struct {
	Navigator ports.Navigator // Required: client navigation
	Notifier  ports.Notifier  // Required: toasts
}

// AuthSessionOptions groups dependencies for AuthSessionManager.
type AuthSessionOptions struct {
	API     ports.AuthAPI      // Required: remote auth endpoints
	Store   *SessionStore      // Required: this browser's session persistence
	Decoder ports.TokenDecoder // Required: bearer token claims
	Effects AuthEffects        // Required: navigation and toasts
	Logger  *slog.Logger       // Optional: structured logger
	Metrics statsd.Sink        // Optional: metrics sink (StatsD-compatible)
}

// AuthSessionManager owns the auth state of one browser. It is safe for
// concurrent use by every tab of that browser.
//
// Lifecycle: Uninitialized -> Initializing -> Anonymous | Authenticated.
// Login and Register move Anonymous to Authenticated; Logout and
// Invalidate move back to Anonymous.
type AuthSessionManager struct {
	api     ports.AuthAPI
	store   *SessionStore
	decoder ports.TokenDecoder
	router  *RoleRouter
	nav     ports.Navigator
	notify  ports.Notifier
	logger  *slog.Logger
	metrics statsd.Sink

	startOnce sync.Once
	ready     chan struct{}
	inFlight  atomic.Bool

	mu      sync.Mutex
	state   domainauth.State
	subs    map[uint64]chan domainauth.State
	nextSub uint64
	closed  bool
}

// NewAuthSessionManager constructs a manager in the Initializing phase;
// Start settles it.
func NewAuthSessionManager(opts AuthSessionOptions) (*AuthSessionManager, error) {
	switch {
	case opts.API == nil:
		return nil, errors.New("AuthAPI is required")
	case opts.Store == nil:
		return nil, errors.New("SessionStore is required")
	case opts.Decoder == nil:
		return nil, errors.New("TokenDecoder is required")
	case opts.Effects.Navigator == nil:
		return nil, errors.New("Navigator is required")
	case opts.Effects.Notifier == nil:
		return nil, errors.New("Notifier is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthSessionManager{
		api:     opts.API,
		store:   opts.Store,
		decoder: opts.Decoder,
		router:  NewRoleRouter(opts.Effects.Navigator),
		nav:     opts.Effects.Navigator,
		notify:  opts.Effects.Notifier,
		logger:  logger.With("component", "auth_session"),
		metrics: opts.Metrics,
		ready:   make(chan struct{}),
		state:   domainauth.State{Phase: domainauth.PhaseInitializing},
		subs:    make(map[uint64]chan domainauth.State),
	}, nil
}

// Start restores any persisted session. Only the first call does work;
// Ready is closed once it finishes. Partial or unreadable storage is
// cleared without notifying the user.
func (m *AuthSessionManager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		defer close(m.ready)

		sess, res := m.store.load(ctx)
		switch res {
		case LoadOK:
			m.update(func(s *domainauth.State) {
				s.Phase = domainauth.PhaseAuthenticated
				s.Session = &sess
			})
			m.logger.DebugContext(ctx, "restored session", "role", sess.Role)
			return
		case LoadCorrupt:
			m.logger.InfoContext(ctx, "discarding unreadable stored session")
			if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
				m.logger.WarnContext(ctx, "clear unreadable session failed", "error", err)
			}
		case LoadEmpty:
		}
		m.update(func(s *domainauth.State) { s.Phase = domainauth.PhaseAnonymous })
	})
}

// Ready is closed once Start has finished.
func (m *AuthSessionManager) Ready() <-chan struct{} { return m.ready }

// State returns a snapshot of the current state.
func (m *AuthSessionManager) State() domainauth.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.state)
}

// Subscribe returns a channel that first yields the current state and then
// every subsequent change, plus a cancel function. The channel is closed by
// cancel or when the manager is closed.
func (m *AuthSessionManager) Subscribe() (<-chan domainauth.State, func()) {
	ch := make(chan domainauth.State, subscriberBuffer)

	m.mu.Lock()
	ch <- snapshot(m.state)
	if m.closed {
		close(ch)
		m.mu.Unlock()
		return ch, func() {}
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	cancel := sync.OnceFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	})
	return ch, cancel
}

// Close releases subscribers. The manager must not be used afterwards.
func (m *AuthSessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for id, c := range m.subs {
		delete(m.subs, id)
		close(c)
	}
}

// Login authenticates with email and password. On success the session is
// persisted, the browser is routed to its dashboard and a welcome toast is
// shown; on failure a toast explains why and the state is left unchanged.
func (m *AuthSessionManager) Login(ctx context.Context, email, password string) error {
	return m.signIn(ctx, signInAttempt{
		action:   "login",
		fallback: msgLoginFallback,
		failure:  "Login failed",
		success:  ports.Notification{Title: "Login successful", Message: "Welcome back!"},
		call: func(ctx context.Context) (domainauth.Session, error) {
			res, err := m.api.Login(ctx, domainauth.Credentials{Email: email, Password: password})
			if err != nil {
				return domainauth.Session{}, err
			}
			claims, err := m.claims(res.Token)
			if err != nil {
				return domainauth.Session{}, err
			}
			return domainauth.Session{
				SubjectID: claims.SubjectID,
				Role:      claims.Role,
				Email:     email,
				Token:     res.Token,
			}, nil
		},
	})
}

// Register creates an account and signs it in. The role and subject always
// come from the issued token; names and email come from the returned user
// record, falling back to what was submitted.
func (m *AuthSessionManager) Register(ctx context.Context, data domainauth.RegisterData) error {
	return m.signIn(ctx, signInAttempt{
		action:   "register",
		fallback: msgRegisterFallback,
		failure:  "Registration failed",
		success:  ports.Notification{Title: "Registration successful", Message: "Welcome to EduEvents Hub!"},
		call: func(ctx context.Context) (domainauth.Session, error) {
			res, err := m.api.Register(ctx, data)
			if err != nil {
				return domainauth.Session{}, err
			}
			claims, err := m.claims(res.Token)
			if err != nil {
				return domainauth.Session{}, err
			}
			sess := domainauth.Session{
				SubjectID: claims.SubjectID,
				Role:      claims.Role,
				Email:     data.Email,
				FirstName: data.FirstName,
				LastName:  data.LastName,
				Token:     res.Token,
			}
			if u := res.User; u != nil {
				sess.Email = firstNonEmpty(u.Email, sess.Email)
				sess.FirstName = firstNonEmpty(u.FirstName, sess.FirstName)
				sess.LastName = firstNonEmpty(u.LastName, sess.LastName)
			}
			return sess, nil
		},
	})
}

// Logout ends the session, routes to the login page and confirms with a
// toast. It never fails.
func (m *AuthSessionManager) Logout(ctx context.Context) {
	m.Invalidate(ctx, ReasonLogout)
	m.nav.Navigate(ctx, PathLogin)
	m.notify.Notify(ctx, ports.Notification{
		Title:   "Logged out",
		Message: "You have been successfully logged out.",
		Variant: ports.NotificationDefault,
	})
}

// Invalidate is the single teardown path: it drops the in-memory session,
// clears persisted data and publishes the Anonymous state. Navigation is
// left to the caller.
func (m *AuthSessionManager) Invalidate(ctx context.Context, reason string) {
	// Never let a restore still in progress resurrect the session.
	if err := m.awaitReady(ctx); err != nil {
		m.logger.DebugContext(ctx, "invalidate before ready", "error", err)
	}
	m.update(func(s *domainauth.State) {
		s.Phase = domainauth.PhaseAnonymous
		s.Session = nil
	})

	// Teardown must finish even when the triggering request is gone.
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.WarnContext(ctx, "clear session failed", "reason", reason, "error", err)
	}
	m.logger.InfoContext(ctx, "session invalidated", "reason", reason)
	metrics.EmitAuthEvent(m.metrics, metrics.AuthMetric{
		Action: "invalidated",
		Result: metrics.ResultSuccess,
		Reason: reason,
	})
}

type signInAttempt struct {
	action   string
	fallback string
	failure  string
	success  ports.Notification
	call     func(ctx context.Context) (domainauth.Session, error)
}

func (m *AuthSessionManager) signIn(ctx context.Context, a signInAttempt) error {
	if !m.inFlight.CompareAndSwap(false, true) {
		metrics.EmitAuthEvent(m.metrics, metrics.AuthMetric{Action: a.action, Result: metrics.ResultRejected})
		return ErrInFlight
	}
	defer m.inFlight.Store(false)

	if err := m.awaitReady(ctx); err != nil {
		return err
	}

	m.setLoading(true)
	defer m.setLoading(false)

	start := time.Now()
	sess, err := a.call(ctx)
	if err == nil {
		err = m.persist(ctx, sess)
	}
	if err != nil {
		m.logger.InfoContext(ctx, a.action+" failed", "error", err)
		metrics.EmitAuthEvent(m.metrics, metrics.AuthMetric{
			Action: a.action, Result: metrics.ResultError, Duration: time.Since(start), Err: err,
		})
		m.notify.Notify(ctx, ports.Notification{
			Title:   a.failure,
			Message: failureMessage(err, a.fallback),
			Variant: ports.NotificationDestructive,
		})
		return err
	}

	m.update(func(s *domainauth.State) {
		s.Phase = domainauth.PhaseAuthenticated
		s.Session = &sess
	})
	metrics.EmitAuthEvent(m.metrics, metrics.AuthMetric{
		Action: a.action, Result: metrics.ResultSuccess, Duration: time.Since(start),
	})
	m.logger.InfoContext(ctx, a.action+" succeeded", "role", sess.Role)

	a.success.Variant = ports.NotificationDefault
	m.notify.Notify(ctx, a.success)
	if err := m.router.Route(ctx, sess.Role); err != nil {
		m.logger.ErrorContext(ctx, "route after "+a.action, "error", err)
	}
	return nil
}

func (m *AuthSessionManager) claims(token string) (domainauth.Claims, error) {
	if token == "" {
		return domainauth.Claims{}, apperrors.Internal("auth response carried no token")
	}
	claims, err := m.decoder.Decode(token)
	if err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeDecode, msgInvalidResponse)
	}
	return claims, nil
}

func (m *AuthSessionManager) persist(ctx context.Context, sess domainauth.Session) error {
	if err := m.store.Save(ctx, sess); err != nil {
		if cerr := m.store.Clear(context.WithoutCancel(ctx)); cerr != nil {
			m.logger.WarnContext(ctx, "clear partial session failed", "error", cerr)
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "persist session")
	}
	return nil
}

func (m *AuthSessionManager) awaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return apperrors.MapTransportError(ctx.Err())
	}
}

func (m *AuthSessionManager) setLoading(v bool) {
	m.update(func(s *domainauth.State) { s.Loading = v })
}

// update mutates state under the lock and publishes the result.
func (m *AuthSessionManager) update(fn func(*domainauth.State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
	snap := snapshot(m.state)
	for _, c := range m.subs {
		select {
		case c <- snap:
		default:
			select {
			case <-c:
			default:
			}
			select {
			case c <- snap:
			default:
			}
		}
	}
}

func snapshot(s domainauth.State) domainauth.State {
	if s.Session != nil {
		cp := *s.Session
		s.Session = &cp
	}
	return s
}

// failureMessage picks the toast text for a failed sign-in.
func failureMessage(err error, fallback string) string {
	if apperrors.IsDecode(err) {
		return msgInvalidResponse
	}
	return apperrors.UserMessage(err, fallback)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
