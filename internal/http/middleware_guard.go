package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/service"
)

// DefaultGuardInitWait bounds how long a request waits for a browser's
// session to be restored before the loading page is shown instead.
const DefaultGuardInitWait = 2 * time.Second

// guardPages renders the two pages the guard can answer with itself.
type guardPages interface {
	Loading(w http.ResponseWriter, r *http.Request)
	ServerError(w http.ResponseWriter, r *http.Request, message string)
}

// RouteGuard decides whether a request may reach a protected page.
type RouteGuard struct {
	Sessions *service.SessionRegistry
	InitWait time.Duration
	Pages    guardPages
	Logger   *slog.Logger
}

// errNoBrowser means BrowserIdentity did not run.
var errNoBrowser = errors.New("request is not bound to a browser")

// awaitSession returns the browser's auth state once restore has finished,
// or the still-initializing state after wait elapses.
func awaitSession(ctx context.Context, reg *service.SessionRegistry, wait time.Duration) (domainauth.State, error) {
	id, ok := domainauth.BrowserIDFrom(ctx)
	if !ok {
		return domainauth.State{}, errNoBrowser
	}
	m, err := reg.Acquire(ctx, id)
	if err != nil {
		return domainauth.State{}, err
	}
	if wait <= 0 {
		wait = DefaultGuardInitWait
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-m.Ready():
	case <-timer.C:
	case <-ctx.Done():
	}
	return m.State(), nil
}

// Require returns a middleware admitting browsers whose session role is in
// roles. No roles admits any authenticated browser.
//
//   - still initializing: neutral loading page, the handler does not run
//   - anonymous: redirect to the login page
//   - role not allowed: redirect to that role's own dashboard
//   - role unknown: error page, never a default dashboard
func (g *RouteGuard) Require(roles ...domainauth.Role) func(http.Handler) http.Handler {
	allowed := domainauth.RoleSet(roles)
	logger := loggerOr(g.Logger).With("component", "route_guard")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			st, err := awaitSession(ctx, g.Sessions, g.InitWait)
			if err != nil {
				logger.ErrorContext(ctx, "resolve browser session", "error", err, "path", r.URL.Path)
				g.Pages.ServerError(w, r, "We could not load your session. Please try again.")
				return
			}

			switch {
			case !st.Phase.Settled():
				g.Pages.Loading(w, r)
				return
			case !st.IsAuthenticated():
				redirect(w, r, service.PathLogin)
				return
			}

			role := st.Session.Role
			if !role.Valid() {
				logger.ErrorContext(ctx, "session carries unknown role", "role", string(role), "path", r.URL.Path)
				g.Pages.ServerError(w, r, "Your account has an unrecognized role.")
				return
			}
			if !allowed.Permits(role) {
				target, _ := service.DashboardPath(role)
				logger.DebugContext(ctx, "role not allowed, redirecting", "role", string(role), "path", r.URL.Path)
				redirect(w, r, target)
				return
			}

			ctx = SetSessionInContext(ctx, st.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
