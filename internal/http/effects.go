package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/eduevents/eduevents-hub/internal/ports"
)

// effects collects the navigation and toasts requested while a request is
// being handled. Auth transitions call the Navigator and Notifier from deep
// inside services; the handler turns what was collected into a redirect,
// an HX-Redirect, a flash cookie or an HX-Trigger once it is done.
type effects struct {
	mu     sync.Mutex
	target string
	notes  []ports.Notification
}

type effectsKey struct{}

func withEffects(ctx context.Context) (context.Context, *effects) {
	if fx := effectsFrom(ctx); fx != nil {
		return ctx, fx
	}
	fx := &effects{}
	return context.WithValue(ctx, effectsKey{}, fx), fx
}

func effectsFrom(ctx context.Context) *effects {
	fx, _ := ctx.Value(effectsKey{}).(*effects)
	return fx
}

// Navigation returns the last requested path, or "".
func (fx *effects) Navigation() string {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return fx.target
}

// drainNotes returns and forgets the collected toasts.
func (fx *effects) drainNotes() []ports.Notification {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	notes := fx.notes
	fx.notes = nil
	return notes
}

// RequestNavigator implements ports.Navigator for requests that went
// through the Effects middleware. Outside a request it only logs.
type RequestNavigator struct {
	Logger *slog.Logger
}

func (n RequestNavigator) Navigate(ctx context.Context, path string) {
	fx := effectsFrom(ctx)
	if fx == nil {
		loggerOr(n.Logger).DebugContext(ctx, "navigation outside a request dropped", "path", path)
		return
	}
	fx.mu.Lock()
	fx.target = path
	fx.mu.Unlock()
}

// RequestNotifier implements ports.Notifier for requests that went
// through the Effects middleware. Outside a request it only logs.
type RequestNotifier struct {
	Logger *slog.Logger
}

func (n RequestNotifier) Notify(ctx context.Context, note ports.Notification) {
	fx := effectsFrom(ctx)
	if fx == nil {
		loggerOr(n.Logger).DebugContext(ctx, "notification outside a request dropped", "title", note.Title)
		return
	}
	fx.mu.Lock()
	fx.notes = append(fx.notes, note)
	fx.mu.Unlock()
}

var (
	_ ports.Navigator = RequestNavigator{}
	_ ports.Notifier  = RequestNotifier{}
)

// Effects installs the per-request collector.
func Effects() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := withEffects(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// followNavigation completes a request whose handling asked for navigation.
// Pending toasts travel in the flash cookie so the next page shows them.
// It reports false when no navigation was requested.
func (c cookieSettings) followNavigation(w http.ResponseWriter, r *http.Request) bool {
	fx := effectsFrom(r.Context())
	if fx == nil {
		return false
	}
	target := fx.Navigation()
	if target == "" {
		return false
	}
	c.setFlash(w, r, fx.drainNotes())
	redirect(w, r, target)
	return true
}

// redirect replaces the current page with target: 303 for full requests,
// HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
