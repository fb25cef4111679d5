package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/service"
)

const defaultEventsHeartbeat = 25 * time.Second

// AuthHandlers serves the non-HTML auth endpoints: logout, the state
// snapshot and the state stream other tabs listen to.
type AuthHandlers struct {
	Sessions     *service.SessionRegistry
	CookieDomain string
	InitWait     time.Duration
	Heartbeat    time.Duration // Optional: SSE keep-alive interval
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	return loggerOr(h.Logger).With("component", "auth_handlers")
}

// Logout ends the browser's session. The manager navigates to the login page
// and raises the confirmation toast, which survives the redirect.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	c := cookieSettings{Domain: h.CookieDomain}
	if id, ok := domainauth.BrowserIDFrom(r.Context()); ok {
		m, err := h.Sessions.Acquire(r.Context(), id)
		if err != nil {
			h.logger().WarnContext(r.Context(), "logout without session manager", "error", err)
		} else {
			m.Logout(r.Context())
		}
	}
	if c.followNavigation(w, r) {
		return
	}
	redirect(w, r, service.PathLogin)
}

// statusUser is the public part of a session. The token is never exposed.
type statusUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type statusResponse struct {
	Phase         string      `json:"phase"`
	Authenticated bool        `json:"authenticated"`
	Loading       bool        `json:"loading"`
	User          *statusUser `json:"user,omitempty"`
	Dashboard     string      `json:"dashboard,omitempty"`
}

func newStatusResponse(st domainauth.State) statusResponse {
	resp := statusResponse{
		Phase:         st.Phase.String(),
		Authenticated: st.IsAuthenticated(),
		Loading:       st.Loading,
	}
	if resp.Authenticated {
		s := st.Session
		resp.User = &statusUser{
			ID:        s.SubjectID,
			Email:     s.Email,
			Role:      string(s.Role),
			FirstName: s.FirstName,
			LastName:  s.LastName,
		}
		resp.Dashboard, _ = service.DashboardPath(s.Role)
	}
	return resp
}

// Status returns the browser's auth state as JSON.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	st, err := awaitSession(r.Context(), h.Sessions, h.InitWait)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "auth status", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, newStatusResponse(st))
}

// Events streams the browser's auth state as server-sent events so every
// open tab follows a logout or a rejected token. The first event is the
// current state. The stream ends when the client goes away or the manager
// is dropped; EventSource reconnects on its own.
// GET /auth/events.
func (h *AuthHandlers) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := domainauth.BrowserIDFrom(ctx)
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_unavailable"})
		return
	}
	m, err := h.Sessions.Acquire(ctx, id)
	if err != nil {
		h.logger().ErrorContext(ctx, "auth events", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_unavailable"})
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger().WarnContext(ctx, "event stream unsupported", "error", err)
		return
	}

	states, cancel := m.Subscribe()
	defer cancel()

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultEventsHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case st, open := <-states:
			if !open {
				return
			}
			if err := writeStateEvent(w, st); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeStateEvent(w http.ResponseWriter, st domainauth.State) error {
	b, err := json.Marshal(newStatusResponse(st))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: auth\ndata: %s\n\n", b)
	return err
}
