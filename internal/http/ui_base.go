package httpx

import (
	"errors"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/eduevents/eduevents-hub/internal/content"
	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/http/ui/viewmodel"
	"github.com/eduevents/eduevents-hub/internal/http/uiutil"
	"github.com/eduevents/eduevents-hub/internal/ports"
	"github.com/eduevents/eduevents-hub/internal/service"
)

const errMsgFixBelow = "Please fix the errors below."

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T              *TemplateRenderer
	Sessions       *service.SessionRegistry
	Dashboards     *service.DashboardService
	LandingContent content.Landing
	CookieDomain   string
	InitWait       time.Duration
	IsDev          bool // Development mode flag for enhanced error reporting
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) cookies() cookieSettings { return cookieSettings{Domain: h.CookieDomain} }

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// navFor lists the sidebar links of a role's area.
func navFor(role domainauth.Role, current string) []viewmodel.NavItem {
	var items []viewmodel.NavItem
	switch role {
	case domainauth.RoleStudent:
		items = []viewmodel.NavItem{
			{Label: "Dashboard", Href: service.PathStudentDashboard, Active: current == PageStudentDashboard},
			{Label: "Profile", Href: PathStudentProfile, Active: current == PageStudentProfile},
		}
	case domainauth.RoleJudge:
		items = []viewmodel.NavItem{{Label: "Dashboard", Href: service.PathJudgeDashboard, Active: current == PageJudgeDashboard}}
	case domainauth.RoleAdmin:
		items = []viewmodel.NavItem{{Label: "Dashboard", Href: service.PathAdminDashboard, Active: current == PageAdminDashboard}}
	}
	return items
}

// buildLayout constructs shared layout metadata from the request and session.
func buildLayout(r *http.Request, meta PageMeta, session *domainauth.Session) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if session == nil {
		session, _ = GetSessionFromContext(r.Context())
	}
	if session != nil {
		dashboard, _ := service.DashboardPath(session.Role)
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Name:          session.DisplayName(),
			Email:         session.Email,
			Role:          string(session.Role),
			RoleLabel:     session.Role.DisplayName(),
			Initials:      uiutil.Initials(session.FirstName, session.LastName, session.Email),
			DashboardPath: dashboard,
		}
		layout.Nav = navFor(session.Role, meta.CurrentPage)
	}
	return layout
}

// basePageData constructs the common page data map with user context.
// Public pages pass the browser's session explicitly; guarded pages find it
// in the request context.
func basePageData(r *http.Request, meta PageMeta, session *domainauth.Session) map[string]any {
	layout := buildLayout(r, meta, session)
	return map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"User":            layout.User,
		"Nav":             layout.Nav,
	}
}

// render writes a page: the whole layout for normal requests, or the title,
// the out-of-band header and the content section for HTMX swaps. Toasts from
// a previous redirect and from this request ride along either way.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	notes := h.cookies().takeFlash(w, r)
	if fx := effectsFrom(r.Context()); fx != nil {
		notes = append(notes, fx.drainNotes()...)
	}

	var err error
	if WantsPartial(r) {
		if len(notes) > 0 {
			triggerToasts(w, notes)
		}
		err = h.T.RenderContent(w, status, "partial", data)
	} else {
		if notes == nil {
			notes = []ports.Notification{}
		}
		data["Toasts"] = notes
		err = h.T.RenderFull(w, status, data)
	}
	if err != nil {
		page, _ := data["CurrentPage"].(string)
		h.logAndRenderTemplateError(w, r, err, "render "+page)
	}
}

// formStatus is the status for a form re-rendered with errors. htmx only
// swaps 2xx responses, so HTMX requests always get 200.
func formStatus(r *http.Request, status int) int {
	if IsHTMX(r) {
		return http.StatusOK
	}
	return status
}

// statusForError maps a failed API call to the status of the page showing it.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusBadGateway
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if _, writeErr := w.Write([]byte(`<div class="dev-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
		h.logger().Error("failed to write template error response", "error", writeErr)
	}
}
