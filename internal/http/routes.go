package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	eduevents "github.com/eduevents/eduevents-hub"
	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	UI     *UIHandlers
	Auth   *AuthHandlers
	Guard  *RouteGuard
	Health *HealthHandlers

	CookieDomain       string
	CompressionEnabled bool
	Compression        CompressionConfig
	// StaticFS overrides the static asset source (tests). Nil picks disk in
	// dev mode and the embedded tree otherwise.
	StaticFS fs.FS
	IsDev    bool         // Development mode flag for hot reloading, etc.
	Logger   *slog.Logger // Logger for request and template errors (optional)
}

// NewRouter creates the HTTP router wrapped in the middleware chain.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	if services.Health != nil {
		mux.HandleFunc("GET /healthz", services.Health.Health)
		mux.HandleFunc("HEAD /healthz", services.Health.Health)
	}
	mux.Handle("GET /static/", staticHandler(services.StaticFS, services.IsDev, services.Logger))

	if services.Auth != nil {
		registerAuthRoutes(mux, services.Auth)
	}
	if services.UI != nil {
		registerUIRoutes(mux, services.UI, services.Guard)
	}

	var handler http.Handler = &notFoundHandler{mux: mux, uiHandlers: services.UI}
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})(handler)
	handler = Effects()(handler)
	handler = BrowserIdentity(services.CookieDomain)(handler)
	handler = BrowserDetection()(handler)
	if services.CompressionEnabled {
		cfg := services.Compression
		if cfg.Logger == nil {
			cfg.Logger = services.Logger
		}
		handler = Compression(cfg)(handler)
	}
	handler = Logging(services.Logger)(handler)
	return Recover(services.Logger)(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST "+PathLogout, h.Logout)
	mux.HandleFunc("GET "+PathAuthStatus, h.Status)
	mux.HandleFunc("GET "+PathAuthEvents, h.Events)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, guard *RouteGuard) {
	// "/{$}" matches the root only; everything else falls through to NotFound.
	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("GET "+service.PathLogin, h.LoginPage)
	mux.HandleFunc("POST "+service.PathLogin, h.LoginSubmit)
	mux.HandleFunc("GET "+PathRegister, h.RegisterPage)
	mux.HandleFunc("POST "+PathRegister, h.RegisterSubmit)

	protect := func(hf http.HandlerFunc, roles ...domainauth.Role) http.Handler {
		if guard == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				redirect(w, r, service.PathLogin)
			})
		}
		return guard.Require(roles...)(hf)
	}
	mux.Handle("GET "+service.PathStudentDashboard, protect(h.StudentDashboard, domainauth.RoleStudent))
	mux.Handle("GET "+PathStudentProfile, protect(h.ProfilePage, domainauth.RoleStudent))
	mux.Handle("POST "+PathStudentProfile, protect(h.ProfileUpdate, domainauth.RoleStudent))
	mux.Handle("GET "+service.PathJudgeDashboard, protect(h.JudgeDashboard, domainauth.RoleJudge))
	mux.Handle("GET "+service.PathAdminDashboard, protect(h.AdminDashboard, domainauth.RoleAdmin))
}

// TemplateFS returns the template tree: the working copy on disk in dev mode
// so edits show up on reload, the embedded copy otherwise.
func TemplateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(eduevents.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		loggerOr(logger).Warn("embedded templates unavailable, falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from the given FS, from disk in dev mode,
// or from the embedded tree.
func staticHandler(fsys fs.FS, isDev bool, logger *slog.Logger) http.Handler {
	if fsys == nil {
		if isDev {
			fsys = os.DirFS(StaticPathFromRoot)
		} else if sub, err := fs.Sub(eduevents.StaticFS, StaticPathFromRoot); err == nil {
			fsys = sub
		} else {
			loggerOr(logger).Warn("embedded static assets unavailable, falling back to disk", "error", err)
			fsys = os.DirFS(StaticPathFromRoot)
		}
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(fsys))), isDev)
}

// hashedFilePattern matches content-hashed filenames including an optional
// .map suffix (app.abc12345.js, styles.def45678.css.map).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add cache headers.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case hashedFilePattern.MatchString(r.URL.Path):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case isDev:
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := &captureWriter{rw: w, header: make(http.Header)}
	h.mux.ServeHTTP(cw, r)

	if !cw.notFound {
		cw.commit()
		return
	}
	// Missing static assets keep the file server's plain answer.
	if strings.HasPrefix(r.URL.Path, "/static/") || h.uiHandlers == nil {
		http.NotFound(w, r)
		return
	}
	h.uiHandlers.NotFound(w, r)
}

// captureWriter holds headers until the status is known. A 404 is swallowed
// so the custom page can replace it; any other response streams straight
// through, which keeps SSE working.
type captureWriter struct {
	rw       http.ResponseWriter
	header   http.Header
	wrote    bool
	notFound bool
}

func (c *captureWriter) Header() http.Header { return c.header }

func (c *captureWriter) WriteHeader(code int) {
	if c.wrote {
		return
	}
	c.wrote = true
	if code == http.StatusNotFound {
		c.notFound = true
		return
	}
	dst := c.rw.Header()
	for k, vs := range c.header {
		dst[k] = vs
	}
	c.rw.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if !c.wrote {
		c.WriteHeader(http.StatusOK)
	}
	if c.notFound {
		return len(b), nil
	}
	return c.rw.Write(b)
}

func (c *captureWriter) Flush() {
	if !c.wrote {
		c.WriteHeader(http.StatusOK)
	}
	if c.notFound {
		return
	}
	if f, ok := c.rw.(http.Flusher); ok {
		f.Flush()
	}
}

func (c *captureWriter) Unwrap() http.ResponseWriter { return c.rw }

// commit sends a handler's headers when it returned without writing.
func (c *captureWriter) commit() {
	if !c.wrote {
		c.WriteHeader(http.StatusOK)
	}
}
