package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eduevents/eduevents-hub/internal/content"
	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/mocks"
	authmocks "github.com/eduevents/eduevents-hub/internal/mocks/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
	"github.com/eduevents/eduevents-hub/internal/service"
)

// Browser identifiers used across handler tests.
const (
	browserA = "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"
	browserB = "6ec0bd7f-11c0-43da-975e-2a8ad9ebae0b"

	testCSRF = "test-csrf-token"
)

// Tokens the static decoder knows about.
const (
	studentToken = "student-token"
	judgeToken   = "judge-token"
	adminToken   = "admin-token"
)

//nolint:gochecknoglobals // fixed test fixtures
var (
	testClaims = map[string]domainauth.Claims{
		studentToken: {SubjectID: "u-student", Role: domainauth.RoleStudent},
		judgeToken:   {SubjectID: "u-judge", Role: domainauth.RoleJudge},
		adminToken:   {SubjectID: "u-admin", Role: domainauth.RoleAdmin},
	}

	studentSession = domainauth.Session{
		SubjectID: "u-student", Role: domainauth.RoleStudent,
		Email: "ada@example.edu", FirstName: "Ada", LastName: "Lovelace", Token: studentToken,
	}
	judgeSession = domainauth.Session{
		SubjectID: "u-judge", Role: domainauth.RoleJudge,
		Email: "grace@example.edu", FirstName: "Grace", LastName: "Hopper", Token: judgeToken,
	}
	adminSession = domainauth.Session{
		SubjectID: "u-admin", Role: domainauth.RoleAdmin,
		Email: "admin@example.edu", FirstName: "Alan", LastName: "Turing", Token: adminToken,
	}
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLanding() content.Landing {
	return content.Landing{
		Hero: content.Hero{
			Title:     "Compete, learn and",
			Highlight: "grow together",
			Subtitle:  "Student competitions in one place.",
			Primary:   content.Link{Label: "Get started", Href: "/register"},
			Secondary: content.Link{Label: "Browse events", Href: "#events"},
			Stats:     []content.Stat{{Value: "120+", Label: "Events hosted"}},
		},
		Features: []content.Feature{{Title: "Team management", Description: "Form and manage teams."}},
		Events: []content.EventPreview{{
			Title: "Robotics Cup", Description: "Build and race.", Date: "March 3", Location: "Main Hall",
			Category: "Engineering", Participants: 30, MaxParticipants: 60,
		}},
	}
}

// harness wires the real router, session registry and dashboard service
// around mocked API ports and in-memory storage.
type harness struct {
	t        *testing.T
	authAPI  *mocks.MockAuthAPI
	dashAPI  *mocks.MockDashboardAPI
	storage  ports.Storage
	sessions *service.SessionRegistry
	handler  http.Handler
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	storage  ports.Storage
	initWait time.Duration
}

func withStorage(s ports.Storage) harnessOption {
	return func(c *harnessConfig) { c.storage = s }
}

func withInitWait(d time.Duration) harnessOption {
	return func(c *harnessConfig) { c.initWait = d }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	tr := RequireTemplateRenderer(t)

	cfg := harnessConfig{storage: authmocks.NewMemoryStorage(), initWait: time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctrl := gomock.NewController(t)
	logger := discardLogger()
	h := &harness{
		t:       t,
		authAPI: mocks.NewMockAuthAPI(ctrl),
		dashAPI: mocks.NewMockDashboardAPI(ctrl),
		storage: cfg.storage,
	}

	fx := service.AuthEffects{
		Navigator: RequestNavigator{Logger: logger},
		Notifier:  RequestNotifier{Logger: logger},
	}
	reg, err := service.NewSessionRegistry(service.SessionRegistryOptions{
		Deps: service.SessionRegistryDeps{
			Storage: cfg.storage,
			API:     h.authAPI,
			Decoder: authmocks.StaticDecoder{Claims: testClaims},
			Effects: fx,
		},
		Logger: logger,
	})
	require.NoError(t, err)
	h.sessions = reg

	dash, err := service.NewDashboardService(service.DashboardServiceOptions{
		API:      h.dashAPI,
		Notifier: fx.Notifier,
		Logger:   logger,
	})
	require.NoError(t, err)

	ui := &UIHandlers{
		T:              tr,
		Sessions:       reg,
		Dashboards:     dash,
		LandingContent: testLanding(),
		InitWait:       cfg.initWait,
		Logger:         logger,
	}
	h.handler = NewRouter(RouterServices{
		UI:     ui,
		Auth:   &AuthHandlers{Sessions: reg, InitWait: cfg.initWait, Heartbeat: 50 * time.Millisecond, Logger: logger},
		Guard:  &RouteGuard{Sessions: reg, InitWait: cfg.initWait, Pages: ui, Logger: logger},
		Health: &HealthHandlers{Logger: logger},
		StaticFS: fstest.MapFS{
			"css/app.css": {Data: []byte("body { margin: 0; }")},
		},
		Logger: logger,
	})
	return h
}

// seed stores a session for browserID the way a previous login would have.
func (h *harness) seed(browserID string, sess domainauth.Session) {
	h.t.Helper()
	raw, err := json.Marshal(sess.Identity())
	require.NoError(h.t, err)
	ctx := context.Background()
	require.NoError(h.t, h.storage.Set(ctx, browserID, service.KeyAuthToken, sess.Token))
	require.NoError(h.t, h.storage.Set(ctx, browserID, service.KeyAuthUser, string(raw)))
}

// stored reports whether browserID still has a persisted token.
func (h *harness) stored(browserID string) bool {
	h.t.Helper()
	_, ok, err := h.storage.Get(context.Background(), browserID, service.KeyAuthToken)
	require.NoError(h.t, err)
	return ok
}

// request builds a browser request bound to browserID. Form posts carry a
// valid CSRF token.
func request(method, target, browserID string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		form.Set("csrf_token", testCSRF)
		body = strings.NewReader(form.Encode())
	}
	r := httptest.NewRequest(method, target, body)
	r.Header.Set("Accept", "text/html")
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if browserID != "" {
		r.AddCookie(&http.Cookie{Name: browserCookie, Value: browserID})
	}
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
	return r
}

func htmxRequest(r *http.Request) *http.Request {
	r.Header.Set("Hx-Request", "true")
	return r
}

func (h *harness) serve(r *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, r)
	return rec
}

// forwardCookies copies cookies set by a response onto the next request.
func forwardCookies(rec *httptest.ResponseRecorder, next *http.Request) *http.Request {
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		next.AddCookie(c)
	}
	return next
}
