package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfEcho() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_IssuesTokenOnSafeRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	ck := findCookie(t, rec, DefaultCSRFCookieName)
	require.NotNil(t, ck)
	assert.NotEmpty(t, ck.Value)
	assert.Equal(t, ck.Value, rec.Body.String(), "token exposed to templates")
	assert.False(t, ck.HttpOnly)
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	csrfEcho().ServeHTTP(rec, req)

	assert.Nil(t, findCookie(t, rec, DefaultCSRFCookieName))
	assert.Equal(t, "tok", rec.Body.String())
}

func TestCSRFProtection_Validation(t *testing.T) {
	form := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{"csrf_token": {v}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}
	header := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set(DefaultCSRFHeaderName, v)
		return req
	}

	tests := []struct {
		name   string
		req    *http.Request
		cookie string
		want   int
	}{
		{"no cookie", form("tok"), "", http.StatusForbidden},
		{"no token submitted", httptest.NewRequest(http.MethodPost, "/logout", nil), "tok", http.StatusForbidden},
		{"form field matches", form("tok"), "tok", http.StatusOK},
		{"form field differs", form("other"), "tok", http.StatusForbidden},
		{"header matches", header("tok"), "tok", http.StatusOK},
		{"header differs", header("nope"), "tok", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cookie != "" {
				tt.req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			csrfEcho().ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCSRFProtection_SecureBehindProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	csrfEcho().ServeHTTP(rec, req)

	ck := findCookie(t, rec, DefaultCSRFCookieName)
	require.NotNil(t, ck)
	assert.True(t, ck.Secure)
}
