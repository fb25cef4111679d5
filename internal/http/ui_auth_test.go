package httpx

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/domain/model"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func TestLoginPage(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(request(http.MethodGet, "/login", browserA, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"Sign in to EduEvents Hub", `name="csrf_token"`, `name="email"`}))
}

func TestLoginPage_SignedInRedirects(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, adminSession)

	rec := h.serve(request(http.MethodGet, "/login", browserA, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin-dashboard", rec.Header().Get("Location"))
}

func TestLoginSubmit_Success(t *testing.T) {
	h := newHarness(t)
	h.authAPI.EXPECT().
		Login(gomock.Any(), domainauth.Credentials{Email: "ada@example.edu", Password: "Engine#1843"}).
		Return(ports.AuthResult{Token: studentToken}, nil)

	rec := h.serve(request(http.MethodPost, "/login", browserA, loginForm("ada@example.edu", "Engine#1843")))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/dashboard", rec.Header().Get("Location"))
	assert.True(t, h.stored(browserA), "session is persisted")

	// The welcome toast rides the flash cookie to the dashboard.
	h.dashAPI.EXPECT().StudentDashboard(gomock.Any()).Return(model.StudentDashboard{}, nil)
	h.dashAPI.EXPECT().Profile(gomock.Any(), "u-student").Return(model.Profile{ID: "u-student", FirstName: "Ada"}, nil)
	next := forwardCookies(rec, request(http.MethodGet, "/student/dashboard", browserA, nil))
	page := h.serve(next)

	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Login successful")
}

func TestLoginSubmit_HTMXSuccess(t *testing.T) {
	h := newHarness(t)
	h.authAPI.EXPECT().Login(gomock.Any(), gomock.Any()).Return(ports.AuthResult{Token: judgeToken}, nil)

	rec := h.serve(htmxRequest(request(http.MethodPost, "/login", browserA, loginForm("grace@example.edu", "pw"))))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/judge-dashboard", rec.Header().Get("Hx-Redirect"))
}

func TestLoginSubmit_ValidationErrors(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(request(http.MethodPost, "/login", browserA, loginForm("", "")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{errMsgFixBelow, "Email is required.", "Password is required."}))
	assert.False(t, h.stored(browserA))
}

func TestLoginSubmit_ValidationErrorsHTMXSwaps(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(htmxRequest(request(http.MethodPost, "/login", browserA, loginForm("", ""))))

	assert.Equal(t, http.StatusOK, rec.Code, "htmx only swaps 2xx responses")
	assert.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "Email is required.")
}

func TestLoginSubmit_Rejected(t *testing.T) {
	h := newHarness(t)
	h.authAPI.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{}, apperrors.Unauthorized("Invalid email or password"))

	rec := h.serve(request(http.MethodPost, "/login", browserA, loginForm("ada@example.edu", "wrong")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Login failed")
	assert.Contains(t, body, "sign you in")
	assert.Contains(t, body, `value="ada@example.edu"`, "email is kept")
	assert.False(t, h.stored(browserA))
}

func TestLoginSubmit_RejectedHTMXToast(t *testing.T) {
	h := newHarness(t)
	h.authAPI.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{}, apperrors.Unauthorized("Invalid email or password"))

	rec := h.serve(htmxRequest(request(http.MethodPost, "/login", browserA, loginForm("ada@example.edu", "wrong"))))

	assert.Equal(t, http.StatusOK, rec.Code)
	trigger := rec.Header().Get("Hx-Trigger")
	assert.Contains(t, trigger, "showToast")
	assert.Contains(t, trigger, "Login failed")
	assert.Contains(t, trigger, `"variant":"destructive"`)
}

func TestRegisterSubmit_Success(t *testing.T) {
	h := newHarness(t)
	h.authAPI.EXPECT().Register(gomock.Any(), domainauth.RegisterData{
		Email: "new@example.edu", Password: "Engine#1843", FirstName: "New", LastName: "Student",
	}).Return(ports.AuthResult{
		Token: studentToken,
		User:  &ports.RegisteredUser{ID: "u-student", Email: "new@example.edu", FirstName: "New", LastName: "Student"},
	}, nil)

	form := url.Values{
		"firstName":       {"New"},
		"lastName":        {"Student"},
		"email":           {"new@example.edu"},
		"password":        {"Engine#1843"},
		"confirmPassword": {"Engine#1843"},
		"acceptTerms":     {"true"},
	}
	rec := h.serve(request(http.MethodPost, "/register", browserA, form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/dashboard", rec.Header().Get("Location"))
	assert.True(t, h.stored(browserA))
}

func TestRegisterSubmit_ValidationErrors(t *testing.T) {
	h := newHarness(t)

	form := url.Values{
		"firstName":       {"New"},
		"lastName":        {"Student"},
		"email":           {"new@example.edu"},
		"password":        {"Engine#1843"},
		"confirmPassword": {"Engine#1844"},
	}
	rec := h.serve(request(http.MethodPost, "/register", browserA, form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Passwords do not match.")
	assert.NotContains(t, body, "Engine#1843", "passwords are never echoed back")
}
