package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/http/validation"
	"github.com/eduevents/eduevents-hub/internal/service"
)

const msgSignInBusy = "A sign-in request is already in progress. Please wait."

//nolint:gochecknoglobals // static page metadata
var (
	loginMeta    = PageMeta{Title: "Sign In - EduEvents Hub", PageTitle: "Welcome back", CurrentPage: PageLogin}
	registerMeta = PageMeta{Title: "Create Account - EduEvents Hub", PageTitle: "Create your account", CurrentPage: PageRegister}
)

// publicSession resolves the browser's session for pages outside the guard.
// It returns nil when anonymous, still initializing, or unresolvable.
func (h *UIHandlers) publicSession(r *http.Request) *domainauth.Session {
	st, err := awaitSession(r.Context(), h.Sessions, h.InitWait)
	if err != nil {
		h.logger().WarnContext(r.Context(), "resolve browser session", "error", err)
		return nil
	}
	if !st.IsAuthenticated() {
		return nil
	}
	return st.Session
}

// redirectSignedIn sends an authenticated browser to its dashboard instead
// of showing it a sign-in form.
func (h *UIHandlers) redirectSignedIn(w http.ResponseWriter, r *http.Request) bool {
	sess := h.publicSession(r)
	if sess == nil {
		return false
	}
	target, err := service.DashboardPath(sess.Role)
	if err != nil {
		return false
	}
	redirect(w, r, target)
	return true
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, form validation.LoginForm, errs map[string]string) {
	data := basePageData(r, loginMeta, nil)
	form.Password = ""
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, r, status, data)
}

func (h *UIHandlers) renderRegister(w http.ResponseWriter, r *http.Request, status int, form validation.RegisterForm, errs map[string]string) {
	data := basePageData(r, registerMeta, nil)
	form.Password, form.ConfirmPassword = "", ""
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, r, status, data)
}

// LoginPage renders the sign-in form.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.redirectSignedIn(w, r) {
		return
	}
	h.renderLogin(w, r, http.StatusOK, validation.LoginForm{}, nil)
}

// LoginSubmit signs the browser in. On success the session manager has
// already chosen the destination dashboard; on failure the form is shown
// again next to the failure toast.
// POST /login.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := validation.LoginForm{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	form.Normalize()
	if errs := validation.Check(form); errs != nil {
		errs[""] = errMsgFixBelow
		h.renderLogin(w, r, formStatus(r, http.StatusUnprocessableEntity), form, errs)
		return
	}

	m, err := h.acquire(r)
	if err != nil {
		h.ServerError(w, r, "")
		return
	}
	err = m.Login(r.Context(), form.Email, form.Password)
	if h.cookies().followNavigation(w, r) {
		return
	}
	h.renderLogin(w, r, formStatus(r, statusForError(err)), form, signInErrors(err))
}

// RegisterPage renders the registration form.
// GET /register.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.redirectSignedIn(w, r) {
		return
	}
	h.renderRegister(w, r, http.StatusOK, validation.RegisterForm{}, nil)
}

// RegisterSubmit creates the account and signs it in.
// POST /register.
func (h *UIHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := validation.RegisterForm{
		FirstName:       r.PostFormValue("firstName"),
		LastName:        r.PostFormValue("lastName"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		AcceptTerms:     r.PostFormValue("acceptTerms") != "",
	}
	form.Normalize()
	if errs := validation.Check(form); errs != nil {
		errs[""] = errMsgFixBelow
		h.renderRegister(w, r, formStatus(r, http.StatusUnprocessableEntity), form, errs)
		return
	}

	m, err := h.acquire(r)
	if err != nil {
		h.ServerError(w, r, "")
		return
	}
	err = m.Register(r.Context(), form.RegisterData())
	if h.cookies().followNavigation(w, r) {
		return
	}
	h.renderRegister(w, r, formStatus(r, statusForError(err)), form, signInErrors(err))
}

func (h *UIHandlers) acquire(r *http.Request) (*service.AuthSessionManager, error) {
	id, ok := domainauth.BrowserIDFrom(r.Context())
	if !ok {
		return nil, errNoBrowser
	}
	m, err := h.Sessions.Acquire(r.Context(), id)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "acquire session manager", "error", err)
		return nil, err
	}
	return m, nil
}

// signInErrors returns the inline form message for a failed sign-in. The
// reason itself was already shown as a toast.
func signInErrors(err error) map[string]string {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrInFlight):
		return map[string]string{"": msgSignInBusy}
	case apperrors.IsCanceled(err):
		return map[string]string{"": "The request was canceled. Please try again."}
	default:
		return map[string]string{"": "We couldn't sign you in. Please check the details and try again."}
	}
}
