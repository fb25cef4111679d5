package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// Cookie names.
const (
	browserCookie = "browser_id"
	flashCookie   = "flash"
)

const (
	browserCookieMaxAge = 400 * 24 * 60 * 60 // browsers cap persistent cookies at 400 days
	flashCookieMaxAge   = 60
	maxFlashToasts      = 4
)

// cookieSettings holds the attributes shared by every cookie the app sets.
type cookieSettings struct {
	Domain string
}

// isSecureRequest reports whether the request arrived over HTTPS, directly
// or through a proxy. X-Forwarded-Proto may carry a comma-separated list.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

func (c cookieSettings) set(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clear expires a cookie, mirroring the attributes used to set it.
func (c cookieSettings) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// BrowserIdentity returns a middleware that binds every request to a browser.
// Browsers without a valid browser_id cookie are issued a new one.
func BrowserIdentity(domain string) func(http.Handler) http.Handler {
	c := cookieSettings{Domain: domain}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if ck, err := r.Cookie(browserCookie); err == nil {
				if parsed, perr := uuid.Parse(ck.Value); perr == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.set(w, r, browserCookie, id, browserCookieMaxAge)
			}
			ctx := domainauth.WithBrowserID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// setFlash stores toasts to be shown by the next rendered page.
func (c cookieSettings) setFlash(w http.ResponseWriter, r *http.Request, notes []ports.Notification) {
	if len(notes) == 0 {
		return
	}
	if len(notes) > maxFlashToasts {
		notes = notes[len(notes)-maxFlashToasts:]
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return
	}
	c.set(w, r, flashCookie, base64.RawURLEncoding.EncodeToString(b), flashCookieMaxAge)
}

// takeFlash returns and clears toasts left by a previous redirect.
// An unreadable cookie is dropped.
func (c cookieSettings) takeFlash(w http.ResponseWriter, r *http.Request) []ports.Notification {
	ck, err := r.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.clear(w, r, flashCookie)

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var notes []ports.Notification
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil
	}
	if len(notes) > maxFlashToasts {
		notes = notes[:maxFlashToasts]
	}
	return notes
}
