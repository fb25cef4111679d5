package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code and data.
// Auth state changes per request, so responses are marked uncacheable unless
// the handler already chose a policy.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	if h.Get("Cache-Control") == "" {
		h.Set("Cache-Control", "no-store")
	}
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w) // client went away
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int    // HTTP status
	ErrCode string // machine-readable code, e.g. "not_found"
	Message string // safe for clients; defaults to the status text
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response. Internal error details are never
// included; log them at the call site.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := p.Message
	if msg == "" {
		msg = http.StatusText(p.Code)
	}
	WriteJSON(w, p.Code, errorBody{Error: p.ErrCode, Message: msg})
}
