package httpx

import (
	"net/http"
	"strconv"
)

// errorPage is the data of the standalone error page.
type errorPage struct {
	Title    string
	Code     string
	Heading  string
	Message  string
	HomePath string
	HomeText string
}

func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, status int, page errorPage) {
	page.Code = strconv.Itoa(status)
	if page.HomePath == "" {
		page.HomePath, page.HomeText = PathHome, "Back to home"
	}
	if h.T == nil {
		http.Error(w, page.Message, status)
		return
	}
	if err := h.T.RenderError(w, status, page); err != nil {
		http.Error(w, page.Message, status)
	}
}

// NotFound handles unknown paths: an HTML page for browsers, JSON otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Message: "not found",
		})
		return
	}
	h.renderError(w, r, http.StatusNotFound, errorPage{
		Title:   "Page Not Found - EduEvents Hub",
		Heading: "Page not found",
		Message: "The page you're looking for doesn't exist.",
	})
}

// ServerError renders the generic failure page.
func (h *UIHandlers) ServerError(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Something went wrong. Please try again."
	}
	h.renderError(w, r, http.StatusInternalServerError, errorPage{
		Title:   "Error - EduEvents Hub",
		Heading: "Something went wrong",
		Message: message,
	})
}

// Loading renders the neutral page shown while a browser's session is still
// being restored. It reloads itself shortly.
func (h *UIHandlers) Loading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Refresh", "1")
	w.Header().Set("Cache-Control", "no-store")
	if IsHTMX(r) {
		HTMX(w).Refresh()
		return
	}
	data := basePageData(r, PageMeta{Title: "Loading - EduEvents Hub", CurrentPage: PageLoading}, nil)
	h.render(w, r, http.StatusOK, data)
}
