package httpx

import "net/http"

// Landing renders the marketing page. Signed-in visitors see a link to their
// dashboard in place of the sign-in buttons.
// GET /.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{
		Title:       "EduEvents Hub - Educational Events Platform",
		CurrentPage: PageLanding,
	}, h.publicSession(r))
	data["Content"] = h.LandingContent
	h.render(w, r, http.StatusOK, data)
}
