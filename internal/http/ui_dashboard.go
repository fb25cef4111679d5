package httpx

import (
	"net/http"

	"github.com/eduevents/eduevents-hub/internal/domain/model"
	"github.com/eduevents/eduevents-hub/internal/http/validation"
	"github.com/eduevents/eduevents-hub/internal/service"
)

// StudentDashboard renders registrations, teams and results next to the
// student's profile card.
// GET /student/dashboard.
func (h *UIHandlers) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r.Context())
	overview := h.Dashboards.Student(r.Context(), sess.SubjectID)
	if h.cookies().followNavigation(w, r) {
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "Student Dashboard - EduEvents Hub",
		PageTitle:   "Student Dashboard",
		CurrentPage: PageStudentDashboard,
	}, nil)
	data["Dashboard"] = overview.Dashboard
	data["Profile"] = overview.Profile
	h.render(w, r, http.StatusOK, data)
}

// JudgeDashboard renders the competitions assigned to the judge.
// GET /judge-dashboard.
func (h *UIHandlers) JudgeDashboard(w http.ResponseWriter, r *http.Request) {
	view := h.Dashboards.Judge(r.Context())
	if h.cookies().followNavigation(w, r) {
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "Judge Dashboard - EduEvents Hub",
		PageTitle:   "Judge Dashboard",
		CurrentPage: PageJudgeDashboard,
	}, nil)
	data["Dashboard"] = view
	data["PendingEvaluations"] = view.Data.PendingEvaluations()
	data["ActiveCompetitions"] = view.Data.ActiveCompetitions()
	h.render(w, r, http.StatusOK, data)
}

// AdminDashboard renders platform statistics and recent activity.
// GET /admin-dashboard.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	view := h.Dashboards.Admin(r.Context())
	if h.cookies().followNavigation(w, r) {
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "Admin Dashboard - EduEvents Hub",
		PageTitle:   "Admin Dashboard",
		CurrentPage: PageAdminDashboard,
	}, nil)
	data["Dashboard"] = view
	data["StatusSummary"] = statusSummary(view.Data.PlatformStats.EventsByStatus)
	h.render(w, r, http.StatusOK, data)
}

// statusCount is one row of the admin event status summary.
type statusCount struct {
	Status model.CompetitionStatus
	Count  int
}

func statusSummary(s model.EventsByStatus) []statusCount {
	return []statusCount{
		{model.StatusDraft, s.Draft},
		{model.StatusPublished, s.Published},
		{model.StatusInProgress, s.InProgress},
		{model.StatusCompleted, s.Completed},
	}
}

//nolint:gochecknoglobals // static page metadata
var profileMeta = PageMeta{Title: "My Profile - EduEvents Hub", PageTitle: "My Profile", CurrentPage: PageStudentProfile}

func (h *UIHandlers) renderProfile(w http.ResponseWriter, r *http.Request, status int, view service.View[model.Profile], form validation.ProfileForm, errs map[string]string) {
	data := basePageData(r, profileMeta, nil)
	data["Profile"] = view
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, r, status, data)
}

// ProfilePage shows the student's profile with an edit form.
// GET /student/profile.
func (h *UIHandlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r.Context())
	view := h.Dashboards.Profile(r.Context(), sess.SubjectID)
	if h.cookies().followNavigation(w, r) {
		return
	}
	form := validation.ProfileForm{FirstName: view.Data.FirstName, LastName: view.Data.LastName}
	h.renderProfile(w, r, http.StatusOK, view, form, nil)
}

// ProfileUpdate saves the student's first and last name.
// POST /student/profile.
func (h *UIHandlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess, _ := GetSessionFromContext(r.Context())
	form := validation.ProfileForm{FirstName: r.PostFormValue("firstName"), LastName: r.PostFormValue("lastName")}
	form.Normalize()

	current := service.View[model.Profile]{Data: model.Profile{
		ID:        sess.SubjectID,
		Email:     sess.Email,
		FirstName: sess.FirstName,
		LastName:  sess.LastName,
		Role:      model.RoleRef{Name: string(sess.Role)},
	}}

	if errs := validation.Check(form); errs != nil {
		errs[""] = errMsgFixBelow
		h.renderProfile(w, r, formStatus(r, http.StatusUnprocessableEntity), current, form, errs)
		return
	}

	updated, err := h.Dashboards.UpdateProfile(r.Context(), sess.SubjectID, form.Update())
	if h.cookies().followNavigation(w, r) {
		return
	}
	if err != nil {
		h.renderProfile(w, r, formStatus(r, statusForError(err)), current, form, nil)
		return
	}

	// Post/redirect/get for full page submits; htmx swaps the fresh card in place.
	if !IsHTMX(r) {
		fx := effectsFrom(r.Context())
		if fx != nil {
			h.cookies().setFlash(w, r, fx.drainNotes())
		}
		http.Redirect(w, r, PathStudentProfile, http.StatusSeeOther)
		return
	}
	view := service.View[model.Profile]{Data: updated}
	h.renderProfile(w, r, http.StatusOK, view, validation.ProfileForm{FirstName: updated.FirstName, LastName: updated.LastName}, nil)
}
