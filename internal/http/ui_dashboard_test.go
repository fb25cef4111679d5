package httpx

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eduevents/eduevents-hub/internal/domain/model"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
)

func TestStudentDashboard(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)

	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	h.dashAPI.EXPECT().StudentDashboard(gomock.Any()).Return(model.StudentDashboard{
		UpcomingRegistrations: []model.Registration{{ID: "r1", Event: model.EventRef{Title: "Pi Day Hackathon", StartTime: &start}}},
		ActiveTeams:           []model.Team{{ID: "t1", Name: "Analytical Engines"}},
		RecentResults:         []model.Result{{ID: "x1", FinalScore: 92.5, Team: model.TeamRef{Name: "Analytical Engines"}}},
	}, nil)
	h.dashAPI.EXPECT().Profile(gomock.Any(), "u-student").Return(model.Profile{
		ID: "u-student", Email: "ada@example.edu", FirstName: "Ada", LastName: "Lovelace",
		Role: model.RoleRef{Name: "STUDENT"},
	}, nil)

	rec := h.serve(request(http.MethodGet, "/student/dashboard", browserA, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{
		"<!DOCTYPE html>", "Student Dashboard", "Pi Day Hackathon", "Analytical Engines", "92.5", "AL",
	}))
}

func TestStudentDashboard_PartialForHTMX(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)
	h.dashAPI.EXPECT().StudentDashboard(gomock.Any()).Return(model.StudentDashboard{}, nil)
	h.dashAPI.EXPECT().Profile(gomock.Any(), "u-student").Return(model.Profile{}, nil)

	rec := h.serve(htmxRequest(request(http.MethodGet, "/student/dashboard", browserA, nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.Contains(t, body, "You are not registered for any upcoming events.")
}

func TestStudentDashboard_LoadFailureShowsInlineError(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)
	h.dashAPI.EXPECT().StudentDashboard(gomock.Any()).Return(model.StudentDashboard{}, apperrors.Upstream(http.StatusInternalServerError, "upstream exploded"))
	h.dashAPI.EXPECT().Profile(gomock.Any(), "u-student").Return(model.Profile{FirstName: "Ada"}, nil)

	rec := h.serve(request(http.MethodGet, "/student/dashboard", browserA, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alert-destructive")
}

func TestJudgeDashboard(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, judgeSession)
	h.dashAPI.EXPECT().JudgeDashboard(gomock.Any()).Return(model.JudgeDashboard{
		CompetitionsToJudge: []model.JudgeCompetition{
			{ID: "c1", Title: "Robotics Finals", Status: model.StatusInProgress, SubmissionsAwaitingEvaluation: 4},
			{ID: "c2", Title: "Poetry Slam", Status: model.StatusPublished, SubmissionsAwaitingEvaluation: 3},
		},
	}, nil)

	rec := h.serve(request(http.MethodGet, "/judge-dashboard", browserA, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{
		"Robotics Finals", "Poetry Slam", "In progress", "4 awaiting evaluation", "badge-success",
	}))
}

func TestAdminDashboard(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, adminSession)
	h.dashAPI.EXPECT().AdminDashboard(gomock.Any()).Return(model.AdminDashboard{
		PlatformStats: model.PlatformStats{
			TotalUsers: 1234, TotalRegistrations: 56, TotalCompetitions: 7,
			EventsByStatus: model.EventsByStatus{Draft: 1, Published: 2, InProgress: 3, Completed: 1},
		},
		RecentActivity: model.RecentActivity{
			RecentUsers: []model.RecentUser{{ID: "u9", Email: "new@example.edu", FirstName: "New", LastName: "User", CreatedAt: time.Now()}},
		},
	}, nil)

	rec := h.serve(request(http.MethodGet, "/admin-dashboard", browserA, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"1,234", "new@example.edu", "Draft", "Completed"}))
}

func TestProfilePage(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)
	h.dashAPI.EXPECT().Profile(gomock.Any(), "u-student").Return(model.Profile{
		ID: "u-student", Email: "ada@example.edu", FirstName: "Ada", LastName: "Lovelace",
	}, nil)

	rec := h.serve(request(http.MethodGet, "/student/profile", browserA, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{`value="Ada"`, `value="Lovelace"`, "Save changes"}))
}

func TestProfileUpdate_Redirects(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)
	h.dashAPI.EXPECT().
		UpdateProfile(gomock.Any(), "u-student", model.ProfileUpdate{FirstName: "Ada", LastName: "King"}).
		Return(model.Profile{ID: "u-student", FirstName: "Ada", LastName: "King"}, nil)

	form := url.Values{"firstName": {" Ada "}, "lastName": {"King"}}
	rec := h.serve(request(http.MethodPost, "/student/profile", browserA, form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/profile", rec.Header().Get("Location"))

	var flash bool
	for _, c := range rec.Result().Cookies() {
		flash = flash || (c.Name == flashCookie && c.Value != "")
	}
	assert.True(t, flash, "confirmation toast is carried to the next page")
}

func TestProfileUpdate_HTMXSwapsCard(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)
	h.dashAPI.EXPECT().UpdateProfile(gomock.Any(), "u-student", gomock.Any()).
		Return(model.Profile{ID: "u-student", Email: "ada@example.edu", FirstName: "Ada", LastName: "King"}, nil)

	form := url.Values{"firstName": {"Ada"}, "lastName": {"King"}}
	rec := h.serve(htmxRequest(request(http.MethodPost, "/student/profile", browserA, form)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="King"`)
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "Profile updated successfully")
}

func TestProfileUpdate_ValidationErrors(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)

	form := url.Values{"firstName": {""}, "lastName": {"King"}}
	rec := h.serve(request(http.MethodPost, "/student/profile", browserA, form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), errMsgFixBelow)
}

func TestProfileUpdate_APIFailure(t *testing.T) {
	h := newHarness(t)
	h.seed(browserA, studentSession)
	h.dashAPI.EXPECT().UpdateProfile(gomock.Any(), "u-student", gomock.Any()).
		Return(model.Profile{}, apperrors.Validation("last name is too long"))

	form := url.Values{"firstName": {"Ada"}, "lastName": {"King"}}
	rec := h.serve(request(http.MethodPost, "/student/profile", browserA, form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to update profile")
}
