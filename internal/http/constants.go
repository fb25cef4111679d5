package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLanding          = "landing"
	PageLogin            = "login"
	PageRegister         = "register"
	PageStudentDashboard = "student-dashboard"
	PageStudentProfile   = "student-profile"
	PageJudgeDashboard   = "judge-dashboard"
	PageAdminDashboard   = "admin-dashboard"
	PageLoading          = "loading"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
	StaticPathFromTest   = "../../frontend/static"
	ContentPathFromRoot  = "frontend/content"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageLanding:          "landing-content",
	PageLogin:            "login-content",
	PageRegister:         "register-content",
	PageStudentDashboard: "student-dashboard-content",
	PageStudentProfile:   "student-profile-content",
	PageJudgeDashboard:   "judge-dashboard-content",
	PageAdminDashboard:   "admin-dashboard-content",
	PageLoading:          "loading-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to the landing page for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "landing-content"
}

// Paths served by this app besides the dashboard roots owned by the service layer.
const (
	PathHome           = "/"
	PathRegister       = "/register"
	PathLogout         = "/logout"
	PathStudentProfile = "/student/profile"
	PathAuthStatus     = "/auth/status"
	PathAuthEvents     = "/auth/events"
)
