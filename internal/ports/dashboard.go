package ports

import (
	"context"

	"github.com/eduevents/eduevents-hub/internal/domain/model"
)

// DashboardAPI reads and writes the role dashboards and the user profile.
// All calls are authenticated with the bearer token of the browser bound to ctx.
type DashboardAPI interface {
	StudentDashboard(ctx context.Context) (model.StudentDashboard, error)
	JudgeDashboard(ctx context.Context) (model.JudgeDashboard, error)
	AdminDashboard(ctx context.Context) (model.AdminDashboard, error)
	Profile(ctx context.Context, userID string) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in model.ProfileUpdate) (model.Profile, error)
}
