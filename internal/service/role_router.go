package service

import (
	"context"
	"fmt"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// Dashboard roots per role.
const (
	PathAdminDashboard   = "/admin-dashboard"
	PathJudgeDashboard   = "/judge-dashboard"
	PathStudentDashboard = "/student/dashboard"
	PathLogin            = "/login"
)

// DashboardPath maps a role to its dashboard root. Unknown roles are an
// error rather than a silent default.
func DashboardPath(role domainauth.Role) (string, error) {
	switch role {
	case domainauth.RoleAdmin:
		return PathAdminDashboard, nil
	case domainauth.RoleJudge:
		return PathJudgeDashboard, nil
	case domainauth.RoleStudent:
		return PathStudentDashboard, nil
	default:
		return "", fmt.Errorf("%w: %q", domainauth.ErrUnknownRole, role)
	}
}

// RoleRouter sends a browser to its role's dashboard.
type RoleRouter struct {
	nav ports.Navigator
}

// NewRoleRouter constructs a RoleRouter over a Navigator.
func NewRoleRouter(nav ports.Navigator) *RoleRouter {
	if nav == nil {
		panic("Navigator is required")
	}
	return &RoleRouter{nav: nav}
}

// Route navigates to the dashboard of role, replacing history.
func (r *RoleRouter) Route(ctx context.Context, role domainauth.Role) error {
	path, err := DashboardPath(role)
	if err != nil {
		return err
	}
	r.nav.Navigate(ctx, path)
	return nil
}
