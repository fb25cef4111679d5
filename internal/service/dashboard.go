package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/eduevents/eduevents-hub/internal/domain/model"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// Toast texts for dashboard and profile pages.
const (
	msgDashboardFallback = "Failed to load dashboard data"
	msgProfileFallback   = "Failed to load profile"
	msgUpdateFallback    = "An error occurred while saving your changes."
)

// View is the outcome of loading one page payload. Error holds the message
// rendered in place of the data when the load failed.
type View[T any] struct {
	Data  T
	Error string
}

// OK reports whether the payload loaded.
func (v View[T]) OK() bool { return v.Error == "" }

// StudentOverview is the student dashboard plus the profile used for the
// greeting. A failed profile load does not fail the page.
type StudentOverview struct {
	Dashboard View[model.StudentDashboard]
	Profile   View[model.Profile]
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	API      ports.DashboardAPI // Required: remote dashboard endpoints
	Notifier ports.Notifier     // Required: toasts
	Logger   *slog.Logger       // Optional: structured logger
}

// DashboardService loads role dashboards and the student profile.
// Failures are turned into an inline error plus an "Error" toast; a 401 is
// left to the API client's teardown and produces no toast.
type DashboardService struct {
	api    ports.DashboardAPI
	notify ports.Notifier
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) (*DashboardService, error) {
	if opts.API == nil {
		return nil, errors.New("DashboardAPI is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("Notifier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		api:    opts.API,
		notify: opts.Notifier,
		logger: logger.With("component", "dashboard_service"),
	}, nil
}

// Student fetches the student dashboard and profile concurrently.
func (s *DashboardService) Student(ctx context.Context, userID string) StudentOverview {
	var (
		out        StudentOverview
		dashErr    error
		profileErr error
	)

	// Both calls run to completion; neither failure cancels the other.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Dashboard.Data, dashErr = s.api.StudentDashboard(ctx)
	}()
	go func() {
		defer wg.Done()
		if userID == "" {
			profileErr = apperrors.Validation("user id is required")
			return
		}
		out.Profile.Data, profileErr = s.api.Profile(ctx, userID)
	}()
	wg.Wait()

	out.Dashboard.Error = s.failed(ctx, "student dashboard", dashErr, msgDashboardFallback, true)
	out.Profile.Error = s.failed(ctx, "student profile", profileErr, msgProfileFallback, false)
	return out
}

// Judge fetches the judge dashboard.
func (s *DashboardService) Judge(ctx context.Context) View[model.JudgeDashboard] {
	data, err := s.api.JudgeDashboard(ctx)
	return View[model.JudgeDashboard]{
		Data:  data,
		Error: s.failed(ctx, "judge dashboard", err, msgDashboardFallback, true),
	}
}

// Admin fetches the admin dashboard.
func (s *DashboardService) Admin(ctx context.Context) View[model.AdminDashboard] {
	data, err := s.api.AdminDashboard(ctx)
	return View[model.AdminDashboard]{
		Data:  data,
		Error: s.failed(ctx, "admin dashboard", err, msgDashboardFallback, true),
	}
}

// Profile fetches the user's profile. The page shows the error inline
// without a toast.
func (s *DashboardService) Profile(ctx context.Context, userID string) View[model.Profile] {
	if userID == "" {
		return View[model.Profile]{Error: msgProfileFallback}
	}
	data, err := s.api.Profile(ctx, userID)
	return View[model.Profile]{
		Data:  data,
		Error: s.failed(ctx, "profile", err, msgProfileFallback, false),
	}
}

// UpdateProfile saves first and last name and confirms with a toast.
func (s *DashboardService) UpdateProfile(ctx context.Context, userID string, in model.ProfileUpdate) (model.Profile, error) {
	if userID == "" {
		return model.Profile{}, apperrors.Validation("user id is required")
	}
	p, err := s.api.UpdateProfile(ctx, userID, in)
	if err != nil {
		s.logger.InfoContext(ctx, "profile update failed", "error", err)
		if !apperrors.IsUnauthorized(err) {
			s.notify.Notify(ctx, ports.Notification{
				Title:   "Failed to update profile",
				Message: apperrors.UserMessage(err, msgUpdateFallback),
				Variant: ports.NotificationDestructive,
			})
		}
		return model.Profile{}, err
	}
	s.notify.Notify(ctx, ports.Notification{
		Title:   "Profile updated successfully",
		Message: "Your changes have been saved.",
		Variant: ports.NotificationDefault,
	})
	return p, nil
}

// failed logs err and returns the inline message, toasting when asked.
func (s *DashboardService) failed(ctx context.Context, what string, err error, fallback string, toast bool) string {
	if err == nil {
		return ""
	}
	msg := apperrors.UserMessage(err, fallback)
	if apperrors.IsCanceled(err) || apperrors.IsUnauthorized(err) {
		s.logger.DebugContext(ctx, what+" not loaded", "error", err)
		return msg
	}
	s.logger.WarnContext(ctx, what+" load failed", "error", err)
	if toast {
		s.notify.Notify(ctx, ports.Notification{
			Title:   "Error",
			Message: msg,
			Variant: ports.NotificationDestructive,
		})
	}
	return msg
}
