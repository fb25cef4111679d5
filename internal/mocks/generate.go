// Package mocks provides mock implementations of the remote API ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the API interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(ports.AuthResult{Token: tok}, nil)
package mocks

// Generate mock for AuthAPI interface from internal/ports package.
// This creates MockAuthAPI with methods for all AuthAPI interface methods:
// Login, Register
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/eduevents/eduevents-hub/internal/ports AuthAPI

// Generate mock for DashboardAPI interface from internal/ports package.
// This creates MockDashboardAPI with methods for all DashboardAPI interface methods:
// StudentDashboard, JudgeDashboard, AdminDashboard, Profile, UpdateProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=dashboard_api_mock.go github.com/eduevents/eduevents-hub/internal/ports DashboardAPI
