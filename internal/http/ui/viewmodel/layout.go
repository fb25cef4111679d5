// Package viewmodel holds the typed data shared by every rendered page.
package viewmodel

import "github.com/eduevents/eduevents-hub/internal/ports"

// User represents the signed-in user as shown in page chrome.
type User struct {
	Name          string
	Email         string
	Role          string
	RoleLabel     string
	Initials      string
	DashboardPath string
}

// NavItem is a link in the role sidebar.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Nav             []NavItem
	Toasts          []ports.Notification
}
