//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// EventRef is the embedded event summary the API nests inside registrations,
// teams and results.
type EventRef struct {
	Title     string     `json:"title"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Location  string     `json:"location,omitempty"`
}

// CompetitionRef wraps the event a team or result belongs to.
type CompetitionRef struct {
	Event EventRef `json:"event"`
}

// TeamRef is a team name as nested in results.
type TeamRef struct {
	Name string `json:"name"`
}

// RoleRef is the role object the API attaches to user records.
type RoleRef struct {
	Name string `json:"name"`
}

// Registration is an upcoming event registration for the current student.
type Registration struct {
	ID      string   `json:"id"`
	EventID string   `json:"eventId"`
	Event   EventRef `json:"event"`
}

// Team is a competition team the student is an active member of.
type Team struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Competition CompetitionRef `json:"competition"`
}

// Result is a scored competition outcome.
type Result struct {
	ID          string         `json:"id"`
	FinalScore  float64        `json:"finalScore"`
	Team        TeamRef        `json:"team"`
	Competition CompetitionRef `json:"competition"`
}

// StudentDashboard is the dashboard payload served to students.
type StudentDashboard struct {
	UpcomingRegistrations []Registration `json:"upcomingRegistrations"`
	ActiveTeams           []Team         `json:"activeTeams"`
	RecentResults         []Result       `json:"recentResults"`
}

// CompetitionStatus mirrors the API's event lifecycle values.
type CompetitionStatus string

const (
	StatusDraft      CompetitionStatus = "DRAFT"
	StatusPublished  CompetitionStatus = "PUBLISHED"
	StatusInProgress CompetitionStatus = "IN_PROGRESS"
	StatusCompleted  CompetitionStatus = "COMPLETED"
)

// Label returns a human readable status ("IN_PROGRESS" -> "In progress").
func (s CompetitionStatus) Label() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// JudgeCompetition is a competition assigned to the current judge.
type JudgeCompetition struct {
	ID                            string            `json:"id"`
	Title                         string            `json:"title"`
	Description                   string            `json:"description"`
	StartTime                     *time.Time        `json:"startTime,omitempty"`
	EndTime                       *time.Time        `json:"endTime,omitempty"`
	Status                        CompetitionStatus `json:"status"`
	SubmissionsAwaitingEvaluation int               `json:"submissionsAwaitingEvaluation"`
}

// JudgeDashboard is the dashboard payload served to judges.
type JudgeDashboard struct {
	CompetitionsToJudge []JudgeCompetition `json:"competitionsToJudge"`
}

// PendingEvaluations sums submissions awaiting evaluation across competitions.
func (d JudgeDashboard) PendingEvaluations() int {
	total := 0
	for _, c := range d.CompetitionsToJudge {
		total += c.SubmissionsAwaitingEvaluation
	}
	return total
}

// ActiveCompetitions counts competitions currently in progress.
func (d JudgeDashboard) ActiveCompetitions() int {
	n := 0
	for _, c := range d.CompetitionsToJudge {
		if c.Status == StatusInProgress {
			n++
		}
	}
	return n
}

// EventsByStatus counts platform events per lifecycle status.
type EventsByStatus struct {
	Draft      int `json:"draft"`
	Published  int `json:"published"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// PlatformStats are the admin dashboard headline numbers.
type PlatformStats struct {
	TotalUsers         int            `json:"totalUsers"`
	TotalRegistrations int            `json:"totalRegistrations"`
	TotalCompetitions  int            `json:"totalCompetitions"`
	EventsByStatus     EventsByStatus `json:"eventsByStatus"`
}

// RecentEvent is a recently created platform event.
type RecentEvent struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Status    CompetitionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// RecentUser is a recently registered platform user.
type RecentUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	Role      RoleRef   `json:"role"`
}

// RecentActivity groups the admin dashboard activity feeds.
type RecentActivity struct {
	RecentEvents []RecentEvent `json:"recentEvents"`
	RecentUsers  []RecentUser  `json:"recentUsers"`
}

// AdminDashboard is the dashboard payload served to admins.
type AdminDashboard struct {
	PlatformStats  PlatformStats  `json:"platformStats"`
	RecentActivity RecentActivity `json:"recentActivity"`
}

// Profile is the current user's record as returned by GET /users/{id}.
type Profile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      RoleRef `json:"role"`
}

// ProfileUpdate is the PATCH /users/{id} body.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
