package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"strings"
)

// Role represents a platform role as issued in the token's role claim.
// Keep string form for easy persistence in the auth_user record.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleJudge   Role = "JUDGE"
	RoleAdmin   Role = "ADMIN"
)

// ErrUnknownRole is returned when a role value is not one of the platform roles.
var ErrUnknownRole = errors.New("unknown role")

// Roles returns every platform role.
func Roles() []Role { return []Role{RoleStudent, RoleJudge, RoleAdmin} }

// Valid reports whether r is one of the platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleJudge, RoleAdmin:
		return true
	default:
		return false
	}
}

// DisplayName returns the role as shown in page chrome.
func (r Role) DisplayName() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleJudge:
		return "Judge"
	case RoleAdmin:
		return "Administrator"
	default:
		return string(r)
	}
}

// ParseRole validates s as a platform role. Matching is exact: the token
// issuer emits upper-case role names.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that decoding a stored
// identity record with an unknown role fails instead of producing one.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Claims are the identity claims carried by a bearer token's payload.
// Derived on demand from the token, never stored on their own.
type Claims struct {
	SubjectID string
	Role      Role
}

// Identity is the serialized identity record persisted under the auth_user key.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Session is the local representation of who is logged in in one browser:
// the server-issued token plus the identity decoded from it.
type Session struct {
	SubjectID string
	Role      Role
	Email     string
	FirstName string
	LastName  string
	Token     string
}

// Identity returns the record mirrored to storage (everything but the token).
func (s Session) Identity() Identity {
	return Identity{
		ID:        s.SubjectID,
		Email:     s.Email,
		Role:      s.Role,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}

// DisplayName returns "First Last" when names are known, else the email.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		return name
	}
	return s.Email
}

// SessionFrom rebuilds a session from a stored identity record and token.
func SessionFrom(id Identity, token string) Session {
	return Session{
		SubjectID: id.ID,
		Role:      id.Role,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Token:     token,
	}
}

// Credentials is the login form payload sent to POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterData is the registration payload sent to POST /auth/register.
type RegisterData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RoleSet is the authorization requirement attached to a protected route.
// An empty set admits any authenticated role.
type RoleSet []Role

// Permits reports whether role satisfies the requirement.
func (s RoleSet) Permits(role Role) bool {
	if len(s) == 0 {
		return role.Valid()
	}
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}
