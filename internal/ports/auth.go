package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
)

// Storage is the durable key/value namespace of one browser. Every call is
// scoped by the browser identifier; a missing key reports ok=false, not an error.
type Storage interface {
	Get(ctx context.Context, browserID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, browserID, key, value string) error
	Delete(ctx context.Context, browserID string, keys ...string) error
}

// TokenDecoder extracts identity claims from an opaque bearer token.
type TokenDecoder interface {
	Decode(token string) (domainauth.Claims, error)
}

// AuthResult is the data returned by a successful login or registration.
// User is only populated by registration.
type AuthResult struct {
	Token string
	User  *RegisteredUser
}

// RegisteredUser is the user record echoed back by POST /auth/register.
// It carries no role: the token is the only role authority.
type RegisteredUser struct {
	ID        domainauth.ExternalID `json:"id"`
	Email     string                `json:"email"`
	FirstName string                `json:"firstName"`
	LastName  string                `json:"lastName"`
}

// AuthAPI is the credential half of the remote API.
type AuthAPI interface {
	Login(ctx context.Context, creds domainauth.Credentials) (AuthResult, error)
	Register(ctx context.Context, data domainauth.RegisterData) (AuthResult, error)
}

// Authenticator supplies the bearer token for the browser bound to ctx and
// is told when the API rejects it.
type Authenticator interface {
	Token(ctx context.Context) string
	Unauthorized(ctx context.Context)
}

// Navigator performs client navigation for the browser bound to ctx.
// Navigation always replaces history.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NotificationVariant selects toast styling.
type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is a transient toast shown to the user.
type Notification struct {
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Variant NotificationVariant `json:"variant"`
}

// Notifier delivers notifications to the browser bound to ctx.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
