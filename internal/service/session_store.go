package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// Storage keys holding one browser's session.
const (
	KeyAuthToken = "auth_token"
	KeyAuthUser  = "auth_user"
)

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Storage   ports.Storage // Required: per-browser key/value storage
	BrowserID string        // Required: namespace inside Storage
	Logger    *slog.Logger  // Optional: structured logger
}

// SessionStore persists one browser's session as two storage records: the raw
// token and the JSON identity. It knows nothing about token validity.
type SessionStore struct {
	storage   ports.Storage
	browserID string
	logger    *slog.Logger
}

// NewSessionStore constructs a SessionStore bound to one browser.
func NewSessionStore(opts SessionStoreOptions) (*SessionStore, error) {
	if opts.Storage == nil {
		return nil, errors.New("storage is required")
	}
	if opts.BrowserID == "" {
		return nil, errors.New("browser ID is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		storage:   opts.Storage,
		browserID: opts.BrowserID,
		logger:    logger.With("component", "session_store"),
	}, nil
}

// Save writes the token and identity records.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	data, err := json.Marshal(sess.Identity())
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := s.storage.Set(ctx, s.browserID, KeyAuthToken, sess.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.storage.Set(ctx, s.browserID, KeyAuthUser, string(data)); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// LoadResult distinguishes an empty store from one holding partial or
// unreadable data, so callers can clean up the latter.
type LoadResult int

const (
	LoadEmpty LoadResult = iota
	LoadOK
	LoadCorrupt
)

// Load returns the stored session. ok is false whenever either record is
// missing, the identity does not parse, or its role is unknown; backend
// errors are logged and reported the same way.
func (s *SessionStore) Load(ctx context.Context) (domainauth.Session, bool) {
	sess, res := s.load(ctx)
	return sess, res == LoadOK
}

func (s *SessionStore) load(ctx context.Context) (domainauth.Session, LoadResult) {
	token, hasToken, err := s.storage.Get(ctx, s.browserID, KeyAuthToken)
	if err != nil {
		s.logger.WarnContext(ctx, "read stored token failed", "error", err)
		return domainauth.Session{}, LoadEmpty
	}
	raw, hasUser, err := s.storage.Get(ctx, s.browserID, KeyAuthUser)
	if err != nil {
		s.logger.WarnContext(ctx, "read stored identity failed", "error", err)
		return domainauth.Session{}, LoadEmpty
	}

	switch {
	case !hasToken && !hasUser:
		return domainauth.Session{}, LoadEmpty
	case !hasToken || !hasUser || token == "":
		return domainauth.Session{}, LoadCorrupt
	}

	var id domainauth.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		s.logger.WarnContext(ctx, "stored identity unreadable", "error", err)
		return domainauth.Session{}, LoadCorrupt
	}
	if id.ID == "" || !id.Role.Valid() {
		return domainauth.Session{}, LoadCorrupt
	}
	return domainauth.SessionFrom(id, token), LoadOK
}

// Clear removes both records. Idempotent.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.browserID, KeyAuthToken, KeyAuthUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
