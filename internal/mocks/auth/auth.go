package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Navigator     = (*RecordingNavigator)(nil)
	_ ports.Notifier      = (*RecordingNotifier)(nil)
	_ ports.TokenDecoder  = (*StaticDecoder)(nil)
	_ ports.Storage       = (*MemoryStorage)(nil)
	_ ports.Authenticator = (*StaticAuthenticator)(nil)
)

// RecordingNavigator remembers every navigation in call order.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns a copy of the recorded navigations.
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// Last returns the most recent navigation or "".
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// RecordingNotifier remembers every notification in call order.
type RecordingNotifier struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

// Notifications returns a copy of the recorded notifications.
func (n *RecordingNotifier) Notifications() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.notes...)
}

// StaticDecoder returns fixed claims per token, ErrNotFound otherwise.
type StaticDecoder struct {
	Claims map[string]domainauth.Claims
}

func (d StaticDecoder) Decode(token string) (domainauth.Claims, error) {
	c, ok := d.Claims[token]
	if !ok {
		return domainauth.Claims{}, ErrNotFound
	}
	return c, nil
}

// MemoryStorage is a map-backed per-browser storage for unit tests.
// FailWith, when set, is returned from every call.
type MemoryStorage struct {
	mu       sync.Mutex
	data     map[string]map[string]string
	FailWith error
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, browserID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", false, m.FailWith
	}
	v, ok := m.data[browserID][key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, browserID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.data[browserID] == nil {
		m.data[browserID] = make(map[string]string)
	}
	m.data[browserID][key] = value
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, browserID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, k := range keys {
		delete(m.data[browserID], k)
	}
	return nil
}

// StaticAuthenticator hands out one token and counts rejections.
type StaticAuthenticator struct {
	mu           sync.Mutex
	AccessToken  string
	unauthorized int
}

func (a *StaticAuthenticator) Token(context.Context) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.AccessToken
}

func (a *StaticAuthenticator) Unauthorized(context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unauthorized++
}

// UnauthorizedCalls reports how many times Unauthorized was invoked.
func (a *StaticAuthenticator) UnauthorizedCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unauthorized
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound = errors.New("not found")
