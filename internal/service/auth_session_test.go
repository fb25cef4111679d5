package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eduevents/eduevents-hub/internal/adapters/tokencodec"
	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/mocks"
	authmocks "github.com/eduevents/eduevents-hub/internal/mocks/auth"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
	"github.com/eduevents/eduevents-hub/internal/ports"
	"github.com/eduevents/eduevents-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authHarness struct {
	m       *AuthSessionManager
	api     *mocks.MockAuthAPI
	storage *authmocks.MemoryStorage
	nav     *authmocks.RecordingNavigator
	notes   *authmocks.RecordingNotifier
	metrics *statsd.Recorder
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	h := &authHarness{
		api:     mocks.NewMockAuthAPI(gomock.NewController(t)),
		storage: authmocks.NewMemoryStorage(),
		nav:     &authmocks.RecordingNavigator{},
		notes:   &authmocks.RecordingNotifier{},
		metrics: &statsd.Recorder{},
	}
	store, err := NewSessionStore(SessionStoreOptions{Storage: h.storage, BrowserID: "browser-1"})
	require.NoError(t, err)

	h.m, err = NewAuthSessionManager(AuthSessionOptions{
		API:     h.api,
		Store:   store,
		Decoder: tokencodec.New(),
		Effects: AuthEffects{Navigator: h.nav, Notifier: h.notes},
		Metrics: h.metrics,
	})
	require.NoError(t, err)
	return h
}

// started returns a harness whose manager has finished restoring.
func startedAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	h := newAuthHarness(t)
	h.m.Start(context.Background())
	return h
}

func (h *authHarness) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := h.storage.Get(context.Background(), "browser-1", key)
	require.NoError(t, err)
	return v, ok
}

func (h *authHarness) lastNote(t *testing.T) ports.Notification {
	t.Helper()
	notes := h.notes.Notifications()
	require.NotEmpty(t, notes)
	return notes[len(notes)-1]
}

func TestNewAuthSessionManager_RequiresDependencies(t *testing.T) {
	_, err := NewAuthSessionManager(AuthSessionOptions{})
	require.Error(t, err)
}

func TestAuthSession_StartWithEmptyStorage(t *testing.T) {
	h := newAuthHarness(t)
	assert.Equal(t, domainauth.PhaseInitializing, h.m.State().Phase)

	h.m.Start(context.Background())

	select {
	case <-h.m.Ready():
	default:
		t.Fatal("ready not closed after Start")
	}
	st := h.m.State()
	assert.Equal(t, domainauth.PhaseAnonymous, st.Phase)
	assert.False(t, st.IsAuthenticated())
	assert.Empty(t, h.nav.Paths())
	assert.Empty(t, h.notes.Notifications())
}

func TestAuthSession_StartRestoresStoredSession(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthToken, "tok"))
	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthUser,
		`{"id":"7","email":"s@example.com","role":"STUDENT","firstName":"Sam"}`))

	h.m.Start(ctx)

	st := h.m.State()
	require.True(t, st.IsAuthenticated())
	assert.Equal(t, "7", st.Session.SubjectID)
	assert.Equal(t, domainauth.RoleStudent, st.Session.Role)
	assert.Equal(t, "tok", st.Session.Token)
	assert.Empty(t, h.nav.Paths(), "restore does not navigate")
}

func TestAuthSession_StartClearsPartialStorage(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthToken, "tok"))

	h.m.Start(ctx)

	assert.Equal(t, domainauth.PhaseAnonymous, h.m.State().Phase)
	_, ok := h.stored(t, KeyAuthToken)
	assert.False(t, ok, "partial session must be cleared")
	assert.Empty(t, h.notes.Notifications(), "cleanup is silent")
}

func TestAuthSession_StartRunsOnce(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	h.m.Start(ctx)

	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthToken, "tok"))
	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthUser, `{"id":"1","email":"e","role":"ADMIN"}`))
	h.m.Start(ctx)

	assert.Equal(t, domainauth.PhaseAnonymous, h.m.State().Phase)
}

func TestAuthSession_LoginSuccess(t *testing.T) {
	h := startedAuthHarness(t)
	tok := testutil.NewToken("42", "JUDGE").Build()
	h.api.EXPECT().
		Login(gomock.Any(), domainauth.Credentials{Email: "j@example.com", Password: "pw"}).
		Return(ports.AuthResult{Token: tok}, nil)

	require.NoError(t, h.m.Login(context.Background(), "j@example.com", "pw"))

	st := h.m.State()
	require.True(t, st.IsAuthenticated())
	assert.False(t, st.Loading)
	assert.Equal(t, domainauth.Session{
		SubjectID: "42",
		Role:      domainauth.RoleJudge,
		Email:     "j@example.com",
		Token:     tok,
	}, *st.Session)

	v, ok := h.stored(t, KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, tok, v)
	raw, ok := h.stored(t, KeyAuthUser)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"42","email":"j@example.com","role":"JUDGE"}`, raw)

	assert.Equal(t, []string{PathJudgeDashboard}, h.nav.Paths())
	note := h.lastNote(t)
	assert.Equal(t, "Login successful", note.Title)
	assert.Equal(t, ports.NotificationDefault, note.Variant)

	counts := h.metrics.Counts("auth.login")
	require.Len(t, counts, 1)
	assert.Equal(t, "success", counts[0].Tags["result"])
}

func TestAuthSession_LoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		result  ports.AuthResult
		err     error
		wantMsg string
	}{
		{
			name:    "server message",
			err:     apperrors.Upstream(401, "Invalid credentials"),
			wantMsg: "Invalid credentials",
		},
		{
			name:    "transport failure",
			err:     apperrors.MapTransportError(errors.New("connection refused")),
			wantMsg: msgLoginFallback,
		},
		{
			name:    "empty token",
			result:  ports.AuthResult{Token: ""},
			wantMsg: msgLoginFallback,
		},
		{
			name:    "undecodable token",
			result:  ports.AuthResult{Token: "not-a-token"},
			wantMsg: msgInvalidResponse,
		},
		{
			name:    "unknown role",
			result:  ports.AuthResult{Token: testutil.NewToken("1", "ORGANIZER").Build()},
			wantMsg: msgInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := startedAuthHarness(t)
			h.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(tt.result, tt.err)

			err := h.m.Login(context.Background(), "a@example.com", "pw")
			require.Error(t, err)

			st := h.m.State()
			assert.Equal(t, domainauth.PhaseAnonymous, st.Phase)
			assert.Nil(t, st.Session)
			assert.False(t, st.Loading)

			_, ok := h.stored(t, KeyAuthToken)
			assert.False(t, ok)
			assert.Empty(t, h.nav.Paths())

			note := h.lastNote(t)
			assert.Equal(t, "Login failed", note.Title)
			assert.Equal(t, tt.wantMsg, note.Message)
			assert.Equal(t, ports.NotificationDestructive, note.Variant)
		})
	}
}

func TestAuthSession_LoginPersistFailure(t *testing.T) {
	h := startedAuthHarness(t)
	h.storage.FailWith = errors.New("storage offline")
	h.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{Token: testutil.NewToken("1", "ADMIN").Build()}, nil)

	err := h.m.Login(context.Background(), "a@example.com", "pw")
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
	assert.False(t, h.m.State().IsAuthenticated())
	assert.Equal(t, msgLoginFallback, h.lastNote(t).Message)
}

func TestAuthSession_LoginRejectedWhileInFlight(t *testing.T) {
	h := startedAuthHarness(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	tok := testutil.NewToken("9", "STUDENT").Build()

	h.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domainauth.Credentials) (ports.AuthResult, error) {
			close(entered)
			<-release
			return ports.AuthResult{Token: tok}, nil
		})

	errCh := make(chan error, 1)
	go func() { errCh <- h.m.Login(context.Background(), "s@example.com", "pw") }()
	<-entered

	assert.True(t, h.m.State().Loading)
	err := h.m.Login(context.Background(), "s@example.com", "pw")
	assert.ErrorIs(t, err, ErrInFlight)
	assert.True(t, apperrors.IsConflict(err))

	close(release)
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{PathStudentDashboard}, h.nav.Paths())

	rejected := h.metrics.Counts("auth.login")
	var results []string
	for _, r := range rejected {
		results = append(results, r.Tags["result"])
	}
	assert.ElementsMatch(t, []string{"rejected", "success"}, results)
}

func TestAuthSession_LoginWaitsForRestore(t *testing.T) {
	h := newAuthHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.m.Login(ctx, "a@example.com", "pw")
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
	assert.Empty(t, h.notes.Notifications())
}

func TestAuthSession_RegisterUsesReturnedUser(t *testing.T) {
	h := startedAuthHarness(t)
	tok := testutil.NewToken("100", "STUDENT").Build()
	data := domainauth.RegisterData{
		Email: "new@example.com", Password: "secret1", FirstName: "typed", LastName: "Name",
	}
	h.api.EXPECT().Register(gomock.Any(), data).Return(ports.AuthResult{
		Token: tok,
		User:  &ports.RegisteredUser{ID: "100", Email: "new@example.com", FirstName: "Ada", LastName: "Lovelace"},
	}, nil)

	require.NoError(t, h.m.Register(context.Background(), data))

	st := h.m.State()
	require.True(t, st.IsAuthenticated())
	assert.Equal(t, "Ada", st.Session.FirstName)
	assert.Equal(t, "Lovelace", st.Session.LastName)
	assert.Equal(t, domainauth.RoleStudent, st.Session.Role)
	assert.Equal(t, "Ada Lovelace", st.Session.DisplayName())
	assert.Equal(t, []string{PathStudentDashboard}, h.nav.Paths())
	assert.Equal(t, "Registration successful", h.lastNote(t).Title)
}

func TestAuthSession_RegisterFailure(t *testing.T) {
	h := startedAuthHarness(t)
	h.api.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{}, apperrors.Upstream(409, "Email already registered"))

	err := h.m.Register(context.Background(), domainauth.RegisterData{Email: "dup@example.com"})
	require.Error(t, err)

	note := h.lastNote(t)
	assert.Equal(t, "Registration failed", note.Title)
	assert.Equal(t, "Email already registered", note.Message)
	assert.False(t, h.m.State().IsAuthenticated())
}

func TestAuthSession_Logout(t *testing.T) {
	h := startedAuthHarness(t)
	h.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{Token: testutil.NewToken("1", "ADMIN").Build()}, nil)
	require.NoError(t, h.m.Login(context.Background(), "admin@example.com", "pw"))

	h.m.Logout(context.Background())

	assert.False(t, h.m.State().IsAuthenticated())
	_, ok := h.stored(t, KeyAuthToken)
	assert.False(t, ok)
	_, ok = h.stored(t, KeyAuthUser)
	assert.False(t, ok)
	assert.Equal(t, []string{PathAdminDashboard, PathLogin}, h.nav.Paths())
	note := h.lastNote(t)
	assert.Equal(t, "Logged out", note.Title)
	assert.Equal(t, ports.NotificationDefault, note.Variant)
}

func TestAuthSession_InvalidateClearsWithCanceledContext(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthToken, "tok"))
	require.NoError(t, h.storage.Set(ctx, "browser-1", KeyAuthUser, `{"id":"1","email":"e","role":"JUDGE"}`))
	h.m.Start(ctx)
	require.True(t, h.m.State().IsAuthenticated())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	h.m.Invalidate(canceled, ReasonUnauthorized)

	assert.Equal(t, domainauth.PhaseAnonymous, h.m.State().Phase)
	_, ok := h.stored(t, KeyAuthToken)
	assert.False(t, ok)
	assert.Empty(t, h.nav.Paths(), "invalidate leaves navigation to the caller")

	counts := h.metrics.Counts("auth.invalidated")
	require.Len(t, counts, 1)
	assert.Equal(t, ReasonUnauthorized, counts[0].Tags["reason"])
}

func TestAuthSession_Subscribe(t *testing.T) {
	h := newAuthHarness(t)
	ch, cancel := h.m.Subscribe()

	first := <-ch
	assert.Equal(t, domainauth.PhaseInitializing, first.Phase)

	h.m.Start(context.Background())
	assert.Equal(t, domainauth.PhaseAnonymous, (<-ch).Phase)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestAuthSession_SubscribeSeesLoading(t *testing.T) {
	h := startedAuthHarness(t)
	h.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{Token: testutil.NewToken("1", "JUDGE").Build()}, nil)
	ch, cancel := h.m.Subscribe()
	defer cancel()
	<-ch

	require.NoError(t, h.m.Login(context.Background(), "j@example.com", "pw"))

	var seen []domainauth.State
	for len(ch) > 0 {
		seen = append(seen, <-ch)
	}
	require.NotEmpty(t, seen)
	assert.True(t, seen[0].Loading)
	last := seen[len(seen)-1]
	assert.False(t, last.Loading)
	assert.True(t, last.IsAuthenticated())
}

func TestAuthSession_SlowSubscriberKeepsNewest(t *testing.T) {
	h := newAuthHarness(t)
	ch, cancel := h.m.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		h.m.setLoading(i%2 == 0)
	}

	var last domainauth.State
	for len(ch) > 0 {
		last = <-ch
	}
	assert.False(t, last.Loading, "final update must survive overflow")
}

func TestAuthSession_CloseEndsSubscriptions(t *testing.T) {
	h := newAuthHarness(t)
	ch, _ := h.m.Subscribe()
	<-ch

	h.m.Close()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}

	late, _ := h.m.Subscribe()
	_, open := <-late
	assert.True(t, open, "late subscriber still gets the current state")
	_, open = <-late
	assert.False(t, open)
}

func TestAuthSession_StateIsSnapshot(t *testing.T) {
	h := startedAuthHarness(t)
	h.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(ports.AuthResult{Token: testutil.NewToken("1", "JUDGE").Build()}, nil)
	require.NoError(t, h.m.Login(context.Background(), "j@example.com", "pw"))

	st := h.m.State()
	st.Session.Role = domainauth.RoleAdmin
	assert.Equal(t, domainauth.RoleJudge, h.m.State().Session.Role)
}
