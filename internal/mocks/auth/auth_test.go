package auth

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_ScopedPerBrowser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.Set(ctx, "b1", "auth_token", "t1"))
	require.NoError(t, s.Set(ctx, "b2", "auth_token", "t2"))

	v, ok, err := s.Get(ctx, "b1", "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)

	require.NoError(t, s.Delete(ctx, "b1", "auth_token", "auth_user"))
	_, ok, err = s.Get(ctx, "b1", "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, _ = s.Get(ctx, "b2", "auth_token")
	assert.True(t, ok)
	assert.Equal(t, "t2", v)
}

func TestMemoryStorage_FailWith(t *testing.T) {
	boom := errors.New("boom")
	s := NewMemoryStorage()
	s.FailWith = boom

	_, _, err := s.Get(context.Background(), "b", "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Set(context.Background(), "b", "k", "v"), boom)
}

func TestRecorders(t *testing.T) {
	ctx := context.Background()
	nav := &RecordingNavigator{}
	assert.Empty(t, nav.Last())
	nav.Navigate(ctx, "/login")
	nav.Navigate(ctx, "/judge-dashboard")
	assert.Equal(t, []string{"/login", "/judge-dashboard"}, nav.Paths())
	assert.Equal(t, "/judge-dashboard", nav.Last())

	notes := &RecordingNotifier{}
	notes.Notify(ctx, ports.Notification{Title: "Logged out"})
	require.Len(t, notes.Notifications(), 1)
	assert.Equal(t, "Logged out", notes.Notifications()[0].Title)
}

func TestStaticDecoder(t *testing.T) {
	d := StaticDecoder{Claims: map[string]domainauth.Claims{
		"tok": {SubjectID: "u1", Role: domainauth.RoleJudge},
	}}
	c, err := d.Decode("tok")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleJudge, c.Role)

	_, err = d.Decode("other")
	assert.ErrorIs(t, err, ErrNotFound)
}
