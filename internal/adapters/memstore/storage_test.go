package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SetGetDelete(t *testing.T) {
	s := New(Options{Capacity: 8})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b1", "auth_token", "tok"))
	v, ok, err := s.Get(ctx, "b1", "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	_, ok, _ = s.Get(ctx, "b2", "auth_token")
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "b1", "auth_token", "auth_user"))
	_, ok, _ = s.Get(ctx, "b1", "auth_token")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "empty namespaces are released")

	require.NoError(t, s.Delete(ctx, "missing", "auth_token"))
}

func TestStorage_IdleExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := New(Options{Capacity: 8, TTL: time.Minute, Now: clock})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b1", "auth_token", "tok"))
	require.NoError(t, s.Set(ctx, "b2", "auth_token", "tok"))

	now = now.Add(50 * time.Second)
	_, ok, _ := s.Get(ctx, "b1", "auth_token")
	require.True(t, ok)

	now = now.Add(20 * time.Second)
	assert.Equal(t, 1, s.Sweep(), "only the idle browser expires")
	_, ok, _ = s.Get(ctx, "b1", "auth_token")
	assert.True(t, ok)
}

func TestStorage_CapacityBound(t *testing.T) {
	s := New(Options{Capacity: 2})
	ctx := context.Background()
	for _, b := range []string{"b1", "b2", "b3"} {
		require.NoError(t, s.Set(ctx, b, "auth_token", b))
	}
	assert.Equal(t, 2, s.Len())
	_, ok, _ := s.Get(ctx, "b1", "auth_token")
	assert.False(t, ok)
}

func TestStorage_SetRequiresBrowser(t *testing.T) {
	assert.Error(t, New(Options{}).Set(context.Background(), "", "k", "v"))
}
