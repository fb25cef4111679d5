package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFriendlyRelativeTime(t *testing.T) {
	now := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Hour, "just now"},
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FriendlyRelativeTime(now.Add(-c.ago), now))
	}
	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, FormatFriendlyDate(old), FriendlyRelativeTime(old, now))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AL", Initials("ada", "Lovelace", "a@b.c"))
	assert.Equal(t, "Z", Initials("", "zed", ""))
	assert.Equal(t, "A", Initials("", "", "ada@example.com"))
	assert.Equal(t, "?", Initials("", " ", ""))
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
	assert.Equal(t, "abc…", TruncateWithEllipsis("abcdef", 4))
	assert.Equal(t, "…", TruncateWithEllipsis("abcdef", 1))
	assert.Equal(t, "abcdef", TruncateWithEllipsis("abcdef", 0))
}
