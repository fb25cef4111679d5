package ports_test

import (
	"testing"

	"github.com/eduevents/eduevents-hub/internal/mocks"
	authmocks "github.com/eduevents/eduevents-hub/internal/mocks/auth"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)
	var _ ports.DashboardAPI = (*mocks.MockDashboardAPI)(nil)
	var _ ports.Storage = (*authmocks.MemoryStorage)(nil)
	var _ ports.Navigator = (*authmocks.RecordingNavigator)(nil)
	var _ ports.Notifier = (*authmocks.RecordingNotifier)(nil)
}
