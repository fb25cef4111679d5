package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eduevents/eduevents-hub/internal/errors"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
)

func TestEmitAuthEvent(t *testing.T) {
	rec := &statsd.Recorder{}
	EmitAuthEvent(rec, AuthMetric{
		Action:   "login",
		Result:   ResultError,
		Duration: 20 * time.Millisecond,
		Err:      apperrors.Upstream(400, "bad credentials"),
	})

	counts := rec.Counts("auth.login")
	require.Len(t, counts, 1)
	assert.Equal(t, map[string]string{"result": "error", "error_class": "upstream"}, counts[0].Tags)
	assert.Len(t, rec.Metrics(), 2, "counter plus timing")
}

func TestEmitAuthEvent_NilSinkAndEmptyAction(t *testing.T) {
	EmitAuthEvent(nil, AuthMetric{Action: "login"})

	rec := &statsd.Recorder{}
	EmitAuthEvent(rec, AuthMetric{Result: ResultSuccess})
	assert.Empty(t, rec.Metrics())
}

func TestEmitAPICall(t *testing.T) {
	rec := &statsd.Recorder{}
	EmitAPICall(rec, APICallMetric{Method: "GET", Route: "/dashboard", Status: 503, Err: errors.New("x")})

	counts := rec.Counts("api.request")
	require.Len(t, counts, 1)
	assert.Equal(t, "503", counts[0].Tags["status"])
	assert.Equal(t, ResultError, counts[0].Tags["result"])
	assert.Equal(t, "/dashboard", counts[0].Tags["route"])
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1", "": "skip"}
	out := CloneTags(src)
	assert.Equal(t, map[string]string{"a": "1"}, out)
	out["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
