// Package metrics emits the standard auth and API metrics through a StatsD sink.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/eduevents/eduevents-hub/internal/observability/errors"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
)

// AuthMetric captures one auth lifecycle event (login, register, logout,
// invalidated) for metric emission.
type AuthMetric struct {
	Action   string
	Result   string
	Reason   string
	Duration time.Duration
	Err      error
}

// EmitAuthEvent emits auth.<action> counters tagged by result.
func EmitAuthEvent(sink statsd.Sink, in AuthMetric) {
	if sink == nil || in.Action == "" {
		return
	}

	tags := map[string]string{"result": in.Result}
	if in.Reason != "" {
		tags["reason"] = in.Reason
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("auth."+in.Action, 1, tags)

	if in.Duration > 0 {
		sink.Timing("auth."+in.Action+".duration", in.Duration, CloneTags(tags))
	}
}

// APICallMetric describes one outbound API request.
type APICallMetric struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall emits api.request counters and api.duration timings.
func EmitAPICall(sink statsd.Sink, in APICallMetric) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	if in.Err != nil {
		result = ResultError
	}
	tags := map[string]string{
		"method": in.Method,
		"route":  in.Route,
		"result": result,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
