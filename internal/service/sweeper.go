package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
)

// Sweepable is a bounded in-memory collection with idle expiry.
type Sweepable interface {
	Sweep() int
	Len() int
}

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Targets  map[string]Sweepable // Required: named collections to sweep
	Interval time.Duration        // Optional: defaults to one minute
	Logger   *slog.Logger         // Optional: structured logger
	Metrics  statsd.Sink          // Optional: metrics sink (StatsD-compatible)
}

// SweeperService periodically drops idle session managers and in-memory
// browser storage so memory stays bounded by activity, not history.
type SweeperService struct {
	names    []string
	targets  map[string]Sweepable
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewSweeperService constructs a new SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if len(opts.Targets) == 0 {
		return nil, errors.New("at least one sweep target is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	names := make([]string, 0, len(opts.Targets))
	for name, t := range opts.Targets {
		if t == nil {
			return nil, errors.New("sweep target " + name + " is nil")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweeper_service")
	}

	return &SweeperService{
		names:    names,
		targets:  opts.Targets,
		interval: interval,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Run sweeps at the configured interval until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SweeperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sweeper service", "interval", s.interval, "targets", s.names)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweeper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce sweeps every target once and returns the removals per target.
func (s *SweeperService) SweepOnce(ctx context.Context) map[string]int {
	removed := make(map[string]int, len(s.names))
	for _, name := range s.names {
		t := s.targets[name]
		n := t.Sweep()
		removed[name] = n
		size := t.Len()

		if s.metrics != nil {
			tags := map[string]string{"target": name}
			s.metrics.Count("sweeper.removed", int64(n), tags)
			s.metrics.Gauge("sweeper.size", float64(size), tags)
		}
		if s.logger != nil && n > 0 {
			s.logger.DebugContext(ctx, "swept idle entries", "target", name, "removed", n, "remaining", size)
		}
	}
	return removed
}
