// Package memstore provides an in-process per-browser storage backed by a
// bounded LRU. Data does not survive restarts; use the redis adapter for that.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/eduevents/eduevents-hub/internal/cache"
)

type namespace struct {
	mu   sync.RWMutex
	vals map[string]string
}

// Storage implements ports.Storage in memory.
type Storage struct {
	lru *cache.LRU[*namespace]
	ttl time.Duration
}

// Options configures the in-memory storage.
type Options struct {
	// Capacity caps the number of browsers held; the least recently used is dropped.
	Capacity int
	// TTL is the idle timeout per browser; <= 0 disables expiry.
	TTL time.Duration
	Now func() time.Time
}

// New creates an in-memory storage.
func New(opts Options) *Storage {
	return &Storage{
		lru: cache.NewLRU(cache.Config[*namespace]{
			Capacity: opts.Capacity,
			Sliding:  true,
			Now:      opts.Now,
		}),
		ttl: opts.TTL,
	}
}

func (s *Storage) Get(_ context.Context, browserID, key string) (string, bool, error) {
	ns, ok := s.lru.Get(browserID)
	if !ok {
		return "", false, nil
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.vals[key]
	return v, ok, nil
}

func (s *Storage) Set(_ context.Context, browserID, key, value string) error {
	if browserID == "" {
		return errors.New("browser ID cannot be empty")
	}
	ns, _ := s.lru.GetOrCreate(browserID, s.ttl, func() *namespace {
		return &namespace{vals: make(map[string]string, 2)}
	})
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.vals[key] = value
	return nil
}

func (s *Storage) Delete(_ context.Context, browserID string, keys ...string) error {
	ns, ok := s.lru.Get(browserID)
	if !ok {
		return nil
	}
	ns.mu.Lock()
	for _, k := range keys {
		delete(ns.vals, k)
	}
	empty := len(ns.vals) == 0
	ns.mu.Unlock()
	if empty {
		s.lru.Delete(browserID)
	}
	return nil
}

// Sweep drops expired browsers and returns how many were removed.
func (s *Storage) Sweep() int { return s.lru.Sweep() }

// Len reports the number of browsers currently held.
func (s *Storage) Len() int { return s.lru.Len() }
