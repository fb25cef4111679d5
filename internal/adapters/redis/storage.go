package redis

// Package redis provides Redis-based adapters for EduEvents Hub.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces browser storage hashes.
const DefaultPrefix = "eduevents:browser:"

// Storage is a Redis-backed per-browser key/value store. Each browser owns
// one hash; the hash expiry is pushed forward on every access so TTL acts
// as an idle timeout.
type Storage struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// StorageOptions groups constructor options.
type StorageOptions struct {
	Prefix string
	// TTL <= 0 keeps browser data until it is deleted.
	TTL time.Duration
}

// NewStorage creates a Redis-backed browser storage.
func NewStorage(client redis.UniversalClient, opts StorageOptions) *Storage {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Storage{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *Storage) key(browserID string) string { return s.prefix + browserID }

func (s *Storage) Get(ctx context.Context, browserID, key string) (string, bool, error) {
	if browserID == "" {
		return "", false, nil
	}

	k := s.key(browserID)
	var get *redis.StringCmd
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		get = p.HGet(ctx, k, key)
		if s.ttl > 0 {
			p.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}

	val, err := get.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return val, true, nil
}

func (s *Storage) Set(ctx context.Context, browserID, key, value string) error {
	if browserID == "" {
		return errors.New("browser ID cannot be empty")
	}

	k := s.key(browserID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, key, value)
		if s.ttl > 0 {
			p.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, browserID string, keys ...string) error {
	if browserID == "" || len(keys) == 0 {
		return nil // Nothing to delete
	}
	if err := s.client.HDel(ctx, s.key(browserID), keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}
