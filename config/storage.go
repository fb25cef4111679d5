package config

import (
	"strings"
	"time"
)

// StorageBackend selects where per-browser session records live.
type StorageBackend string

const (
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendRedis  StorageBackend = "redis"
)

// StorageConfig configures the per-browser key/value storage.
type StorageConfig struct {
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"memory"`

	// KeyPrefix namespaces Redis keys.
	KeyPrefix string `env:"STORAGE_KEY_PREFIX" envDefault:"eduevents:browser:"`

	// TTL expires a browser's records after this long without writes.
	// 0 keeps them until logout.
	TTL time.Duration `env:"STORAGE_TTL" envDefault:"720h"`

	// MemoryCapacity bounds the number of browsers held by the memory backend.
	MemoryCapacity int `env:"STORAGE_MEMORY_CAPACITY" envDefault:"10000"`
}

// Sanitize normalises the backend name and clamps durations.
func (c *StorageConfig) Sanitize() {
	c.Backend = StorageBackend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	if c.Backend != StorageBackendRedis {
		c.Backend = StorageBackendMemory
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
	if c.MemoryCapacity <= 0 {
		c.MemoryCapacity = 10000
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// Sanitize drops blank node entries.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SentinelNodes = compact(c.SentinelNodes)
	c.ClusterNodes = compact(c.ClusterNodes)
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
