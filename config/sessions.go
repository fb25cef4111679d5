package config

import "time"

// SessionsConfig bounds the in-process auth session managers.
type SessionsConfig struct {
	// ManagerCapacity is the maximum number of live managers (one per browser).
	ManagerCapacity int `env:"SESSION_MANAGER_CAPACITY" envDefault:"10000"`

	// IdleTTL drops managers unused for this long; storage keeps the session.
	IdleTTL time.Duration `env:"SESSION_MANAGER_IDLE_TTL" envDefault:"30m"`

	// SweepInterval is how often idle managers are collected.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// InitTimeout bounds restoring a session from storage.
	InitTimeout time.Duration `env:"SESSION_INIT_TIMEOUT" envDefault:"5s"`

	// GuardInitWait is how long a guarded request waits for restore before
	// the loading page is served instead.
	GuardInitWait time.Duration `env:"ROUTE_GUARD_INIT_WAIT" envDefault:"2s"`

	// Heartbeat is the keep-alive interval on /auth/events.
	Heartbeat time.Duration `env:"AUTH_EVENTS_HEARTBEAT" envDefault:"25s"`
}

// Sanitize replaces non-positive values with defaults.
func (c *SessionsConfig) Sanitize() {
	if c.ManagerCapacity <= 0 {
		c.ManagerCapacity = 10000
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.InitTimeout <= 0 {
		c.InitTimeout = 5 * time.Second
	}
	if c.GuardInitWait < 0 {
		c.GuardInitWait = 0
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = 25 * time.Second
	}
}
