package redis

import "time"

// Config holds Redis connection and session expiry settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// IdleTTL is how long a browser-session lifetime session survives
	// without being loaded. Remembered sessions expire at their ExpiresAt.
	IdleTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		IdleTTL:      24 * time.Hour,
	}
}
