package redis

import "time"

// Config describes a Redis connection. An empty ConnectionURL means Redis is
// not used and callers fall back to in-process storage.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                              // e.g. "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`   // Connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`  // Pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"` // Overall connect deadline
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"ppsp"`    // Namespace for keys written by the site
}

// Enabled reports whether a connection URL was configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
