package configwatcher

import (
	"time"

	"github.com/bft-labs/deeplink/pkg/log"
)

// Config holds configuration options for the config watcher.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 250 milliseconds
	DebounceDelay time.Duration

	// Logger receives watcher diagnostics. Default: no-op.
	Logger log.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 250 * time.Millisecond,
	}
}

// Option configures the watcher.
//
// Usage:
//
//	w := configwatcher.New(path, reload,
//	    configwatcher.WithDebounce(100*time.Millisecond),
//	    configwatcher.WithLogger(logger),
//	)
type Option func(*Config)

// WithDebounce sets the debounce delay. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.DebounceDelay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
