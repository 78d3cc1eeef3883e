package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DEEPLINK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", os.Getenv("DEEPLINK_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("metrics-addr", os.Getenv("DEEPLINK_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setBoolFromString("strict", os.Getenv("DEEPLINK_STRICT"), &cfg.Strict)
	s.setBoolFromString("watch", os.Getenv("DEEPLINK_WATCH"), &cfg.Watch)

	if err := s.setDuration("debounce", os.Getenv("DEEPLINK_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	return nil
}
