package cliconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/deeplink/internal/screens"
	"github.com/bft-labs/deeplink/pkg/deeplink"
)

// DefaultDebounce is how long the config watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Config holds CLI configuration for deeplink.
type Config struct {
	LogLevel    string
	Strict      bool
	Watch       bool
	MetricsAddr string
	Debounce    time.Duration

	Screens []screens.Screen
}

// DefaultConfig returns a Config with default values and the demo screens:
// a tab bar that claims every link partially, an inbox that finishes inbox
// links, and a settings screen that starts unmounted.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Debounce: DefaultDebounce,
		Screens: []screens.Screen{
			{Name: "tabs", Result: deeplink.PartiallyHandled, Mounted: true},
			{Name: "inbox", PathPrefix: "inbox", Result: deeplink.FullyHandled, Mounted: true},
			{Name: "settings", PathPrefix: "settings", Result: deeplink.FullyHandled, Mounted: false},
		},
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Debounce < 0 {
		return errors.New("debounce must be positive")
	}

	return ValidateScreens(c.Screens)
}

// Level returns the parsed log level. Call Validate first.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// ValidateScreens checks that every screen has a unique, non-empty name.
func ValidateScreens(list []screens.Screen) error {
	seen := make(map[string]bool, len(list))
	for i, s := range list {
		if s.Name == "" {
			return fmt.Errorf("screen %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("screen %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
