package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"DEEPLINK_LOG_LEVEL":    "debug",
				"DEEPLINK_STRICT":       "true",
				"DEEPLINK_WATCH":        "1",
				"DEEPLINK_METRICS_ADDR": ":9102",
				"DEEPLINK_DEBOUNCE":     "2s",
			},
			changed: map[string]bool{},
			expected: Config{
				LogLevel:    "debug",
				Strict:      true,
				Watch:       true,
				MetricsAddr: ":9102",
				Debounce:    2 * time.Second,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"DEEPLINK_LOG_LEVEL": "debug",
				"DEEPLINK_STRICT":    "true",
			},
			changed: map[string]bool{"log-level": true},
			initial: Config{LogLevel: "error"},
			expected: Config{
				LogLevel: "error",
				Strict:   true,
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"DEEPLINK_DEBOUNCE": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"DEEPLINK_WATCH": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{Watch: true},
			expected: Config{Watch: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}

			if cfg.LogLevel != tt.expected.LogLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.expected.LogLevel)
			}
			if cfg.Strict != tt.expected.Strict {
				t.Errorf("Strict = %v, want %v", cfg.Strict, tt.expected.Strict)
			}
			if cfg.Watch != tt.expected.Watch {
				t.Errorf("Watch = %v, want %v", cfg.Watch, tt.expected.Watch)
			}
			if cfg.MetricsAddr != tt.expected.MetricsAddr {
				t.Errorf("MetricsAddr = %v, want %v", cfg.MetricsAddr, tt.expected.MetricsAddr)
			}
			if cfg.Debounce != tt.expected.Debounce {
				t.Errorf("Debounce = %v, want %v", cfg.Debounce, tt.expected.Debounce)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		LogLevel:    "debug",
		MetricsAddr: ":1111",
		Strict:      &trueVal,
	}

	t.Setenv("DEEPLINK_LOG_LEVEL", "warn")
	t.Setenv("DEEPLINK_METRICS_ADDR", ":2222")

	// CLI flag was set for log level
	changed := map[string]bool{"log-level": true}

	cfg := Config{LogLevel: "error"}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %v, want error (CLI should win)", cfg.LogLevel)
	}
	if cfg.MetricsAddr != ":2222" {
		t.Errorf("MetricsAddr = %v, want :2222 (env should override file)", cfg.MetricsAddr)
	}
	if !cfg.Strict {
		t.Error("Strict = false, want true (file should set)")
	}
}
