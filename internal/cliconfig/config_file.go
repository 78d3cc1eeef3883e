package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/deeplink/internal/screens"
	"github.com/bft-labs/deeplink/pkg/deeplink"
)

// FileConfig mirrors Config but uses strings for durations and results to
// make TOML friendly.
type FileConfig struct {
	LogLevel    string         `toml:"log_level"`
	Strict      *bool          `toml:"strict"`
	Watch       *bool          `toml:"watch"`
	MetricsAddr string         `toml:"metrics_addr"`
	Debounce    string         `toml:"debounce"`
	Screens     []ScreenConfig `toml:"screen"`
}

// ScreenConfig is one [[screen]] table.
//
//	[[screen]]
//	name = "inbox"
//	prefix = "inbox"
//	result = "fully"
//	mounted = true
type ScreenConfig struct {
	Name    string `toml:"name"`
	Prefix  string `toml:"prefix"`
	Result  string `toml:"result"`
	Mounted *bool  `toml:"mounted"`
}

// Screen converts the table. An empty result means fully handled and a
// missing mounted key means mounted.
func (sc ScreenConfig) Screen() (screens.Screen, error) {
	result := deeplink.FullyHandled
	if sc.Result != "" {
		r, err := deeplink.ParseResult(sc.Result)
		if err != nil {
			return screens.Screen{}, fmt.Errorf("screen %q: %w", sc.Name, err)
		}
		result = r
	}
	mounted := true
	if sc.Mounted != nil {
		mounted = *sc.Mounted
	}
	return screens.Screen{
		Name:       sc.Name,
		PathPrefix: sc.Prefix,
		Result:     result,
		Mounted:    mounted,
	}, nil
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// LoadScreens reads only the screen definitions from a config file.
// Used when the file changes at runtime.
func LoadScreens(path string) ([]screens.Screen, error) {
	fc, err := LoadFileConfig(path)
	if err != nil {
		return nil, err
	}
	list, err := fc.ScreenList()
	if err != nil {
		return nil, err
	}
	if err := ValidateScreens(list); err != nil {
		return nil, err
	}
	return list, nil
}

// ScreenList converts every [[screen]] table.
func (fc FileConfig) ScreenList() ([]screens.Screen, error) {
	list := make([]screens.Screen, 0, len(fc.Screens))
	for _, sc := range fc.Screens {
		s, err := sc.Screen()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.deeplink/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".deeplink", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). Screens
// from the file replace the defaults when the file declares any.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setBool("strict", fc.Strict, &cfg.Strict)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	if len(fc.Screens) > 0 {
		list, err := fc.ScreenList()
		if err != nil {
			return err
		}
		cfg.Screens = list
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
