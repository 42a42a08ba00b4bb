// Package config manages the status line configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/adrg/xdg"

	"github.com/shini4i/netspeedbar/internal/fileutil"
)

const (
	// AppName is the application identifier used for XDG paths.
	AppName = "netspeedbar"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.json"

	// DefaultIconList is the default animated icon set, in download order.
	DefaultIconList = "▁▃▄▅▆▇█▇▆▅▄▃▁"
)

var (
	// ErrInvalidConfig is the parent of every validation error.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrEmptyIconList is returned when the animated icon list has no glyphs.
	ErrEmptyIconList = fmt.Errorf("%w: animated icon list must not be empty", ErrInvalidConfig)
	// ErrSingleIconAnimated is returned when animation is enabled with a
	// single glyph, which cannot animate.
	ErrSingleIconAnimated = fmt.Errorf("%w: animated icons need at least two glyphs", ErrInvalidConfig)
)

// Config represents the status line configuration. It is built once at
// startup and not modified afterwards.
type Config struct {
	NRefresh             uint32   `json:"nrefresh"`
	RefreshIntervalMs    uint64   `json:"refresh_interval_ms"`
	CombineIcons         bool     `json:"combine_icons"`
	AnimatedIcons        bool     `json:"animated_icons"`
	SpeedMultiplierLin   float64  `json:"speed_multiplier_lin"`
	SpeedMultiplierLog10 float64  `json:"speed_multiplier_log10"`
	AnimatedIconList     string   `json:"animated_icon_list"`
	BinSize              uint64   `json:"bin_size"` // reserved, not used by the renderer
	UpIcon               string   `json:"up_icon"`
	DownIcon             string   `json:"down_icon"`
	Interfaces           []string `json:"interfaces,omitempty"`
	IncludeLoopback      bool     `json:"include_loopback"`
}

// DefaultConfig returns a configuration with the stock defaults.
func DefaultConfig() *Config {
	return &Config{
		NRefresh:             1,
		RefreshIntervalMs:    1000,
		SpeedMultiplierLin:   1e-16,
		SpeedMultiplierLog10: 1e-10,
		AnimatedIconList:     DefaultIconList,
		BinSize:              2048,
		UpIcon:               "↑",
		DownIcon:             "↓",
	}
}

// RefreshInterval returns the base frame delay.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.NRefresh == 0 {
		return fmt.Errorf("%w: nrefresh must be at least 1", ErrInvalidConfig)
	}
	if c.RefreshIntervalMs == 0 {
		return fmt.Errorf("%w: refresh interval must be at least 1ms", ErrInvalidConfig)
	}
	if c.RefreshIntervalMs > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return fmt.Errorf("%w: refresh interval %dms is too large", ErrInvalidConfig, c.RefreshIntervalMs)
	}
	if err := validateCoefficient("speed_multiplier_lin", c.SpeedMultiplierLin); err != nil {
		return err
	}
	if err := validateCoefficient("speed_multiplier_log10", c.SpeedMultiplierLog10); err != nil {
		return err
	}

	switch n := utf8.RuneCountInString(c.AnimatedIconList); {
	case n == 0:
		return ErrEmptyIconList
	case n == 1 && c.AnimatedIcons:
		return ErrSingleIconAnimated
	}
	return nil
}

func validateCoefficient(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must be non-negative", ErrInvalidConfig, name)
	}
	return nil
}

// Paths holds the resolved configuration locations.
type Paths struct {
	ConfigDir  string
	ConfigFile string
}

// GetPaths returns the configuration paths following the XDG Base Directory spec.
func GetPaths() (*Paths, error) {
	if xdg.ConfigHome == "" {
		return nil, errors.New("failed to resolve XDG config home")
	}
	configDir := filepath.Join(xdg.ConfigHome, AppName)
	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, ConfigFileName),
	}, nil
}

// Load reads the configuration from disk. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to disk atomically. Unless overwrite is set,
// an existing file is left untouched and fileutil.ErrExists is returned.
func Save(path string, cfg *Config, overwrite bool) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := fileutil.AtomicWrite(path, data, 0600, overwrite); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
