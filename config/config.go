// Package config loads application settings from a TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds runtime settings for a terminal application.
type Config struct {
	// Theme is the name of the theme active at startup.
	Theme string `toml:"theme"`

	// ThemeDir holds <name>.toml theme files. Empty disables file
	// themes and live reload.
	ThemeDir string `toml:"theme_dir"`

	// MinCols and MinRows set the smallest usable terminal size.
	MinCols int `toml:"min_cols"`
	MinRows int `toml:"min_rows"`

	// PollIntervalMS bounds the input wait in milliseconds.
	PollIntervalMS int `toml:"poll_interval_ms"`

	// LogFile receives structured logs. Empty disables logging.
	LogFile string `toml:"log_file"`
}

// Default returns the settings used when no file or overrides exist.
func Default() Config {
	return Config{
		Theme:          "dark",
		MinCols:        80,
		MinRows:        24,
		PollIntervalMS: 50,
	}
}

// Load reads path if it exists, then applies SPEEDTUI_* environment
// overrides on top. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.MinCols <= 0 || cfg.MinRows <= 0 {
		return Config{}, fmt.Errorf("config: invalid minimum size %dx%d", cfg.MinCols, cfg.MinRows)
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = Default().PollIntervalMS
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SPEEDTUI_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("SPEEDTUI_THEME_DIR"); v != "" {
		cfg.ThemeDir = v
	}
	if v := os.Getenv("SPEEDTUI_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SPEEDTUI_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalMS = n
		}
	}
}

// PollInterval converts the millisecond setting to a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
