// Package config loads stanalyzer settings from a TOML file. The CLI
// applies STANALYZER_* environment variables and flags on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/arjunmahishi/stanalyzer/output"
)

// EnvPrefix prefixes the environment variable bound to each setting, e.g.
// STANALYZER_JOBS.
const EnvPrefix = "STANALYZER_"

// Config holds the settings shared by every command.
type Config struct {
	// Output is the catalog root; catalogs go to <Output>/<project>.
	Output string `toml:"output"`
	// LogLevel is one of default, debug, info, warning, error.
	LogLevel string `toml:"log_level"`
	// LogFile receives every record at debug level when set.
	LogFile          string `toml:"log_file"`
	IgnoreTests      bool   `toml:"ignore_tests"`
	Monolithic       bool   `toml:"monolithic"`
	Jobs             int    `toml:"jobs"`
	MaxBytes         int64  `toml:"max_bytes"`
	RespectGitignore bool   `toml:"respect_gitignore"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:   output.DefaultRoot,
		LogLevel: "default",
	}
}

// Load reads the TOML file at path over the defaults. An empty path or a
// missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv seeds the process environment from .env files. Variables
// already set are kept. A missing default .env is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("parsing config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("max_bytes must not be negative, got %d", c.MaxBytes)
	}
	return nil
}
