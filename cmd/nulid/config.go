package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/deep-rent/nulid/config"
	"github.com/deep-rent/nulid/env"
)

// Config holds the settings shared across subcommands. Values are resolved
// with the following precedence, highest first: command-line flags,
// environment variables (prefixed NULID_), a config file, then the defaults
// returned by defaultConfig.
//
// The env tags here intentionally omit "default:" qualifiers: a default
// would be re-applied by env.Unmarshal whenever the variable is unset,
// clobbering a value already read from the config file. Defaults are
// instead seeded once by defaultConfig before the file and environment are
// overlaid on top.
type Config struct {
	Node      string        `env:"NODE"`
	Count     int           `env:"COUNT"`
	Format    string        `env:"FORMAT"`
	LogLevel  string        `env:"LOG_LEVEL"`
	LogFormat string        `env:"LOG_FORMAT"`
	Interval  time.Duration `env:"INTERVAL,unit:s"`
	Owner     string        `env:"OWNER"`
	Repo      string        `env:"REPO"`
	Bound     time.Duration `env:"BOUND,unit:ms"`
}

// defaultConfig returns the baseline configuration before any config file,
// environment variable, or flag is applied.
func defaultConfig() Config {
	return Config{
		Count:     1,
		Format:    "text",
		LogLevel:  "info",
		LogFormat: "text",
		Interval:  5 * time.Second,
		Owner:     "deep-rent",
		Repo:      "nulid",
		Bound:     250 * time.Millisecond,
	}
}

// resolveNodeID parses Config.Node, which may be empty (no node id), a
// decimal integer, or a "0x"-prefixed hex value.
func (c *Config) resolveNodeID() (id uint16, present bool, err error) {
	if c.Node == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(c.Node, 0, 16)
	if err != nil {
		return 0, false, fmt.Errorf("invalid node id %q: %w", c.Node, err)
	}
	return uint16(n), true, nil
}

// loadConfig overlays the config file (if present at path), environment
// variables, and defaults into a fresh Config. Command-line flags are
// applied by the caller afterwards via a flag.Set bound to the same struct,
// so that they take final precedence.
func loadConfig(path string) (*Config, error) {
	c := defaultConfig()
	cfg := &c

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := config.Load(path, cfg); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	if err := env.Unmarshal(cfg, env.WithPrefix("NULID_")); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return cfg, nil
}
