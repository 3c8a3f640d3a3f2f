// Package config loads taskdeck settings from, in increasing priority:
// built-in defaults, the project TOML file, a .env file, the process
// environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/ldi/taskdeck/internal/logging"
)

const (
	DefaultDir          = ".taskdeck"
	DefaultConfigFile   = ".taskdeck/config.toml"
	DefaultSnapshotPath = ".taskdeck/snapshot.jsonl"
	DotEnvFile          = ".env"
)

type Config struct {
	SnapshotPath     string `toml:"snapshot_path" env:"TASKDECK_SNAPSHOT_PATH"`
	Seed             bool   `toml:"seed" env:"TASKDECK_SEED"`
	StrictReferences bool   `toml:"strict_references" env:"TASKDECK_STRICT_REFERENCES"`
	LogLevel         string `toml:"log_level" env:"TASKDECK_LOG_LEVEL"`
	LogFormat        string `toml:"log_format" env:"TASKDECK_LOG_FORMAT"`
	LogFile          string `toml:"log_file" env:"TASKDECK_LOG_FILE"`
	// Now pins the clock to an RFC3339 instant. Empty means wall clock.
	Now string `toml:"now" env:"TASKDECK_NOW"`

	// ConfigFile is the TOML file that was applied, if any.
	ConfigFile string `toml:"-"`

	fixedNow time.Time
}

func Default() *Config {
	return &Config{
		SnapshotPath:     DefaultSnapshotPath,
		Seed:             true,
		StrictReferences: true,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds the configuration and parses args with fs. Flags are
// registered on fs with the merged file/env values as their defaults, so
// fs.Args() holds the remaining arguments afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	path := os.Getenv("TASKDECK_CONFIG")
	if path == "" {
		path = DefaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	if err := cfg.loadEnv(DotEnvFile); err != nil {
		return nil, err
	}

	var verbose bool
	cfg.RegisterFlags(fs)
	fs.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

// loadFile applies a TOML file over cfg. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return err
	}
	c.ConfigFile = path
	return nil
}

// loadEnv applies environment variables over cfg. Values from dotenvPath
// fill in variables the process environment does not set.
func (c *Config) loadEnv(dotenvPath string) error {
	vars := env.ToMap(os.Environ())
	if _, err := os.Stat(dotenvPath); err == nil {
		dotenv, err := godotenv.Read(dotenvPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		for k, v := range dotenv {
			if _, set := vars[k]; !set {
				vars[k] = v
			}
		}
	}
	if err := env.ParseWithOptions(c, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.SnapshotPath, "snapshot-path", c.SnapshotPath, "Path to snapshot file")
	fs.BoolVar(&c.Seed, "seed", c.Seed, "Load the demo dataset when no snapshot exists")
	fs.BoolVar(&c.StrictReferences, "strict-references", c.StrictReferences, "Reject tasks and projects that reference unknown ids")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Write logs to a rotated file instead of stderr")
	fs.StringVar(&c.Now, "now", c.Now, "Fixed current time (RFC3339) for date calculations")
}

func (c *Config) finalize() error {
	if c.SnapshotPath == "" {
		return errors.New("snapshot path is empty")
	}
	c.SnapshotPath = filepath.Clean(c.SnapshotPath)
	if c.Now != "" {
		t, err := time.Parse(time.RFC3339, c.Now)
		if err != nil {
			return fmt.Errorf("invalid now %q: %w", c.Now, err)
		}
		c.fixedNow = t
	}
	return nil
}

// Clock returns the time source for overdue and deadline calculations.
func (c *Config) Clock() func() time.Time {
	if !c.fixedNow.IsZero() {
		fixed := c.fixedNow
		return func() time.Time { return fixed }
	}
	return time.Now
}

func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.File = c.LogFile
	return opts
}
