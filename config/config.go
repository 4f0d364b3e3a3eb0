package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhamidi/sdkconf/dialect"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = "sdkconf.yaml"

type Config struct {
	Server struct {
		Listen        string `yaml:"listen"`
		ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	} `yaml:"server"`

	Log struct {
		// Verbosity follows commonlog: 0 logs notices, 1 info, 2 and above debug.
		Verbosity int    `yaml:"verbosity"`
		File      string `yaml:"file"`
	} `yaml:"log"`

	Dialect struct {
		Default string `yaml:"default"`
		// Tables are extra dialect definition files merged into the registry.
		Tables []string `yaml:"tables"`
	} `yaml:"dialect"`

	Watch struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"watch"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads path, fills in defaults, applies SDKCONF_* environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile loads a .env file into the process environment if it exists.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 10000
	}
	if strings.TrimSpace(cfg.Dialect.Default) == "" {
		cfg.Dialect.Default = "javascript"
	}
	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = 200
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SDKCONF_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if n, ok := envInt("SDKCONF_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.ReadTimeoutMs = n
	}
	if n, ok := envInt("SDKCONF_LOG_VERBOSITY"); ok {
		cfg.Log.Verbosity = n
	}
	if v := strings.TrimSpace(os.Getenv("SDKCONF_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(os.Getenv("SDKCONF_DIALECT")); v != "" {
		cfg.Dialect.Default = v
	}
	if v := strings.TrimSpace(os.Getenv("SDKCONF_DIALECT_TABLES")); v != "" {
		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Dialect.Tables = append(cfg.Dialect.Tables, p)
			}
		}
	}
	if n, ok := envInt("SDKCONF_WATCH_DEBOUNCE_MS"); ok && n > 0 {
		cfg.Watch.DebounceMs = n
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func validate(cfg *Config) error {
	if cfg.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative, got %d", cfg.Log.Verbosity)
	}
	// Tables listed in the config may define the default dialect, so it is
	// only checked when there are none.
	if len(cfg.Dialect.Tables) == 0 {
		if _, ok := dialect.Lookup(cfg.Dialect.Default); !ok {
			return fmt.Errorf("dialect.default: unknown dialect %q (known: %s)",
				cfg.Dialect.Default, strings.Join(dialect.Names(), ", "))
		}
	}
	return nil
}
