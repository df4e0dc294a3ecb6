package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is looked up in the working directory when no file is given.
	DefaultConfigFile = "conlang.yaml"
	// EnvPrefix marks environment overrides, e.g. CONLANG_STORAGE_DRIVER.
	EnvPrefix = "CONLANG_"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime wiring options for the server.
type Config struct {
	Addr    string        `koanf:"addr"`
	Storage StorageConfig `koanf:"storage"`
	Session SessionConfig `koanf:"session"`
	Engine  EngineConfig  `koanf:"engine"`
	Log     LogConfig     `koanf:"log"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `koanf:"driver"` // memory | file | sqlite | postgres
	Dir    string `koanf:"dir"`    // snapshot dir for file, default db dir for sqlite
	DSN    string `koanf:"dsn"`
}

// SessionConfig configures the cookie session store.
type SessionConfig struct {
	Secret string        `koanf:"secret"`
	MaxAge time.Duration `koanf:"max_age"`
	Secure bool          `koanf:"secure"`
}

// EngineConfig tunes the sound change engine.
type EngineConfig struct {
	MatchTimeout time.Duration `koanf:"match_timeout"`
	CacheSize    int           `koanf:"cache_size"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

var defaults = map[string]any{
	"addr":                 ":8080",
	"storage.driver":       DriverMemory,
	"storage.dir":          "data",
	"storage.dsn":          "",
	"session.secret":       "",
	"session.max_age":      "720h",
	"session.secure":       false,
	"engine.match_timeout": "250ms",
	"engine.cache_size":    1024,
	"log.level":            "info",
	"log.json":             true,
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":           "addr",
	"storage":        "storage.driver",
	"data-dir":       "storage.dir",
	"dsn":            "storage.dsn",
	"session-secret": "session.secret",
	"secure-cookies": "session.secure",
	"match-timeout":  "engine.match_timeout",
	"log-level":      "log.level",
	"log-json":       "log.json",
}

// LoadConfig loads configuration from defaults, file, environment and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// CONLANG_STORAGE_DRIVER -> storage.driver; only the first underscore nests.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the storage selection and fills derived defaults.
func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the file driver")
		}
	case DriverSQLite:
		if c.Storage.DSN == "" {
			if c.Storage.Dir == "" {
				return errors.New("storage.dsn or storage.dir is required for the sqlite driver")
			}
			c.Storage.DSN = filepath.Join(c.Storage.Dir, "conlang.db")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q (want memory, file, sqlite or postgres)", c.Storage.Driver)
	}
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	return nil
}
