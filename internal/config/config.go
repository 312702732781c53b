// Package config loads the server configuration.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file, then FLUENCY_ environment variables. Nested keys use a
// double underscore in the environment, so FLUENCY_STORAGE__DATABASE_URL sets
// storage.database_url. Durations are either strings with a unit ("2160h")
// or bare numbers of milliseconds.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "FLUENCY_"

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Session store backends
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// Config is the root server configuration. It is passed around by value and
// never modified after Load returns.
type Config struct {
	// Host is the listen interface; empty listens on all of them
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	RootPath   string `koanf:"root_path"`
	OutputPath string `koanf:"output_path"`
	StaticDir  string `koanf:"static_dir"`

	// LongSessionLength is the lifetime of a "remember me" session
	LongSessionLength time.Duration `koanf:"long_session_length"`
	// SessionIdleTTL is how long an unremembered session survives without requests
	SessionIdleTTL time.Duration `koanf:"session_idle_ttl"`
	CookieSecure   bool          `koanf:"cookie_secure"`

	// Debug enables debug logging, including every reporting query
	Debug bool `koanf:"debug"`

	// LoginRateLimit is login attempts per second allowed per client address.
	// Zero disables throttling.
	LoginRateLimit float64 `koanf:"login_rate_limit"`
	LoginBurst     int     `koanf:"login_burst"`

	Storage  StorageConfig  `koanf:"storage"`
	Sessions SessionsConfig `koanf:"sessions"`

	Conditions []string `koanf:"conditions"`
	Stages     []string `koanf:"stages"`
}

// StorageConfig selects the account and outcome store
type StorageConfig struct {
	Type        string `koanf:"type"`
	DatabaseURL string `koanf:"database_url"`
	MaxConns    int32  `koanf:"max_conns"`
	// SeedFile is an optional YAML file of accounts loaded at start-up
	SeedFile string `koanf:"seed_file"`
}

// SessionsConfig selects the session store
type SessionsConfig struct {
	Type     string `koanf:"type"`
	RedisURL string `koanf:"redis_url"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Port:              8000,
		RootPath:          "",
		OutputPath:        "output",
		LongSessionLength: 7776000000 * time.Millisecond,
		SessionIdleTTL:    24 * time.Hour,
		LoginRateLimit:    5,
		LoginBurst:        10,
		Storage: StorageConfig{
			Type: StorageMemory,
		},
		Sessions: SessionsConfig{
			Type: SessionsMemory,
		},
		Conditions: []string{"control", "experimental"},
		Stages:     []string{"addition-1", "addition-2", "subtraction-1", "subtraction-2"},
	}
}

// Load reads the configuration from path (skipped when empty) and the
// environment, then normalizes and validates it
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	// Lists from the file replace the defaults rather than being merged into them
	for key, list := range map[string]*[]string{"conditions": &cfg.Conditions, "stages": &cfg.Stages} {
		if k.Exists(key) {
			*list = nil
		}
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				millisecondsHook,
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.RootPath = NormalizeRootPath(cfg.RootPath)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// millisecondsHook decodes a bare number given for a duration as
// milliseconds, so long_session_length: 7776000000 is 90 days. Strings with
// a unit ("2160h") are left to StringToTimeDurationHookFunc.
func millisecondsHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case uint64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return time.Duration(n) * time.Millisecond, nil
		}
	}
	return data, nil
}

// envKey maps FLUENCY_STORAGE__DATABASE_URL to storage.database_url
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// NormalizeRootPath turns "/", "" and "/fluency/" into "", "" and "/fluency".
// Routes are registered as root + "/login" and so on.
func NormalizeRootPath(root string) string {
	root = strings.TrimSpace(root)
	root = strings.TrimRight(root, "/")
	if root == "" {
		return ""
	}
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	return root
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.LongSessionLength <= 0 {
		return errors.New("long_session_length must be positive")
	}
	if c.SessionIdleTTL <= 0 {
		return errors.New("session_idle_ttl must be positive")
	}
	if c.LoginRateLimit < 0 {
		return errors.New("login_rate_limit cannot be negative")
	}
	if c.LoginRateLimit > 0 && c.LoginBurst < 1 {
		return errors.New("login_burst must be at least 1 when login_rate_limit is set")
	}
	if len(c.Stages) == 0 {
		return errors.New("at least one stage is required")
	}
	for _, name := range c.Conditions {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("condition %q is not a valid name", name)
		}
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage.database_url is required for postgres storage")
		}
	default:
		return fmt.Errorf("storage.type must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Type)
	}

	switch c.Sessions.Type {
	case SessionsMemory:
	case SessionsRedis:
		if c.Sessions.RedisURL == "" {
			return errors.New("sessions.redis_url is required for redis sessions")
		}
	default:
		return fmt.Errorf("sessions.type must be %q or %q, got %q", SessionsMemory, SessionsRedis, c.Sessions.Type)
	}

	return nil
}

// Path returns p under the configured root path
func (c Config) Path(p string) string {
	return c.RootPath + p
}

// RootURL is where denied and logged-out requests are sent
func (c Config) RootURL() string {
	if c.RootPath == "" {
		return "/"
	}
	return c.RootPath + "/"
}
