package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable the CLI reads
const EnvPrefix = "FLUENCYCTL_"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
}

// DefaultConfig returns the built-in defaults overridden by any
// FLUENCYCTL_SERVER, FLUENCYCTL_TOKEN and FLUENCYCTL_TOKEN_FILE variables
func DefaultConfig() *Config {
	k := koanf.New(".")
	// The env provider only fails on a broken callback
	_ = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)

	return &Config{
		ServerURL: stringOr(k, "server", "http://localhost:8000"),
		Token:     k.String("token"),
		TokenFile: stringOr(k, "token_file", defaultTokenFile()),
		Output:    "text",
	}
}

// Validate checks the flags that were given after defaults were applied
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q, expected text or json", c.Output)
	}
	return nil
}

// LoadToken reads the saved token unless one was already given
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken stores the session token for later commands
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(c.TokenFile, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// ClearToken forgets the saved token
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".fluencyctl", "token")
	}
	return filepath.Join(home, ".fluencyctl", "token")
}

func stringOr(k *koanf.Koanf, key, fallback string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return fallback
}
