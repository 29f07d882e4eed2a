// Package config loads the restcrypt YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"xdao.co/restcrypt/keys"
	"xdao.co/restcrypt/rsacrypt"
)

type Config struct {
	KeyDir        string `yaml:"key_dir"`
	RecipientDir  string `yaml:"recipient_dir"`
	DefaultBits   int    `yaml:"default_bits"`
	Padding       string `yaml:"padding"`
	PrivateFormat string `yaml:"private_format"`
	PKCS          int    `yaml:"pkcs"`
	LogLevel      string `yaml:"log_level"`

	// path is the file this config was read from, if any.
	path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		DefaultBits:   keys.DefaultBits,
		Padding:       string(rsacrypt.PaddingPKCS1v15),
		PrivateFormat: string(keys.FormatPEM),
		PKCS:          1,
		LogLevel:      "warn",
	}
}

// DefaultRecipientDir is where imported public keys live unless configured.
func DefaultRecipientDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".restcrypt", "recipients"), nil
}

func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".restcrypt", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults; an
// empty path means DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Path() string { return c.path }

func (c *Config) Validate() error {
	if err := keys.CheckBits(c.DefaultBits); err != nil {
		return err
	}
	if _, err := rsacrypt.ParsePadding(c.Padding); err != nil {
		return err
	}
	if _, err := keys.ParseFormat(c.PrivateFormat); err != nil {
		return err
	}
	if c.PKCS != 1 && c.PKCS != 8 {
		return fmt.Errorf("pkcs must be 1 or 8, got %d", c.PKCS)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Marshal returns the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config as YAML to its path.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config: no path")
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
