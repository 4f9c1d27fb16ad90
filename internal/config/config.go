package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nikbrunner/postmark/internal/logger"
)

const envPrefix = "POSTMARK"

// Config holds application configuration for both the data store server and
// the interactive client.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures `postmark serve`.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	DBPath         string        `mapstructure:"db_path"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	RedisAddr      string        `mapstructure:"redis_addr"` // empty = no shared preview cache
	PreviewTTL     time.Duration `mapstructure:"preview_ttl"`
	PreviewTimeout time.Duration `mapstructure:"preview_timeout"`
}

// ClientConfig configures the TUI and the one-shot commands.
type ClientConfig struct {
	APIURL             string        `mapstructure:"api_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	AutofillCooldown   time.Duration `mapstructure:"autofill_cooldown"`
	PreviewConcurrency int           `mapstructure:"preview_concurrency"`
}

// LogConfig configures internal/logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Default returns the default configuration.
func Default() Config {
	dbPath := "bookmarks.db"
	if dir, err := DefaultDir(); err == nil {
		dbPath = filepath.Join(dir, "bookmarks.db")
	}

	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			DBPath:         dbPath,
			CORSOrigins:    []string{"http://localhost:5173"},
			PreviewTTL:     24 * time.Hour,
			PreviewTimeout: 5 * time.Second,
		},
		Client: ClientConfig{
			APIURL:             "http://localhost:8080",
			Timeout:            10 * time.Second,
			AutofillCooldown:   30 * time.Second,
			PreviewConcurrency: 8,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// defaultConfigYAML is written on first run.
const defaultConfigYAML = `# postmark configuration
# Every key can be overridden with a POSTMARK_ environment variable,
# e.g. POSTMARK_CLIENT_API_URL.

server:
  addr: ":8080"
  # db_path: ~/.config/postmark/bookmarks.db
  cors_origins: ["http://localhost:5173"]
  # redis_addr: localhost:6379
  preview_ttl: 24h
  preview_timeout: 5s

client:
  api_url: http://localhost:8080
  timeout: 10s
  autofill_cooldown: 30s
  preview_concurrency: 8

log:
  level: info
  pretty: true
`

// Load reads config from the YAML file at path, creating it with defaults if
// it doesn't exist. Pass "" for DefaultPath().
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := ensureFile(path); err != nil {
		return nil, fmt.Errorf("ensure config file: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if !logger.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Client.AutofillCooldown < 0 {
		errs = append(errs, errors.New("client.autofill_cooldown: must not be negative"))
	}
	if c.Client.PreviewConcurrency < 1 {
		errs = append(errs, errors.New("client.preview_concurrency: must be at least 1"))
	}
	if u, err := url.Parse(c.Client.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.api_url: invalid URL %q", c.Client.APIURL))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.db_path", d.Server.DBPath)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.redis_addr", d.Server.RedisAddr)
	v.SetDefault("server.preview_ttl", d.Server.PreviewTTL)
	v.SetDefault("server.preview_timeout", d.Server.PreviewTimeout)
	v.SetDefault("client.api_url", d.Client.APIURL)
	v.SetDefault("client.timeout", d.Client.Timeout)
	v.SetDefault("client.autofill_cooldown", d.Client.AutofillCooldown)
	v.SetDefault("client.preview_concurrency", d.Client.PreviewConcurrency)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// ensureFile writes defaultConfigYAML when path doesn't exist.
func ensureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0644)
}

// DefaultDir returns ~/.config/postmark.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "postmark"), nil
}

// DefaultPath returns the default config path: ~/.config/postmark/config.yaml
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
