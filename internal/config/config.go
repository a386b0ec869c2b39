// Package config handles the XDG configuration directory, the config file and env overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "tasktrack"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// LogFile is the log filename used when not in debug mode.
	LogFile = "tasktrack.log"

	// CacheDirName holds one file per cache key for the file backend.
	CacheDirName = "cache"

	// CacheDBFile is the SQLite cache database filename.
	CacheDBFile = "cache.db"

	// EnvPrefix prefixes environment overrides (TASKTRACK_API_URL, ...).
	EnvPrefix = "TASKTRACK"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheSQLite = "sqlite"
)

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:3000"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "info"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIURL is the base URL of the remote authority.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// Cache selects the durable cache backend: "file" or "sqlite".
	Cache string `mapstructure:"cache" yaml:"cache"`

	// Timeout bounds each HTTP request. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// LogLevel is the minimum level written to the log file.
	// --debug overrides it.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// New creates a Config with the default or specified config directory and
// default settings. If configDir is empty, uses XDG_CONFIG_HOME/tasktrack
// or $HOME/.config/tasktrack.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		APIURL:   DefaultAPIURL,
		Cache:    CacheFile,
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}, nil
}

// Load creates a Config like New and then applies config.yaml (if present)
// and TASKTRACK_* environment variables, in that order.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(cfg.ConfigPath())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("api_url", cfg.APIURL)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("log_level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(v.GetString("api_url")), "/")
	cfg.Cache = strings.ToLower(strings.TrimSpace(v.GetString("cache")))
	cfg.Timeout = v.GetDuration("timeout")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString("log_level")))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	switch c.Cache {
	case CacheFile, CacheSQLite:
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// CacheDir returns the directory used by the file cache backend.
func (c *Config) CacheDir() string {
	return filepath.Join(c.Dir, CacheDirName)
}

// CacheDBPath returns the path used by the SQLite cache backend.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Dir, CacheDBFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}
