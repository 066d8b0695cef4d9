package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration.
type Config struct {
	API   APIConfig
	Store StoreConfig
	Log   LogConfig
}

// APIConfig configures the connection to the Leap backend.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string
	// Timeout bounds a single HTTP round trip. Default: 10s.
	Timeout time.Duration
	Retry   RetryConfig
}

// RetryConfig configures retry behavior for idempotent reads.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64
}

// StoreConfig locates the local request-event database.
type StoreConfig struct {
	Path string
}

// LogConfig controls the log file written while the TUI owns the terminal.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from defaults, the config file and LEAP_* env
// vars, in increasing priority. An explicit path wins over LEAP_CONFIG and
// the XDG location. A missing config file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("LEAP_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(configHome(), "leap"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LEAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	dataDir := dataHome()
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 3,
				InitialWait: 300 * time.Millisecond,
				MaxWait:     3 * time.Second,
				Multiplier:  2.0,
			},
		},
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "leap", "leap.db"),
		},
		Log: LogConfig{
			Path:  filepath.Join(dataDir, "leap", "leap.log"),
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.token", d.API.Token)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.retry.max_attempts", d.API.Retry.MaxAttempts)
	v.SetDefault("api.retry.initial_wait", d.API.Retry.InitialWait)
	v.SetDefault("api.retry.max_wait", d.API.Retry.MaxWait)
	v.SetDefault("api.retry.multiplier", d.API.Retry.Multiplier)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
}

// Validate checks the values that would otherwise fail at request time.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.Retry.MaxAttempts < 1 {
		return fmt.Errorf("api.retry.max_attempts must be at least 1, got %d", c.API.Retry.MaxAttempts)
	}
	if c.API.Retry.Multiplier < 1 {
		return fmt.Errorf("api.retry.multiplier must be at least 1, got %g", c.API.Retry.Multiplier)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level: %q", c.Log.Level)
	}
	return nil
}

// Dir returns the directory holding config.toml.
func Dir() string {
	return filepath.Join(configHome(), "leap")
}

func configHome() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

func dataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}
