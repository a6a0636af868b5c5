package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"trialsearch/internal/eventbus"
)

// DefaultErrorMessage is shown whenever a search request fails
const DefaultErrorMessage = "An error occurred while fetching results. Please try again."

// EnvPrefix is the prefix for environment overrides, e.g. TRIALSEARCH_ENDPOINT
const EnvPrefix = "TRIALSEARCH"

// Config represents the application configuration
type Config struct {
	Version          int      `toml:"version" mapstructure:"version"`
	Endpoint         string   `toml:"endpoint" mapstructure:"endpoint"`
	DebounceMS       int      `toml:"debounce_ms" mapstructure:"debounce_ms"`
	MinQueryLength   int      `toml:"min_query_length" mapstructure:"min_query_length"`
	Page             int      `toml:"page" mapstructure:"page"`
	PageSize         int      `toml:"page_size" mapstructure:"page_size"`
	MaxDisplay       int      `toml:"max_display" mapstructure:"max_display"`
	Fields           []string `toml:"fields" mapstructure:"fields"`
	RequestTimeoutMS int      `toml:"request_timeout_ms" mapstructure:"request_timeout_ms"` // 0 disables the timeout
	ErrorMessage     string   `toml:"error_message" mapstructure:"error_message"`
	LogFile          string   `toml:"log_file" mapstructure:"log_file"`
}

// Debounce returns the quiescence delay before a query is sent
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout, zero meaning none
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks the configuration for values the client cannot work with
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Endpoint) == "" {
		errs = append(errs, errors.New("endpoint must not be empty"))
	}
	if strings.TrimSpace(c.ErrorMessage) == "" {
		errs = append(errs, errors.New("error_message must not be empty"))
	}
	if c.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS))
	}
	if c.RequestTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("request_timeout_ms must not be negative, got %d", c.RequestTimeoutMS))
	}
	if c.MinQueryLength < 0 {
		errs = append(errs, fmt.Errorf("min_query_length must not be negative, got %d", c.MinQueryLength))
	}
	if c.Page < 1 {
		errs = append(errs, fmt.Errorf("page must be at least 1, got %d", c.Page))
	}
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size must be at least 1, got %d", c.PageSize))
	}
	if c.MaxDisplay < 1 {
		errs = append(errs, fmt.Errorf("max_display must be at least 1, got %d", c.MaxDisplay))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	LoadFromPath(path string) (*Config, error)
	Resolve() (*Config, error)
	SaveToPath(config *Config, path string) error
	BindFlags(flags *pflag.FlagSet) error
}

// configService is the concrete implementation
type configService struct {
	bus eventbus.EventBus
	v   *viper.Viper
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{v: newViper()}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("debounce_ms", d.DebounceMS)
	v.SetDefault("min_query_length", d.MinQueryLength)
	v.SetDefault("page", d.Page)
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("max_display", d.MaxDisplay)
	v.SetDefault("fields", d.Fields)
	v.SetDefault("request_timeout_ms", d.RequestTimeoutMS)
	v.SetDefault("error_message", d.ErrorMessage)
	v.SetDefault("log_file", d.LogFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags lets command line flags override file and environment values.
// Only flags the user actually set take effect.
func (cs *configService) BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"endpoint":    "endpoint",
		"debounce_ms": "debounce-ms",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := cs.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cs.v.SetConfigFile(path)
	cs.v.SetConfigType("toml")
	if err := cs.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := cs.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: path, Endpoint: cfg.Endpoint})
	}

	return &cfg, nil
}

// Resolve builds the configuration from defaults, environment and flags
// without reading a file
func (cs *configService) Resolve() (*Config, error) {
	var cfg Config
	if err := cs.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}

	return nil
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "trialsearch", "config.toml")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		Endpoint:       "http://localhost:53432",
		DebounceMS:     300,
		MinQueryLength: 2,
		Page:           1,
		PageSize:       10,
		MaxDisplay:     10,
		Fields:         []string{"briefTitle", "conditions"},
		ErrorMessage:   DefaultErrorMessage,
		LogFile:        "trialsearch.log",
	}
}
