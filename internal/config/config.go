package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	Events   Events   `yaml:"events"`
	Auth     Auth     `yaml:"auth"`
	Theme    Theme    `yaml:"theme"`
}

// Database configures the connection pool and transaction behaviour
type Database struct {
	Driver       string `yaml:"driver"` // sqlite, postgres or mysql
	DSN          string `yaml:"dsn"`    // sqlite file path or server DSN
	MaxOpenConns int    `yaml:"max_open_conns"`
	// Isolation is one of default, read_committed, repeatable_read, serializable
	Isolation string `yaml:"isolation"`
	Retry     Retry  `yaml:"retry"`
}

// Retry controls connection attempts when opening the database
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// Log configures the slog handler
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // "-" logs to stderr
}

// Events configures change notifications. An empty RedisURL disables them.
type Events struct {
	RedisURL       string `yaml:"redis_url"`
	Channel        string `yaml:"channel"`
	PublishRetries int    `yaml:"publish_retries"`
}

// Auth configures bearer token identity
type Auth struct {
	JWTSecret string  `yaml:"jwt_secret"`
	Issuer    string  `yaml:"issuer"`
	Admins    []int64 `yaml:"admins"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// loadThemeFile loads and merges theme from KANBAN_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv("KANBAN_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme Theme `yaml:"theme"`
	}

	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.Theme.MergeFrom(themeConfig.Theme)
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	var config Config

	configPath, err := getConfigPath()
	if err == nil {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, err
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	loadThemeFile(&config)
	config.applyEnv()

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

// Path returns the config file location
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "kanban", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "kanban", "config.yaml"), nil
}

// applyEnv overrides file values with KANBAN_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("KANBAN_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("KANBAN_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("KANBAN_DB_ISOLATION"); v != "" {
		c.Database.Isolation = v
	}
	if v := os.Getenv("KANBAN_DB_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Database.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("KANBAN_REDIS_URL"); v != "" {
		c.Events.RedisURL = v
	}
	if v := os.Getenv("KANBAN_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("KANBAN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Isolation == "" {
		c.Database.Isolation = "default"
	}
	if c.Database.Retry.MaxAttempts <= 0 {
		c.Database.Retry.MaxAttempts = 5
	}
	if c.Database.Retry.BaseDelay <= 0 {
		c.Database.Retry.BaseDelay = 100 * time.Millisecond
	}
	if c.Database.Retry.MaxDelay <= 0 {
		c.Database.Retry.MaxDelay = 5 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Events.Channel == "" {
		c.Events.Channel = "kanban:events"
	}
	if c.Events.PublishRetries <= 0 {
		c.Events.PublishRetries = 3
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "kanban"
	}
	c.Theme.ApplyDefaults()
}
