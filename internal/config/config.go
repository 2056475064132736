package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	// Kodi connection settings
	Kodi KodiConfig `yaml:"kodi"`

	// Optional SOCKS5 tunnel for reaching Kodi across networks
	SOCKS5 *SOCKS5Config `yaml:"socks5,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// KodiConfig holds Kodi JSON-RPC endpoint configuration
type KodiConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Timeout  int    `yaml:"timeout"` // request timeout in seconds
	UseHTTPS bool   `yaml:"use_https"`
}

// SOCKS5Config holds SOCKS5 proxy configuration
type SOCKS5Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// envOverrides maps environment variables onto the configuration. The
// variable names match the original deployment (KODI_*, SOCKS5_*), so an
// MCP client config can pass them directly. Pointer fields distinguish
// "unset" from zero values.
type envOverrides struct {
	KodiHost     *string `env:"KODI_HOST"`
	KodiPort     *int    `env:"KODI_PORT"`
	KodiUsername *string `env:"KODI_USERNAME"`
	KodiPassword *string `env:"KODI_PASSWORD"`
	KodiTimeout  *int    `env:"KODI_TIMEOUT"`
	UseHTTPS     *bool   `env:"USE_HTTPS"`

	SOCKS5Host     *string `env:"SOCKS5_HOST"`
	SOCKS5Port     *int    `env:"SOCKS5_PORT"`
	SOCKS5Username *string `env:"SOCKS5_USERNAME"`
	SOCKS5Password *string `env:"SOCKS5_PASSWORD"`

	LogLevel *string `env:"KODIMATE_LOG_LEVEL"`
}

// Load builds the configuration from an optional YAML file, a .env file if
// present, and environment variables. An empty path means env-only, which is
// how MCP clients usually launch the server.
func Load(path string) (*Config, error) {
	// Pull in a local .env before reading the environment. Missing file is fine.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.KodiHost != nil {
		c.Kodi.Host = *o.KodiHost
	}
	if o.KodiPort != nil {
		c.Kodi.Port = *o.KodiPort
	}
	if o.KodiUsername != nil {
		c.Kodi.Username = *o.KodiUsername
	}
	if o.KodiPassword != nil {
		c.Kodi.Password = *o.KodiPassword
	}
	if o.KodiTimeout != nil {
		c.Kodi.Timeout = *o.KodiTimeout
	}
	if o.UseHTTPS != nil {
		c.Kodi.UseHTTPS = *o.UseHTTPS
	}

	// SOCKS5_HOST alone is enough to create the proxy section.
	if o.SOCKS5Host != nil && c.SOCKS5 == nil {
		c.SOCKS5 = &SOCKS5Config{}
	}
	if c.SOCKS5 != nil {
		if o.SOCKS5Host != nil {
			c.SOCKS5.Host = *o.SOCKS5Host
		}
		if o.SOCKS5Port != nil {
			c.SOCKS5.Port = *o.SOCKS5Port
		}
		if o.SOCKS5Username != nil {
			c.SOCKS5.Username = *o.SOCKS5Username
		}
		if o.SOCKS5Password != nil {
			c.SOCKS5.Password = *o.SOCKS5Password
		}
	}

	if o.LogLevel != nil {
		c.App.LogLevel = *o.LogLevel
	}
	return nil
}

// setDefaults fills in defaults matching the original deployment.
func (c *Config) setDefaults() {
	if c.Kodi.Port == 0 {
		c.Kodi.Port = 8080
	}
	if c.Kodi.Username == "" {
		c.Kodi.Username = "kodi"
	}
	if c.Kodi.Password == "" {
		c.Kodi.Password = "kodi"
	}
	if c.Kodi.Timeout == 0 {
		c.Kodi.Timeout = 30
	}
	if c.SOCKS5 != nil && c.SOCKS5.Port == 0 {
		c.SOCKS5.Port = 1080
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Kodi.Host == "" {
		return fmt.Errorf("kodi.host is required (set KODI_HOST or kodi.host)")
	}
	if err := validatePort(c.Kodi.Port, "kodi.port"); err != nil {
		return err
	}
	if c.Kodi.Timeout < 1 {
		return fmt.Errorf("kodi.timeout must be positive")
	}
	if c.SOCKS5 != nil {
		if c.SOCKS5.Host == "" {
			return fmt.Errorf("socks5.host is required when socks5 is configured")
		}
		if err := validatePort(c.SOCKS5.Port, "socks5.port"); err != nil {
			return err
		}
	}
	switch c.App.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error")
	}
	return nil
}

func validatePort(port int, field string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535", field)
	}
	return nil
}
