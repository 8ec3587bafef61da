// Package config loads client settings from a YAML file, a .env file and the
// environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/cohere"
)

// Environment variables read by Load.
const (
	EnvAPIKey    = "COHERE_API_KEY"
	EnvTimeout   = "COHERE_TIMEOUT"
	EnvV1BaseURL = "COHERE_V1_BASE_URL"
	EnvV2BaseURL = "COHERE_V2_BASE_URL"
	EnvLogLevel  = "COHERE_LOG_LEVEL"
	EnvLogFormat = "COHERE_LOG_FORMAT"
)

// BaseURLConfig overrides the per-version base URLs.
type BaseURLConfig struct {
	V1 string `yaml:"v1"`
	V2 string `yaml:"v2"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text or json
}

// Config is the top-level configuration struct.
type Config struct {
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	BaseURLs BaseURLConfig `yaml:"base_urls"`
	Logging  LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		BaseURLs: BaseURLConfig{
			V1: cohere.DefaultV1BaseURL,
			V2: cohere.DefaultV2BaseURL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty), the given .env files and finally the process environment.
// Without envFiles a .env in the working directory is loaded if present.
// Variables already set in the environment are never overwritten by .env files.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("loading env files: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = timeout
	}
	if v := strings.TrimSpace(os.Getenv(EnvV1BaseURL)); v != "" {
		c.BaseURLs.V1 = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvV2BaseURL)); v != "" {
		c.BaseURLs.V2 = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Logging.Format = v
	}
	return nil
}

// parseTimeout accepts a Go duration ("30s") or a whole number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Client returns the settings for cohere.New.
func (c *Config) Client() cohere.Config {
	return cohere.Config{
		APIKey:  c.APIKey,
		Timeout: c.Timeout,
		BaseURLs: map[cohere.APIVersion]string{
			cohere.V1: c.BaseURLs.V1,
			cohere.V2: c.BaseURLs.V2,
		},
	}
}

// Logger builds a logrus logger from the logging settings.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
