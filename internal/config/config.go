// ABOUTME: Configuration loading and parsing for the Nova bridge
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the corresponding fields are absent from the config file.
const (
	DefaultBaseURL   = "https://gateway.inferenco.com"
	DefaultModel     = "gpt-5-mini"
	DefaultVerbosity = "Medium"
	DefaultMaxTokens = 1024
	DefaultTimeout   = 60 * time.Second
)

// Config represents the complete Nova bridge configuration
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Nova     NovaConfig     `yaml:"nova"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds the Telegram frontend configuration
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

// NovaConfig holds the downstream Nova gateway configuration
type NovaConfig struct {
	APIKey    string          `yaml:"api_key"`
	BaseURL   string          `yaml:"base_url"`
	Model     string          `yaml:"model"`
	Verbosity string          `yaml:"verbosity"`
	MaxTokens uint32          `yaml:"max_tokens"`
	Reasoning ReasoningConfig `yaml:"reasoning"`

	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// ReasoningConfig holds the optional reasoning settings forwarded to the gateway
type ReasoningConfig struct {
	Enabled bool   `yaml:"enabled"`
	Effort  string `yaml:"effort"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values and defaults applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in gateway defaults for fields left empty in the config file.
func (c *Config) applyDefaults() {
	if c.Nova.BaseURL == "" {
		c.Nova.BaseURL = DefaultBaseURL
	}
	if c.Nova.Model == "" {
		c.Nova.Model = DefaultModel
	}
	if c.Nova.Verbosity == "" {
		c.Nova.Verbosity = DefaultVerbosity
	}
	if c.Nova.MaxTokens == 0 {
		c.Nova.MaxTokens = DefaultMaxTokens
	}
	if c.Nova.Timeout == 0 {
		c.Nova.Timeout = DefaultTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if c.Nova.APIKey == "" {
		return fmt.Errorf("nova.api_key is required")
	}

	u, err := url.Parse(c.Nova.BaseURL)
	if err != nil {
		return fmt.Errorf("nova.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("nova.base_url must use http or https scheme")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Nova.TimeoutRaw != "" {
		timeout, err := time.ParseDuration(cfg.Nova.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Nova.TimeoutRaw, err)
		}
		cfg.Nova.Timeout = timeout
	}

	return nil
}
