// Package config loads and validates the genesis.yml configuration file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the conventional config file location.
const DefaultPath = "genesis.yml"

// instanceNamePattern constrains instance names so they can be embedded in
// Redis key namespaces without quoting.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

// Config represents the top-level genesis.yml configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Instance   string           `yaml:"instance,omitempty"` // Namespace for the event sink; default "default"
	Completion CompletionConfig `yaml:"completion"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Database   DatabaseConfig   `yaml:"database,omitempty"`
	Redis      RedisConfig      `yaml:"redis,omitempty"`
}

// CompletionConfig specifies the completion endpoint.
type CompletionConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
}

// OutputConfig specifies where run artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// DatabaseConfig specifies the optional Postgres project store.
// The DATABASE_URL environment variable takes precedence over the file.
type DatabaseConfig struct {
	URL string `yaml:"url,omitempty"`
}

// RedisConfig specifies the optional Redis event sink.
// The REDIS_ADDR environment variable takes precedence over the file.
type RedisConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Default returns the configuration used when no genesis.yml exists.
func Default() *Config {
	return &Config{
		Version:  "1.0",
		Instance: "default",
		Completion: CompletionConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			Temperature:    0.7,
			TimeoutSeconds: 120,
		},
		Output: OutputConfig{Dir: "output"},
	}
}

// Load reads and validates a config file. Missing optional fields get
// defaults; environment overrides are applied after parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads the file at path if it exists, and falls back to the
// built-in defaults (plus environment overrides) when it does not. A config
// file that exists but fails to parse or validate is still an error.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Instance == "" {
		c.Instance = def.Instance
	}
	if c.Completion.BaseURL == "" {
		c.Completion.BaseURL = def.Completion.BaseURL
	}
	if c.Completion.Model == "" {
		c.Completion.Model = def.Completion.Model
	}
	if c.Completion.TimeoutSeconds == 0 {
		c.Completion.TimeoutSeconds = def.Completion.TimeoutSeconds
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}
	if !instanceNamePattern.MatchString(c.Instance) {
		return fmt.Errorf("invalid instance name %q: must be lowercase alphanumeric with hyphens", c.Instance)
	}
	if c.Completion.Model == "" {
		return fmt.Errorf("completion.model must not be empty")
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return fmt.Errorf("completion.temperature must be between 0 and 2, got %v", c.Completion.Temperature)
	}
	if c.Completion.TimeoutSeconds < 0 {
		return fmt.Errorf("completion.timeout_seconds must not be negative")
	}
	return nil
}

// APIKey reads the completion endpoint credential from the environment.
// Secrets never live in genesis.yml.
func (c *Config) APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// CompletionTimeout returns the configured per-request timeout.
func (c *Config) CompletionTimeout() time.Duration {
	return time.Duration(c.Completion.TimeoutSeconds) * time.Second
}
