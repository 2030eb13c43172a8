// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
// Credential material stays in the environment and is referenced from
// the YAML as ${VAR}.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Sources SourcesConfig `yaml:"sources"`
	Prewarm PrewarmConfig `yaml:"prewarm"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SourcesConfig defines the distributor integrations. Timeout bounds
// every outbound call of every adapter.
type SourcesConfig struct {
	Timeout  time.Duration  `yaml:"timeout"`
	TI       TIConfig       `yaml:"ti"`
	Mouser   MouserConfig   `yaml:"mouser"`
	DigiKey  DigiKeyConfig  `yaml:"digikey"`
	Arrow    ArrowConfig    `yaml:"arrow"`
	Octopart OctopartConfig `yaml:"octopart"`
}

// TIConfig defines the Texas Instruments store API settings.
type TIConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
	ProductURL   string `yaml:"product_url"`
}

// MouserConfig defines the Mouser search API settings.
type MouserConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	SearchURL string `yaml:"search_url"`
}

// DigiKeyConfig defines the DigiKey product API settings.
type DigiKeyConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
	PricingURL   string `yaml:"pricing_url"`
}

// ArrowConfig defines the Arrow item service settings.
type ArrowConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Login     string `yaml:"login"`
	APIKey    string `yaml:"api_key"`
	SearchURL string `yaml:"search_url"`
}

// OctopartConfig defines the Octopart/Nexar settings.
type OctopartConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
	GraphQLURL   string `yaml:"graphql_url"`
}

// PrewarmConfig defines the token prewarm schedule.
type PrewarmConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyLoggingDefaults(&cfg.Logging)
	applySourcesDefaults(&cfg.Sources)
	applyPrewarmDefaults(&cfg.Prewarm)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applySourcesDefaults(s *SourcesConfig) {
	if s.Timeout == 0 {
		s.Timeout = 8 * time.Second
	}
}

func applyPrewarmDefaults(p *PrewarmConfig) {
	if p.Interval == 0 {
		p.Interval = 30 * time.Minute
	}
}

func validate(cfg *Config) error {
	var errs []error

	s := &cfg.Sources
	if !s.TI.Enabled && !s.Mouser.Enabled && !s.DigiKey.Enabled &&
		!s.Arrow.Enabled && !s.Octopart.Enabled {
		errs = append(errs, fmt.Errorf("at least one source must be enabled"))
	}

	if s.TI.Enabled && (s.TI.ClientID == "" || s.TI.ClientSecret == "") {
		errs = append(errs, fmt.Errorf(
			"sources.ti.client_id and client_secret are required when ti is enabled",
		))
	}
	if s.Mouser.Enabled && s.Mouser.APIKey == "" {
		errs = append(errs, fmt.Errorf(
			"sources.mouser.api_key is required when mouser is enabled",
		))
	}
	if s.DigiKey.Enabled && (s.DigiKey.ClientID == "" || s.DigiKey.ClientSecret == "") {
		errs = append(errs, fmt.Errorf(
			"sources.digikey.client_id and client_secret are required when digikey is enabled",
		))
	}
	if s.Arrow.Enabled && (s.Arrow.Login == "" || s.Arrow.APIKey == "") {
		errs = append(errs, fmt.Errorf(
			"sources.arrow.login and api_key are required when arrow is enabled",
		))
	}
	if s.Octopart.Enabled && (s.Octopart.ClientID == "" || s.Octopart.ClientSecret == "") {
		errs = append(errs, fmt.Errorf(
			"sources.octopart.client_id and client_secret are required when octopart is enabled",
		))
	}

	return errors.Join(errs...)
}
