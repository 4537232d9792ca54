// Package config provides configuration management for the analyzer service.
package config

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"optionsanalyzer/internal/analysis"
)

// Analysis defaults used when the corresponding field is unset.
const (
	defaultLowFactor          = 0.5
	defaultHighFactor         = 1.5
	defaultStepSize           = 1.0
	defaultBreakevenTolerance = 50.0
	defaultSampleCount        = 100
	defaultServerPort         = 8001
	defaultStoragePath        = "strategies.json"
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	MarketData  MarketDataConfig  `yaml:"market_data"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
}

// EnvironmentConfig defines the environment settings.
type EnvironmentConfig struct {
	Mode     string `yaml:"mode"`      // live | mock
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// MarketDataConfig defines upstream quote provider settings.
type MarketDataConfig struct {
	Provider string `yaml:"provider"` // alphavantage
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// AnalysisConfig defines the payoff sweep and Monte Carlo parameters.
type AnalysisConfig struct {
	LowFactor          float64 `yaml:"low_factor"`
	HighFactor         float64 `yaml:"high_factor"`
	StepSize           float64 `yaml:"step_size"`
	BreakevenTolerance float64 `yaml:"breakeven_tolerance"`
	SampleCount        int     `yaml:"sample_count"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// StorageConfig defines storage settings for saved strategies.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks that all configuration values are valid and consistent.
// Defaults are normalized before checking.
func (c *Config) Validate() error {
	c.normalize()

	if c.Environment.Mode != "live" && c.Environment.Mode != "mock" {
		return fmt.Errorf("environment.mode must be 'live' or 'mock'")
	}
	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug|info|warn|error")
	}

	if c.Environment.Mode == "live" {
		if c.MarketData.Provider != "alphavantage" {
			return fmt.Errorf("market_data.provider %q is not supported", c.MarketData.Provider)
		}
		if c.MarketData.APIKey == "" {
			return fmt.Errorf("market_data.api_key is required in live mode")
		}
	}

	if c.Analysis.LowFactor <= 0 {
		return fmt.Errorf("analysis.low_factor must be > 0")
	}
	if c.Analysis.HighFactor <= c.Analysis.LowFactor {
		return fmt.Errorf("analysis.high_factor must be > analysis.low_factor")
	}
	if c.Analysis.StepSize <= 0 {
		return fmt.Errorf("analysis.step_size must be > 0")
	}
	if c.Analysis.BreakevenTolerance < 0 {
		return fmt.Errorf("analysis.breakeven_tolerance must be >= 0")
	}
	if c.Analysis.SampleCount <= 0 {
		return fmt.Errorf("analysis.sample_count must be > 0")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}

// IsMockMode returns true when the analyzer serves synthetic market data.
func (c *Config) IsMockMode() bool {
	return c.Environment.Mode == "mock"
}

// AnalysisConfig maps the configured sweep parameters onto the analysis
// package's config type.
func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		Grid: analysis.GridConfig{
			LowFactor:          c.Analysis.LowFactor,
			HighFactor:         c.Analysis.HighFactor,
			StepSize:           c.Analysis.StepSize,
			BreakevenTolerance: c.Analysis.BreakevenTolerance,
		},
		SampleCount: c.Analysis.SampleCount,
	}
}

// normalize fills unset fields with defaults.
func (c *Config) normalize() {
	if c.Environment.Mode == "" {
		c.Environment.Mode = "mock"
	}
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "alphavantage"
	}
	if c.Analysis.LowFactor == 0 {
		c.Analysis.LowFactor = defaultLowFactor
	}
	if c.Analysis.HighFactor == 0 {
		c.Analysis.HighFactor = defaultHighFactor
	}
	if c.Analysis.StepSize == 0 {
		c.Analysis.StepSize = defaultStepSize
	}
	if c.Analysis.BreakevenTolerance == 0 {
		c.Analysis.BreakevenTolerance = defaultBreakevenTolerance
	}
	if c.Analysis.SampleCount == 0 {
		c.Analysis.SampleCount = defaultSampleCount
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultServerPort
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath
	}
}
