package config

import (
	"fmt"
	"time"

	"github.com/quantmind-br/flatpakman/internal/discovery"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
)

// Config represents the application configuration
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Lint        LintConfig        `mapstructure:"lint" yaml:"lint"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Loader      LoaderConfig      `mapstructure:"loader" yaml:"loader"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig contains lint cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LintConfig contains lint settings
type LintConfig struct {
	Strict   bool     `mapstructure:"strict" yaml:"strict"`
	AllFiles bool     `mapstructure:"all_files" yaml:"all_files"`
	Exclude  []string `mapstructure:"exclude" yaml:"exclude"`
}

// OutputConfig contains settings for dumped and converted manifests
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Format    string `mapstructure:"format" yaml:"format"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
}

// LoaderConfig contains settings for reading referenced files
type LoaderConfig struct {
	MaxDepth   int `mapstructure:"max_depth" yaml:"max_depth"`
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// Validate replaces out-of-range values with defaults and rejects values
// that cannot be repaired
func (c *Config) Validate() error {
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Loader.MaxDepth < 1 {
		c.Loader.MaxDepth = DefaultMaxDepth
	}
	if c.Loader.MaxRetries < 0 {
		c.Loader.MaxRetries = DefaultMaxRetries
	}
	if c.Logging.Format != "json" && c.Logging.Format != "pretty" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	if c.Output.Format != "" {
		if _, err := flatpak.ParseFormat(c.Output.Format); err != nil {
			return fmt.Errorf("invalid output.format: %w", err)
		}
	}
	if err := discovery.ValidatePatterns(c.Lint.Exclude); err != nil {
		return fmt.Errorf("invalid lint.exclude: %w", err)
	}
	return nil
}

// OutputFormat returns the configured output format, or FormatUnknown when
// manifests keep the format they were read in
func (c *Config) OutputFormat() flatpak.Format {
	format, err := flatpak.ParseFormat(c.Output.Format)
	if err != nil {
		return flatpak.FormatUnknown
	}
	return format
}
