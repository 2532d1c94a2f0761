package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/flatpakman/internal/discovery"
)

// Default values
const (
	DefaultWorkers = 8

	DefaultCacheEnabled = true
	DefaultCacheTTL     = 7 * 24 * time.Hour

	DefaultMaxDepth   = 16
	DefaultMaxRetries = 3

	// converted manifests go next to their source
	DefaultOutputDir = ""

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flatpakman"
	}
	return filepath.Join(home, ".flatpakman")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Lint: LintConfig{
			Exclude: discovery.DefaultExclude,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Loader: LoaderConfig{
			MaxDepth:   DefaultMaxDepth,
			MaxRetries: DefaultMaxRetries,
		},
	}
}
