package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment and defaults through the
// global viper instance, which carries the CLI flag bindings
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration into v. When v has no explicit config file,
// config.yaml is looked up in the config directory and the working
// directory; a missing file is not an error.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// FLATPAKMAN_CACHE_ENABLED and so on
	v.SetEnvPrefix("FLATPAKMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("concurrency.workers", defaults.Concurrency.Workers)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("cache.directory", defaults.Cache.Directory)

	v.SetDefault("lint.strict", defaults.Lint.Strict)
	v.SetDefault("lint.all_files", defaults.Lint.AllFiles)
	v.SetDefault("lint.exclude", defaults.Lint.Exclude)

	v.SetDefault("output.directory", defaults.Output.Directory)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.overwrite", defaults.Output.Overwrite)

	v.SetDefault("loader.max_depth", defaults.Loader.MaxDepth)
	v.SetDefault("loader.max_retries", defaults.Loader.MaxRetries)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
