package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantmind-br/flatpakman/internal/discovery"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp directories
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "valid config",
			modify: func(c *Config) {
				c.Output.Format = "toml"
			},
		},
		{
			name: "workers below minimum",
			modify: func(c *Config) {
				c.Concurrency.Workers = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultWorkers, c.Concurrency.Workers)
			},
		},
		{
			name: "cache TTL below minimum",
			modify: func(c *Config) {
				c.Cache.TTL = 30 * time.Second
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultCacheTTL, c.Cache.TTL)
			},
		},
		{
			name: "loader limits",
			modify: func(c *Config) {
				c.Loader.MaxDepth = 0
				c.Loader.MaxRetries = -1
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultMaxDepth, c.Loader.MaxDepth)
				assert.Equal(t, DefaultMaxRetries, c.Loader.MaxRetries)
			},
		},
		{
			name: "unknown log format",
			modify: func(c *Config) {
				c.Logging.Format = "xml"
				c.Logging.Level = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultLogFormat, c.Logging.Format)
				assert.Equal(t, DefaultLogLevel, c.Logging.Level)
			},
		},
		{
			name: "unknown output format",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "bad exclude pattern",
			modify: func(c *Config) {
				c.Lint.Exclude = []string{"[oops"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_OutputFormat(t *testing.T) {
	cfg := Default()
	assert.Equal(t, flatpak.FormatUnknown, cfg.OutputFormat())

	cfg.Output.Format = "yml"
	assert.Equal(t, flatpak.FormatYAML, cfg.OutputFormat())
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultWorkers, cfg.Concurrency.Workers)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, CacheDir(), cfg.Cache.Directory)
	assert.Equal(t, discovery.DefaultExclude, cfg.Lint.Exclude)
	assert.False(t, cfg.Lint.Strict)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Empty(t, cfg.Output.Format)
	assert.Equal(t, DefaultMaxDepth, cfg.Loader.MaxDepth)
	assert.NoError(t, cfg.Validate())
}

func TestDirectories(t *testing.T) {
	home := isolate(t)

	assert.Equal(t, filepath.Join(home, ".flatpakman"), ConfigDir())
	assert.Equal(t, filepath.Join(home, ".flatpakman", "cache"), CacheDir())
	assert.Equal(t, filepath.Join(home, ".flatpakman", "config.yaml"), ConfigFilePath())

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(ConfigDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadFrom_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Concurrency.Workers)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, discovery.DefaultExclude, cfg.Lint.Exclude)
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	isolate(t)

	content := `
lint:
  strict: true
  exclude:
    - "vendor/**"
output:
  format: json
cache:
  ttl: 2h
logging:
  level: debug
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(content), 0644))

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)
	assert.True(t, cfg.Lint.Strict)
	assert.Equal(t, []string{"vendor/**"}, cfg.Lint.Exclude)
	assert.Equal(t, flatpak.FormatJSON, cfg.OutputFormat())
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_ExplicitFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency:\n  workers: 2\n"), 0644))

	v := viper.New()
	v.SetConfigFile(path)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency.Workers)
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("invalid: yaml: content: ["), 0644))

	cfg, err := LoadFrom(viper.New())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFrom_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("FLATPAKMAN_CONCURRENCY_WORKERS", "3")
	t.Setenv("FLATPAKMAN_LINT_STRICT", "true")
	t.Setenv("FLATPAKMAN_OUTPUT_FORMAT", "toml")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concurrency.Workers)
	assert.True(t, cfg.Lint.Strict)
	assert.Equal(t, flatpak.FormatTOML, cfg.OutputFormat())
}
