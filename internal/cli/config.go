package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gravitydb/gravity/database/escaper"
	"github.com/gravitydb/gravity/errors"
)

const (
	maxWalkDepth = 25
)

// Config represents the gravity configuration from gravity.yaml.
type Config struct {
	// SQL dialect used for identifier quoting and literal escaping.
	Dialect string `mapstructure:"dialect" json:"dialect"`

	Log    LogConfig    `mapstructure:"log" json:"log"`
	Render RenderConfig `mapstructure:"render" json:"render"`
}

// LogConfig holds the console buffering settings of the CLI logger.
type LogConfig struct {
	BufferSize    int           `mapstructure:"buffer_size" json:"buffer_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval" json:"flush_interval"`
}

// RenderConfig holds settings of the render command.
type RenderConfig struct {
	// Append ";" to rendered statements.
	Terminator bool `mapstructure:"terminator" json:"terminator"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("GRAVITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, configPath, err
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", escaper.MySQL)

	v.SetDefault("log.buffer_size", 0)
	v.SetDefault("log.flush_interval", "1s")

	v.SetDefault("render.terminator", false)
}

// Validate checks values viper cannot type check.
func (c *Config) Validate() error {
	if _, err := escaper.ForDialect(c.Dialect); err != nil {
		return errors.Newf("invalid dialect %q: expected %s or %s",
			c.Dialect, escaper.MySQL, escaper.Postgres)
	}
	if c.Log.BufferSize < 0 {
		return errors.New("log.buffer_size must not be negative")
	}
	if c.Log.FlushInterval < 0 {
		return errors.New("log.flush_interval must not be negative")
	}
	return nil
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for gravity.yaml or gravity.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", errors.Wrapf(err, "config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getting cwd")
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"gravity.yaml", "gravity.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break // Stop at repo root
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}
