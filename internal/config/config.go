// Package config handles the XDG configuration directory, the config file
// and session file paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskly"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// EnvPrefix prefixes environment overrides, e.g. TASKLY_PROJECT_ID.
	EnvPrefix = "TASKLY"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// ProjectID is the Firebase/GCP project holding the task database.
	ProjectID string `mapstructure:"project_id"`

	// APIKey is the web API key used by the auth provider.
	APIKey string `mapstructure:"api_key"`

	// Timeout bounds each remote call. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config for the default or specified directory and loads
// config.yaml from it when present. Environment variables override the file.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	v := viper.New()
	v.SetConfigFile(c.Path())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("project_id", "")
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", "0s")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) && c.HasConfigFile() {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.Path())
	return err == nil
}

// Validate reports the first missing backend setting.
func (c *Config) Validate() error {
	switch {
	case c.ProjectID == "":
		return fmt.Errorf("project_id not set in %s", c.Path())
	case c.APIKey == "":
		return fmt.Errorf("api_key not set in %s", c.Path())
	}
	return nil
}
