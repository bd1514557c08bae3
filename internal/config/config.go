package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values for the report command
type DefaultsConfig struct {
	ReportsDir string `mapstructure:"reports_dir"`
	Model      string `mapstructure:"model"`

	// Fetch tuning
	FetchRetries    int    `mapstructure:"fetch_retries"`
	FetchRetryDelay string `mapstructure:"fetch_retry_delay"`
	FetchTimeout    string `mapstructure:"fetch_timeout"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Defaults: DefaultsConfig{
			ReportsDir:      "reports",
			Model:           "gpt-4o",
			FetchRetries:    3,
			FetchRetryDelay: "1s",
			FetchTimeout:    "30s",
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.relscope.yaml or ./.relscope.yml
// 2. ~/.relscope.yaml or ~/.relscope.yml
// 3. $XDG_CONFIG_HOME/relscope/config.yaml (or ~/.config/relscope/config.yaml)
// 4. /etc/relscope/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".relscope.yaml", ".relscope.yml", "relscope.yaml", "relscope.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "relscope"))
	}
	searchPaths = append(searchPaths, "/etc/relscope")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RELSCOPE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("RELSCOPE_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("RELSCOPE_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("RELSCOPE_REPORTS_DIR"); v != "" {
		cfg.Defaults.ReportsDir = v
	}
	if v := os.Getenv("RELSCOPE_MODEL"); v != "" {
		cfg.Defaults.Model = v
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
