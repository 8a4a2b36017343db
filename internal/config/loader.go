package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (COSCINDEX_*)
// 2. Config file (.coscindex/config.yml or .coscindex/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, ".coscindex"))

	v.SetEnvPrefix("COSCINDEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("repository.root")
	v.BindEnv("storage.path")
	v.BindEnv("crawl.fail_hard")
	v.BindEnv("crawl.verbose")
	v.BindEnv("crawl.ignore")
	v.BindEnv("derive.only_actual")
	v.BindEnv("derive.expand_base")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("repository.root", defaults.Repository.Root)
	v.SetDefault("storage.path", defaults.Storage.Path)

	v.SetDefault("crawl.fail_hard", defaults.Crawl.FailHard)
	v.SetDefault("crawl.verbose", defaults.Crawl.Verbose)
	v.SetDefault("crawl.ignore", defaults.Crawl.Ignore)

	v.SetDefault("derive.only_actual", defaults.Derive.OnlyActual)
	v.SetDefault("derive.expand_base", defaults.Derive.ExpandBase)
}

// LoadConfig creates a loader for the current working directory and loads config.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
