package config

import "os"

const DefaultRepositoryPath = "~/coscine"

// RepositoryPath returns the mirror root from COSCINDEX_REPOSITORY_ROOT,
// falling back to DefaultRepositoryPath.
func RepositoryPath() string {
	if env := os.Getenv("COSCINDEX_REPOSITORY_ROOT"); env != "" {
		return env
	}
	return DefaultRepositoryPath
}

// Config represents the complete coscindex configuration.
// It can be loaded from .coscindex/config.yml with environment variable overrides.
type Config struct {
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Crawl      CrawlConfig      `yaml:"crawl" mapstructure:"crawl"`
	Derive     DeriveConfig     `yaml:"derive" mapstructure:"derive"`
}

// RepositoryConfig locates the repository mirror
type RepositoryConfig struct {
	Root string `yaml:"root" mapstructure:"root"`
}

// StorageConfig locates the snapshot cache
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // empty = $XDG_DATA_HOME/coscindex/<hash>.db
}

// CrawlConfig controls the crawler
type CrawlConfig struct {
	FailHard bool     `yaml:"fail_hard" mapstructure:"fail_hard"`
	Verbose  int      `yaml:"verbose" mapstructure:"verbose"` // 0 silent .. 3 files
	Ignore   []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns over project paths
}

// DeriveConfig holds the record deriver defaults
type DeriveConfig struct {
	OnlyActual bool `yaml:"only_actual" mapstructure:"only_actual"`
	ExpandBase bool `yaml:"expand_base" mapstructure:"expand_base"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Repository: RepositoryConfig{Root: DefaultRepositoryPath},
		Crawl: CrawlConfig{
			Verbose: 1,
			Ignore:  []string{},
		},
		Derive: DeriveConfig{ExpandBase: true},
	}
}
