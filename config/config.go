// Package config loads the YAML description of a filterable dataset: where
// the rows live and which columns are filterable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asaidimu/go-facets/core/schema"
	"github.com/asaidimu/go-facets/sqlite"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration. Its embedded table definition declares
// the filterable columns.
type Config struct {
	schema.TableDefinition `yaml:",inline"`

	// Dataset locates the rows.
	Dataset DatasetConfig `yaml:"dataset"`
}

// DatasetConfig locates a SQLite table.
type DatasetConfig struct {
	// Path is the SQLite database file. Relative paths resolve against the
	// directory of the configuration file.
	Path string `yaml:"path"`
	// Table overrides the table name, which defaults to the config name.
	Table string `yaml:"table,omitempty"`
	// TablePrefix is prepended to the table name.
	TablePrefix string `yaml:"tablePrefix,omitempty"`
}

// LoaderOptions returns the SQLite loader options of the dataset.
func (d DatasetConfig) LoaderOptions() *sqlite.LoaderOptions {
	opts := sqlite.DefaultLoaderOptions()
	opts.Table = d.Table
	opts.TablePrefix = d.TablePrefix
	return opts
}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
	data []byte
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}
		cfg.path = filepath.Clean(path)
		return nil
	}
}

// WithConfigData loads configuration from YAML already in memory. Relative
// dataset paths are kept as written.
func WithConfigData(data []byte) Option {
	return func(cfg *loaderConfig) error {
		if len(data) == 0 {
			return fmt.Errorf("config data is empty")
		}
		cfg.data = data
		return nil
	}
}

// LoadConfig loads, parses and validates a configuration.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	data := loaderCfg.data
	if data == nil {
		if loaderCfg.path == "" {
			return nil, fmt.Errorf("path is required")
		}
		var err error
		data, err = os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if loaderCfg.path != "" && config.Dataset.Path != "" && !filepath.IsAbs(config.Dataset.Path) {
		config.Dataset.Path = filepath.Join(filepath.Dir(loaderCfg.path), config.Dataset.Path)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Definition returns the table definition of the configuration.
func (c *Config) Definition() *schema.TableDefinition {
	return &c.TableDefinition
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error
	if c.Dataset.Path == "" {
		errs = append(errs, fmt.Errorf("dataset.path is required"))
	}
	if ok, issues := schema.NewValidator(c.Definition()).Validate(); !ok {
		for _, issue := range issues {
			errs = append(errs, errors.New(issue.String()))
		}
	}
	return errors.Join(errs...)
}
