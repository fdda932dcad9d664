// Package config loads the compiler configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/livefir/statichtml/internal/encode"
)

const (
	// ConfigFileName is the file the CLI looks for in the working directory
	ConfigFileName = "statichtml.yaml"

	// Version is the current config file version
	Version = "1.0"
)

var validate = validator.New()

// Config represents a statichtml configuration file
type Config struct {
	// LookupSources are searched in order when folding interpolations
	LookupSources []string `yaml:"lookup_sources,omitempty" validate:"dive,required"`

	// SourceDirs are directories lookup sources are read from, in order
	SourceDirs []string `yaml:"source_dirs,omitempty" validate:"dive,required"`

	// Store is the DSN of a SQLite lookup-source store
	Store string `yaml:"store,omitempty"`

	// Delimiter quotes attribute values
	Delimiter string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`

	Minify                 bool `yaml:"minify,omitempty"`
	SuppressUnsafeWarnings bool `yaml:"suppress_unsafe_warnings,omitempty"`
	LogDiagnostics         bool `yaml:"log_diagnostics,omitempty"`

	// VoidElements registers custom elements without content
	VoidElements []string `yaml:"void_elements,omitempty" validate:"dive,required"`

	// Constructors replaces the calls unwrapped to static text
	Constructors []string `yaml:"constructors,omitempty" validate:"dive,required"`

	// ValuesFile replaces the built-in attribute value catalog
	ValuesFile string `yaml:"values_file,omitempty"`

	Encoding       encode.Encoding       `yaml:"encoding"`
	Representation encode.Representation `yaml:"representation"`

	// Version tracks the config file version for future migrations
	Version string `yaml:"version,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		SourceDirs:     []string{"."},
		Delimiter:      `"`,
		Encoding:       encode.Text(),
		Representation: encode.SingleValue(),
		Version:        Version,
	}
}

// LoadConfig loads the configuration from path.
// If the file doesn't exist, returns a default config
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a config document, fills defaults and validates it
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	config.SourceDirs = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults for missing fields
	if len(config.SourceDirs) == 0 {
		config.SourceDirs = []string{"."}
	}
	if config.Delimiter == "" {
		config.Delimiter = `"`
	}
	if config.Version == "" {
		config.Version = Version
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks field constraints and the encoding pair
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := encode.Validate(c.Encoding, c.Representation); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DelimiterRune returns the attribute delimiter
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return '"'
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
