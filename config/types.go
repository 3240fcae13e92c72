package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/ -o ../schema/definitions/pollwatch.schema.json

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = "1s"

// OutputConfig controls how detected changes are written to stdout.
type OutputConfig struct {
	// Format is "text" (default) or "json".
	Format string `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=text,enum=json,description=Event output format"`
}

// Config represents the pollwatch.yml configuration
type Config struct {
	Version string `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration version (e.g. 1.0)"`

	// Interval is a Go duration string such as "1s" or "250ms".
	Interval string `yaml:"interval,omitempty" toml:"interval,omitempty" json:"interval,omitempty" jsonschema:"description=Time between directory scans (Go duration e.g. 1s or 500ms),pattern=^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"`

	// Ignore lists .dockerignore style patterns matched against file names.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty" json:"ignore,omitempty" jsonschema:"description=File name patterns to leave out of change detection"`

	Output OutputConfig `yaml:"output,omitempty" toml:"output,omitempty" json:"output,omitempty" jsonschema:"description=Output settings"`

	// WatchConfig reloads the poll interval when the config file changes.
	WatchConfig *bool `yaml:"watch_config,omitempty" toml:"watch_config,omitempty" json:"watch_config,omitempty" jsonschema:"description=Reload the poll interval when this file changes"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`

	// Sources lists the files this configuration was loaded from, lowest precedence first.
	Sources []string `yaml:"-" toml:"-" json:"-" jsonschema:"-"`
}

// knownKeys are the top-level keys decoded into Config fields rather than Extensions.
var knownKeys = map[string]bool{
	"version":      true,
	"interval":     true,
	"ignore":       true,
	"output":       true,
	"watch_config": true,
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Interval == "" {
		c.Interval = DefaultInterval
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
}

// PollInterval returns the parsed interval. It falls back to DefaultInterval
// when the value is unset or unparseable; Validate reports the latter.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultInterval)
	}
	return d
}

// WatchConfigEnabled reports whether config hot reload was requested.
func (c *Config) WatchConfigEnabled() bool {
	return c.WatchConfig != nil && *c.WatchConfig
}

// UnmarshalExtension decodes the extension section under key into target.
// A missing key leaves target untouched.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	// Use yaml tags so extension structs share tags with the rest of the file.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
