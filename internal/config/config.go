// Package config provides configuration structures and loading for schemadiff.
package config

import (
	"errors"
)

// ErrComparisonNotFound is returned when a named comparison is not configured.
var ErrComparisonNotFound = errors.New("comparison not found")

// Config represents the complete application configuration.
type Config struct {
	Logging     LoggingConfig               `yaml:"logging" mapstructure:"logging"`
	Report      ReportConfig                `yaml:"report" mapstructure:"report"`
	Fetch       FetchConfig                 `yaml:"fetch" mapstructure:"fetch"`
	Diff        DiffConfig                  `yaml:"diff" mapstructure:"diff"`
	Batch       BatchConfig                 `yaml:"batch" mapstructure:"batch"`
	Comparisons map[string]ComparisonConfig `yaml:"comparisons" mapstructure:"comparisons"`
}

// ReportConfig controls how diff results are rendered.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`   // text, json or yaml
	Color  bool   `yaml:"color" mapstructure:"color"`     // colorize text output
	FailOn string `yaml:"fail_on" mapstructure:"fail_on"` // info, dangerous, breaking or none
}

// FetchConfig represents settings for introspecting live endpoints.
type FetchConfig struct {
	TimeoutSeconds int               `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries     int               `yaml:"max_retries" mapstructure:"max_retries"`
	Headers        map[string]string `yaml:"headers" mapstructure:"headers"`
}

// DiffConfig represents comparison engine settings.
type DiffConfig struct {
	IncludeUnreachable bool `yaml:"include_unreachable" mapstructure:"include_unreachable"`
}

// BatchConfig represents settings for running several comparisons at once.
type BatchConfig struct {
	MaxWorkers int `yaml:"max_workers" mapstructure:"max_workers"`
}

// ComparisonConfig is one named old/new schema pair.
type ComparisonConfig struct {
	Old    SourceConfig `yaml:"old" mapstructure:"old"`
	New    SourceConfig `yaml:"new" mapstructure:"new"`
	Diff   *DiffConfig  `yaml:"diff,omitempty" mapstructure:"diff"`
	FailOn string       `yaml:"fail_on,omitempty" mapstructure:"fail_on"`
}

// SourceConfig locates one schema version. Exactly one of SDL,
// Introspection and Endpoint must be set.
type SourceConfig struct {
	SDL           string            `yaml:"sdl,omitempty" mapstructure:"sdl"`                     // path to an SDL file
	Introspection string            `yaml:"introspection,omitempty" mapstructure:"introspection"` // path to an introspection JSON file
	Endpoint      string            `yaml:"endpoint,omitempty" mapstructure:"endpoint"`           // GraphQL endpoint URL
	Headers       map[string]string `yaml:"headers,omitempty" mapstructure:"headers"`             // merged over fetch.headers
}

// Ref returns the configured location, whichever kind it is.
func (s SourceConfig) Ref() string {
	switch {
	case s.Endpoint != "":
		return s.Endpoint
	case s.Introspection != "":
		return s.Introspection
	default:
		return s.SDL
	}
}

// Kind names the configured location: "sdl", "introspection" or "endpoint".
func (s SourceConfig) Kind() string {
	switch {
	case s.Endpoint != "":
		return "endpoint"
	case s.Introspection != "":
		return "introspection"
	case s.SDL != "":
		return "sdl"
	}
	return ""
}

// count returns how many locations are set.
func (s SourceConfig) count() int {
	n := 0
	for _, v := range []string{s.SDL, s.Introspection, s.Endpoint} {
		if v != "" {
			n++
		}
	}
	return n
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Report: ReportConfig{
			Format: "text",
			Color:  false,
			FailOn: "breaking",
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		Diff: DiffConfig{
			IncludeUnreachable: false,
		},
		Batch: BatchConfig{
			MaxWorkers: 4,
		},
	}
}

// GetComparisonDiff returns the diff config for a comparison by name, falling back to global if not set.
func (c *Config) GetComparisonDiff(name string) DiffConfig {
	cmp, err := c.GetComparison(name)
	if err != nil || cmp.Diff == nil {
		return c.Diff
	}
	return *cmp.Diff
}

// GetComparisonFailOn returns the fail_on threshold for a comparison, falling back to global if not set.
func (c *Config) GetComparisonFailOn(name string) string {
	cmp, err := c.GetComparison(name)
	if err != nil || cmp.FailOn == "" {
		return c.Report.FailOn
	}
	return cmp.FailOn
}

// SourceHeaders returns the global fetch headers with the source's own
// headers merged over them.
func (c *Config) SourceHeaders(src SourceConfig) map[string]string {
	headers := make(map[string]string, len(c.Fetch.Headers)+len(src.Headers))
	for k, v := range c.Fetch.Headers {
		headers[k] = v
	}
	for k, v := range src.Headers {
		headers[k] = v
	}
	return headers
}
