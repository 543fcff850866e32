package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOrDefault loads configPath when it exists and returns the defaults
// otherwise. Ad-hoc diffs need no config file.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(configPath)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	for k, v := range cfg.Fetch.Headers {
		cfg.Fetch.Headers[k] = expandEnvVar(v)
	}

	for name, cmp := range cfg.Comparisons {
		cmp.Old = expandSource(cmp.Old)
		cmp.New = expandSource(cmp.New)
		cfg.Comparisons[name] = cmp
	}
}

func expandSource(src SourceConfig) SourceConfig {
	src.SDL = expandEnvVar(src.SDL)
	src.Introspection = expandEnvVar(src.Introspection)
	src.Endpoint = expandEnvVar(src.Endpoint)
	if len(src.Headers) > 0 {
		headers := make(map[string]string, len(src.Headers))
		for k, v := range src.Headers {
			headers[k] = expandEnvVar(v)
		}
		src.Headers = headers
	}
	return src
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// GetComparison retrieves a specific comparison by name.
func (c *Config) GetComparison(name string) (*ComparisonConfig, error) {
	cmp, exists := c.Comparisons[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrComparisonNotFound, name)
	}
	return &cmp, nil
}

// ListComparisons returns all comparison names in sorted order.
func (c *Config) ListComparisons() []string {
	names := make([]string, 0, len(c.Comparisons))
	for name := range c.Comparisons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyOverrides applies CLI flag overrides to the global configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, reportFormat, failOn string, color bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if reportFormat != "" {
		c.Report.Format = reportFormat
	}
	if failOn != "" {
		c.Report.FailOn = failOn
		// an explicit threshold wins over per-comparison settings
		for name, cmp := range c.Comparisons {
			cmp.FailOn = ""
			c.Comparisons[name] = cmp
		}
	}
	if color {
		c.Report.Color = true
	}
}
