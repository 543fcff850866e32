package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Comparisons = map[string]ComparisonConfig{
		"api": {
			Old: SourceConfig{SDL: "v1.graphql"},
			New: SourceConfig{Endpoint: "https://api.example.com/graphql"},
		},
	}
	return cfg
}

func TestValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidConfigWithoutComparisons(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("expected defaults to validate, got: %v", err)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "missing old source",
			mutate: func(c *Config) { c.Comparisons["api"] = ComparisonConfig{New: SourceConfig{SDL: "b.graphql"}} },
			field:  "comparisons.api.old",
		},
		{
			name: "two locations",
			mutate: func(c *Config) {
				c.Comparisons["api"] = ComparisonConfig{
					Old: SourceConfig{SDL: "a.graphql", Introspection: "a.json"},
					New: SourceConfig{SDL: "b.graphql"},
				}
			},
			field: "comparisons.api.old",
		},
		{
			name: "non-http endpoint",
			mutate: func(c *Config) {
				c.Comparisons["api"] = ComparisonConfig{
					Old: SourceConfig{SDL: "a.graphql"},
					New: SourceConfig{Endpoint: "ftp://example.com"},
				}
			},
			field: "comparisons.api.new.endpoint",
		},
		{
			name: "headers without endpoint",
			mutate: func(c *Config) {
				c.Comparisons["api"] = ComparisonConfig{
					Old: SourceConfig{SDL: "a.graphql", Headers: map[string]string{"x": "y"}},
					New: SourceConfig{SDL: "b.graphql"},
				}
			},
			field: "comparisons.api.old.headers",
		},
		{
			name: "bad comparison threshold",
			mutate: func(c *Config) {
				cmp := c.Comparisons["api"]
				cmp.FailOn = "fatal"
				c.Comparisons["api"] = cmp
			},
			field: "comparisons.api.fail_on",
		},
		{
			name:   "bad report format",
			mutate: func(c *Config) { c.Report.Format = "xml" },
			field:  "report.format",
		},
		{
			name:   "bad report threshold",
			mutate: func(c *Config) { c.Report.FailOn = "sometimes" },
			field:  "report.fail_on",
		},
		{
			name:   "negative timeout",
			mutate: func(c *Config) { c.Fetch.TimeoutSeconds = -1 },
			field:  "fetch.timeout_seconds",
		},
		{
			name:   "negative retries",
			mutate: func(c *Config) { c.Fetch.MaxRetries = -1 },
			field:  "fetch.max_retries",
		},
		{
			name:   "zero workers",
			mutate: func(c *Config) { c.Batch.MaxWorkers = 0 },
			field:  "batch.max_workers",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			field:  "logging.level",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			field:  "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %q, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidationCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Report.Format = "xml"
	cfg.Batch.MaxWorkers = -2
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verrs), verrs)
	}
	if !strings.HasPrefix(err.Error(), "validation failed:") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "report.format", Message: "bad"}
	if err.Error() != "report.format: bad" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
	if (ValidationErrors{}).Error() != "" {
		t.Error("expected empty string for no errors")
	}
}
