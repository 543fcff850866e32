package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

var validThresholds = map[string]bool{"info": true, "dangerous": true, "breaking": true, "none": true, "": true}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateFetch()...)

	if c.Batch.MaxWorkers <= 0 {
		errors = append(errors, ValidationError{
			Field:   "batch.max_workers",
			Message: "max_workers must be positive",
		})
	}

	for _, name := range c.ListComparisons() {
		cmp := c.Comparisons[name]
		errors = append(errors, c.validateComparison(name, &cmp)...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateComparison(name string, cmp *ComparisonConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("comparisons.%s", name)

	errors = append(errors, validateSource(prefix+".old", cmp.Old)...)
	errors = append(errors, validateSource(prefix+".new", cmp.New)...)

	if !validThresholds[strings.ToLower(cmp.FailOn)] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".fail_on",
			Message: "fail_on must be 'info', 'dangerous', 'breaking', or 'none'",
		})
	}

	return errors
}

func validateSource(prefix string, src SourceConfig) ValidationErrors {
	var errors ValidationErrors

	switch src.count() {
	case 0:
		errors = append(errors, ValidationError{
			Field:   prefix,
			Message: "one of sdl, introspection, or endpoint is required",
		})
	case 1:
	default:
		errors = append(errors, ValidationError{
			Field:   prefix,
			Message: "only one of sdl, introspection, or endpoint may be set",
		})
	}

	if src.Endpoint != "" && !strings.HasPrefix(src.Endpoint, "http://") && !strings.HasPrefix(src.Endpoint, "https://") {
		errors = append(errors, ValidationError{
			Field:   prefix + ".endpoint",
			Message: "endpoint must be an http or https URL",
		})
	}

	if len(src.Headers) > 0 && src.Endpoint == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".headers",
			Message: "headers are only used with an endpoint",
		})
	}

	return errors
}

func (c *Config) validateReport() ValidationErrors {
	var errors ValidationErrors

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true, "": true}
	if !validFormats[c.Report.Format] {
		errors = append(errors, ValidationError{
			Field:   "report.format",
			Message: "format must be 'text', 'json', or 'yaml'",
		})
	}

	if !validThresholds[strings.ToLower(c.Report.FailOn)] {
		errors = append(errors, ValidationError{
			Field:   "report.fail_on",
			Message: "fail_on must be 'info', 'dangerous', 'breaking', or 'none'",
		})
	}

	return errors
}

func (c *Config) validateFetch() ValidationErrors {
	var errors ValidationErrors

	if c.Fetch.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "fetch.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	if c.Fetch.MaxRetries < 0 {
		errors = append(errors, ValidationError{
			Field:   "fetch.max_retries",
			Message: "max_retries cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
