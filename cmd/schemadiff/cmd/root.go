package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/schemadiff/internal/config"
	"github.com/dbsmedya/schemadiff/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	reportFormat string
	failOn       string
	colorOutput  bool
)

// errThresholdExceeded is returned when a comparison reported events at or
// above its fail_on level. The report has already been printed.
var errThresholdExceeded = errors.New("schema changes exceed the fail_on threshold")

var rootCmd = &cobra.Command{
	Use:   "schemadiff",
	Short: "GraphQL schema difference engine",
	Long: `A CLI tool that compares two versions of a GraphQL schema and classifies
every difference as INFO, DANGEROUS or BREAKING.

Schemas can be read from SDL files, saved introspection results or live
GraphQL endpoints.

Features:
  - Type-by-type comparison reachable from the root operation types
  - Field, argument, enum, union, interface and directive changes
  - Text, JSON and YAML reports
  - Concurrent batch runs over configured comparisons
  - CI-friendly exit status via fail_on thresholds`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errThresholdExceeded) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "schemadiff.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Report overrides
	rootCmd.PersistentFlags().StringVarP(&reportFormat, "format", "f", "",
		"Override report format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&failOn, "fail-on", "",
		"Override failure threshold (info, dangerous, breaking, none)")
	rootCmd.PersistentFlags().BoolVar(&colorOutput, "color", false,
		"Colorize text reports")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel     string
	LogFormat    string
	ReportFormat string
	FailOn       string
	Color        bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		ReportFormat: reportFormat,
		FailOn:       failOn,
		Color:        colorOutput,
	}
}

// loadConfig loads the config file, falling back to the defaults when it
// does not exist, and applies the CLI overrides. Ad-hoc diffs need no file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	o := GetCLIOverrides()
	cfg.ApplyOverrides(o.LogLevel, o.LogFormat, o.ReportFormat, o.FailOn, o.Color)
	return cfg, nil
}

// loadConfigAndLogger loads the configuration, validates it and builds the logger.
func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
