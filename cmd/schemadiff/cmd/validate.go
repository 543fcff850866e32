package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/schemadiff/internal/introspection"
	"github.com/dbsmedya/schemadiff/internal/logger"
	"github.com/dbsmedya/schemadiff/internal/runner"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and load every configured schema",
	Long: `Validate checks the configuration file and loads both schemas of every
comparison to ensure they can be diffed.

Checks performed:
  - Configuration syntax and required fields
  - Schema files exist and parse
  - Endpoints answer the introspection query
  - Schemas are valid GraphQL

Example:
  schemadiff validate --config schemadiff.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "=== Configuration Validation ===\n")
	fmt.Fprintf(out, "Config file: %s\n", configFile)
	fmt.Fprintf(out, "Comparisons found: %d\n\n", len(cfg.Comparisons))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return fmt.Errorf("invalid configuration")
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	r, err := runner.New(cfg, log)
	if err != nil {
		return err
	}

	log.Info("Starting validation checks...")
	ctx := context.Background()

	hasErrors := false
	for _, name := range cfg.ListComparisons() {
		cmp, err := cfg.GetComparison(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "--- Comparison: %s ---\n", name)

		for _, side := range []struct {
			label string
			src   func() (introspection.Source, error)
		}{
			{"Old", func() (introspection.Source, error) { return r.Source(cmp.Old) }},
			{"New", func() (introspection.Source, error) { return r.Source(cmp.New) }},
		} {
			src, err := side.src()
			if err != nil {
				fmt.Fprintf(out, "❌ %s: %v\n", side.label, err)
				hasErrors = true
				continue
			}

			start := time.Now()
			doc, err := introspection.Load(ctx, src)
			if err != nil {
				fmt.Fprintf(out, "❌ %s: %s: %v\n", side.label, src.Describe(), err)
				hasErrors = true
				continue
			}
			fmt.Fprintf(out, "✅ %s: %s (%d types, %d directives, %s)\n",
				side.label, src.Describe(), doc.TypeCount(), len(doc.DirectiveNames()),
				time.Since(start).Round(time.Millisecond))
		}
		fmt.Fprintln(out)
	}

	if hasErrors {
		return fmt.Errorf("validation failed for one or more comparisons")
	}

	fmt.Fprintln(out, "=== Validation Complete ===")
	fmt.Fprintln(out, "✅ All comparisons validated successfully")
	return nil
}
