package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/schemadiff/internal/config"
	"github.com/dbsmedya/schemadiff/internal/runner"
)

// adhocComparison labels diffs of --old and --new.
const adhocComparison = "adhoc"

var (
	diffOld                string
	diffNew                string
	diffComparison         string
	diffIncludeUnreachable bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two versions of a GraphQL schema",
	Long: `Diff compares an old and a new schema and reports every difference,
classified as INFO, DANGEROUS or BREAKING.

Schemas are given either directly with --old and --new, or by the name of a
comparison defined in the configuration file. A reference may be an SDL file,
a saved introspection result (*.json) or an http(s) endpoint URL.

The command exits with a non-zero status when changes at or above the
fail_on threshold were found.

Examples:
  schemadiff diff --old schema/v1.graphql --new schema/v2.graphql
  schemadiff diff --old prod.json --new https://staging.example.com/graphql --fail-on dangerous
  schemadiff diff --config schemadiff.yaml --comparison users-api --format json`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffOld, "old", "",
		"Old schema: SDL file, introspection JSON file or endpoint URL")
	diffCmd.Flags().StringVar(&diffNew, "new", "",
		"New schema: SDL file, introspection JSON file or endpoint URL")
	diffCmd.Flags().StringVarP(&diffComparison, "comparison", "n", "",
		"Comparison name from configuration file")
	diffCmd.Flags().BoolVar(&diffIncludeUnreachable, "include-unreachable", false,
		"Also compare types not reachable from a root operation type")

	diffCmd.MarkFlagsRequiredTogether("old", "new")
	diffCmd.MarkFlagsMutuallyExclusive("comparison", "old")
	diffCmd.MarkFlagsMutuallyExclusive("comparison", "new")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	if diffComparison == "" && (diffOld == "" || diffNew == "") {
		return fmt.Errorf("either --comparison or both --old and --new are required")
	}

	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	r, err := runner.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := setupSignalHandler(func(sig os.Signal) {
		log.Warnw("Received shutdown signal - aborting comparison", "signal", sig.String())
	})
	defer stop()

	out := cmd.OutOrStdout()
	var result *runner.ComparisonResult

	if diffComparison != "" {
		cmp, err := cfg.GetComparison(diffComparison)
		if err != nil {
			return err
		}
		if diffIncludeUnreachable {
			cmp.Diff = &config.DiffConfig{IncludeUnreachable: true}
			cfg.Comparisons[diffComparison] = *cmp
		}

		rep, err := newReporter(out, cfg, diffComparison)
		if err != nil {
			return err
		}
		result, err = r.RunComparison(ctx, diffComparison, rep)
		if err != nil {
			return err
		}
		if err := rep.Err(); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		oldSrc, err := r.ResolveRef(diffOld)
		if err != nil {
			return fmt.Errorf("old schema: %w", err)
		}
		newSrc, err := r.ResolveRef(diffNew)
		if err != nil {
			return fmt.Errorf("new schema: %w", err)
		}

		diffCfg := cfg.Diff
		if diffIncludeUnreachable {
			diffCfg.IncludeUnreachable = true
		}

		rep, err := newReporter(out, cfg, "")
		if err != nil {
			return err
		}
		result = r.Compare(ctx, adhocComparison, oldSrc, newSrc, diffCfg, rep)
		if err := rep.Err(); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if result.Err != nil {
		return fmt.Errorf("comparison failed: %w", result.Err)
	}
	if result.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Found %d breaking and %d dangerous change(s); fail_on is %s\n",
			result.Counts.Breakages, result.Counts.Dangers, result.FailOn)
		return errThresholdExceeded
	}
	return nil
}
