package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/schemadiff/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all comparisons defined in configuration",
	Long: `List displays all schema comparisons defined in the configuration file
along with their sources and settings.

Example:
  schemadiff list --config schemadiff.yaml`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	names := cfg.ListComparisons()
	if len(names) == 0 {
		cmd.Printf("No comparisons defined in %s\n", configFile)
		return nil
	}

	cmd.Printf("Comparisons defined in %s:\n\n", configFile)

	for i, name := range names {
		cmp, err := cfg.GetComparison(name)
		if err != nil {
			return fmt.Errorf("failed to get comparison %q: %w", name, err)
		}

		cmd.Printf("%d. %s\n", i+1, name)
		cmd.Printf("   Old:           %s %s\n", cmp.Old.Kind(), cmp.Old.Ref())
		if len(cmp.Old.Headers) > 0 {
			cmd.Printf("      └─ %d header(s)\n", len(cmp.Old.Headers))
		}
		cmd.Printf("   New:           %s %s\n", cmp.New.Kind(), cmp.New.Ref())
		if len(cmp.New.Headers) > 0 {
			cmd.Printf("      └─ %d header(s)\n", len(cmp.New.Headers))
		}

		if cmp.Diff != nil {
			cmd.Printf("   Diff:          Custom (include_unreachable=%v)\n", cmp.Diff.IncludeUnreachable)
		}

		failOn := cfg.GetComparisonFailOn(name)
		if cmp.FailOn != "" {
			cmd.Printf("   Fail On:       %s (comparison-specific)\n", failOn)
		} else {
			cmd.Printf("   Fail On:       %s\n", failOn)
		}

		if i < len(names)-1 {
			cmd.Println()
		}
	}

	cmd.Printf("\nTotal: %d comparison(s)\n", len(names))
	return nil
}
