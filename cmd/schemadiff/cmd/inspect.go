package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/schemadiff/internal/graph"
	"github.com/dbsmedya/schemadiff/internal/introspection"
	"github.com/dbsmedya/schemadiff/internal/runner"
)

var (
	inspectSchema string
	inspectStrict bool
	inspectDepth  int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the type reference structure of a schema",
	Long: `Inspect loads a single schema and displays how its types reference
each other, starting from the root operation types.

The report shows:
  - Reference tree from the root types (limited by --depth)
  - Type counts per kind
  - Types the diff does not visit because no root reaches them
  - Reference cycles
  - References to undefined types

With --strict, reference cycles are reported as an error.

Example:
  schemadiff inspect --schema schema.graphql --depth 3`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectSchema, "schema", "s", "",
		"Schema: SDL file, introspection JSON file or endpoint URL (required)")
	inspectCmd.Flags().BoolVar(&inspectStrict, "strict", false,
		"Fail when the schema contains reference cycles")
	inspectCmd.Flags().IntVar(&inspectDepth, "depth", 2,
		"Maximum depth of the reference tree")
	inspectCmd.MarkFlagRequired("schema")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := runner.New(cfg, nil)
	if err != nil {
		return err
	}

	src, err := r.ResolveRef(inspectSchema)
	if err != nil {
		return err
	}
	doc, err := introspection.Load(context.Background(), src)
	if err != nil {
		return err
	}

	g, err := graph.BuildFromDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to build reference graph: %w", err)
	}

	out := cmd.OutOrStdout()
	cycles := g.DetectIncompleteProcessing()
	unreachable := g.Unreachable()

	printHeader(out, "Schema: %s", src.Describe())
	fmt.Fprintln(out)

	summary := []string{
		"[ Schema Summary ]",
		strings.Repeat("-", 18),
		fmt.Sprintf("Types:       %d", g.NodeCount()),
		fmt.Sprintf("References:  %d", g.EdgeCount()),
		fmt.Sprintf("Directives:  %d", len(doc.DirectiveNames())),
		fmt.Sprintf("Reachable:   %d", g.NodeCount()-len(unreachable)),
		fmt.Sprintf("Unreachable: %d", len(unreachable)),
	}
	if cycles != nil {
		summary = append(summary, fmt.Sprintf("Cycles:      %d", len(cycles.Cycles)))
	} else {
		summary = append(summary, "Cycles:      0")
	}
	printSideBySide(out, referenceTree(g, inspectDepth), summary, 4)

	fmt.Fprintln(out)
	printSection(out, "Root Types")
	for _, op := range introspection.Operations {
		if name := doc.RootTypeName(op); name != "" {
			fmt.Fprintf(out, "  %-13s %s\n", string(op)+":", name)
		}
	}

	fmt.Fprintln(out)
	printSection(out, "Types by Kind")
	counts := g.CountByKind()
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "  %-13s %d\n", kind, counts[introspection.Kind(kind)])
	}

	if names := doc.DirectiveNames(); len(names) > 0 {
		fmt.Fprintln(out)
		printSection(out, "Directives")
		for _, name := range names {
			fmt.Fprintf(out, "  @%s\n", name)
		}
	}

	fmt.Fprintln(out)
	printSection(out, "Unreachable Types")
	printNames(out, unreachable)

	fmt.Fprintln(out)
	printSection(out, "Reference Cycles")
	if cycles == nil {
		fmt.Fprintln(out, "  (none)")
	} else {
		for _, cycle := range cycles.Cycles {
			fmt.Fprintf(out, "  • %s\n", strings.Join(cycle, " → "))
		}
	}

	if len(g.Dangling) > 0 {
		fmt.Fprintln(out)
		printSection(out, "Undefined References")
		for _, edge := range g.Dangling {
			fmt.Fprintf(out, "  • %s → %s\n", edge.From, edge.To)
		}
	}

	if inspectStrict {
		return g.Validate()
	}
	return nil
}

func printNames(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, name := range names {
		fmt.Fprintf(w, "  • %s\n", name)
	}
}

// referenceTree renders the types reachable from the roots, down to maxDepth
// levels below each root. A type already on the current path is marked as a
// cycle and not expanded again.
func referenceTree(g *graph.Graph, maxDepth int) []string {
	var lines []string
	for _, root := range g.Roots {
		lines = append(lines, root)
		onPath := map[string]bool{root: true}
		lines = appendChildren(lines, g, root, "", 1, maxDepth, onPath)
	}
	if len(lines) == 0 {
		lines = append(lines, "(no root types)")
	}
	return lines
}

func appendChildren(lines []string, g *graph.Graph, name, prefix string, depth, maxDepth int, onPath map[string]bool) []string {
	children := g.GetChildren(name)
	for i, child := range children {
		last := i == len(children)-1
		branch, indent := "├─ ", "│  "
		if last {
			branch, indent = "└─ ", "   "
		}

		label := child
		if node := g.GetNode(child); node != nil && node.Kind != "" {
			label = fmt.Sprintf("%s (%s)", child, strings.ToLower(string(node.Kind)))
		}

		switch {
		case onPath[child]:
			lines = append(lines, prefix+branch+label+" ↺")
		case depth >= maxDepth && len(g.GetChildren(child)) > 0:
			lines = append(lines, prefix+branch+label+" …")
		default:
			lines = append(lines, prefix+branch+label)
			onPath[child] = true
			lines = appendChildren(lines, g, child, prefix+indent, depth+1, maxDepth, onPath)
			delete(onPath, child)
		}
	}
	return lines
}
