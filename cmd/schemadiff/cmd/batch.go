package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/schemadiff/internal/diff"
	"github.com/dbsmedya/schemadiff/internal/report"
	"github.com/dbsmedya/schemadiff/internal/runner"
)

var batchCmd = &cobra.Command{
	Use:   "batch [NAME...]",
	Short: "Run several configured comparisons",
	Long: `Batch runs the named comparisons from the configuration file, or all of
them when no name is given. Up to batch.max_workers comparisons run at the
same time; reports are printed in the order given, followed by a summary.

The command exits with a non-zero status when any comparison failed to run
or exceeded its fail_on threshold.

Example:
  schemadiff batch --config schemadiff.yaml
  schemadiff batch users-api orders-api --format yaml`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if len(args) == 0 && len(cfg.Comparisons) == 0 {
		return fmt.Errorf("no comparisons defined in %s", GetConfigFile())
	}

	r, err := runner.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := setupSignalHandler(func(sig os.Signal) {
		log.Warnw("Received shutdown signal - cancelling pending comparisons", "signal", sig.String())
	})
	defer stop()

	text := cfg.Report.Format == report.FormatText || cfg.Report.Format == ""

	// text reports are buffered per comparison and printed in order
	var mu sync.Mutex
	buffers := make(map[string]*bytes.Buffer)
	var reporters runner.ReporterFactory
	if text {
		reporters = func(name string) diff.Reporter {
			buf := &bytes.Buffer{}
			mu.Lock()
			buffers[name] = buf
			mu.Unlock()
			return report.NewPrintStreamReporter(buf, report.WithColor(cfg.Report.Color))
		}
	}

	results, err := r.RunBatch(ctx, uniqueNames(args), reporters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if text {
		for _, res := range results {
			printHeader(out, "Comparison: %s", res.Name)
			if res.Err != nil {
				fmt.Fprintf(out, "error: %v\n\n", res.Err)
				continue
			}
			if buf := buffers[res.Name]; buf != nil {
				_, _ = buf.WriteTo(out)
			}
			fmt.Fprintln(out)
		}
		printBatchSummary(out, results, cfg.Report.Color)
	} else {
		docs := make([]report.Document, 0, len(results))
		for _, res := range results {
			doc := report.NewDocument(res.Name, res.Events)
			if res.Err != nil {
				doc.Error = res.Err.Error()
			}
			docs = append(docs, doc)
		}
		if err := report.EncodeDocuments(out, cfg.Report.Format, docs...); err != nil {
			return err
		}
	}

	summary := runner.Summarize(results)
	if !summary.OK() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d comparison(s) failed, %d could not be run\n",
			summary.Failed, summary.Comparisons, summary.Errored)
		return errThresholdExceeded
	}
	return nil
}

// uniqueNames drops repeated comparison names, keeping the first occurrence.
func uniqueNames(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func printBatchSummary(w io.Writer, results []*runner.ComparisonResult, useColor bool) {
	printSection(w, "Summary")
	t := &table{header: []string{"COMPARISON", "BREAKING", "DANGEROUS", "INFO", "FAIL ON", "STATUS"}}
	for _, res := range results {
		status := colorize(useColor, color.Style{color.FgGreen}, "ok")
		switch {
		case res.Err != nil:
			status = colorize(useColor, color.Style{color.FgRed, color.OpBold}, "error")
		case res.Failed:
			status = colorize(useColor, color.Style{color.FgRed}, "failed")
		}
		t.add(res.Name,
			strconv.Itoa(res.Counts.Breakages),
			strconv.Itoa(res.Counts.Dangers),
			strconv.Itoa(res.Counts.Infos),
			res.FailOn,
			status,
		)
	}
	t.render(w)

	s := runner.Summarize(results)
	fmt.Fprintf(w, "\nTotal: %d comparison(s), %d failed, %d errored\n", s.Comparisons, s.Failed, s.Errored)
}
