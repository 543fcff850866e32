// Package runner executes configured schema comparisons: it resolves the
// schema sources, runs the diff and evaluates the fail_on threshold.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/schemadiff/internal/config"
	"github.com/dbsmedya/schemadiff/internal/diff"
	"github.com/dbsmedya/schemadiff/internal/introspection"
	"github.com/dbsmedya/schemadiff/internal/logger"
	"github.com/dbsmedya/schemadiff/internal/report"
)

// FailOnNone disables the fail_on threshold.
const FailOnNone = "none"

// ComparisonResult contains the outcome of one comparison.
type ComparisonResult struct {
	Name        string
	RunID       string
	OldSource   string
	NewSource   string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Events      []diff.Event
	Counts      report.Counts
	FailOn      string
	Failed      bool // threshold exceeded
	Err         error
}

// ReporterFactory returns the reporter that receives the events of the
// named comparison. It may return nil.
type ReporterFactory func(name string) diff.Reporter

// Runner runs comparisons with the settings of a Config.
type Runner struct {
	config *config.Config
	logger *logger.Logger
}

// New creates a Runner. A nil logger discards log output.
func New(cfg *config.Config, log *logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{config: cfg, logger: log}, nil
}

// EndpointOptions returns the endpoint settings for src: the fetch settings
// plus the global headers with the source's own headers merged over them.
func (r *Runner) EndpointOptions(src config.SourceConfig) introspection.EndpointOptions {
	return introspection.EndpointOptions{
		Headers:    r.config.SourceHeaders(src),
		Timeout:    time.Duration(r.config.Fetch.TimeoutSeconds) * time.Second,
		MaxRetries: r.config.Fetch.MaxRetries,
	}
}

// Source builds the schema source configured by src.
func (r *Runner) Source(src config.SourceConfig) (introspection.Source, error) {
	switch {
	case src.Endpoint != "":
		return introspection.NewEndpointSource(src.Endpoint, r.EndpointOptions(src)), nil
	case src.Introspection != "":
		return introspection.NewFileSource(src.Introspection), nil
	case src.SDL != "":
		return introspection.NewSDLFileSource(src.SDL)
	}
	return nil, fmt.Errorf("schema source has no sdl, introspection or endpoint")
}

// ResolveRef builds a source from an ad-hoc reference such as a file path or
// URL, using the global fetch settings for endpoints.
func (r *Runner) ResolveRef(ref string) (introspection.Source, error) {
	return introspection.ResolveSource(ref, r.EndpointOptions(config.SourceConfig{}))
}

// RunComparison runs the configured comparison name. reporter may be nil.
// An error is returned only when the comparison is not configured; failures
// while loading or diffing are recorded in ComparisonResult.Err.
func (r *Runner) RunComparison(ctx context.Context, name string, reporter diff.Reporter) (*ComparisonResult, error) {
	cmp, err := r.config.GetComparison(name)
	if err != nil {
		return nil, err
	}

	result := &ComparisonResult{Name: name, FailOn: r.config.GetComparisonFailOn(name)}
	oldSrc, err := r.Source(cmp.Old)
	if err != nil {
		result.Err = fmt.Errorf("old schema: %w", err)
		return result, nil
	}
	newSrc, err := r.Source(cmp.New)
	if err != nil {
		result.Err = fmt.Errorf("new schema: %w", err)
		return result, nil
	}

	return r.Compare(ctx, name, oldSrc, newSrc, r.config.GetComparisonDiff(name), reporter), nil
}

// Compare diffs two sources. name labels the result and the log entries and
// selects the fail_on threshold; an unconfigured name uses the global one.
func (r *Runner) Compare(ctx context.Context, name string, oldSrc, newSrc introspection.Source, diffCfg config.DiffConfig, reporter diff.Reporter) *ComparisonResult {
	log, runID := r.logger.WithComparison(name).WithRun()
	result := &ComparisonResult{
		Name:      name,
		RunID:     runID,
		OldSource: oldSrc.Describe(),
		NewSource: newSrc.Describe(),
		StartedAt: time.Now(),
		FailOn:    r.config.GetComparisonFailOn(name),
	}
	defer func() {
		result.CompletedAt = time.Now()
		result.Duration = result.CompletedAt.Sub(result.StartedAt)
	}()

	log.Infow("Starting schema comparison",
		"old", result.OldSource,
		"new", result.NewSource,
		"include_unreachable", diffCfg.IncludeUnreachable,
	)

	set, err := diff.NewDiffSetFromSources(ctx, oldSrc, newSrc)
	if err != nil {
		log.Errorw("Failed to load schemas", "error", err)
		result.Err = err
		return result
	}
	log.Debugw("Schemas loaded",
		"old_types", set.Old().TypeCount(),
		"new_types", set.New().TypeCount(),
	)

	capture := report.NewCapturingReporter()
	var sink diff.Reporter = capture
	if reporter != nil {
		sink = report.NewTee(capture, reporter)
	}

	sd := diff.NewSchemaDiff(diff.Options{
		IncludeUnreachable: diffCfg.IncludeUnreachable,
		Logger:             log,
	})
	sd.DiffSchema(set, sink)

	result.Events = capture.Events()
	result.Counts = capture.Counts()

	failed, err := Exceeds(result.Counts, result.FailOn)
	if err != nil {
		result.Err = err
		return result
	}
	result.Failed = failed

	log.Infow("Schema comparison complete",
		"breakages", result.Counts.Breakages,
		"dangers", result.Counts.Dangers,
		"infos", result.Counts.Infos,
		"fail_on", result.FailOn,
		"failed", result.Failed,
		"duration", time.Since(result.StartedAt),
	)
	return result
}

// RunBatch runs the named comparisons, at most batch.max_workers at a time.
// No names means every configured comparison. Results are returned in the
// order of names. Unknown names fail the whole batch before anything runs.
func (r *Runner) RunBatch(ctx context.Context, names []string, reporters ReporterFactory) ([]*ComparisonResult, error) {
	if len(names) == 0 {
		names = r.config.ListComparisons()
	}
	for _, name := range names {
		if _, err := r.config.GetComparison(name); err != nil {
			return nil, err
		}
	}

	workers := r.config.Batch.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	r.logger.Infow("Starting batch", "comparisons", len(names), "max_workers", workers)

	results := make([]*ComparisonResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = &ComparisonResult{Name: name, Err: err}
				return nil
			}
			var reporter diff.Reporter
			if reporters != nil {
				reporter = reporters(name)
			}
			res, err := r.RunComparison(gctx, name, reporter)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Exceeds reports whether counts reach the failOn threshold. An empty
// threshold or "none" never fails.
func Exceeds(counts report.Counts, failOn string) (bool, error) {
	if failOn == "" || strings.EqualFold(failOn, FailOnNone) {
		return false, nil
	}
	level, err := diff.ParseLevel(failOn)
	if err != nil {
		return false, fmt.Errorf("invalid fail_on threshold: %w", err)
	}
	return counts.AtOrAbove(level) > 0, nil
}

// Summary totals a set of results.
type Summary struct {
	Comparisons int
	Failed      int // threshold exceeded
	Errored     int
	Counts      report.Counts
}

// Summarize totals results.
func Summarize(results []*ComparisonResult) Summary {
	s := Summary{Comparisons: len(results)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.Errored++
		case res.Failed:
			s.Failed++
		}
		s.Counts = s.Counts.Add(res.Counts)
	}
	return s
}

// OK reports whether no comparison errored or exceeded its threshold.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}
