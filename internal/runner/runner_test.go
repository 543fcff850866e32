package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dbsmedya/schemadiff/internal/config"
	"github.com/dbsmedya/schemadiff/internal/diff"
	"github.com/dbsmedya/schemadiff/internal/introspection"
	"github.com/dbsmedya/schemadiff/internal/logger"
	"github.com/dbsmedya/schemadiff/internal/report"
)

func writeSchema(t *testing.T, dir, name, sdl string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sdl), 0o644))
	return path
}

// testConfig configures three comparisons: "additive" only adds a field,
// "breaking" removes one and "broken" points at a missing file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	base := writeSchema(t, dir, "base.graphql", `type Query { a: Int, b: Int }`)
	added := writeSchema(t, dir, "added.graphql", `type Query { a: Int, b: Int, c: Int }`)
	removed := writeSchema(t, dir, "removed.graphql", `type Query { a: Int }`)

	cfg := config.DefaultConfig()
	cfg.Comparisons = map[string]config.ComparisonConfig{
		"additive": {Old: config.SourceConfig{SDL: base}, New: config.SourceConfig{SDL: added}},
		"breaking": {Old: config.SourceConfig{SDL: base}, New: config.SourceConfig{SDL: removed}},
		"broken":   {Old: config.SourceConfig{SDL: base}, New: config.SourceConfig{SDL: filepath.Join(dir, "missing.graphql")}},
	}
	return cfg
}

func newRunner(t *testing.T, cfg *config.Config) *Runner {
	t.Helper()
	r, err := New(cfg, nil)
	require.NoError(t, err)
	return r
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestRunComparison(t *testing.T) {
	r := newRunner(t, testConfig(t))

	res, err := r.RunComparison(context.Background(), "breaking", nil)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.Equal(t, "breaking", res.Name)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, report.Counts{Breakages: 1}, res.Counts)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "b", res.Events[0].FieldName())
	assert.Equal(t, "breaking", res.FailOn)
	assert.True(t, res.Failed)
	assert.False(t, res.CompletedAt.Before(res.StartedAt))
	assert.Contains(t, res.OldSource, "base.graphql")
}

func TestRunComparisonForwardsToReporter(t *testing.T) {
	r := newRunner(t, testConfig(t))

	var buf bytes.Buffer
	res, err := r.RunComparison(context.Background(), "additive", report.NewPrintStreamReporter(&buf))
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.False(t, res.Failed)
	assert.Equal(t, 1, res.Counts.Infos)
	assert.Contains(t, buf.String(), "'Query' : 'c'")
	assert.Contains(t, buf.String(), "0 errors")
}

func TestRunComparisonUnknown(t *testing.T) {
	r := newRunner(t, testConfig(t))

	_, err := r.RunComparison(context.Background(), "nope", nil)
	assert.True(t, errors.Is(err, config.ErrComparisonNotFound))
}

func TestRunComparisonLoadFailure(t *testing.T) {
	r := newRunner(t, testConfig(t))

	res, err := r.RunComparison(context.Background(), "broken", nil)
	require.NoError(t, err)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "new schema")
	assert.Empty(t, res.Events)
}

func TestRunComparisonInvalidSchema(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.Comparisons["invalid"] = config.ComparisonConfig{
		Old: config.SourceConfig{SDL: writeSchema(t, dir, "old.graphql", `type Query { a: Int }`)},
		New: config.SourceConfig{SDL: writeSchema(t, dir, "new.graphql", `type Query { a: Missing }`)},
	}
	r := newRunner(t, cfg)

	res, err := r.RunComparison(context.Background(), "invalid", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, introspection.ErrIntrospectionFailed)
}

func TestRunComparisonPerComparisonSettings(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cmp := config.ComparisonConfig{
		Old:    config.SourceConfig{SDL: writeSchema(t, dir, "old.graphql", `type Query { a: Int } type Orphan { x: Int }`)},
		New:    config.SourceConfig{SDL: writeSchema(t, dir, "new.graphql", `type Query { a: Int }`)},
		Diff:   &config.DiffConfig{IncludeUnreachable: true},
		FailOn: "none",
	}
	cfg.Comparisons["orphan"] = cmp
	r := newRunner(t, cfg)

	res, err := r.RunComparison(context.Background(), "orphan", nil)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Counts.Breakages)
	assert.Equal(t, "none", res.FailOn)
	assert.False(t, res.Failed)
}

func TestRunComparisonEndpointHeaders(t *testing.T) {
	payload, err := json.Marshal(map[string]any{"data": map[string]any{"__schema": map[string]any{
		"queryType": map[string]any{"name": "Query"},
		"types": []any{
			map[string]any{"kind": "OBJECT", "name": "Query", "fields": []any{
				map[string]any{"name": "a", "args": []any{}, "type": map[string]any{"kind": "SCALAR", "name": "Int"}},
			}},
			map[string]any{"kind": "SCALAR", "name": "Int"},
		},
		"directives": []any{},
	}}})
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Clone())
		mu.Unlock()
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Fetch.Headers = map[string]string{"X-Team": "api", "Authorization": "global"}
	cfg.Comparisons = map[string]config.ComparisonConfig{
		"live": {
			Old: config.SourceConfig{Endpoint: srv.URL, Headers: map[string]string{"Authorization": "old-token"}},
			New: config.SourceConfig{Endpoint: srv.URL},
		},
	}
	r := newRunner(t, cfg)

	res, err := r.RunComparison(context.Background(), "live", nil)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Events)

	require.Len(t, seen, 2)
	assert.Equal(t, "old-token", seen[0].Get("Authorization"))
	assert.Equal(t, "global", seen[1].Get("Authorization"))
	assert.Equal(t, "api", seen[1].Get("X-Team"))
}

func TestCompareLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r, err := New(config.DefaultConfig(), logger.NewWithCore(core))
	require.NoError(t, err)

	res := r.Compare(context.Background(), "adhoc",
		introspection.NewSDLSource("old", `type Query { a: Int }`),
		introspection.NewSDLSource("new", `type Query { b: Int }`),
		config.DiffConfig{}, nil)
	require.NoError(t, res.Err)
	assert.True(t, res.Failed)

	done := logs.FilterMessage("Schema comparison complete").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, "adhoc", fields["comparison"])
	assert.Equal(t, res.RunID, fields["run_id"])
	assert.Equal(t, int64(1), fields["breakages"])
}

func TestRunBatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Batch.MaxWorkers = 2
	r := newRunner(t, cfg)

	var mu sync.Mutex
	captured := make(map[string]*report.CapturingReporter)
	results, err := r.RunBatch(context.Background(), nil, func(name string) diff.Reporter {
		rep := report.NewCapturingReporter()
		mu.Lock()
		captured[name] = rep
		mu.Unlock()
		return rep
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "additive", results[0].Name)
	assert.Equal(t, "breaking", results[1].Name)
	assert.Equal(t, "broken", results[2].Name)

	assert.False(t, results[0].Failed)
	assert.True(t, results[1].Failed)
	assert.Error(t, results[2].Err)
	assert.Equal(t, 1, captured["breaking"].BreakageCount())

	s := Summarize(results)
	assert.Equal(t, Summary{Comparisons: 3, Failed: 1, Errored: 1, Counts: report.Counts{Infos: 1, Breakages: 1}}, s)
	assert.False(t, s.OK())
}

func TestRunBatchSelectedNames(t *testing.T) {
	r := newRunner(t, testConfig(t))

	results, err := r.RunBatch(context.Background(), []string{"breaking", "additive"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "breaking", results[0].Name)
	assert.Equal(t, "additive", results[1].Name)
	assert.True(t, Summarize(results[1:]).OK())
}

func TestRunBatchUnknownName(t *testing.T) {
	r := newRunner(t, testConfig(t))

	_, err := r.RunBatch(context.Background(), []string{"additive", "ghost"}, nil)
	assert.ErrorIs(t, err, config.ErrComparisonNotFound)
}

func TestRunBatchCanceled(t *testing.T) {
	r := newRunner(t, testConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := r.RunBatch(ctx, []string{"additive"}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestExceeds(t *testing.T) {
	counts := report.Counts{Infos: 2, Dangers: 1}

	tests := []struct {
		failOn  string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"none", false, false},
		{"NONE", false, false},
		{"info", true, false},
		{"dangerous", true, false},
		{"breaking", false, false},
		{"severe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			got, err := Exceeds(counts, tt.failOn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceSelection(t *testing.T) {
	r := newRunner(t, config.DefaultConfig())
	sdl := writeSchema(t, t.TempDir(), "schema.graphql", `type Query { a: Int }`)

	src, err := r.Source(config.SourceConfig{Endpoint: "https://example.com/graphql"})
	require.NoError(t, err)
	assert.Equal(t, "endpoint:https://example.com/graphql", src.Describe())

	src, err = r.Source(config.SourceConfig{Introspection: "dump.json"})
	require.NoError(t, err)
	assert.Equal(t, "introspection:dump.json", src.Describe())

	src, err = r.Source(config.SourceConfig{SDL: sdl})
	require.NoError(t, err)
	assert.Equal(t, "sdl:"+sdl, src.Describe())

	_, err = r.Source(config.SourceConfig{})
	assert.Error(t, err)

	src, err = r.ResolveRef(sdl)
	require.NoError(t, err)
	assert.Equal(t, "sdl:"+sdl, src.Describe())
}
