package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected logging output 'stderr', got %s", cfg.Logging.Output)
	}

	// Test report defaults
	if cfg.Report.Format != "text" {
		t.Errorf("expected report format 'text', got %s", cfg.Report.Format)
	}
	if cfg.Report.Color {
		t.Error("expected color disabled by default")
	}
	if cfg.Report.FailOn != "breaking" {
		t.Errorf("expected fail_on 'breaking', got %s", cfg.Report.FailOn)
	}

	// Test fetch defaults
	if cfg.Fetch.TimeoutSeconds != 30 {
		t.Errorf("expected timeout_seconds 30, got %d", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Fetch.MaxRetries != 3 {
		t.Errorf("expected max_retries 3, got %d", cfg.Fetch.MaxRetries)
	}

	// Test diff and batch defaults
	if cfg.Diff.IncludeUnreachable {
		t.Error("expected include_unreachable disabled by default")
	}
	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected max_workers 4, got %d", cfg.Batch.MaxWorkers)
	}
}

func TestGetComparisonDiff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Comparisons = map[string]ComparisonConfig{
		"inherit":  {},
		"override": {Diff: &DiffConfig{IncludeUnreachable: true}},
	}

	if cfg.GetComparisonDiff("inherit").IncludeUnreachable {
		t.Error("expected inherited include_unreachable to be false")
	}
	if !cfg.GetComparisonDiff("override").IncludeUnreachable {
		t.Error("expected overridden include_unreachable to be true")
	}
	if cfg.GetComparisonDiff("missing") != cfg.Diff {
		t.Error("expected global diff config for unknown comparison")
	}
}

func TestGetComparisonFailOn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Comparisons = map[string]ComparisonConfig{
		"inherit":  {},
		"override": {FailOn: "dangerous"},
	}

	if got := cfg.GetComparisonFailOn("inherit"); got != "breaking" {
		t.Errorf("expected 'breaking', got %s", got)
	}
	if got := cfg.GetComparisonFailOn("override"); got != "dangerous" {
		t.Errorf("expected 'dangerous', got %s", got)
	}
}

func TestSourceConfigRef(t *testing.T) {
	tests := []struct {
		src  SourceConfig
		want string
		kind string
	}{
		{SourceConfig{SDL: "a.graphql"}, "a.graphql", "sdl"},
		{SourceConfig{Introspection: "a.json"}, "a.json", "introspection"},
		{SourceConfig{Endpoint: "https://x/graphql"}, "https://x/graphql", "endpoint"},
		{SourceConfig{}, "", ""},
	}
	for _, tt := range tests {
		if got := tt.src.Ref(); got != tt.want {
			t.Errorf("Ref() = %q, want %q", got, tt.want)
		}
		if got := tt.src.Kind(); got != tt.kind {
			t.Errorf("Kind() = %q, want %q", got, tt.kind)
		}
	}
}

func TestSourceHeaders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.Headers = map[string]string{"authorization": "global", "x-team": "core"}

	headers := cfg.SourceHeaders(SourceConfig{Headers: map[string]string{"authorization": "local"}})
	if headers["authorization"] != "local" {
		t.Errorf("expected source header to win, got %s", headers["authorization"])
	}
	if headers["x-team"] != "core" {
		t.Errorf("expected global header to be kept, got %s", headers["x-team"])
	}
	if cfg.Fetch.Headers["authorization"] != "global" {
		t.Error("global headers must not be modified")
	}
}
