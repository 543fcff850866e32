// Package report provides the reporters that receive diff events: in-memory
// capture, human-readable text, structured encodings and log output.
package report

import (
	"github.com/dbsmedya/schemadiff/internal/diff"
)

// CapturingReporter keeps every event in memory, partitioned by level.
type CapturingReporter struct {
	events    []diff.Event
	infos     []diff.Event
	dangers   []diff.Event
	breakages []diff.Event
}

// NewCapturingReporter creates an empty CapturingReporter.
func NewCapturingReporter() *CapturingReporter {
	return &CapturingReporter{}
}

// Report records event.
func (r *CapturingReporter) Report(event diff.Event) {
	r.events = append(r.events, event)
	switch event.Level() {
	case diff.LevelInfo:
		r.infos = append(r.infos, event)
	case diff.LevelDangerous:
		r.dangers = append(r.dangers, event)
	case diff.LevelBreaking:
		r.breakages = append(r.breakages, event)
	}
}

// OnEnd does nothing.
func (r *CapturingReporter) OnEnd() {}

// Events returns every event in report order.
func (r *CapturingReporter) Events() []diff.Event { return r.events }

func (r *CapturingReporter) Infos() []diff.Event     { return r.infos }
func (r *CapturingReporter) Dangers() []diff.Event   { return r.dangers }
func (r *CapturingReporter) Breakages() []diff.Event { return r.breakages }

func (r *CapturingReporter) InfoCount() int     { return len(r.infos) }
func (r *CapturingReporter) DangerCount() int   { return len(r.dangers) }
func (r *CapturingReporter) BreakageCount() int { return len(r.breakages) }

// Counts returns the per-level totals.
func (r *CapturingReporter) Counts() Counts {
	return Counts{
		Infos:     len(r.infos),
		Dangers:   len(r.dangers),
		Breakages: len(r.breakages),
	}
}

// Counts summarizes a run by level.
type Counts struct {
	Infos     int `json:"infos" yaml:"infos"`
	Dangers   int `json:"dangers" yaml:"dangers"`
	Breakages int `json:"breakages" yaml:"breakages"`
}

// Total returns the number of events.
func (c Counts) Total() int {
	return c.Infos + c.Dangers + c.Breakages
}

// AtOrAbove returns how many events have at least the given level.
func (c Counts) AtOrAbove(level diff.DiffLevel) int {
	switch level {
	case diff.LevelInfo:
		return c.Total()
	case diff.LevelDangerous:
		return c.Dangers + c.Breakages
	default:
		return c.Breakages
	}
}

// Add returns the sum of two counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Infos:     c.Infos + o.Infos,
		Dangers:   c.Dangers + o.Dangers,
		Breakages: c.Breakages + o.Breakages,
	}
}
