package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/schemadiff/internal/diff"
)

// levelColumn is wide enough for the longest level name.
var levelColumn = runewidth.StringWidth(diff.LevelDangerous.String())

// PrintStreamReporter writes one human-readable line per event and a
// summary on OnEnd. Write errors are kept and returned by Err.
type PrintStreamReporter struct {
	w         io.Writer
	color     bool
	dangers   int
	breakages int
	err       error
}

// PrintOption configures a PrintStreamReporter.
type PrintOption func(*PrintStreamReporter)

// WithColor colors the level label of each line.
func WithColor(enabled bool) PrintOption {
	return func(r *PrintStreamReporter) {
		r.color = enabled
	}
}

// NewPrintStreamReporter creates a reporter writing to w.
func NewPrintStreamReporter(w io.Writer, opts ...PrintOption) *PrintStreamReporter {
	r := &PrintStreamReporter{w: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report counts event and writes it.
func (r *PrintStreamReporter) Report(event diff.Event) {
	switch event.Level() {
	case diff.LevelBreaking:
		r.breakages++
	case diff.LevelDangerous:
		r.dangers++
	}
	r.printf("%s\n", r.format(event))
}

// OnEnd writes a blank line and the totals.
func (r *PrintStreamReporter) OnEnd() {
	r.printf("\n%d errors\n%d dangerous changes\n", r.breakages, r.dangers)
}

// BreakageCount returns the number of BREAKING events seen.
func (r *PrintStreamReporter) BreakageCount() int { return r.breakages }

// DangerCount returns the number of DANGEROUS events seen.
func (r *PrintStreamReporter) DangerCount() int { return r.dangers }

// Err returns the first write error, if any.
func (r *PrintStreamReporter) Err() error { return r.err }

func (r *PrintStreamReporter) format(event diff.Event) string {
	label := runewidth.FillRight(event.Level().String(), levelColumn)
	if r.color {
		label = levelStyle(event.Level()).Sprint(label)
	}

	var b strings.Builder
	if event.Level() == diff.LevelInfo {
		b.WriteByte('\t')
	}
	fmt.Fprintf(&b, "%s - '%s'", label, event.TypeName())
	if event.FieldName() != "" {
		fmt.Fprintf(&b, " : '%s'", event.FieldName())
	}
	fmt.Fprintf(&b, " : %s", event.ReasonMsg())
	return b.String()
}

func (r *PrintStreamReporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func levelStyle(level diff.DiffLevel) color.Style {
	switch level {
	case diff.LevelBreaking:
		return color.Style{color.FgRed, color.OpBold}
	case diff.LevelDangerous:
		return color.Style{color.FgYellow}
	default:
		return color.Style{color.FgCyan}
	}
}
