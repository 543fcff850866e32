package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/schemadiff/internal/config"
	"github.com/dbsmedya/schemadiff/internal/diff"
	"github.com/dbsmedya/schemadiff/internal/report"
)

// reportSink is a reporter that remembers its first output error.
type reportSink interface {
	diff.Reporter
	Err() error
}

// newReporter creates the reporter for the configured report format.
func newReporter(w io.Writer, cfg *config.Config, name string) (reportSink, error) {
	switch cfg.Report.Format {
	case report.FormatText, "":
		return report.NewPrintStreamReporter(w, report.WithColor(cfg.Report.Color)), nil
	default:
		return report.NewEncodingReporter(w, cfg.Report.Format, name)
	}
}

// printHeader prints a formatted header
func printHeader(w io.Writer, format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "[%s]\n", title)
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// printSideBySide prints two blocks of text side by side
// padding is the minimum spaces between the two columns
func printSideBySide(w io.Writer, leftLines, rightLines []string, padding int) {
	leftWidth := 0
	for _, line := range leftLines {
		if lw := runewidth.StringWidth(line); lw > leftWidth {
			leftWidth = lw
		}
	}

	rows := len(leftLines)
	if len(rightLines) > rows {
		rows = len(rightLines)
	}

	for i := 0; i < rows; i++ {
		left, right := "", ""
		if i < len(leftLines) {
			left = leftLines[i]
		}
		if i < len(rightLines) {
			right = rightLines[i]
		}
		if right == "" {
			fmt.Fprintln(w, left)
			continue
		}
		fmt.Fprint(w, runewidth.FillRight(left, leftWidth+padding))
		fmt.Fprintln(w, right)
	}
}

// table renders rows as aligned columns. Widths are measured on the text
// without color codes.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(color.ClearCode(cell)); i < len(widths) && cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(color.ClearCode(cell))))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	line(t.header)
	seps := make([]string, len(widths))
	for i, wd := range widths {
		seps[i] = strings.Repeat("-", wd)
	}
	line(seps)
	for _, row := range t.rows {
		line(row)
	}
}

// colorize applies style when enabled.
func colorize(enabled bool, style color.Style, s string) string {
	if !enabled {
		return s
	}
	return style.Sprint(s)
}
