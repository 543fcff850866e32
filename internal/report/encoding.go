package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/schemadiff/internal/diff"
)

// Supported structured formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is the structured form of one diff run.
type Document struct {
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Summary Counts           `json:"summary" yaml:"summary"`
	Events  []diff.EventView `json:"events" yaml:"events"`
	Error   string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewDocument builds the structured form of a finished run.
func NewDocument(name string, events []diff.Event) Document {
	doc := Document{Name: name, Events: make([]diff.EventView, 0, len(events))}
	for _, e := range events {
		doc.add(e)
	}
	return doc
}

func (d *Document) add(event diff.Event) {
	d.Events = append(d.Events, event.View())
	switch event.Level() {
	case diff.LevelInfo:
		d.Summary.Infos++
	case diff.LevelDangerous:
		d.Summary.Dangers++
	case diff.LevelBreaking:
		d.Summary.Breakages++
	}
}

// EncodingReporter buffers events and writes them as a single JSON or YAML
// document on OnEnd.
type EncodingReporter struct {
	w      io.Writer
	format string
	doc    Document
	err    error
}

// NewEncodingReporter creates a reporter for format "json" or "yaml". name
// labels the document and may be empty.
func NewEncodingReporter(w io.Writer, format, name string) (*EncodingReporter, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	return &EncodingReporter{
		w:      w,
		format: format,
		doc:    Document{Name: name, Events: []diff.EventView{}},
	}, nil
}

// Report buffers event.
func (r *EncodingReporter) Report(event diff.Event) {
	r.doc.add(event)
}

// OnEnd writes the document.
func (r *EncodingReporter) OnEnd() {
	r.err = EncodeDocuments(r.w, r.format, r.doc)
}

// Document returns the buffered document.
func (r *EncodingReporter) Document() Document { return r.doc }

// Err returns the encoding or write error from OnEnd, if any.
func (r *EncodingReporter) Err() error { return r.err }

// EncodeDocuments writes docs in format. A single document is written as an
// object, several as a list.
func EncodeDocuments(w io.Writer, format string, docs ...Document) error {
	var v any = docs
	if len(docs) == 1 {
		v = docs[0]
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}
