package report

import (
	"github.com/dbsmedya/schemadiff/internal/diff"
)

// Tee forwards every call to each of its reporters in order.
type Tee []diff.Reporter

// NewTee creates a Tee, skipping nil reporters.
func NewTee(reporters ...diff.Reporter) Tee {
	t := make(Tee, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			t = append(t, r)
		}
	}
	return t
}

func (t Tee) Report(event diff.Event) {
	for _, r := range t {
		r.Report(event)
	}
}

func (t Tee) OnEnd() {
	for _, r := range t {
		r.OnEnd()
	}
}
