package report

import (
	"github.com/dbsmedya/schemadiff/internal/diff"
	"github.com/dbsmedya/schemadiff/internal/logger"
)

// LogReporter writes each event as a structured log entry. BREAKING and
// DANGEROUS events are logged at warn level, INFO events at info.
type LogReporter struct {
	log    *logger.Logger
	counts Counts
}

// NewLogReporter creates a reporter logging through log.
func NewLogReporter(log *logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(event diff.Event) {
	kv := []interface{}{
		"level", event.Level().String(),
		"category", event.Category().String(),
		"type", event.TypeName(),
		"kind", event.TypeKind().String(),
	}
	if event.FieldName() != "" {
		kv = append(kv, "field", event.FieldName())
	}
	if components := event.Components(); len(components) > 0 {
		kv = append(kv, "components", components)
	}

	switch event.Level() {
	case diff.LevelBreaking:
		r.counts.Breakages++
		r.log.Warnw(event.ReasonMsg(), kv...)
	case diff.LevelDangerous:
		r.counts.Dangers++
		r.log.Warnw(event.ReasonMsg(), kv...)
	default:
		r.counts.Infos++
		r.log.Infow(event.ReasonMsg(), kv...)
	}
}

func (r *LogReporter) OnEnd() {
	r.log.Infow("Schema comparison finished",
		"breakages", r.counts.Breakages,
		"dangers", r.counts.Dangers,
		"infos", r.counts.Infos,
	)
}
