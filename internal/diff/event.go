// Package diff compares two versions of a GraphQL schema and reports every
// difference, classified as INFO, DANGEROUS or BREAKING.
package diff

import (
	"fmt"
)

// Event is one detected difference. Events are immutable; build them with
// APIInfo, APIDanger or APIBreakage.
type Event struct {
	level      DiffLevel
	category   DiffCategory
	typeName   string
	fieldName  string
	typeKind   TypeKind
	reasonMsg  string
	components []string
}

func (e Event) Level() DiffLevel       { return e.level }
func (e Event) Category() DiffCategory { return e.category }
func (e Event) TypeName() string       { return e.typeName }
func (e Event) FieldName() string      { return e.fieldName }
func (e Event) TypeKind() TypeKind     { return e.typeKind }
func (e Event) ReasonMsg() string      { return e.reasonMsg }

// Components returns a copy of the extra context strings.
func (e Event) Components() []string {
	if len(e.components) == 0 {
		return nil
	}
	return append([]string(nil), e.components...)
}

func (e Event) String() string {
	if e.fieldName == "" {
		return fmt.Sprintf("%s %s %s: %s", e.level, e.category, e.typeName, e.reasonMsg)
	}
	return fmt.Sprintf("%s %s %s.%s: %s", e.level, e.category, e.typeName, e.fieldName, e.reasonMsg)
}

// EventView is the exported, serializable form of an Event.
type EventView struct {
	Level      DiffLevel    `json:"level" yaml:"level"`
	Category   DiffCategory `json:"category" yaml:"category"`
	TypeName   string       `json:"typeName" yaml:"typeName"`
	FieldName  string       `json:"fieldName,omitempty" yaml:"fieldName,omitempty"`
	TypeKind   TypeKind     `json:"typeKind" yaml:"typeKind"`
	Reason     string       `json:"reason" yaml:"reason"`
	Components []string     `json:"components,omitempty" yaml:"components,omitempty"`
}

// View returns the serializable form of the event.
func (e Event) View() EventView {
	return EventView{
		Level:      e.level,
		Category:   e.category,
		TypeName:   e.typeName,
		FieldName:  e.fieldName,
		TypeKind:   e.typeKind,
		Reason:     e.reasonMsg,
		Components: e.Components(),
	}
}

// Builder collects the attributes of an Event.
type Builder struct {
	event Event
}

// APIInfo starts an INFO event.
func APIInfo() *Builder {
	return &Builder{event: Event{level: LevelInfo}}
}

// APIDanger starts a DANGEROUS event.
func APIDanger() *Builder {
	return &Builder{event: Event{level: LevelDangerous}}
}

// APIBreakage starts a BREAKING event.
func APIBreakage() *Builder {
	return &Builder{event: Event{level: LevelBreaking}}
}

// NewBuilder starts an event at the given level.
func NewBuilder(level DiffLevel) *Builder {
	return &Builder{event: Event{level: level}}
}

func (b *Builder) TypeName(name string) *Builder {
	b.event.typeName = name
	return b
}

func (b *Builder) FieldName(name string) *Builder {
	b.event.fieldName = name
	return b
}

func (b *Builder) TypeKind(kind TypeKind) *Builder {
	b.event.typeKind = kind
	return b
}

func (b *Builder) Category(category DiffCategory) *Builder {
	b.event.category = category
	return b
}

// ReasonMsg sets the explanation, formatted like fmt.Sprintf.
func (b *Builder) ReasonMsg(format string, args ...any) *Builder {
	b.event.reasonMsg = fmt.Sprintf(format, args...)
	return b
}

// Components appends extra context, each value stringified with fmt.Sprint.
func (b *Builder) Components(values ...any) *Builder {
	for _, v := range values {
		b.event.components = append(b.event.components, fmt.Sprint(v))
	}
	return b
}

// Build returns the event. The builder may be reused; later changes do not
// affect events already built.
func (b *Builder) Build() Event {
	e := b.event
	e.components = append([]string(nil), b.event.components...)
	return e
}
