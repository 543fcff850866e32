package introspection

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Document is a normalized, read-only view of one schema's introspection
// result. Type and directive names are unique within a document.
type Document struct {
	QueryType        string
	MutationType     string
	SubscriptionType string

	types      *orderedmap.OrderedMap[string, TypeDefinition]
	directives *orderedmap.OrderedMap[string, *DirectiveDefinition]
}

// Operation names a root operation type position.
type Operation string

const (
	OperationQuery        Operation = "query"
	OperationMutation     Operation = "mutation"
	OperationSubscription Operation = "subscription"
)

// Operations lists the root positions in schema order.
var Operations = []Operation{OperationQuery, OperationMutation, OperationSubscription}

func newDocument() *Document {
	return &Document{
		types:      orderedmap.NewOrderedMap[string, TypeDefinition](),
		directives: orderedmap.NewOrderedMap[string, *DirectiveDefinition](),
	}
}

// Type returns the named type, or nil when the document has none.
func (d *Document) Type(name string) TypeDefinition {
	def, ok := d.types.Get(name)
	if !ok {
		return nil
	}
	return def
}

// TypeNames returns all type names in document order.
func (d *Document) TypeNames() []string {
	return d.types.Keys()
}

// TypeCount returns the number of named types.
func (d *Document) TypeCount() int {
	return d.types.Len()
}

// Directive returns the named directive definition, or nil.
func (d *Document) Directive(name string) *DirectiveDefinition {
	def, ok := d.directives.Get(name)
	if !ok {
		return nil
	}
	return def
}

// DirectiveNames returns all directive names in document order.
func (d *Document) DirectiveNames() []string {
	return d.directives.Keys()
}

// RootTypeName returns the type name bound to an operation, or "".
func (d *Document) RootTypeName(op Operation) string {
	switch op {
	case OperationQuery:
		return d.QueryType
	case OperationMutation:
		return d.MutationType
	case OperationSubscription:
		return d.SubscriptionType
	}
	return ""
}

// Roots returns the names of the root operation types that are set.
func (d *Document) Roots() []string {
	var roots []string
	for _, op := range Operations {
		if name := d.RootTypeName(op); name != "" {
			roots = append(roots, name)
		}
	}
	return roots
}

// References returns the names of every type directly referenced by def:
// field, argument and input field types, implemented interfaces, and union
// or interface possible types. Order follows the definition; duplicates are kept.
func References(def TypeDefinition) []string {
	var refs []string
	addFields := func(fields *Fields) {
		for el := fields.Front(); el != nil; el = el.Next() {
			refs = append(refs, el.Value.Type.NamedType())
			for arg := el.Value.Args.Front(); arg != nil; arg = arg.Next() {
				refs = append(refs, arg.Value.Type.NamedType())
			}
		}
	}

	switch t := def.(type) {
	case *ObjectType:
		addFields(t.Fields)
		refs = append(refs, t.Interfaces...)
	case *InterfaceType:
		addFields(t.Fields)
		refs = append(refs, t.Interfaces...)
		refs = append(refs, t.PossibleTypes...)
	case *UnionType:
		refs = append(refs, t.PossibleTypes...)
	case *InputObjectType:
		for el := t.Fields.Front(); el != nil; el = el.Next() {
			refs = append(refs, el.Value.Type.NamedType())
		}
	}
	return refs
}
