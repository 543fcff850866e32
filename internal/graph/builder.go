package graph

import (
	"fmt"

	"github.com/dbsmedya/schemadiff/internal/introspection"
)

// Builder constructs a reference graph from a schema document.
type Builder struct {
	doc *introspection.Document
}

// NewBuilder creates a new graph builder for the given document.
func NewBuilder(doc *introspection.Document) *Builder {
	return &Builder{doc: doc}
}

// Build constructs the reference graph. Every type becomes a node; every
// type reference becomes an edge. References to undefined types are
// collected in Graph.Dangling rather than failing the build.
func (b *Builder) Build() (*Graph, error) {
	if b.doc == nil {
		return nil, fmt.Errorf("schema document is nil")
	}

	g := NewGraph()

	for _, name := range b.doc.TypeNames() {
		def := b.doc.Type(name)
		g.AddNode(name, &Node{Kind: def.Kind()})
	}

	for _, root := range b.doc.Roots() {
		if node := g.GetNode(root); node != nil {
			node.IsRoot = true
		}
		g.Roots = append(g.Roots, root)
	}

	for _, name := range b.doc.TypeNames() {
		for _, ref := range introspection.References(b.doc.Type(name)) {
			b.addReference(g, name, ref)
		}
	}

	seen := make(map[string]bool)
	for _, name := range b.doc.DirectiveNames() {
		dir := b.doc.Directive(name)
		for el := dir.Args.Front(); el != nil; el = el.Next() {
			ref := el.Value.Type.NamedType()
			if !g.HasNode(ref) {
				g.Dangling = append(g.Dangling, Edge{From: "@" + name, To: ref})
				continue
			}
			if !seen[ref] {
				seen[ref] = true
				g.Entries = append(g.Entries, ref)
			}
		}
	}

	return g, nil
}

func (b *Builder) addReference(g *Graph, from, to string) {
	if to == "" {
		return
	}
	if !g.HasNode(to) {
		edge := Edge{From: from, To: to}
		for _, d := range g.Dangling {
			if d == edge {
				return
			}
		}
		g.Dangling = append(g.Dangling, edge)
		return
	}
	g.AddEdge(from, to)
}

// BuildFromDocument is a convenience function that builds a graph directly from a document.
func BuildFromDocument(doc *introspection.Document) (*Graph, error) {
	return NewBuilder(doc).Build()
}
