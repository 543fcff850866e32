// Package graph provides the type-reference graph of a schema and the
// reachability and cycle analyses run over it.
package graph

import (
	"sort"

	"github.com/dbsmedya/schemadiff/internal/introspection"
)

// Node represents a named type in the reference graph.
type Node struct {
	Name   string             // Type name
	Kind   introspection.Kind // Type kind
	IsRoot bool               // True for query, mutation and subscription types
}

// Edge represents a reference from one type to another.
type Edge struct {
	From string // Referencing type
	To   string // Referenced type
}

// Graph is the reference structure of one schema. An edge A -> B means a
// field, argument, interface or member of A names B.
type Graph struct {
	Nodes    map[string]*Node    // type name -> node
	Children map[string][]string // type name -> referenced types (outgoing edges)
	Parents  map[string][]string // type name -> referencing types (incoming edges)
	Roots    []string            // root operation types in schema order
	Entries  []string            // types named by directive arguments
	Dangling []Edge              // references to types the schema does not define
	edges    map[Edge]struct{}
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]*Node),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
		edges:    make(map[Edge]struct{}),
	}
}

// AddNode adds a type node to the graph.
// If node is nil, a new node with default values is created.
func (g *Graph) AddNode(name string, node *Node) {
	if node == nil {
		node = &Node{Name: name}
	}
	node.Name = name
	g.Nodes[name] = node
}

// AddEdge adds a from -> to reference. Repeated references between the same
// pair of types are stored once.
func (g *Graph) AddEdge(from, to string) {
	edge := Edge{From: from, To: to}
	if _, exists := g.edges[edge]; exists {
		return
	}
	g.edges[edge] = struct{}{}

	g.Children[from] = append(g.Children[from], to)
	g.Parents[to] = append(g.Parents[to], from)
}

// GetChildren returns the types directly referenced by name.
func (g *Graph) GetChildren(name string) []string {
	return g.Children[name]
}

// GetParents returns the types that directly reference name.
func (g *Graph) GetParents(name string) []string {
	return g.Parents[name]
}

// GetNode returns the node for a given type name, or nil if not found.
func (g *Graph) GetNode(name string) *Node {
	return g.Nodes[name]
}

// HasNode returns true if the graph contains a node with the given name.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.Nodes[name]
	return exists
}

// HasEdge returns true if from references to.
func (g *Graph) HasEdge(from, to string) bool {
	_, exists := g.edges[Edge{From: from, To: to}]
	return exists
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// AllNodes returns all type names in sorted order.
func (g *Graph) AllNodes() []string {
	nodes := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		nodes = append(nodes, name)
	}
	sort.Strings(nodes)
	return nodes
}

// LeafNodes returns the sorted types that reference no other type.
func (g *Graph) LeafNodes() []string {
	var leaves []string
	for name := range g.Nodes {
		if len(g.Children[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// InDegree returns the number of incoming edges (parents) for a node.
func (g *Graph) InDegree(name string) int {
	return len(g.Parents[name])
}

// OutDegree returns the number of outgoing edges (children) for a node.
func (g *Graph) OutDegree(name string) int {
	return len(g.Children[name])
}

// CountByKind returns the number of nodes per type kind.
func (g *Graph) CountByKind() map[introspection.Kind]int {
	counts := make(map[introspection.Kind]int)
	for _, node := range g.Nodes {
		counts[node.Kind]++
	}
	return counts
}
