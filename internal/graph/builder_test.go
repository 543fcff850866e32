package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/schemadiff/internal/introspection"
)

func loadSDL(t *testing.T, sdl string) *introspection.Document {
	t.Helper()
	doc, err := introspection.Load(context.Background(), introspection.NewSDLSource("test", sdl))
	require.NoError(t, err)
	return doc
}

const blogSchema = `
schema { query: Query mutation: Mutation }

type Query {
	post(id: ID!): Post
	search(term: String!): [SearchResult!]!
}

type Mutation {
	publish(input: PublishInput!): Post
}

interface Node { id: ID! }

type Post implements Node {
	id: ID!
	title: String
	author: Author!
	status: Status
}

type Author implements Node {
	id: ID!
	posts: [Post!]!
}

union SearchResult = Post | Author

input PublishInput {
	title: String!
	status: Status = DRAFT
}

enum Status { DRAFT PUBLISHED }

type Orphan { note: String }
`

func TestBuild(t *testing.T) {
	g, err := BuildFromDocument(loadSDL(t, blogSchema))
	require.NoError(t, err)

	assert.Equal(t, []string{"Query", "Mutation"}, g.Roots)
	assert.True(t, g.GetNode("Query").IsRoot)
	assert.True(t, g.GetNode("Mutation").IsRoot)
	assert.False(t, g.GetNode("Post").IsRoot)

	assert.Equal(t, introspection.KindInterface, g.GetNode("Node").Kind)
	assert.Equal(t, introspection.KindUnion, g.GetNode("SearchResult").Kind)
	assert.Equal(t, introspection.KindInputObject, g.GetNode("PublishInput").Kind)

	// field, argument, interface and member references
	assert.True(t, g.HasEdge("Query", "Post"))
	assert.True(t, g.HasEdge("Query", "ID"))
	assert.True(t, g.HasEdge("Query", "SearchResult"))
	assert.True(t, g.HasEdge("Post", "Node"))
	assert.True(t, g.HasEdge("SearchResult", "Author"))
	assert.True(t, g.HasEdge("Mutation", "PublishInput"))
	assert.True(t, g.HasEdge("PublishInput", "Status"))
	assert.False(t, g.HasEdge("Status", "PublishInput"))

	assert.Contains(t, g.GetParents("Post"), "Author")
	assert.Empty(t, g.Dangling)
}

func TestBuildDeduplicatesEdges(t *testing.T) {
	g, err := BuildFromDocument(loadSDL(t, `
type Query { a: String, b: String, c(x: String): String }
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"String"}, g.GetChildren("Query"))
	assert.Equal(t, 1, g.InDegree("String"))
}

func TestBuildDirectiveEntries(t *testing.T) {
	g, err := BuildFromDocument(loadSDL(t, `
directive @cached(scope: CacheScope!) on FIELD_DEFINITION
enum CacheScope { PUBLIC PRIVATE }
type Query { a: String @cached(scope: PUBLIC) }
`))
	require.NoError(t, err)

	assert.Contains(t, g.Entries, "CacheScope")
	assert.NotContains(t, g.Unreachable(), "CacheScope")
}

func TestBuildDanglingReferences(t *testing.T) {
	doc, err := introspection.Parse([]byte(`{
		"__schema": {
			"queryType": {"name": "Query"},
			"types": [
				{"kind": "OBJECT", "name": "Query", "interfaces": [], "fields": [
					{"name": "ghost", "args": [], "type": {"kind": "OBJECT", "name": "Ghost"}}
				]}
			],
			"directives": []
		}
	}`))
	require.NoError(t, err)

	g, err := BuildFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, []Edge{{From: "Query", To: "Ghost"}}, g.Dangling)
	assert.False(t, g.HasNode("Ghost"))
}

func TestBuildNilDocument(t *testing.T) {
	_, err := NewBuilder(nil).Build()
	assert.Error(t, err)
}

func TestGraphAccessors(t *testing.T) {
	g := NewGraph()
	g.AddNode("A", nil)
	g.AddNode("B", &Node{Kind: introspection.KindObject})
	g.AddNode("C", &Node{Kind: introspection.KindScalar})
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("A", "B")

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []string{"A", "B", "C"}, g.AllNodes())
	assert.Equal(t, []string{"B", "C"}, g.LeafNodes())
	assert.Equal(t, 2, g.OutDegree("A"))
	assert.Equal(t, 0, g.InDegree("A"))
	assert.Equal(t, "B", g.GetNode("B").Name)
	assert.Nil(t, g.GetNode("missing"))

	counts := g.CountByKind()
	assert.Equal(t, 1, counts[introspection.KindObject])
	assert.Equal(t, 1, counts[introspection.KindScalar])
}
