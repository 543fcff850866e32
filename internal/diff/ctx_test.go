package diff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/schemadiff/internal/introspection"
)

type recordingReporter struct {
	events []Event
	ends   int
}

func (r *recordingReporter) Report(e Event) { r.events = append(r.events, e) }
func (r *recordingReporter) OnEnd()         { r.ends++ }

func loadDoc(t *testing.T, sdl string) *introspection.Document {
	t.Helper()
	doc, err := introspection.Load(context.Background(), introspection.NewSDLSource("test", sdl))
	require.NoError(t, err)
	return doc
}

func TestCtxExaminingType(t *testing.T) {
	c := NewCtx(&recordingReporter{}, nil, nil)

	assert.Equal(t, "", c.CurrentType())
	assert.Equal(t, 0, c.Depth())

	assert.False(t, c.ExaminingType("Query"))
	assert.Equal(t, "Query", c.CurrentType())
	assert.False(t, c.ExaminingType("User"))
	assert.Equal(t, "User", c.CurrentType())
	assert.Equal(t, 2, c.Depth())

	// second visit is skipped and does not push
	assert.True(t, c.ExaminingType("Query"))
	assert.Equal(t, 2, c.Depth())

	c.ExitType()
	assert.Equal(t, "Query", c.CurrentType())
	c.ExitType()
	c.ExitType()
	assert.Equal(t, 0, c.Depth())

	assert.True(t, c.IsExamined("User"))
	assert.False(t, c.IsExamined("Post"))
	assert.Equal(t, []string{"Query", "User"}, c.ExaminedTypes())
}

func TestCtxExaminedTypesIsCopy(t *testing.T) {
	c := NewCtx(&recordingReporter{}, nil, nil)
	c.ExaminingType("A")

	names := c.ExaminedTypes()
	names[0] = "B"

	assert.Equal(t, []string{"A"}, c.ExaminedTypes())
}

func TestCtxReportForwards(t *testing.T) {
	rec := &recordingReporter{}
	c := NewCtx(rec, nil, nil)

	c.Report(APIInfo().TypeName("Query").Build())
	c.Report(APIBreakage().TypeName("User").Build())

	require.Len(t, rec.events, 2)
	assert.Equal(t, "User", rec.events[1].TypeName())
	assert.Zero(t, rec.ends)
}

func TestCtxTypeDefLookup(t *testing.T) {
	oldDoc := loadDoc(t, `type Query { node: Node, color: Color } interface Node { id: ID! } enum Color { RED }`)
	newDoc := loadDoc(t, `type Query { node: Node, color: Color } type Node { id: ID! } enum Color { RED }`)
	c := NewCtx(&recordingReporter{}, oldDoc, newDoc)

	ref := introspection.ListOf(introspection.NonNullOf(introspection.Named(introspection.KindInterface, "Node")))

	iface, ok := OldTypeDef[*introspection.InterfaceType](c, ref)
	require.True(t, ok)
	assert.Equal(t, "Node", iface.Name())

	_, ok = NewTypeDef[*introspection.InterfaceType](c, ref)
	assert.False(t, ok, "new Node is an object")

	obj, ok := NewTypeDef[*introspection.ObjectType](c, ref)
	require.True(t, ok)
	assert.Equal(t, introspection.KindObject, obj.Kind())

	def, ok := OldTypeDef[introspection.TypeDefinition](c, introspection.Named(introspection.KindEnum, "Color"))
	require.True(t, ok)
	assert.Equal(t, introspection.KindEnum, def.Kind())

	_, ok = OldTypeDef[introspection.TypeDefinition](c, introspection.Named(introspection.KindObject, "Missing"))
	assert.False(t, ok)
	_, ok = OldTypeDef[introspection.TypeDefinition](c, &introspection.TypeRef{Kind: introspection.KindList})
	assert.False(t, ok)
}

func TestWrappingChange(t *testing.T) {
	named := introspection.Named(introspection.KindScalar, "Int")
	nonNull := introspection.NonNullOf
	list := introspection.ListOf

	tests := []struct {
		name       string
		oldRef     *introspection.TypeRef
		newRef     *introspection.TypeRef
		input      bool
		hasDefault bool
		want       DiffLevel
		changed    bool
	}{
		{"identical", named, named, false, false, LevelInfo, false},
		{"output loses non-null", nonNull(named), named, false, false, LevelBreaking, true},
		{"output gains non-null", named, nonNull(named), false, false, LevelDangerous, true},
		{"input gains non-null", named, nonNull(named), true, false, LevelBreaking, true},
		{"input gains non-null with default", named, nonNull(named), true, true, LevelInfo, true},
		{"input inner gains non-null with default", list(named), list(nonNull(named)), true, true, LevelBreaking, true},
		{"input loses non-null", nonNull(named), named, true, false, LevelInfo, true},
		{"list depth", list(named), list(list(named)), false, false, LevelBreaking, true},
		{"most severe wins", list(nonNull(named)), nonNull(list(named)), false, false, LevelBreaking, true},
		{"renamed", named, introspection.Named(introspection.KindScalar, "Float"), true, false, LevelBreaking, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, reason, changed := wrappingChange(tt.oldRef, tt.newRef, tt.input, tt.hasDefault)
			assert.Equal(t, tt.changed, changed)
			if !tt.changed {
				return
			}
			assert.Equal(t, tt.want, level)
			assert.Contains(t, reason, "type changed from "+tt.oldRef.String())
		})
	}
}
