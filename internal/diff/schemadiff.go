package diff

import (
	"sort"

	"github.com/dbsmedya/schemadiff/internal/introspection"
	"github.com/dbsmedya/schemadiff/internal/logger"
)

// Options tunes a SchemaDiff.
type Options struct {
	// IncludeUnreachable also compares old types that cannot be reached
	// from a root operation type or a directive argument. It is implied when
	// the old schema has no root operation types.
	IncludeUnreachable bool

	// Logger receives debug tracing of the walk. Nil disables it.
	Logger *logger.Logger
}

// SchemaDiff compares two schema versions type by type and field by field.
// A SchemaDiff holds no per-run state and may be reused, including
// concurrently; every DiffSchema call creates its own Ctx.
type SchemaDiff struct {
	opts Options
	log  *logger.Logger
}

// NewSchemaDiff creates a SchemaDiff.
func NewSchemaDiff(opts Options) *SchemaDiff {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &SchemaDiff{opts: opts, log: log}
}

// DiffSchema walks both schemas of set, reports every difference to
// reporter, calls reporter.OnEnd, and returns the number of BREAKING events.
func (d *SchemaDiff) DiffSchema(set *DiffSet, reporter Reporter) int {
	counter := &countingReporter{next: reporter}
	w := &walker{
		ctx: NewCtx(counter, set.Old(), set.New()),
		log: d.log,
	}

	w.diffRoots()
	w.drain()
	w.diffDirectives()
	w.drain()

	// without root operation types nothing is reachable, so every type is compared
	if d.opts.IncludeUnreachable || len(set.Old().Roots()) == 0 {
		names := set.Old().TypeNames()
		sort.Strings(names)
		for _, name := range names {
			w.follow(name)
		}
		w.flushPending()
		w.drain()
	}

	d.log.Debugw("Schema diff complete",
		"examined_types", len(w.ctx.ExaminedTypes()),
		"breakages", counter.breakages,
	)

	reporter.OnEnd()
	return counter.breakages
}

// countingReporter counts breakages on the way to the caller's reporter.
type countingReporter struct {
	next      Reporter
	breakages int
}

func (r *countingReporter) Report(event Event) {
	if event.Level() == LevelBreaking {
		r.breakages++
	}
	r.next.Report(event)
}

func (r *countingReporter) OnEnd() {}

// workItem pairs an old type with the name of its counterpart in the new
// schema. The names differ only for renamed root operation types.
type workItem struct {
	oldName string
	newName string
}

// walker performs one run. Types are compared from an explicit stack; the
// types a comparison references are queued in pending and pushed once the
// comparison is done, so they are examined in declaration order.
type walker struct {
	ctx     *Ctx
	log     *logger.Logger
	stack   []workItem
	pending []workItem
}

func (w *walker) follow(name string) {
	w.followAs(name, name)
}

func (w *walker) followAs(oldName, newName string) {
	if oldName == "" || w.ctx.IsExamined(oldName) {
		return
	}
	w.pending = append(w.pending, workItem{oldName: oldName, newName: newName})
}

func (w *walker) flushPending() {
	for i := len(w.pending) - 1; i >= 0; i-- {
		w.stack = append(w.stack, w.pending[i])
	}
	w.pending = w.pending[:0]
}

func (w *walker) drain() {
	w.flushPending()
	for len(w.stack) > 0 {
		item := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if w.ctx.ExaminingType(item.oldName) {
			continue
		}
		w.log.Debugw("Examining type", "type", item.oldName, "queued", len(w.stack))
		w.examine(item)
		w.ctx.ExitType()
		w.flushPending()
	}
}

// diffRoots compares the root operation types and queues the old roots.
func (w *walker) diffRoots() {
	oldDoc, newDoc := w.ctx.Old(), w.ctx.New()
	for _, op := range introspection.Operations {
		oldName, newName := oldDoc.RootTypeName(op), newDoc.RootTypeName(op)
		switch {
		case oldName == "" && newName == "":
			continue
		case oldName == "":
			w.ctx.Report(APIInfo().
				TypeName(newName).
				TypeKind(KindOperation).
				Category(CategorySchema).
				ReasonMsg("The new schema adds a %s operation type %s", op, newName).
				Components(op).
				Build())
		case newName == "":
			w.ctx.Report(APIBreakage().
				TypeName(oldName).
				TypeKind(KindOperation).
				Category(CategorySchema).
				ReasonMsg("The new schema no longer has a %s operation type", op).
				Components(op).
				Build())
		case oldName != newName:
			w.ctx.Report(APIDanger().
				TypeName(oldName).
				TypeKind(KindOperation).
				Category(CategorySchema).
				ReasonMsg("The %s operation type was renamed from %s to %s", op, oldName, newName).
				Components(op, oldName, newName).
				Build())
			w.followAs(oldName, newName)
		default:
			w.follow(oldName)
		}
	}
}

// examine compares one old type with its counterpart.
func (w *walker) examine(item workItem) {
	oldDef := w.ctx.Old().Type(item.oldName)
	if oldDef == nil {
		// dangling reference inside the old document
		return
	}
	kind := typeKindOf(oldDef)

	newDef := w.ctx.New().Type(item.newName)
	if newDef == nil {
		w.ctx.Report(APIBreakage().
			TypeName(item.oldName).
			TypeKind(kind).
			Category(CategoryType).
			ReasonMsg("The new schema does not contain type %s", item.oldName).
			Build())
		return
	}

	if oldDef.Kind() != newDef.Kind() {
		w.ctx.Report(APIBreakage().
			TypeName(item.oldName).
			TypeKind(kind).
			Category(CategoryType).
			ReasonMsg("Type %s changed kind from %s to %s", item.oldName, typeKindOf(oldDef), typeKindOf(newDef)).
			Components(oldDef.Kind(), newDef.Kind()).
			Build())
		return
	}

	switch o := oldDef.(type) {
	case *introspection.ObjectType:
		n, _ := typeDef[*introspection.ObjectType](w.ctx.New(), item.newName)
		w.diffOutputFields(o.TypeName, KindObject, o.Fields, n.Fields)
		w.diffImplements(o.TypeName, KindObject, o.Interfaces, n.Interfaces)
	case *introspection.InterfaceType:
		n, _ := typeDef[*introspection.InterfaceType](w.ctx.New(), item.newName)
		w.diffOutputFields(o.TypeName, KindInterface, o.Fields, n.Fields)
		w.diffImplements(o.TypeName, KindInterface, o.Interfaces, n.Interfaces)
		for _, possible := range o.PossibleTypes {
			w.follow(possible)
		}
	case *introspection.UnionType:
		n, _ := typeDef[*introspection.UnionType](w.ctx.New(), item.newName)
		w.diffUnion(o, n)
	case *introspection.EnumType:
		n, _ := typeDef[*introspection.EnumType](w.ctx.New(), item.newName)
		w.diffEnum(o, n)
	case *introspection.ScalarType:
		n, _ := typeDef[*introspection.ScalarType](w.ctx.New(), item.newName)
		w.diffScalar(o, n)
	case *introspection.InputObjectType:
		n, _ := typeDef[*introspection.InputObjectType](w.ctx.New(), item.newName)
		w.diffInputValues(inputScope{
			typeName: o.TypeName,
			kind:     KindInputObject,
			category: CategoryField,
			noun:     "input field",
		}, o.Fields, n.Fields)
	}
}

func (w *walker) diffImplements(typeName string, kind TypeKind, oldIfaces, newIfaces []string) {
	newSet := toSet(newIfaces)
	for _, iface := range oldIfaces {
		if _, ok := newSet[iface]; !ok {
			w.ctx.Report(APIBreakage().
				TypeName(typeName).
				TypeKind(kind).
				Category(CategoryInterface).
				ReasonMsg("%s no longer implements interface %s", typeName, iface).
				Components(iface).
				Build())
			continue
		}
		w.follow(iface)
	}

	oldSet := toSet(oldIfaces)
	for _, iface := range newIfaces {
		if _, ok := oldSet[iface]; !ok {
			w.ctx.Report(APIDanger().
				TypeName(typeName).
				TypeKind(kind).
				Category(CategoryInterface).
				ReasonMsg("%s now implements interface %s", typeName, iface).
				Components(iface).
				Build())
		}
	}
}

func (w *walker) diffUnion(o, n *introspection.UnionType) {
	newSet := toSet(n.PossibleTypes)
	for _, member := range o.PossibleTypes {
		if _, ok := newSet[member]; !ok {
			w.ctx.Report(APIBreakage().
				TypeName(o.TypeName).
				TypeKind(KindUnion).
				Category(CategoryUnionMember).
				ReasonMsg("Member %s was removed from union %s", member, o.TypeName).
				Components(member).
				Build())
			continue
		}
		w.follow(member)
	}

	oldSet := toSet(o.PossibleTypes)
	for _, member := range n.PossibleTypes {
		if _, ok := oldSet[member]; !ok {
			w.ctx.Report(APIDanger().
				TypeName(o.TypeName).
				TypeKind(KindUnion).
				Category(CategoryUnionMember).
				ReasonMsg("Member %s was added to union %s", member, o.TypeName).
				Components(member).
				Build())
		}
	}
}

func (w *walker) diffEnum(o, n *introspection.EnumType) {
	for el := o.Values.Front(); el != nil; el = el.Next() {
		ov := el.Value
		nv, ok := n.Values.Get(ov.Name)
		if !ok {
			w.ctx.Report(APIBreakage().
				TypeName(o.TypeName).
				TypeKind(KindEnum).
				Category(CategoryEnumValue).
				FieldName(ov.Name).
				ReasonMsg("Enum value %s was removed from %s", ov.Name, o.TypeName).
				Components(ov.Name).
				Build())
			continue
		}
		w.diffDeprecation(ov.Deprecated, nv.Deprecated, nv.DeprecationReason, func(level DiffLevel) *Builder {
			return NewBuilder(level).
				TypeName(o.TypeName).
				TypeKind(KindEnum).
				Category(CategoryEnumValue).
				FieldName(ov.Name).
				Components(ov.Name)
		}, "Enum value "+o.TypeName+"."+ov.Name)
	}

	for el := n.Values.Front(); el != nil; el = el.Next() {
		if _, ok := o.Values.Get(el.Key); !ok {
			w.ctx.Report(APIDanger().
				TypeName(o.TypeName).
				TypeKind(KindEnum).
				Category(CategoryEnumValue).
				FieldName(el.Key).
				ReasonMsg("Enum value %s was added to %s", el.Key, o.TypeName).
				Components(el.Key).
				Build())
		}
	}
}

func (w *walker) diffScalar(o, n *introspection.ScalarType) {
	if o.SpecifiedByURL == n.SpecifiedByURL {
		return
	}
	w.ctx.Report(APIInfo().
		TypeName(o.TypeName).
		TypeKind(KindScalar).
		Category(CategoryType).
		ReasonMsg("Scalar %s specification URL changed from %q to %q", o.TypeName, o.SpecifiedByURL, n.SpecifiedByURL).
		Build())
}

// diffDeprecation reports a deprecation being added or removed. scope starts
// an event located at the element; subject names it in the message.
func (w *walker) diffDeprecation(oldDeprecated, newDeprecated bool, reason string, scope func(DiffLevel) *Builder, subject string) {
	switch {
	case !oldDeprecated && newDeprecated:
		msg := subject + " was deprecated"
		if reason != "" {
			msg += ": " + reason
		}
		w.ctx.Report(scope(LevelDangerous).ReasonMsg("%s", msg).Build())
	case oldDeprecated && !newDeprecated:
		w.ctx.Report(scope(LevelInfo).ReasonMsg("%s is no longer deprecated", subject).Build())
	}
}

func typeKindOf(def introspection.TypeDefinition) TypeKind {
	switch def.(type) {
	case *introspection.ObjectType:
		return KindObject
	case *introspection.InterfaceType:
		return KindInterface
	case *introspection.UnionType:
		return KindUnion
	case *introspection.EnumType:
		return KindEnum
	case *introspection.ScalarType:
		return KindScalar
	case *introspection.InputObjectType:
		return KindInputObject
	}
	return KindObject
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
