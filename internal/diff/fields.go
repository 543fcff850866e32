package diff

import (
	"github.com/dbsmedya/schemadiff/internal/introspection"
)

func (w *walker) diffOutputFields(typeName string, kind TypeKind, oldFields, newFields *introspection.Fields) {
	for el := oldFields.Front(); el != nil; el = el.Next() {
		of := el.Value
		nf, ok := newFields.Get(of.Name)
		if !ok {
			reason := "Field %s was removed from %s"
			if of.Deprecated {
				reason = "Deprecated field %s was removed from %s"
			}
			w.ctx.Report(APIBreakage().
				TypeName(typeName).
				TypeKind(kind).
				Category(CategoryField).
				FieldName(of.Name).
				ReasonMsg(reason, of.Name, typeName).
				Build())
			continue
		}

		if level, reason, changed := wrappingChange(of.Type, nf.Type, false, false); changed {
			w.ctx.Report(NewBuilder(level).
				TypeName(typeName).
				TypeKind(kind).
				Category(CategoryField).
				FieldName(of.Name).
				ReasonMsg("Field %s.%s %s", typeName, of.Name, reason).
				Components(of.Type, nf.Type).
				Build())
		}

		w.diffDeprecation(of.Deprecated, nf.Deprecated, nf.DeprecationReason, func(level DiffLevel) *Builder {
			return NewBuilder(level).
				TypeName(typeName).
				TypeKind(kind).
				Category(CategoryField).
				FieldName(of.Name)
		}, "Field "+typeName+"."+of.Name)

		w.diffInputValues(inputScope{
			typeName:  typeName,
			kind:      kind,
			fieldName: of.Name,
			category:  CategoryArgument,
			noun:      "argument",
		}, of.Args, nf.Args)

		w.followRef(of.Type, nf.Type)
	}

	for el := newFields.Front(); el != nil; el = el.Next() {
		if _, ok := oldFields.Get(el.Key); ok {
			continue
		}
		w.ctx.Report(APIInfo().
			TypeName(typeName).
			TypeKind(kind).
			Category(CategoryField).
			FieldName(el.Key).
			ReasonMsg("Field %s was added to %s", el.Key, typeName).
			Build())
	}
}

// inputScope locates a set of input values: the arguments of a field or a
// directive, or the fields of an input object.
type inputScope struct {
	typeName  string
	kind      TypeKind
	fieldName string
	category  DiffCategory
	noun      string
}

func (s inputScope) builder(level DiffLevel, valueName string) *Builder {
	b := NewBuilder(level).
		TypeName(s.typeName).
		TypeKind(s.kind).
		Category(s.category)
	if s.category == CategoryArgument {
		if s.fieldName != "" {
			b.FieldName(s.fieldName)
		}
		return b.Components(valueName)
	}
	return b.FieldName(valueName)
}

func (s inputScope) subject(valueName string) string {
	owner := s.typeName
	if s.kind == KindDirective {
		owner = "@" + owner
	}
	if s.fieldName != "" {
		owner += "." + s.fieldName
	}
	return s.noun + " " + valueName + " of " + owner
}

func (w *walker) diffInputValues(s inputScope, oldValues, newValues *introspection.InputValues) {
	for el := oldValues.Front(); el != nil; el = el.Next() {
		ov := el.Value
		nv, ok := newValues.Get(ov.Name)
		if !ok {
			w.ctx.Report(s.builder(LevelBreaking, ov.Name).
				ReasonMsg("The %s was removed", s.subject(ov.Name)).
				Build())
			continue
		}

		if level, reason, changed := wrappingChange(ov.Type, nv.Type, true, nv.HasDefault()); changed {
			w.ctx.Report(s.builder(level, ov.Name).
				ReasonMsg("The %s %s", s.subject(ov.Name), reason).
				Components(ov.Type, nv.Type).
				Build())
		}

		switch {
		case ov.DefaultValue != nil && nv.DefaultValue == nil:
			w.ctx.Report(s.builder(LevelDangerous, ov.Name).
				ReasonMsg("The %s no longer has a default value (was %s)", s.subject(ov.Name), *ov.DefaultValue).
				Build())
		case ov.DefaultValue != nil && *ov.DefaultValue != *nv.DefaultValue:
			w.ctx.Report(s.builder(LevelDangerous, ov.Name).
				ReasonMsg("The %s default value changed from %s to %s", s.subject(ov.Name), *ov.DefaultValue, *nv.DefaultValue).
				Build())
		}

		w.diffDeprecation(ov.Deprecated, nv.Deprecated, nv.DeprecationReason, func(level DiffLevel) *Builder {
			return s.builder(level, ov.Name)
		}, "The "+s.subject(ov.Name))

		w.followRef(ov.Type, nv.Type)
	}

	for el := newValues.Front(); el != nil; el = el.Next() {
		nv := el.Value
		if _, ok := oldValues.Get(nv.Name); ok {
			continue
		}
		if nv.Required() {
			w.ctx.Report(s.builder(LevelBreaking, nv.Name).
				ReasonMsg("A required %s was added", s.subject(nv.Name)).
				Components(nv.Type).
				Build())
			continue
		}
		w.ctx.Report(s.builder(LevelInfo, nv.Name).
			ReasonMsg("An optional %s was added", s.subject(nv.Name)).
			Components(nv.Type).
			Build())
	}
}

// followRef queues the named type of a field or input value when both
// versions still reference the same type. A changed type name was already
// reported and its definitions are not compared.
func (w *walker) followRef(oldRef, newRef *introspection.TypeRef) {
	if oldRef.NamedType() != newRef.NamedType() {
		return
	}
	oldDef, ok := OldTypeDef[introspection.TypeDefinition](w.ctx, oldRef)
	if !ok {
		return
	}
	w.follow(oldDef.Name())
}

// wrappingChange classifies a change between two references to a value.
// Output positions (input false) break when a guarantee is dropped; input
// positions break when a new requirement is placed on callers. hasDefault
// reports whether the new input value declares a default, which makes a
// newly required outer value harmless.
func wrappingChange(oldRef, newRef *introspection.TypeRef, input, hasDefault bool) (DiffLevel, string, bool) {
	oldShape, newShape := oldRef.Shape(), newRef.Shape()
	changedFrom := "type changed from " + oldRef.String() + " to " + newRef.String()

	if oldShape.Name != newShape.Name {
		return LevelBreaking, changedFrom, true
	}
	if oldShape.Lists() != newShape.Lists() {
		return LevelBreaking, changedFrom + ": list nesting differs", true
	}

	var (
		found  bool
		level  DiffLevel
		reason string
	)
	for i := range oldShape.NonNull {
		was, is := oldShape.NonNull[i], newShape.NonNull[i]
		if was == is {
			continue
		}

		var l DiffLevel
		var r string
		switch {
		case !input && was:
			l, r = LevelBreaking, ": a non-null guarantee was removed"
		case !input:
			l, r = LevelDangerous, ": a non-null guarantee was added"
		case is && i == 0 && hasDefault:
			l, r = LevelInfo, ": now non-null with a default value"
		case is:
			l, r = LevelBreaking, ": the value is now required"
		default:
			l, r = LevelInfo, ": the value is now optional"
		}
		if !found || l > level {
			found, level, reason = true, l, r
		}
	}
	if !found {
		return LevelInfo, "", false
	}
	return level, changedFrom + reason, true
}
