// Package introspection provides a read-only model of a GraphQL schema as
// described by an introspection result, plus the sources that produce one.
package introspection

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Kind is the introspection __TypeKind of a type or type reference.
type Kind string

const (
	KindScalar      Kind = "SCALAR"
	KindObject      Kind = "OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
	KindList        Kind = "LIST"
	KindNonNull     Kind = "NON_NULL"
)

// TypeDefinition is one named type of a schema. The set of implementations
// is closed: ObjectType, InterfaceType, UnionType, EnumType, ScalarType and
// InputObjectType.
type TypeDefinition interface {
	Name() string
	Kind() Kind
	Description() string

	typeDefinition()
}

// Fields is an insertion-ordered set of output fields keyed by name.
type Fields = orderedmap.OrderedMap[string, *Field]

// InputValues is an insertion-ordered set of arguments or input fields keyed by name.
type InputValues = orderedmap.OrderedMap[string, *InputValue]

// EnumValues is an insertion-ordered set of enum values keyed by name.
type EnumValues = orderedmap.OrderedMap[string, *EnumValue]

// ObjectType is an OBJECT type.
type ObjectType struct {
	TypeName   string
	Desc       string
	Fields     *Fields
	Interfaces []string
}

// InterfaceType is an INTERFACE type.
type InterfaceType struct {
	TypeName      string
	Desc          string
	Fields        *Fields
	Interfaces    []string
	PossibleTypes []string
}

// UnionType is a UNION type.
type UnionType struct {
	TypeName      string
	Desc          string
	PossibleTypes []string
}

// EnumType is an ENUM type.
type EnumType struct {
	TypeName string
	Desc     string
	Values   *EnumValues
}

// ScalarType is a SCALAR type.
type ScalarType struct {
	TypeName       string
	Desc           string
	SpecifiedByURL string
}

// InputObjectType is an INPUT_OBJECT type.
type InputObjectType struct {
	TypeName string
	Desc     string
	Fields   *InputValues
}

func (t *ObjectType) Name() string        { return t.TypeName }
func (t *ObjectType) Kind() Kind          { return KindObject }
func (t *ObjectType) Description() string { return t.Desc }
func (t *ObjectType) typeDefinition()     {}

func (t *InterfaceType) Name() string        { return t.TypeName }
func (t *InterfaceType) Kind() Kind          { return KindInterface }
func (t *InterfaceType) Description() string { return t.Desc }
func (t *InterfaceType) typeDefinition()     {}

func (t *UnionType) Name() string        { return t.TypeName }
func (t *UnionType) Kind() Kind          { return KindUnion }
func (t *UnionType) Description() string { return t.Desc }
func (t *UnionType) typeDefinition()     {}

func (t *EnumType) Name() string        { return t.TypeName }
func (t *EnumType) Kind() Kind          { return KindEnum }
func (t *EnumType) Description() string { return t.Desc }
func (t *EnumType) typeDefinition()     {}

func (t *ScalarType) Name() string        { return t.TypeName }
func (t *ScalarType) Kind() Kind          { return KindScalar }
func (t *ScalarType) Description() string { return t.Desc }
func (t *ScalarType) typeDefinition()     {}

func (t *InputObjectType) Name() string        { return t.TypeName }
func (t *InputObjectType) Kind() Kind          { return KindInputObject }
func (t *InputObjectType) Description() string { return t.Desc }
func (t *InputObjectType) typeDefinition()     {}

// Field is an output field of an object or interface type.
type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Args              *InputValues
	Deprecated        bool
	DeprecationReason string
}

// InputValue is a field or directive argument, or an input object field.
type InputValue struct {
	Name              string
	Description       string
	Type              *TypeRef
	DefaultValue      *string
	Deprecated        bool
	DeprecationReason string
}

// HasDefault reports whether a default value is declared.
func (v *InputValue) HasDefault() bool {
	return v.DefaultValue != nil
}

// Required reports whether callers must supply the value: non-null with no default.
func (v *InputValue) Required() bool {
	return v.Type.IsNonNull() && !v.HasDefault()
}

// EnumValue is a single value of an enum type.
type EnumValue struct {
	Name              string
	Description       string
	Deprecated        bool
	DeprecationReason string
}

// DirectiveDefinition is a directive declared by the schema.
type DirectiveDefinition struct {
	Name        string
	Description string
	Locations   []string
	Args        *InputValues
	Repeatable  bool
}

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Kind   Kind
	Name   string
	OfType *TypeRef
}

// Named returns an unwrapped reference to the named type.
func Named(kind Kind, name string) *TypeRef {
	return &TypeRef{Kind: kind, Name: name}
}

// ListOf wraps t in a LIST.
func ListOf(t *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindList, OfType: t}
}

// NonNullOf wraps t in a NON_NULL.
func NonNullOf(t *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindNonNull, OfType: t}
}

// NamedType returns the innermost type name, or "" for a malformed reference.
func (t *TypeRef) NamedType() string {
	for cur := t; cur != nil; cur = cur.OfType {
		if cur.Kind != KindList && cur.Kind != KindNonNull {
			return cur.Name
		}
	}
	return ""
}

// IsNonNull reports whether the outermost wrapper is NON_NULL.
func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == KindNonNull
}

// String renders the reference in SDL notation, e.g. "[String!]!".
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindNonNull:
		return t.OfType.String() + "!"
	case KindList:
		return "[" + t.OfType.String() + "]"
	default:
		return t.Name
	}
}

// Shape is a reference flattened into its named type and the nullability of
// each nesting level. NonNull[0] is the outermost level; len(NonNull)-1 is
// the number of LIST wrappers.
type Shape struct {
	Name    string
	NonNull []bool
}

// Shape flattens the reference.
func (t *TypeRef) Shape() Shape {
	var s Shape
	nonNull := false
	for cur := t; cur != nil; cur = cur.OfType {
		switch cur.Kind {
		case KindNonNull:
			nonNull = true
		case KindList:
			s.NonNull = append(s.NonNull, nonNull)
			nonNull = false
		default:
			s.NonNull = append(s.NonNull, nonNull)
			s.Name = cur.Name
			return s
		}
	}
	return s
}

// Lists returns the number of LIST wrappers.
func (s Shape) Lists() int {
	if len(s.NonNull) == 0 {
		return 0
	}
	return len(s.NonNull) - 1
}

// IsIntrospectionName reports whether name belongs to the introspection system.
func IsIntrospectionName(name string) bool {
	return strings.HasPrefix(name, "__")
}
