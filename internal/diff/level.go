package diff

import (
	"fmt"
	"strings"
)

// DiffLevel is the severity of a difference.
type DiffLevel int

const (
	// LevelInfo is a non-actionable observation, such as an additive change.
	LevelInfo DiffLevel = iota
	// LevelDangerous is not breaking today but risky for existing clients.
	LevelDangerous
	// LevelBreaking is incompatible with existing consumers.
	LevelBreaking
)

var levelNames = []string{"INFO", "DANGEROUS", "BREAKING"}

func (l DiffLevel) String() string {
	if l < LevelInfo || l > LevelBreaking {
		return fmt.Sprintf("DiffLevel(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText encodes the level by name.
func (l DiffLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *DiffLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts a case-insensitive level name to a DiffLevel.
func ParseLevel(s string) (DiffLevel, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return DiffLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown diff level: %s", s)
}

// DiffCategory is the structural element a difference concerns.
type DiffCategory int

const (
	CategorySchema DiffCategory = iota
	CategoryType
	CategoryField
	CategoryArgument
	CategoryEnumValue
	CategoryUnionMember
	CategoryInterface
	CategoryDirective
	CategoryDirectiveLocation
)

var categoryNames = []string{
	"SCHEMA", "TYPE", "FIELD", "ARGUMENT", "ENUM_VALUE",
	"UNION_MEMBER", "INTERFACE", "DIRECTIVE", "DIRECTIVE_LOCATION",
}

func (c DiffCategory) String() string {
	if c < CategorySchema || int(c) >= len(categoryNames) {
		return fmt.Sprintf("DiffCategory(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name.
func (c DiffCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// TypeKind is the kind of schema element an event was raised on.
type TypeKind int

const (
	KindOperation TypeKind = iota
	KindObject
	KindInterface
	KindUnion
	KindEnum
	KindScalar
	KindInputObject
	KindDirective
)

var typeKindNames = []string{
	"Operation", "Object", "Interface", "Union", "Enum", "Scalar", "InputObject", "Directive",
}

func (k TypeKind) String() string {
	if k < KindOperation || int(k) >= len(typeKindNames) {
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
	return typeKindNames[k]
}

// MarshalText encodes the kind by name.
func (k TypeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
