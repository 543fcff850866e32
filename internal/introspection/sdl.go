package introspection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// defaultDeprecationReason is what introspection reports for a bare @deprecated.
const defaultDeprecationReason = "No longer supported"

// SDLSource is a schema written in the GraphQL schema definition language.
// Introspecting it loads and validates the SDL with gqlparser and renders
// the schema in the shape an introspection query returns.
type SDLSource struct {
	name    string
	sources []*ast.Source
}

// NewSDLSource creates a source from SDL text.
func NewSDLSource(name, sdl string) *SDLSource {
	return &SDLSource{
		name:    name,
		sources: []*ast.Source{{Name: name, Input: sdl}},
	}
}

// NewSDLFileSource creates a source from one or more SDL files that together
// make up the schema.
func NewSDLFileSource(paths ...string) (*SDLSource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}
	src := &SDLSource{name: strings.Join(paths, ",")}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
		}
		src.sources = append(src.sources, &ast.Source{Name: path, Input: string(data)})
	}
	return src, nil
}

// Describe implements Source.
func (s *SDLSource) Describe() string {
	return "sdl:" + s.name
}

// Introspect implements Source. Load and validation failures are returned
// as GraphQL errors, the way a server reports a failed introspection.
func (s *SDLSource) Introspect(_ context.Context) (*Response, error) {
	schema, err := gqlparser.LoadSchema(s.sources...)
	if err != nil {
		return &Response{Errors: toErrorList(err)}, nil
	}

	data, err := json.Marshal(map[string]any{"__schema": renderSchema(schema)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode introspection data: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode introspection data: %w", err)
	}
	return &Response{Data: m}, nil
}

// renderSchema converts a gqlparser schema to the introspection wire shape.
// Types and directives are emitted in name order.
func renderSchema(schema *ast.Schema) *wireSchema {
	ws := &wireSchema{}
	if schema.Query != nil {
		ws.QueryType = &wireTypeName{Name: schema.Query.Name}
	}
	if schema.Mutation != nil {
		ws.MutationType = &wireTypeName{Name: schema.Mutation.Name}
	}
	if schema.Subscription != nil {
		ws.SubscriptionType = &wireTypeName{Name: schema.Subscription.Name}
	}

	for _, name := range sortedKeys(schema.Types) {
		if IsIntrospectionName(name) {
			continue
		}
		ws.Types = append(ws.Types, renderType(schema, schema.Types[name]))
	}
	for _, name := range sortedKeys(schema.Directives) {
		ws.Directives = append(ws.Directives, renderDirective(schema, schema.Directives[name]))
	}
	return ws
}

func renderType(schema *ast.Schema, def *ast.Definition) wireFullType {
	wt := wireFullType{
		Kind:        string(def.Kind),
		Name:        def.Name,
		Description: def.Description,
	}

	switch def.Kind {
	case ast.Object, ast.Interface:
		for _, f := range def.Fields {
			if IsIntrospectionName(f.Name) {
				continue
			}
			deprecated, reason := deprecation(f.Directives)
			wt.Fields = append(wt.Fields, wireField{
				Name:              f.Name,
				Description:       f.Description,
				Args:              renderArgs(schema, f.Arguments),
				Type:              renderTypeRef(schema, f.Type),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
		for _, iface := range def.Interfaces {
			wt.Interfaces = append(wt.Interfaces, wireTypeRef{Kind: string(ast.Interface), Name: iface})
		}
		if def.Kind == ast.Interface {
			wt.PossibleTypes = renderPossibleTypes(schema, def)
		}
	case ast.Union:
		wt.PossibleTypes = renderPossibleTypes(schema, def)
	case ast.Enum:
		for _, v := range def.EnumValues {
			deprecated, reason := deprecation(v.Directives)
			wt.EnumValues = append(wt.EnumValues, wireEnumValue{
				Name:              v.Name,
				Description:       v.Description,
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.Scalar:
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
				wt.SpecifiedByURL = arg.Value.Raw
			}
		}
	case ast.InputObject:
		for _, f := range def.Fields {
			deprecated, reason := deprecation(f.Directives)
			wt.InputFields = append(wt.InputFields, wireInputValue{
				Name:              f.Name,
				Description:       f.Description,
				Type:              renderTypeRef(schema, f.Type),
				DefaultValue:      renderDefault(f.DefaultValue),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	}
	return wt
}

func renderPossibleTypes(schema *ast.Schema, def *ast.Definition) []wireTypeRef {
	var names []string
	if def.Kind == ast.Union {
		names = append(names, def.Types...)
	} else {
		for _, p := range schema.GetPossibleTypes(def) {
			if p.Kind == ast.Object {
				names = append(names, p.Name)
			}
		}
		sort.Strings(names)
	}
	refs := make([]wireTypeRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, wireTypeRef{Kind: string(ast.Object), Name: name})
	}
	return refs
}

func renderDirective(schema *ast.Schema, dir *ast.DirectiveDefinition) wireDirective {
	wd := wireDirective{
		Name:         dir.Name,
		Description:  dir.Description,
		Args:         renderArgs(schema, dir.Arguments),
		IsRepeatable: dir.IsRepeatable,
	}
	for _, loc := range dir.Locations {
		wd.Locations = append(wd.Locations, string(loc))
	}
	return wd
}

func renderArgs(schema *ast.Schema, args ast.ArgumentDefinitionList) []wireInputValue {
	out := make([]wireInputValue, 0, len(args))
	for _, a := range args {
		deprecated, reason := deprecation(a.Directives)
		out = append(out, wireInputValue{
			Name:              a.Name,
			Description:       a.Description,
			Type:              renderTypeRef(schema, a.Type),
			DefaultValue:      renderDefault(a.DefaultValue),
			IsDeprecated:      deprecated,
			DeprecationReason: reason,
		})
	}
	return out
}

func renderTypeRef(schema *ast.Schema, t *ast.Type) wireTypeRef {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		elem := renderTypeRef(schema, &inner)
		return wireTypeRef{Kind: string(KindNonNull), OfType: &elem}
	}
	if t.Elem != nil {
		elem := renderTypeRef(schema, t.Elem)
		return wireTypeRef{Kind: string(KindList), OfType: &elem}
	}
	kind := string(KindScalar)
	if def := schema.Types[t.NamedType]; def != nil {
		kind = string(def.Kind)
	}
	return wireTypeRef{Kind: kind, Name: t.NamedType}
}

func renderDefault(v *ast.Value) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func deprecation(dirs ast.DirectiveList) (bool, string) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return true, arg.Value.Raw
	}
	return true, defaultDeprecationReason
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
