package introspection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/tidwall/gjson"
)

// ErrNoSchema is returned when an introspection result carries no __schema object.
var ErrNoSchema = errors.New("introspection result has no __schema")

// wireSchema mirrors the __schema object of the standard introspection query.
type wireSchema struct {
	QueryType        *wireTypeName   `json:"queryType"`
	MutationType     *wireTypeName   `json:"mutationType"`
	SubscriptionType *wireTypeName   `json:"subscriptionType"`
	Types            []wireFullType  `json:"types"`
	Directives       []wireDirective `json:"directives"`
}

type wireTypeName struct {
	Name string `json:"name"`
}

type wireFullType struct {
	Kind           string           `json:"kind"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	SpecifiedByURL string           `json:"specifiedByURL,omitempty"`
	Fields         []wireField      `json:"fields,omitempty"`
	InputFields    []wireInputValue `json:"inputFields,omitempty"`
	Interfaces     []wireTypeRef    `json:"interfaces,omitempty"`
	EnumValues     []wireEnumValue  `json:"enumValues,omitempty"`
	PossibleTypes  []wireTypeRef    `json:"possibleTypes,omitempty"`
}

type wireField struct {
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Args              []wireInputValue `json:"args"`
	Type              wireTypeRef      `json:"type"`
	IsDeprecated      bool             `json:"isDeprecated"`
	DeprecationReason string           `json:"deprecationReason,omitempty"`
}

type wireInputValue struct {
	Name              string      `json:"name"`
	Description       string      `json:"description,omitempty"`
	Type              wireTypeRef `json:"type"`
	DefaultValue      *string     `json:"defaultValue"`
	IsDeprecated      bool        `json:"isDeprecated,omitempty"`
	DeprecationReason string      `json:"deprecationReason,omitempty"`
}

type wireTypeRef struct {
	Kind   string       `json:"kind"`
	Name   string       `json:"name,omitempty"`
	OfType *wireTypeRef `json:"ofType,omitempty"`
}

type wireEnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

type wireDirective struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Locations    []string         `json:"locations"`
	Args         []wireInputValue `json:"args"`
	IsRepeatable bool             `json:"isRepeatable"`
}

// Parse decodes a raw introspection result. Both the bare form
// {"__schema": ...} and the response form {"data": {"__schema": ...}} are accepted.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("introspection result is not valid JSON")
	}

	schema := gjson.GetBytes(data, "__schema")
	if !schema.Exists() {
		schema = gjson.GetBytes(data, "data.__schema")
	}
	if !schema.Exists() || !schema.IsObject() {
		return nil, ErrNoSchema
	}

	var ws wireSchema
	if err := json.Unmarshal([]byte(schema.Raw), &ws); err != nil {
		return nil, fmt.Errorf("failed to decode __schema: %w", err)
	}
	return ws.document()
}

// FromMap decodes an introspection result held as nested key/value maps,
// in either the bare or the response form.
func FromMap(m map[string]any) (*Document, error) {
	if m == nil {
		return nil, ErrNoSchema
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode introspection map: %w", err)
	}
	return Parse(data)
}

func (ws *wireSchema) document() (*Document, error) {
	doc := newDocument()
	if ws.QueryType != nil {
		doc.QueryType = ws.QueryType.Name
	}
	if ws.MutationType != nil {
		doc.MutationType = ws.MutationType.Name
	}
	if ws.SubscriptionType != nil {
		doc.SubscriptionType = ws.SubscriptionType.Name
	}

	for i := range ws.Types {
		wt := &ws.Types[i]
		if wt.Name == "" {
			return nil, fmt.Errorf("type #%d has no name", i)
		}
		if IsIntrospectionName(wt.Name) {
			continue
		}
		def, err := wt.definition()
		if err != nil {
			return nil, err
		}
		if _, exists := doc.types.Get(wt.Name); exists {
			return nil, fmt.Errorf("duplicate type %q", wt.Name)
		}
		doc.types.Set(wt.Name, def)
	}

	for i := range ws.Directives {
		wd := &ws.Directives[i]
		if _, exists := doc.directives.Get(wd.Name); exists {
			return nil, fmt.Errorf("duplicate directive @%s", wd.Name)
		}
		args, err := inputValues(wd.Args, "@"+wd.Name)
		if err != nil {
			return nil, err
		}
		doc.directives.Set(wd.Name, &DirectiveDefinition{
			Name:        wd.Name,
			Description: wd.Description,
			Locations:   append([]string(nil), wd.Locations...),
			Args:        args,
			Repeatable:  wd.IsRepeatable,
		})
	}

	return doc, nil
}

func (wt *wireFullType) definition() (TypeDefinition, error) {
	switch Kind(wt.Kind) {
	case KindObject:
		fields, err := outputFields(wt.Fields, wt.Name)
		if err != nil {
			return nil, err
		}
		return &ObjectType{
			TypeName:   wt.Name,
			Desc:       wt.Description,
			Fields:     fields,
			Interfaces: refNames(wt.Interfaces),
		}, nil
	case KindInterface:
		fields, err := outputFields(wt.Fields, wt.Name)
		if err != nil {
			return nil, err
		}
		return &InterfaceType{
			TypeName:      wt.Name,
			Desc:          wt.Description,
			Fields:        fields,
			Interfaces:    refNames(wt.Interfaces),
			PossibleTypes: refNames(wt.PossibleTypes),
		}, nil
	case KindUnion:
		return &UnionType{
			TypeName:      wt.Name,
			Desc:          wt.Description,
			PossibleTypes: refNames(wt.PossibleTypes),
		}, nil
	case KindEnum:
		values := orderedmap.NewOrderedMap[string, *EnumValue]()
		for _, wv := range wt.EnumValues {
			if _, exists := values.Get(wv.Name); exists {
				return nil, fmt.Errorf("duplicate enum value %s.%s", wt.Name, wv.Name)
			}
			values.Set(wv.Name, &EnumValue{
				Name:              wv.Name,
				Description:       wv.Description,
				Deprecated:        wv.IsDeprecated,
				DeprecationReason: wv.DeprecationReason,
			})
		}
		return &EnumType{TypeName: wt.Name, Desc: wt.Description, Values: values}, nil
	case KindScalar:
		return &ScalarType{TypeName: wt.Name, Desc: wt.Description, SpecifiedByURL: wt.SpecifiedByURL}, nil
	case KindInputObject:
		fields, err := inputValues(wt.InputFields, wt.Name)
		if err != nil {
			return nil, err
		}
		return &InputObjectType{TypeName: wt.Name, Desc: wt.Description, Fields: fields}, nil
	}
	return nil, fmt.Errorf("type %q has unsupported kind %q", wt.Name, wt.Kind)
}

func outputFields(wfs []wireField, owner string) (*Fields, error) {
	fields := orderedmap.NewOrderedMap[string, *Field]()
	for i := range wfs {
		wf := &wfs[i]
		if _, exists := fields.Get(wf.Name); exists {
			return nil, fmt.Errorf("duplicate field %s.%s", owner, wf.Name)
		}
		ref, err := wf.Type.typeRef()
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", owner, wf.Name, err)
		}
		args, err := inputValues(wf.Args, owner+"."+wf.Name)
		if err != nil {
			return nil, err
		}
		fields.Set(wf.Name, &Field{
			Name:              wf.Name,
			Description:       wf.Description,
			Type:              ref,
			Args:              args,
			Deprecated:        wf.IsDeprecated,
			DeprecationReason: wf.DeprecationReason,
		})
	}
	return fields, nil
}

func inputValues(wvs []wireInputValue, owner string) (*InputValues, error) {
	values := orderedmap.NewOrderedMap[string, *InputValue]()
	for i := range wvs {
		wv := &wvs[i]
		if _, exists := values.Get(wv.Name); exists {
			return nil, fmt.Errorf("duplicate input value %s(%s)", owner, wv.Name)
		}
		ref, err := wv.Type.typeRef()
		if err != nil {
			return nil, fmt.Errorf("input value %s(%s): %w", owner, wv.Name, err)
		}
		values.Set(wv.Name, &InputValue{
			Name:              wv.Name,
			Description:       wv.Description,
			Type:              ref,
			DefaultValue:      wv.DefaultValue,
			Deprecated:        wv.IsDeprecated,
			DeprecationReason: wv.DeprecationReason,
		})
	}
	return values, nil
}

func (r *wireTypeRef) typeRef() (*TypeRef, error) {
	switch Kind(r.Kind) {
	case KindList, KindNonNull:
		if r.OfType == nil {
			return nil, fmt.Errorf("%s wrapper without ofType", r.Kind)
		}
		inner, err := r.OfType.typeRef()
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: Kind(r.Kind), OfType: inner}, nil
	default:
		if r.Name == "" {
			return nil, fmt.Errorf("type reference of kind %q has no name", r.Kind)
		}
		return Named(Kind(r.Kind), r.Name), nil
	}
}

func refNames(refs []wireTypeRef) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}
