package diff

import (
	"context"
	"fmt"

	"github.com/dbsmedya/schemadiff/internal/introspection"
)

// DiffSet holds the two schema versions of one comparison. It is built once
// and never modified.
type DiffSet struct {
	oldDoc *introspection.Document
	newDoc *introspection.Document
}

// NewDiffSet wraps two introspection results held as nested key/value maps.
// No introspection is executed.
func NewDiffSet(oldIntrospection, newIntrospection map[string]any) (*DiffSet, error) {
	oldDoc, err := introspection.FromMap(oldIntrospection)
	if err != nil {
		return nil, fmt.Errorf("old schema: %w", err)
	}
	newDoc, err := introspection.FromMap(newIntrospection)
	if err != nil {
		return nil, fmt.Errorf("new schema: %w", err)
	}
	return NewDiffSetFromDocuments(oldDoc, newDoc), nil
}

// NewDiffSetFromDocuments wraps two already decoded documents.
func NewDiffSetFromDocuments(oldDoc, newDoc *introspection.Document) *DiffSet {
	return &DiffSet{oldDoc: oldDoc, newDoc: newDoc}
}

// NewDiffSetFromSources runs the introspection query against both live
// schemas. If either run reports errors no DiffSet is created: a diff must
// never run against a schema known to be invalid. The returned error wraps
// introspection.ErrIntrospectionFailed in that case.
func NewDiffSetFromSources(ctx context.Context, oldSource, newSource introspection.Source) (*DiffSet, error) {
	oldResp, err := oldSource.Introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("old schema %s: %w", oldSource.Describe(), err)
	}
	newResp, err := newSource.Introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("new schema %s: %w", newSource.Describe(), err)
	}

	oldDoc, err := oldResp.Document()
	if err != nil {
		return nil, fmt.Errorf("old schema %s: %w", oldSource.Describe(), err)
	}
	newDoc, err := newResp.Document()
	if err != nil {
		return nil, fmt.Errorf("new schema %s: %w", newSource.Describe(), err)
	}
	return NewDiffSetFromDocuments(oldDoc, newDoc), nil
}

// Old returns the old schema.
func (s *DiffSet) Old() *introspection.Document { return s.oldDoc }

// New returns the new schema.
func (s *DiffSet) New() *introspection.Document { return s.newDoc }
