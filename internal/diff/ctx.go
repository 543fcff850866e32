package diff

import (
	"github.com/dbsmedya/schemadiff/internal/introspection"
)

// Ctx is the traversal state of a single diff run. It remembers which types
// have been examined, which are in progress, and forwards events to the
// run's reporter. A Ctx must not be shared between runs.
type Ctx struct {
	examinedTypes []string
	examined      map[string]struct{}
	currentTypes  []string

	oldDoc   *introspection.Document
	newDoc   *introspection.Document
	reporter Reporter
}

// NewCtx creates the state for one run over old and new.
func NewCtx(reporter Reporter, oldDoc, newDoc *introspection.Document) *Ctx {
	return &Ctx{
		examined: make(map[string]struct{}),
		oldDoc:   oldDoc,
		newDoc:   newDoc,
		reporter: reporter,
	}
}

// ExaminingType marks name as being examined. It returns true when name has
// already been handled and the caller must skip it; otherwise name is
// recorded, pushed onto the current-type stack, and false is returned.
func (c *Ctx) ExaminingType(name string) bool {
	if _, seen := c.examined[name]; seen {
		return true
	}
	c.examined[name] = struct{}{}
	c.examinedTypes = append(c.examinedTypes, name)
	c.currentTypes = append(c.currentTypes, name)
	return false
}

// ExitType pops the type whose comparison just completed.
func (c *Ctx) ExitType() {
	if len(c.currentTypes) > 0 {
		c.currentTypes = c.currentTypes[:len(c.currentTypes)-1]
	}
}

// IsExamined reports whether name has already been examined.
func (c *Ctx) IsExamined(name string) bool {
	_, seen := c.examined[name]
	return seen
}

// ExaminedTypes returns the examined type names in examination order.
func (c *Ctx) ExaminedTypes() []string {
	return append([]string(nil), c.examinedTypes...)
}

// CurrentType returns the type on top of the stack, or "".
func (c *Ctx) CurrentType() string {
	if len(c.currentTypes) == 0 {
		return ""
	}
	return c.currentTypes[len(c.currentTypes)-1]
}

// Depth returns the number of types in progress.
func (c *Ctx) Depth() int {
	return len(c.currentTypes)
}

// Report forwards event to the reporter.
func (c *Ctx) Report(event Event) {
	c.reporter.Report(event)
}

// Old returns the old document.
func (c *Ctx) Old() *introspection.Document { return c.oldDoc }

// New returns the new document.
func (c *Ctx) New() *introspection.Document { return c.newDoc }

// OldTypeDef resolves the named type of ref in the old document, filtered
// by the expected definition variant T. It returns false when the name does
// not resolve or resolves to another variant.
func OldTypeDef[T introspection.TypeDefinition](c *Ctx, ref *introspection.TypeRef) (T, bool) {
	return typeDef[T](c.oldDoc, ref.NamedType())
}

// NewTypeDef is OldTypeDef for the new document.
func NewTypeDef[T introspection.TypeDefinition](c *Ctx, ref *introspection.TypeRef) (T, bool) {
	return typeDef[T](c.newDoc, ref.NamedType())
}

func typeDef[T introspection.TypeDefinition](doc *introspection.Document, name string) (T, bool) {
	var zero T
	if doc == nil || name == "" {
		return zero, false
	}
	def, ok := doc.Type(name).(T)
	if !ok {
		return zero, false
	}
	return def, true
}
