package introspection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrIntrospectionFailed is returned when running the introspection query
// produced one or more GraphQL errors.
var ErrIntrospectionFailed = errors.New("introspection failed")

// Response is the outcome of running the introspection query against a schema.
type Response struct {
	Data   map[string]any
	Errors gqlerror.List
}

// Document decodes the response data. A response carrying errors is never
// decoded: the resulting document could not be trusted.
func (r *Response) Document() (*Document, error) {
	if len(r.Errors) > 0 {
		msgs := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrIntrospectionFailed, strings.Join(msgs, "; "))
	}
	return FromMap(r.Data)
}

// Source is a live schema that can be introspected.
type Source interface {
	// Introspect runs the introspection query. A non-nil error means the
	// query could not be run at all; GraphQL-level failures are reported
	// in Response.Errors.
	Introspect(ctx context.Context) (*Response, error)

	// Describe names the source in logs and messages.
	Describe() string
}

// Load introspects src and decodes the result.
func Load(ctx context.Context, src Source) (*Document, error) {
	resp, err := src.Introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Describe(), err)
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Describe(), err)
	}
	return doc, nil
}

// toErrorList converts a gqlparser error into a list of GraphQL errors.
func toErrorList(err error) gqlerror.List {
	if err == nil {
		return nil
	}
	var list gqlerror.List
	if errors.As(err, &list) {
		return list
	}
	var single *gqlerror.Error
	if errors.As(err, &single) {
		return gqlerror.List{single}
	}
	return gqlerror.List{{Message: err.Error()}}
}
