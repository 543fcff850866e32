package introspection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// FileSource is a saved introspection result on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the introspection JSON at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return "introspection:" + s.path
}

// Introspect implements Source. An "errors" array saved alongside the data
// is returned as GraphQL errors.
func (s *FileSource) Introspect(_ context.Context) (*Response, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read introspection file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("introspection file %s is not valid JSON", s.path)
	}

	resp := &Response{}
	if errs := gjson.GetBytes(data, "errors"); errs.Exists() && errs.IsArray() {
		var list gqlerror.List
		if err := json.Unmarshal([]byte(errs.Raw), &list); err != nil {
			return nil, fmt.Errorf("failed to decode errors in %s: %w", s.path, err)
		}
		resp.Errors = list
	}
	if err := json.Unmarshal(data, &resp.Data); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return resp, nil
}

// ResolveSource picks a source for a schema reference: http(s) URLs are
// endpoints, *.json files are saved introspection results, anything else is
// an SDL file.
func ResolveSource(ref string, opts EndpointOptions) (Source, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty schema reference")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return NewEndpointSource(ref, opts), nil
	case strings.EqualFold(filepath.Ext(ref), ".json"):
		return NewFileSource(ref), nil
	default:
		return NewSDLFileSource(ref)
	}
}
