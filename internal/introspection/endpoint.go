package introspection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// IntrospectionQuery is the standard introspection query, including
// deprecated fields, arguments, input fields and enum values, scalar
// specification URLs and directive repeatability.
const IntrospectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name description locations isRepeatable
      args(includeDeprecated: true) { ...InputValue }
    }
  }
}

fragment FullType on __Type {
  kind name description specifiedByURL
  fields(includeDeprecated: true) {
    name description
    args(includeDeprecated: true) { ...InputValue }
    type { ...TypeRef }
    isDeprecated deprecationReason
  }
  inputFields(includeDeprecated: true) { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) { name description isDeprecated deprecationReason }
  possibleTypes { ...TypeRef }
}

fragment InputValue on __InputValue {
  name description
  type { ...TypeRef }
  defaultValue
  isDeprecated deprecationReason
}

fragment TypeRef on __Type {
  kind name
  ofType {
    kind name
    ofType {
      kind name
      ofType {
        kind name
        ofType {
          kind name
          ofType {
            kind name
            ofType { kind name }
          }
        }
      }
    }
  }
}`

// EndpointOptions configures an EndpointSource.
type EndpointOptions struct {
	Headers    map[string]string
	Timeout    time.Duration
	MaxRetries int
	Transport  http.RoundTripper
}

// EndpointSource is a running GraphQL server reached over HTTP.
type EndpointSource struct {
	url     string
	opts    EndpointOptions
	client  *http.Client
	backoff func() backoff.BackOff
}

// NewEndpointSource creates a source that POSTs the introspection query to url.
func NewEndpointSource(url string, opts EndpointOptions) *EndpointSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &EndpointSource{
		url:    url,
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		backoff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 250 * time.Millisecond
			bo.MaxInterval = 5 * time.Second
			return bo
		},
	}
}

// Describe implements Source.
func (s *EndpointSource) Describe() string {
	return "endpoint:" + s.url
}

type endpointResponse struct {
	Data   map[string]any `json:"data"`
	Errors gqlerror.List  `json:"errors"`
}

// Introspect implements Source. Transport failures and 5xx responses are
// retried with exponential backoff; any other non-2xx status is permanent.
func (s *EndpointSource) Introspect(ctx context.Context) (*Response, error) {
	body, err := json.Marshal(map[string]any{
		"query":         IntrospectionQuery,
		"operationName": "IntrospectionQuery",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal introspection query: %w", err)
	}

	var result endpointResponse
	op := func() error {
		raw, err := s.post(ctx, body)
		if err != nil {
			return err
		}
		result = endpointResponse{}
		if err := json.Unmarshal(raw, &result); err != nil {
			return backoff.Permanent(fmt.Errorf("unmarshal introspection response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.backoff(), uint64(s.opts.MaxRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return &Response{Data: result.Data, Errors: result.Errors}, nil
}

func (s *EndpointSource) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("introspect %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read introspection response from %s: %w", s.url, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("introspect %s: status %d", s.url, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// GraphQL servers may answer 4xx with a well-formed errors body.
		var partial endpointResponse
		if json.Unmarshal(raw, &partial) == nil && len(partial.Errors) > 0 {
			return raw, nil
		}
		return nil, backoff.Permanent(fmt.Errorf("introspect %s: status %d", s.url, resp.StatusCode))
	}
	return raw, nil
}
