package apiclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Parameter is a single query parameter in insertion order.
type Parameter struct {
	Name  string
	Value string
}

// Request describes one API call. Build a fresh Request per call.
type Request struct {
	// BaseURL is the full address the query string is appended to.
	BaseURL string
	// Method defaults to GET.
	Method string
	// Path optionally selects a sub-node of the JSON response before decoding.
	Path string
	// Body is sent as raw text when non-empty.
	Body string
	// AuthHeader is sent as the Authorization header when non-empty.
	AuthHeader string
	// RawValues disables percent-encoding in QueryString.
	RawValues bool

	params []Parameter
	index  map[string]struct{}
}

// NewRequest starts a GET request against baseURL with no parameters.
func NewRequest(baseURL string) *Request {
	return &Request{
		BaseURL: baseURL,
		Method:  http.MethodGet,
	}
}

// AddParameter adds name=value. A name can be added only once;
// repeats return ErrDuplicateParameter.
func (r *Request) AddParameter(name, value string) error {
	if r.index == nil {
		r.index = make(map[string]struct{})
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: the key %s already exists", ErrDuplicateParameter, name)
	}
	r.index[name] = struct{}{}
	r.params = append(r.params, Parameter{Name: name, Value: value})
	return nil
}

// AddParameterValue stringifies value and adds it.
func (r *Request) AddParameterValue(name string, value any) error {
	return r.AddParameter(name, fmt.Sprint(value))
}

// AddOptionalParameter adds name=value unless value is empty.
// It shares AddParameter's duplicate check, so adding the same name twice
// with non-empty values still fails.
func (r *Request) AddOptionalParameter(name, value string) error {
	if value == "" {
		return nil
	}
	return r.AddParameter(name, value)
}

// AddOptionalInt adds the value when v is non-nil.
func (r *Request) AddOptionalInt(name string, v *int) error {
	if v == nil {
		return nil
	}
	return r.AddOptionalParameter(name, strconv.Itoa(*v))
}

// AddOptionalInt64 adds the value when v is non-nil.
func (r *Request) AddOptionalInt64(name string, v *int64) error {
	if v == nil {
		return nil
	}
	return r.AddOptionalParameter(name, strconv.FormatInt(*v, 10))
}

// AddOptionalTime adds the RFC 3339 form of v when v is non-nil.
func (r *Request) AddOptionalTime(name string, v *time.Time) error {
	if v == nil {
		return nil
	}
	return r.AddOptionalParameter(name, v.Format(time.RFC3339))
}

// Parameters returns a copy of the parameters in insertion order.
func (r *Request) Parameters() []Parameter {
	out := make([]Parameter, len(r.params))
	copy(out, r.params)
	return out
}

// QueryString renders "?a=1&b=2" in insertion order, or "" when there are no parameters.
func (r *Request) QueryString() string {
	if len(r.params) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('?')
	for i, p := range r.params {
		if i > 0 {
			b.WriteByte('&')
		}
		if r.RawValues {
			b.WriteString(p.Name)
			b.WriteByte('=')
			b.WriteString(p.Value)
			continue
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// URL is the base address followed by the rendered query string.
func (r *Request) URL() string {
	return r.BaseURL + r.QueryString()
}

func (r *Request) method() string {
	if m := strings.TrimSpace(r.Method); m != "" {
		return strings.ToUpper(m)
	}
	return http.MethodGet
}
