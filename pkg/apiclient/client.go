package apiclient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/competera-client/pkg/httpclient"
)

// DefaultTimeout bounds a single call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client executes Requests against a JSON API. Transport settings are fixed
// at construction, so a Client is safe for concurrent use.
type Client struct {
	http *resty.Client
	log  Logger
}

type clientOptions struct {
	timeout   time.Duration
	transport http.RoundTripper
	log       Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithTransport replaces the default TLS 1.2+/decompressing transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithLogger sets the logger used for call diagnostics.
func WithLogger(log Logger) Option {
	return func(o *clientOptions) {
		o.log = log
	}
}

// NewClient builds a Client. The transport is configured once here and
// reused by every call.
func NewClient(opts ...Option) *Client {
	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	log := httpclient.OrNop(o.log)
	rc := httpclient.NewRestyClientWithTransport(o.timeout, o.transport)
	rc.SetAllowGetMethodPayload(true)
	rc.SetLogger(restyLogger{log: log})

	return &Client{http: rc, log: log}
}

// Response is the envelope returned for a successful call.
type Response[T any] struct {
	RawBytes []byte
	Data     T
	// Headers holds response headers; repeated values are joined with ";".
	Headers map[string]string
	// FromCache is never set; responses are not cached.
	FromCache bool
}

type callOptions struct {
	headers http.Header
	decoder Decoder
}

// CallOption configures a single call.
type CallOption func(*callOptions)

// WithHeaders adds custom request headers. Values are appended, so a name
// already present keeps its earlier values.
func WithHeaders(h http.Header) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		for name, values := range h {
			for _, v := range values {
				o.headers.Add(name, v)
			}
		}
	}
}

// WithDecoder overrides JSON decoding of the selected response node.
func WithDecoder(d Decoder) CallOption {
	return func(o *callOptions) {
		o.decoder = d
	}
}

// Execute performs req and returns only the decoded payload.
func Execute[T any](ctx context.Context, c *Client, req *Request, opts ...CallOption) (T, error) {
	data, _, err := ExecuteWithHeaders[T](ctx, c, req, opts...)
	return data, err
}

// ExecuteWithHeaders performs req and returns the decoded payload with the response headers.
func ExecuteWithHeaders[T any](ctx context.Context, c *Client, req *Request, opts ...CallOption) (T, map[string]string, error) {
	var zero T
	resp, err := ExecuteResponse[T](ctx, c, req, opts...)
	if err != nil {
		return zero, nil, err
	}
	return resp.Data, resp.Headers, nil
}

// ExecuteResponse performs req with a single attempt.
//
// A cancelled ctx, before or during the call, yields an empty Response and a
// nil error. Every failure is returned as a *ServiceError.
func ExecuteResponse[T any](ctx context.Context, c *Client, req *Request, opts ...CallOption) (*Response[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return &Response[T]{}, nil
	}
	if c == nil || c.http == nil {
		return nil, newServiceError(APIError{Code: TransportErrorCode, Message: "api client is not initialized"}, nil)
	}
	if req == nil {
		return nil, newServiceError(APIError{Code: TransportErrorCode, Message: "api request is nil"}, nil)
	}

	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}

	target := req.URL()
	r := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if req.AuthHeader != "" {
		r.SetHeader("Authorization", req.AuthHeader)
	}
	for name, values := range call.headers {
		for _, v := range values {
			r.Header.Add(name, v)
		}
	}
	if req.Body != "" {
		r.SetBody(req.Body)
	}

	c.log.DebugObj("api request", "api_request", map[string]any{
		"method": req.method(),
		"url":    req.BaseURL,
		"params": len(req.params),
	})

	resp, err := r.Execute(req.method(), target)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			c.log.DebugObj("api request cancelled", "api_request", map[string]any{
				"url": req.BaseURL,
			})
			return &Response[T]{}, nil
		}
		svcErr := transportError(err)
		c.log.WarnObj("api transport failure", "api_error", map[string]any{
			"url":   req.BaseURL,
			"error": svcErr.APIErrorMessage(),
		})
		return nil, svcErr
	}
	if resp == nil || resp.RawResponse == nil {
		return nil, newServiceError(APIError{}, nil)
	}

	body := resp.Body()
	if apiErr := detectError(resp.StatusCode(), reasonPhrase(resp), body, requestURI(resp, target)); apiErr != nil {
		c.log.WarnObj("api error response", "api_error", map[string]any{
			"url":    req.BaseURL,
			"status": resp.StatusCode(),
			"code":   apiErr.Code,
			"body":   httpclient.Snippet(body, resp.Header().Get("Content-Type")),
		})
		return nil, newServiceError(*apiErr, nil)
	}

	data, err := decodeJSON[T](body, req.Path, call.decoder)
	if err != nil {
		return nil, transportError(err)
	}

	return &Response[T]{
		RawBytes: body,
		Data:     data,
		Headers:  joinHeaders(resp.Header()),
	}, nil
}

func joinHeaders(h http.Header) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[name] = strings.Join(values, ";")
	}
	return out
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(resp *resty.Response) string {
	status := strings.TrimSpace(resp.Status())
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(resp.StatusCode())))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode())
	}
	return reason
}

func requestURI(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}
