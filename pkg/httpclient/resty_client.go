package httpclient

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// NewRestyHTTPClient exposes a configured resty.Client backed by the shared transport.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout, NewTransport())
}

// NewRestyClientWithTransport builds a resty.Client on top of the given round tripper.
// A nil transport falls back to NewTransport.
func NewRestyClientWithTransport(timeout time.Duration, transport http.RoundTripper) *resty.Client {
	if transport == nil {
		transport = NewTransport()
	}
	return newRestyBaseClient(timeout, transport)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout and transport.
// Retries stay disabled: every call is a single attempt.
func newRestyBaseClient(timeout time.Duration, transport http.RoundTripper) *resty.Client {
	c := resty.New()
	c.SetTransport(transport)
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}
