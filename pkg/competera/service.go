// Package competera is a thin façade over the Competera REST API.
//
// Every call authenticates with query parameters (username, api_key and
// format=json) appended to the request before it is handed to the shared
// apiclient executor.
package competera

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/competera-client/pkg/apiclient"
)

const (
	sessionUserPath = "session/user"

	paramUsername = "username"
	paramAPIKey   = "api_key"
	paramFormat   = "format"
	formatJSON    = "json"
)

// Credentials identify the account used for every call.
type Credentials struct {
	BaseURL  string
	Username string
	APIKey   string
}

// Service assembles Competera requests and delegates them to an apiclient.Client.
type Service struct {
	client *apiclient.Client
	creds  Credentials
}

// NewService binds credentials to an executor. A nil client gets a default one.
// The base URL always ends with "/" so relative paths concatenate cleanly.
func NewService(creds Credentials, client *apiclient.Client) *Service {
	if client == nil {
		client = apiclient.NewClient()
	}
	creds.BaseURL = strings.TrimSpace(creds.BaseURL)
	if creds.BaseURL != "" && !strings.HasSuffix(creds.BaseURL, "/") {
		creds.BaseURL += "/"
	}
	return &Service{client: client, creds: creds}
}

// BaseURL returns the normalized API root.
func (s *Service) BaseURL() string { return s.creds.BaseURL }

// Test is a connectivity probe: it fetches the current session user and
// discards the payload. It reports true once the call completes without an
// API error, including when ctx was already cancelled.
func (s *Service) Test(ctx context.Context) (bool, error) {
	req, err := s.newRequest(sessionUserPath)
	if err != nil {
		return false, err
	}

	if _, err := apiclient.Execute[any](ctx, s.client, req); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) newRequest(path string) (*apiclient.Request, error) {
	req := apiclient.NewRequest(s.creds.BaseURL + path)
	if err := s.appendAuthParams(req); err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	return req, nil
}

func (s *Service) appendAuthParams(req *apiclient.Request) error {
	if err := req.AddParameter(paramUsername, s.creds.Username); err != nil {
		return err
	}
	if err := req.AddParameter(paramAPIKey, s.creds.APIKey); err != nil {
		return err
	}
	return req.AddParameter(paramFormat, formatJSON)
}
