package competera

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/competera-client/pkg/apiclient"
)

func TestServiceTestSendsAuthParams(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"id":1,"username":"demo"}`)
	}))
	defer srv.Close()

	svc := NewService(Credentials{
		BaseURL:  srv.URL + "/api/v1",
		Username: "demo",
		APIKey:   "secret",
	}, apiclient.NewClient(apiclient.WithTimeout(2*time.Second)))

	ok, err := svc.Test(context.Background())
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
	if gotPath != "/api/v1/session/user" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "username=demo&api_key=secret&format=json" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestServiceTestSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "invalid api key")
	}))
	defer srv.Close()

	svc := NewService(Credentials{BaseURL: srv.URL + "/", Username: "u", APIKey: "bad"}, nil)
	ok, err := svc.Test(context.Background())
	if ok {
		t.Fatalf("expected false on error")
	}
	var svcErr *apiclient.ServiceError
	if !errors.As(err, &svcErr) || svcErr.APIErrorCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401 ServiceError, got %v", err)
	}
}

func TestServiceTestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(Credentials{BaseURL: "http://127.0.0.1:1"}, nil)
	ok, err := svc.Test(ctx)
	if err != nil || !ok {
		t.Fatalf("cancelled probe should resolve to (true, nil), got (%v, %v)", ok, err)
	}
}

func TestNewServiceNormalizesBaseURL(t *testing.T) {
	svc := NewService(Credentials{BaseURL: " https://api.example.com/v1 "}, nil)
	if svc.BaseURL() != "https://api.example.com/v1/" {
		t.Fatalf("BaseURL = %q", svc.BaseURL())
	}
}
