package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/competera-client/internal/domain"
)

func webhookConfig(url string) PublisherConfig {
	cfg := PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPConfig{URL: url, Headers: map[string]string{"X-Test": "1"}, TimeoutSeconds: 2},
	}
	cfg.HTTP.normalize()
	return cfg
}

func TestWebhookDeliversEvent(t *testing.T) {
	var received Event
	var status string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %s", got)
		}
		status = r.Header.Get("X-Event-Status")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), webhookConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	evt := NewEvent("competera", domain.ProbeResult{ID: "p1", OK: true, LatencyMs: 12})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if received.EventID != evt.EventID || received.Probe.LatencyMs != 12 {
		t.Fatalf("server received %#v", received)
	}
	if status != "up" {
		t.Fatalf("X-Event-Status = %q", status)
	}
}

func TestWebhookErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html><head><title>Bad Gateway</title></head></html>"))
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), webhookConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	err = pub.Publish(context.Background(), Event{})
	if err == nil || !strings.Contains(err.Error(), "502: Bad Gateway") {
		t.Fatalf("expected html title in error, got %v", err)
	}
}
