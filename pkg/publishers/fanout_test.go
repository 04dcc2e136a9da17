package publishers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	calls    int
	closed   bool
	closeErr error
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return s.closeErr
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
		nil,
	})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

// gatePublisher blocks until every gate member has started publishing.
type gatePublisher struct {
	id      string
	started *sync.WaitGroup
}

func (g gatePublisher) ID() string   { return g.id }
func (g gatePublisher) Type() string { return "gate" }
func (g gatePublisher) Publish(ctx context.Context, _ Event) error {
	g.started.Done()
	done := make(chan struct{})
	go func() {
		g.started.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestFanoutPublishesConcurrently(t *testing.T) {
	var started sync.WaitGroup
	started.Add(2)
	fanout := NewFanout([]Publisher{
		gatePublisher{id: "a", started: &started},
		gatePublisher{id: "b", started: &started},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	count, err := fanout.Publish(ctx, Event{})
	if err != nil || count != 2 {
		t.Fatalf("expected both sinks to run together, got %d, %v", count, err)
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	a := &stubPublisher{id: "a", typ: "pubsub"}
	b := &stubPublisher{id: "b", typ: "pubsub", closeErr: errors.New("close failed")}
	fanout := NewFanout([]Publisher{a, b})

	if err := fanout.Close(); err == nil {
		t.Fatalf("expected close error to surface")
	}
	if !a.closed || !b.closed {
		t.Fatalf("expected every publisher closed")
	}
}

func TestRegistryBuild(t *testing.T) {
	pubs, err := DefaultRegistry().Build(context.Background(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "hook" || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestRegistryBuildClosesOnFailure(t *testing.T) {
	built := &stubPublisher{id: "first", typ: "stub"}
	reg := Registry{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
		"bad":  func(context.Context, PublisherConfig, Logger) (Publisher, error) { return nil, errors.New("no creds") },
	}

	_, err := reg.Build(context.Background(), []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "bad"},
	}, nil)
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !built.closed {
		t.Fatalf("expected already built publisher to be closed")
	}

	if _, err := reg.Build(context.Background(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
