package publishers

import (
	"context"
	"fmt"
)

// Builder creates a Publisher from a prepared config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps sink types to builders.
type Registry map[string]Builder

// DefaultRegistry knows every built-in sink type.
func DefaultRegistry() Registry {
	return Registry{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	}
}

// Build instantiates one publisher per config. On failure the publishers
// already built are closed and nothing is returned.
func (r Registry) Build(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		build, ok := r[cfg.Type]
		if !ok {
			_ = closeAll(pubs)
			return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			_ = closeAll(pubs)
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
