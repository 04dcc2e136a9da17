package probe

import (
	"context"

	"github.com/samvad-hq/competera-client/internal/domain"
	"github.com/samvad-hq/competera-client/pkg/publishers"
)

// Prober checks that the remote API accepts the configured credentials.
type Prober interface {
	Test(ctx context.Context) (bool, error)
	BaseURL() string
}

// Recorder journals probe results.
type Recorder interface {
	Record(res domain.ProbeResult) error
}

// EventPublisher publishes probe events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
