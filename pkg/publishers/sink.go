package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samvad-hq/competera-client/pkg/httpclient"
)

// Logger is the logging surface sinks report deliveries through.
type Logger = httpclient.Logger

// sendFunc hands one encoded event to a transport. attrs carry the routing
// metadata each transport exposes natively (message attributes, headers).
type sendFunc func(ctx context.Context, body []byte, attrs map[string]string) (receipt string, err error)

// sink is the single Publisher implementation; transports differ only in send.
type sink struct {
	id    string
	typ   string
	send  sendFunc
	close func() error
	log   Logger
}

func newSink(cfg PublisherConfig, send sendFunc, log Logger) *sink {
	return &sink{
		id:   cfg.ID,
		typ:  cfg.Type,
		send: send,
		log:  httpclient.OrNop(log),
	}
}

func (s *sink) ID() string   { return s.id }
func (s *sink) Type() string { return s.typ }

// Publish encodes evt as JSON and sends it with the service and status attributes.
func (s *sink) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	receipt, err := s.send(ctx, body, eventAttributes(evt))
	if err != nil {
		s.log.ErrorObj("event delivery failed", "publisher_error", map[string]any{
			"publisher_id":   s.id,
			"publisher_type": s.typ,
			"event_id":       evt.EventID,
			"error":          err.Error(),
		})
		return err
	}
	s.log.DebugObj("event delivered", "publisher_delivery", map[string]any{
		"publisher_id":   s.id,
		"publisher_type": s.typ,
		"event_id":       evt.EventID,
		"receipt":        receipt,
	})
	return nil
}

// Close releases transport resources, if the transport holds any.
func (s *sink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// eventAttributes is the routing metadata attached to every delivery.
func eventAttributes(evt Event) map[string]string {
	return map[string]string{
		"service": evt.Service,
		"status":  evt.Status(),
	}
}
