package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/competera-client/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	EventID   string             `json:"event_id"`
	Service   string             `json:"service"`
	Probe     domain.ProbeResult `json:"probe"`
	EmittedAt time.Time          `json:"emitted_at"`
}

// NewEvent constructs an Event for the given service + probe result.
func NewEvent(service string, res domain.ProbeResult) Event {
	return Event{
		EventID:   uuid.NewString(),
		Service:   service,
		Probe:     res,
		EmittedAt: time.Now().UTC(),
	}
}

// Status is "up" for successful probes and "down" otherwise.
func (e Event) Status() string {
	if e.Probe.OK {
		return "up"
	}
	return "down"
}
