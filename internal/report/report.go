// Package report delivers occupancy events to the remote parking service
// over HTTP, with abstraction for testing.
package report

import (
	"context"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

// Reporter sends an event notification to the remote endpoint.
type Reporter interface {
	// Report delivers the event and returns the service acknowledgement.
	// Returns an error on network failure, timeout, non-2xx status, or a
	// success=false acknowledgement. Must never block past the configured
	// timeout.
	Report(ctx context.Context, event logic.Event) (Ack, error)
}

// Ack is the service acknowledgement for a reported event.
type Ack struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *AckData `json:"data,omitempty"`
}

// AckData carries the server-side record of the accepted event.
type AckData struct {
	EventType string `json:"event_type"`
	EventTime string `json:"event_time"` // ISO8601
	ID        int64  `json:"id"`
}

// SpotStatus is the server-side view of the spot, from GET /status.
type SpotStatus struct {
	Occupied  bool     `json:"occupied"`
	Status    string   `json:"status"`
	LastEvent *AckData `json:"last_event,omitempty"`
}

// StatusResponse is the envelope for GET /status.
type StatusResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *SpotStatus `json:"data,omitempty"`
}

// EventsResponse is the envelope for GET /events.
type EventsResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    []AckData `json:"data,omitempty"`
	Total   int       `json:"total"`
}
