package mqtt

import (
	"github.com/beenjammin/parking-sensor/internal/logic"
)

// FakePublisher records everything published so tests can assert on both the
// events and the exact wire payloads.
type FakePublisher struct {
	Events         []logic.Event
	Payloads       [][]byte
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Connected controls the return value of IsConnected.
	Connected bool

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the occupancy event and its payload.
func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishSystem records the system event and its payload.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}
