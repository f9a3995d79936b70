package report

import (
	"context"
	"strings"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

// FakeReporter records reported events for test assertions.
type FakeReporter struct {
	// Events contains all events that were successfully reported.
	Events []logic.Event

	// Attempts counts every Report call, including failed ones.
	Attempts int

	// FailNext makes the next n Report calls fail with ReportError.
	FailNext int

	// ReportError is returned while FailNext > 0 (or always, if FailNext
	// is negative).
	ReportError error

	// Message is echoed in acknowledgements.
	Message string
}

// NewFakeReporter creates a FakeReporter for testing.
func NewFakeReporter() *FakeReporter {
	return &FakeReporter{Message: "ok"}
}

// Report records the event, honoring scripted failures.
func (f *FakeReporter) Report(ctx context.Context, event logic.Event) (Ack, error) {
	f.Attempts++

	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}

	if f.FailNext != 0 && f.ReportError != nil {
		if f.FailNext > 0 {
			f.FailNext--
		}
		return Ack{}, f.ReportError
	}

	f.Events = append(f.Events, event)
	return Ack{
		Success: true,
		Message: f.Message,
		Data: &AckData{
			EventType: strings.ToLower(string(event.Type)),
			EventTime: event.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
			ID:        int64(len(f.Events)),
		},
	}, nil
}

// Reset clears recorded events.
func (f *FakeReporter) Reset() {
	f.Events = nil
	f.Attempts = 0
	f.FailNext = 0
	f.ReportError = nil
}
