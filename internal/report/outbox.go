package report

import (
	"context"
	"log"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

// Outbox is a bounded in-order queue of events awaiting acknowledgement.
// Local occupancy state advances as soon as a transition is confirmed; the
// outbox retries delivery each poll cycle until the service acknowledges,
// giving at-least-once delivery without blocking the loop. When full, the
// oldest event is dropped so divergence from the remote side stays bounded.
// Not safe for concurrent use — owned by the polling loop.
type Outbox struct {
	reporter Reporter
	queue    []logic.Event
	capacity int
	overflow bool
}

// NewOutbox creates an Outbox delivering through the given reporter.
func NewOutbox(r Reporter, capacity int) *Outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &Outbox{reporter: r, capacity: capacity}
}

// Add enqueues an event for delivery. If the queue is full, the oldest
// pending event is dropped.
func (o *Outbox) Add(event logic.Event) {
	if len(o.queue) == o.capacity {
		if !o.overflow {
			log.Printf("report: outbox full (%d events), dropping oldest", o.capacity)
			o.overflow = true
		}
		o.queue = o.queue[1:]
	}
	o.queue = append(o.queue, event)
}

// Flush attempts to deliver pending events in order, stopping at the first
// failure (the failed event stays queued for the next cycle). Returns the
// number of events delivered and the error that stopped the flush, if any.
func (o *Outbox) Flush(ctx context.Context) (int, error) {
	delivered := 0
	for len(o.queue) > 0 {
		event := o.queue[0]
		ack, err := o.reporter.Report(ctx, event)
		if err != nil {
			return delivered, err
		}
		log.Printf("report: %s acknowledged: %s", event.Type, ack.Message)
		o.queue = o.queue[1:]
		delivered++
		o.overflow = false
	}
	return delivered, nil
}

// Pending returns the number of unacknowledged events.
func (o *Outbox) Pending() int {
	return len(o.queue)
}
