package mqtt

import "log"

// pendingMsg stores a serialized MQTT message for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayBuffer is a fixed-capacity FIFO holding messages published while the
// broker connection is down. Not safe for concurrent use — the publisher
// synchronizes access.
type replayBuffer struct {
	buf      []pendingMsg
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newReplayBuffer(capacity int) *replayBuffer {
	return &replayBuffer{
		buf:      make([]pendingMsg, capacity),
		capacity: capacity,
	}
}

func (r *replayBuffer) push(msg pendingMsg) {
	if r.count == r.capacity {
		if !r.overflow {
			log.Printf("mqtt: replay buffer full (%d messages), dropping oldest", r.capacity)
			r.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = msg
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = msg
	r.head = (r.head + 1) % r.capacity
	r.count++
}

func (r *replayBuffer) drainAll() []pendingMsg {
	if r.count == 0 {
		return nil
	}

	result := make([]pendingMsg, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	r.overflow = false
	return result
}

func (r *replayBuffer) len() int {
	return r.count
}
