package logic

import "time"

// Monitor converts a stream of distance samples into a minimal sequence of
// arrival/departure events. It owns the occupancy state exclusively; callers
// must not share it across goroutines.
type Monitor struct {
	thresholdCm    float64
	confirmSamples int

	state     State
	candidate State
	run       int

	startTime     time.Time
	lastHeartbeat time.Time
	counts        EventCounts
}

// NewMonitor creates a monitor with the given classification threshold and
// confirmation count. confirmSamples is the number of consecutive samples
// that must agree before a transition (or the initial baseline) is
// confirmed; values below 1 are treated as 1, which matches the reference
// single-reading behavior. The startTime is used for uptime in heartbeats.
func NewMonitor(thresholdCm float64, confirmSamples int, startTime time.Time) *Monitor {
	if confirmSamples < 1 {
		confirmSamples = 1
	}
	return &Monitor{
		thresholdCm:    thresholdCm,
		confirmSamples: confirmSamples,
		state:          StateUnknown,
		startTime:      startTime,
		lastHeartbeat:  startTime,
	}
}

// Process takes a new distance sample and returns the event to emit, or nil.
// At most one event is produced per sample. Leaving StateUnknown for
// StateEmpty establishes the baseline without an event, so a restart in
// front of an empty spot never produces a false departure.
func (m *Monitor) Process(s Sample) *Event {
	cand := m.classify(s.DistanceCm)

	if cand == m.state {
		// Matches the confirmed state, clear any pending candidate.
		m.candidate = ""
		m.run = 0
		return nil
	}

	if m.candidate != cand {
		m.candidate = cand
		m.run = 1
	} else {
		m.run++
	}

	if m.run < m.confirmSamples {
		return nil
	}

	prev := m.state
	m.state = cand
	m.candidate = ""
	m.run = 0

	if prev == StateUnknown && cand == StateEmpty {
		// Baseline established, nothing to report.
		return nil
	}

	var typ EventType
	if cand == StateOccupied {
		typ = EventArrival
		m.counts.Arrivals++
	} else {
		typ = EventDeparture
		m.counts.Departures++
	}

	return &Event{
		Timestamp:  s.Time,
		Type:       typ,
		State:      cand,
		DistanceCm: s.DistanceCm,
	}
}

func (m *Monitor) classify(distanceCm float64) State {
	if distanceCm <= m.thresholdCm {
		return StateOccupied
	}
	return StateEmpty
}

// State returns the current confirmed occupancy state.
func (m *Monitor) State() State {
	return m.state
}

// IsBaselined returns whether the monitor has left the initial UNKNOWN state.
func (m *Monitor) IsBaselined() bool {
	return m.state != StateUnknown
}

// EventCountsSnapshot returns a copy of the event counts.
func (m *Monitor) EventCountsSnapshot() EventCounts {
	return m.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !m.IsBaselined() {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		State:     m.state,
		Counts:    m.counts,
	}
}
