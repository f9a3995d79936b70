// Package logic contains pure business logic for parking spot occupancy
// tracking. This package has NO external dependencies (no sensor, HTTP, OS,
// or time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the believed occupancy of the monitored spot.
type State string

const (
	// StateUnknown is the initial state before the first confirmed reading.
	// Once left, it is never re-entered.
	StateUnknown  State = "UNKNOWN"
	StateEmpty    State = "EMPTY"
	StateOccupied State = "OCCUPIED"
)

// EventType represents a confirmed occupancy transition.
type EventType string

const (
	EventArrival   EventType = "ARRIVAL"
	EventDeparture EventType = "DEPARTURE"
)

// Sample is a single distance measurement handed to the monitor.
type Sample struct {
	DistanceCm float64
	Time       time.Time
}

// Event represents a confirmed transition to be reported.
type Event struct {
	Timestamp  time.Time
	Type       EventType
	State      State // state after the transition
	DistanceCm float64
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Arrivals   int
	Departures int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Counts    EventCounts
}
