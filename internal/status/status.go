// Package status provides a thread-safe status tracker for the
// parking-sensor daemon. It is read by the HTTP handlers and feeds the MQTT
// system event payloads.
package status

import (
	"sync"
	"time"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	SonarPin       int
	LEDPin         int
	ThresholdCm    float64
	PollMs         int64
	RetryAttempts  int
	RetryDelayMs   int64
	ConfirmSamples int
	HeartbeatMs    int64
	BaseURL        string
	TimeoutMs      int64
	HTTPAddr       string
	MQTTBroker     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State          logic.State
	Baselined      bool
	Counts         logic.EventCounts
	LastDistanceCm float64
	SensorFailures int
	OutboxPending  int
	LastReportOK   bool
	LastReportMsg  string
	MQTTConnected  bool
	StartTime      time.Time
	Now            time.Time
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:        logic.StateUnknown,
			StartTime:    startTime,
			Config:       cfg,
			LastReportOK: true,
		},
	}
}

// Update sets occupancy state, baseline status, event counts, and the last
// measured distance. Called from the poll loop on every successful cycle.
func (t *Tracker) Update(state logic.State, baselined bool, counts logic.EventCounts, distanceCm float64) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Baselined = baselined
	t.snap.Counts = counts
	t.snap.LastDistanceCm = distanceCm
	t.mu.Unlock()
}

// AddSensorFailure increments the skipped-cycle counter.
func (t *Tracker) AddSensorFailure() {
	t.mu.Lock()
	t.snap.SensorFailures++
	t.mu.Unlock()
}

// SetOutboxPending sets the number of unacknowledged events.
func (t *Tracker) SetOutboxPending(n int) {
	t.mu.Lock()
	t.snap.OutboxPending = n
	t.mu.Unlock()
}

// SetReport records the outcome of the last delivery attempt.
func (t *Tracker) SetReport(ok bool, msg string) {
	t.mu.Lock()
	t.snap.LastReportOK = ok
	t.snap.LastReportMsg = msg
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT mirror connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
