package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string       `json:"event,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	Spot           string       `json:"spot"`
	Ready          bool         `json:"ready"`
	LastDistanceCm float64      `json:"last_distance_cm"`
	UptimeSeconds  int64        `json:"uptime_seconds"`
	StartTime      string       `json:"start_time"`
	Timestamp      string       `json:"timestamp"`
	Report         ReportStatus `json:"report"`
	MQTT           *MQTTStatus  `json:"mqtt,omitempty"`
	Counts         CountsJSON   `json:"event_counts"`
	SensorFailures int          `json:"sensor_failures"`
	Config         ConfigJSON   `json:"config"`
}

// ReportStatus reports delivery health toward the parking service.
type ReportStatus struct {
	LastOK      bool   `json:"last_ok"`
	LastMessage string `json:"last_message,omitempty"`
	Pending     int    `json:"pending"`
	BaseURL     string `json:"base_url"`
}

// MQTTStatus reports MQTT mirror connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Arrivals   int `json:"arrivals"`
	Departures int `json:"departures"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SonarPin       int     `json:"sonar_pin"`
	LEDPin         int     `json:"led_pin"`
	ThresholdCm    float64 `json:"distance_threshold_cm"`
	PollMs         int64   `json:"poll_ms"`
	RetryAttempts  int     `json:"max_retry_attempts"`
	RetryDelayMs   int64   `json:"sensor_retry_delay_ms"`
	ConfirmSamples int     `json:"confirm_samples"`
	HeartbeatMs    int64   `json:"heartbeat_ms"`
	TimeoutMs      int64   `json:"timeout_ms"`
	HTTPAddr       string  `json:"http_addr"`
	MQTTBroker     string  `json:"mqtt_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Spot:           string(snap.State),
		Ready:          snap.Baselined,
		LastDistanceCm: snap.LastDistanceCm,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		Report: ReportStatus{
			LastOK:      snap.LastReportOK,
			LastMessage: snap.LastReportMsg,
			Pending:     snap.OutboxPending,
			BaseURL:     snap.Config.BaseURL,
		},
		Counts: CountsJSON{
			Arrivals:   snap.Counts.Arrivals,
			Departures: snap.Counts.Departures,
		},
		SensorFailures: snap.SensorFailures,
		Config: ConfigJSON{
			SonarPin:       snap.Config.SonarPin,
			LEDPin:         snap.Config.LEDPin,
			ThresholdCm:    snap.Config.ThresholdCm,
			PollMs:         snap.Config.PollMs,
			RetryAttempts:  snap.Config.RetryAttempts,
			RetryDelayMs:   snap.Config.RetryDelayMs,
			ConfirmSamples: snap.Config.ConfirmSamples,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			TimeoutMs:      snap.Config.TimeoutMs,
			HTTPAddr:       snap.Config.HTTPAddr,
			MQTTBroker:     snap.Config.MQTTBroker,
		},
	}

	if snap.Config.MQTTBroker != "" {
		inner.MQTT = &MQTTStatus{
			Connected: snap.MQTTConnected,
			Broker:    snap.Config.MQTTBroker,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
