package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

func testEvent(typ logic.EventType) logic.Event {
	state := logic.StateOccupied
	if typ == logic.EventDeparture {
		state = logic.StateEmpty
	}
	return logic.Event{
		Timestamp:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Type:       typ,
		State:      state,
		DistanceCm: 8,
	}
}

func TestReportArrival(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"event recorded","data":{"event_type":"arrival","event_time":"2026-01-01T12:00:00Z","id":17}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	ack, err := c.Report(context.Background(), testEvent(logic.EventArrival))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method: got %s, want POST", gotMethod)
	}
	if gotPath != "/arrival" {
		t.Errorf("path: got %s, want /arrival", gotPath)
	}
	if !ack.Success {
		t.Error("expected success acknowledgement")
	}
	if ack.Data == nil || ack.Data.ID != 17 {
		t.Errorf("ack data: got %+v, want id 17", ack.Data)
	}
}

func TestReportDeparturePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Report(context.Background(), testEvent(logic.EventDeparture)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/departure" {
		t.Errorf("path: got %s, want /departure", gotPath)
	}
}

func TestReportRejectedByServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Spot already occupied server-side: HTTP 200 with success=false.
		w.Write([]byte(`{"success":false,"message":"spot already occupied"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Report(context.Background(), testEvent(logic.EventArrival))
	if err == nil {
		t.Fatal("expected error for success=false acknowledgement")
	}
}

func TestReportNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Report(context.Background(), testEvent(logic.EventArrival)); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestReportConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // server gone

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Report(context.Background(), testEvent(logic.EventArrival)); err == nil {
		t.Fatal("expected error when service is unreachable")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < 10; i++ {
		if _, err := c.Report(context.Background(), testEvent(logic.EventArrival)); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	// Breaker trips after 5 consecutive failures; later calls fail fast
	// without reaching the server.
	if requests >= 10 {
		t.Errorf("expected breaker to stop requests, server saw %d", requests)
	}
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"success":true,"data":{"occupied":true,"status":"occupied","last_event":{"event_type":"arrival","event_time":"2026-01-01T12:00:00Z","id":3}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	st, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Occupied {
		t.Error("expected occupied=true")
	}
	if st.LastEvent == nil || st.LastEvent.ID != 3 {
		t.Errorf("last event: got %+v, want id 3", st.LastEvent)
	}
}

func TestEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"success":true,"data":[{"event_type":"arrival","event_time":"2026-01-01T12:00:00Z","id":1},{"event_type":"departure","event_time":"2026-01-01T13:00:00Z","id":2}],"total":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	events, total, err := c.Events(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(events) != 2 {
		t.Fatalf("got %d events (total %d), want 2", len(events), total)
	}
	if events[1].EventType != "departure" {
		t.Errorf("event 1 type: got %s, want departure", events[1].EventType)
	}
}
