package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

// maxAckBody bounds how much of a response body is read.
const maxAckBody = 64 * 1024

// Client reports events to the parking service over HTTP. Calls go through
// a circuit breaker so a dead service costs one failed call per open window
// instead of a full timeout every poll cycle.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a client for the given base URL. Every request is
// bounded by the given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "parking-api",
			Interval: time.Minute,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Report POSTs the event to /arrival or /departure and decodes the
// acknowledgement.
func (c *Client) Report(ctx context.Context, event logic.Event) (Ack, error) {
	path := "/departure"
	if event.Type == logic.EventArrival {
		path = "/arrival"
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, path)
	})
	if err != nil {
		return Ack{}, fmt.Errorf("report %s: %w", event.Type, err)
	}
	return res.(Ack), nil
}

func (c *Client) post(ctx context.Context, path string) (Ack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return Ack{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBody))
	if err != nil {
		return Ack{}, fmt.Errorf("read response: %w", err)
	}

	var ack Ack
	if err := json.Unmarshal(body, &ack); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Ack{}, fmt.Errorf("status %d", resp.StatusCode)
		}
		return Ack{}, fmt.Errorf("decode acknowledgement: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !ack.Success {
		return Ack{}, fmt.Errorf("status %d: %s", resp.StatusCode, ack.Message)
	}
	return ack, nil
}

// Status fetches the server-side spot state from GET /status.
func (c *Client) Status(ctx context.Context) (*SpotStatus, error) {
	var sr StatusResponse
	if err := c.get(ctx, "/status", &sr); err != nil {
		return nil, err
	}
	if !sr.Success || sr.Data == nil {
		return nil, fmt.Errorf("status query failed: %s", sr.Message)
	}
	return sr.Data, nil
}

// Events fetches the server-side event history from GET /events.
func (c *Client) Events(ctx context.Context) ([]AckData, int, error) {
	var er EventsResponse
	if err := c.get(ctx, "/events", &er); err != nil {
		return nil, 0, err
	}
	if !er.Success {
		return nil, 0, fmt.Errorf("events query failed: %s", er.Message)
	}
	return er.Data, er.Total, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
