package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

// bufferCapacity bounds how many messages are held while disconnected.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Messages published
// while the connection is down go into a replay buffer and are re-sent on
// reconnect.
type RealPublisher struct {
	client paho.Client

	mu      sync.Mutex
	pending *replayBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		pending: newReplayBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("parking-sensor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c paho.Client) {
			p.replay(c)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// Publish sends an occupancy event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 1 (at-least-once), not retained
	return p.publish(Topic, payload, 1, false)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	return p.publish(TopicSystem, payload, 1, event.Retained)
}

func (p *RealPublisher) publish(topic string, payload []byte, qos byte, retained bool) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.pending.push(pendingMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.pending.len()
		p.mu.Unlock()
		log.Printf("mqtt: broker unreachable, buffered message (%d pending)", n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replay re-sends buffered messages after a reconnect. Runs on paho's
// connection goroutine.
func (p *RealPublisher) replay(c paho.Client) {
	p.mu.Lock()
	msgs := p.pending.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := c.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay failed on %s: %v", m.topic, err)
		}
	}
}

// IsConnected reports whether the broker connection is active.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
