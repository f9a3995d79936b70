// Command parking-sensor monitors a parking spot with an ultrasonic ranger,
// drives the spot LED, and reports arrival/departure events to the parking
// service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beenjammin/parking-sensor/internal/config"
	"github.com/beenjammin/parking-sensor/internal/led"
	"github.com/beenjammin/parking-sensor/internal/logic"
	"github.com/beenjammin/parking-sensor/internal/logging"
	"github.com/beenjammin/parking-sensor/internal/metrics"
	"github.com/beenjammin/parking-sensor/internal/mqtt"
	"github.com/beenjammin/parking-sensor/internal/report"
	"github.com/beenjammin/parking-sensor/internal/sonar"
	"github.com/beenjammin/parking-sensor/internal/status"
	"github.com/beenjammin/parking-sensor/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/parking-sensor/config.yaml", "Path to YAML configuration")
	printState := flag.Bool("print-state", false, "Read the sensor once, print the spot state, and exit")
	remoteStatus := flag.Bool("remote-status", false, "Query the parking service for the spot status and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState, *remoteStatus); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		log.Printf("config file %s not found, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}

func run(cfg config.Config, printState, remoteStatus bool) error {
	if printState {
		return runPrintState(cfg)
	}
	if remoteStatus {
		return runRemoteStatus(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logCloser, err := logging.Setup(cfg.Level, cfg.FilePath)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Initialize sensor
	reader, err := sonar.NewIIOReader(cfg.IIODevice)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	// Initialize LED indicator
	indicator, err := led.NewRealIndicator(cfg.LEDPin)
	if err != nil {
		return fmt.Errorf("init indicator: %w", err)
	}
	defer indicator.Close()

	// Initialize event delivery
	client := report.NewClient(cfg.BaseURL, cfg.Timeout())
	outbox := report.NewOutbox(client, cfg.OutboxCapacity)

	// Optional local MQTT mirror
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTTBroker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTTBroker)
		if err != nil {
			logger.Warn("mqtt mirror unavailable, continuing without it", "error", err)
		} else {
			publisher = p
			mqttStatus = p
			defer p.Close()
		}
	}

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			logger.Warn("failed to publish startup event", "error", err)
		} else {
			logger.Info("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("http status server listening", "addr", cfg.HTTPAddr)
	}

	logger.Info("started",
		"poll", cfg.CheckInterval(),
		"threshold_cm", cfg.DistanceThresholdCm,
		"confirm_samples", cfg.ConfirmSamples,
		"base_url", cfg.BaseURL)

	ticker := time.NewTicker(cfg.CheckInterval())
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sigName := make(chan string, 1)
	go func() {
		s := <-sigCh
		name := "UNKNOWN"
		switch s {
		case syscall.SIGINT:
			name = "SIGINT"
		case syscall.SIGTERM:
			name = "SIGTERM"
		}
		sigName <- name
		cancel()
	}()

	return runLoop(ctx, reader, indicator, outbox, publisher, mqttStatus, tracker, cfg, time.Now, ticker.C, sigName)
}

// runLoop is the single sequential control loop: poll, classify, act, sleep.
// No error in here is fatal; the loop runs until ctx is cancelled.
func runLoop(ctx context.Context, reader sonar.Reader, indicator led.Indicator, outbox *report.Outbox, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg config.Config, now func() time.Time, tick <-chan time.Time, sigName <-chan string) error {
	monitor := logic.NewMonitor(cfg.DistanceThresholdCm, cfg.ConfirmSamples, now())
	baselined := false

	for {
		select {
		case name := <-sigName:
			slog.Info("shutting down", "signal", name)
			publishShutdown(publisher, mqttStatus, tracker, now(), name)
			return nil

		case <-ctx.Done():
			// Cancelled without a delivered signal name.
			name := "UNKNOWN"
			select {
			case name = <-sigName:
			default:
			}
			slog.Info("shutting down", "signal", name)
			publishShutdown(publisher, mqttStatus, tracker, now(), name)
			return nil

		case <-tick:
			t := now()

			distance, err := sonar.ReadWithRetry(ctx, reader, cfg.MaxRetryAttempts, cfg.SensorRetryDelay())
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				slog.Warn("sensor read failed, skipping cycle", "error", err)
				metrics.SensorFailures.Inc()
				tracker.AddSensorFailure()
				// A dead sensor must not starve pending deliveries.
				flushOutbox(ctx, outbox, tracker)
				continue
			}

			event := monitor.Process(logic.Sample{DistanceCm: distance, Time: t})

			if event != nil {
				slog.Info("occupancy transition",
					"event", event.Type, "state", event.State, "distance_cm", distance)
				metrics.Events.WithLabelValues(string(event.Type)).Inc()
				setIndicator(indicator, event.State)
				outbox.Add(*event)
				if publisher != nil {
					if err := publisher.Publish(*event); err != nil {
						slog.Warn("mqtt publish failed", "error", err)
					}
				}
			} else if monitor.IsBaselined() && !baselined {
				slog.Info("baseline established",
					"state", monitor.State(), "distance_cm", distance)
				setIndicator(indicator, monitor.State())
			}
			baselined = monitor.IsBaselined()
			metrics.SetOccupancy(monitor.State())

			flushOutbox(ctx, outbox, tracker)

			if hb := monitor.CheckHeartbeat(t, cfg.HeartbeatInterval()); hb != nil {
				slog.Info("heartbeat",
					"uptime", hb.Uptime, "state", hb.State,
					"arrivals", hb.Counts.Arrivals, "departures", hb.Counts.Departures)
				if publisher != nil {
					refreshMQTTStatus(mqttStatus, tracker)
					snap := tracker.Snapshot()
					hbEvent := mqtt.SystemEvent{
						Timestamp:  hb.Timestamp,
						Event:      "HEARTBEAT",
						RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
					}
					if err := publisher.PublishSystem(hbEvent); err != nil {
						slog.Warn("heartbeat publish failed", "error", err)
					}
				}
			}

			tracker.Update(monitor.State(), monitor.IsBaselined(), monitor.EventCountsSnapshot(), distance)
			tracker.SetOutboxPending(outbox.Pending())
			refreshMQTTStatus(mqttStatus, tracker)
		}
	}
}

// setIndicator drives the LED: lit means the spot is free.
func setIndicator(indicator led.Indicator, state logic.State) {
	if err := indicator.Set(state == logic.StateEmpty); err != nil {
		slog.Warn("indicator update failed", "error", err)
		metrics.IndicatorFailures.Inc()
	}
}

func flushOutbox(ctx context.Context, outbox *report.Outbox, tracker *status.Tracker) {
	if outbox.Pending() == 0 {
		metrics.OutboxPending.Set(0)
		return
	}

	delivered, err := outbox.Flush(ctx)
	if delivered > 0 {
		metrics.ReportSuccesses.Add(float64(delivered))
		tracker.SetReport(true, "")
	}
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("event delivery failed", "error", err, "pending", outbox.Pending())
		}
		metrics.ReportFailures.Inc()
		tracker.SetReport(false, err.Error())
	}

	tracker.SetOutboxPending(outbox.Pending())
	metrics.OutboxPending.Set(float64(outbox.Pending()))
}

func publishShutdown(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, t time.Time, reason string) {
	if publisher == nil {
		return
	}

	event := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if tracker != nil {
		refreshMQTTStatus(mqttStatus, tracker)
		snap := tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", reason)
	}
	if err := publisher.PublishSystem(event); err != nil {
		slog.Warn("failed to publish shutdown event", "error", err)
	} else {
		slog.Info("published shutdown event")
	}
}

func refreshMQTTStatus(cs mqtt.ConnectionStatus, tracker *status.Tracker) {
	if cs != nil {
		tracker.SetMQTTConnected(cs.IsConnected())
	}
}

// runPrintState reads the sensor once and prints the classified state.
func runPrintState(cfg config.Config) error {
	reader, err := sonar.NewIIOReader(cfg.IIODevice)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	distance, err := sonar.ReadWithRetry(ctx, reader, cfg.MaxRetryAttempts, cfg.SensorRetryDelay())
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}

	state := logic.StateEmpty
	if distance <= cfg.DistanceThresholdCm {
		state = logic.StateOccupied
	}
	fmt.Printf("distance: %.1f cm, spot: %s\n", distance, state)
	return nil
}

// runRemoteStatus queries the parking service for the server-side view.
func runRemoteStatus(cfg config.Config) error {
	if cfg.BaseURL == "" {
		return errors.New("base_url is required")
	}

	client := report.NewClient(cfg.BaseURL, cfg.Timeout())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout()+time.Second)
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("query status: %w", err)
	}

	fmt.Printf("occupied: %v, status: %s\n", st.Occupied, st.Status)
	if st.LastEvent != nil {
		fmt.Printf("last event: %s at %s (id %d)\n",
			st.LastEvent.EventType, st.LastEvent.EventTime, st.LastEvent.ID)
	}
	return nil
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		SonarPin:       cfg.SonarPin,
		LEDPin:         cfg.LEDPin,
		ThresholdCm:    cfg.DistanceThresholdCm,
		PollMs:         cfg.CheckInterval().Milliseconds(),
		RetryAttempts:  cfg.MaxRetryAttempts,
		RetryDelayMs:   cfg.SensorRetryDelay().Milliseconds(),
		ConfirmSamples: cfg.ConfirmSamples,
		HeartbeatMs:    cfg.HeartbeatInterval().Milliseconds(),
		BaseURL:        cfg.BaseURL,
		TimeoutMs:      cfg.Timeout().Milliseconds(),
		HTTPAddr:       cfg.HTTPAddr,
		MQTTBroker:     cfg.MQTTBroker,
	}
}
