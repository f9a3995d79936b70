package sonar

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReadWithRetrySucceedsFirstAttempt(t *testing.T) {
	r := NewFakeReader([]Sample{{DistanceCm: 42}})

	d, err := ReadWithRetry(context.Background(), r, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 42 {
		t.Errorf("distance: got %v, want 42", d)
	}
	if r.Reads != 1 {
		t.Errorf("reads: got %d, want 1", r.Reads)
	}
}

func TestReadWithRetryRecoversAfterFailures(t *testing.T) {
	// Fails 2 times then succeeds: exactly 3 attempts, result on the 3rd.
	readErr := errors.New("echo timeout")
	r := NewFakeReader([]Sample{
		{Err: readErr},
		{Err: readErr},
		{DistanceCm: 8.5},
	})

	d, err := ReadWithRetry(context.Background(), r, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 8.5 {
		t.Errorf("distance: got %v, want 8.5", d)
	}
	if r.Reads != 3 {
		t.Errorf("reads: got %d, want 3", r.Reads)
	}
}

func TestReadWithRetryExhaustsAttempts(t *testing.T) {
	readErr := errors.New("echo timeout")
	r := NewFakeReader([]Sample{{Err: readErr}})

	_, err := ReadWithRetry(context.Background(), r, 3, time.Millisecond)
	if err == nil {
		t.Fatal("expected error after all attempts fail")
	}
	if r.Reads != 3 {
		t.Errorf("reads: got %d, want 3", r.Reads)
	}
}

func TestReadWithRetryAttemptsClampedToOne(t *testing.T) {
	r := NewFakeReader([]Sample{{Err: errors.New("echo timeout")}})

	_, err := ReadWithRetry(context.Background(), r, 0, time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	if r.Reads != 1 {
		t.Errorf("reads: got %d, want 1", r.Reads)
	}
}

func TestReadWithRetryRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewFakeReader([]Sample{{Err: errors.New("echo timeout")}})

	start := time.Now()
	_, err := ReadWithRetry(ctx, r, 5, time.Hour)
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled retry took %v, should return promptly", elapsed)
	}
}

func TestFakeReaderRepeatsLastSample(t *testing.T) {
	r := NewFakeReader([]Sample{{DistanceCm: 15}, {DistanceCm: 8}})

	for i, want := range []float64{15, 8, 8, 8} {
		d, err := r.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if d != want {
			t.Errorf("read %d: got %v, want %v", i, d, want)
		}
	}
}

func TestFakeReaderClose(t *testing.T) {
	r := NewFakeReader(nil)
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !r.Closed {
		t.Error("expected Closed to be true")
	}
}
