package sonar

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ReadWithRetry reads the sensor with a bounded retry sub-loop: up to
// attempts reads with delay between them. The delay respects ctx, so
// shutdown is not held up by a failing sensor. If all attempts fail the
// last error is returned and the caller skips the poll cycle.
func ReadWithRetry(ctx context.Context, r Reader, attempts int, delay time.Duration) (float64, error) {
	if attempts < 1 {
		attempts = 1
	}

	var distance float64
	op := func() error {
		d, err := r.Read()
		if err != nil {
			return err
		}
		distance = d
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return 0, err
	}
	return distance, nil
}
