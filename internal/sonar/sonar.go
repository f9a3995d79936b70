// Package sonar provides distance readings with hardware abstraction.
// The real implementation consumes a Linux IIO distance channel exposed by
// the kernel driver; the fake implementation allows testing without hardware.
package sonar

// Reader reads distance measurements.
type Reader interface {
	// Read returns the measured distance in centimeters.
	// Must be safe to call repeatedly at the polling interval.
	Read() (float64, error)

	// Close releases sensor resources.
	Close() error
}

// DefaultPin is the BCM pin the ultrasonic ranger is wired to. The IIO
// driver binds the pin through the devicetree overlay; the value here is
// informational for the status page.
const DefaultPin = 12
