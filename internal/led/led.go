// Package led drives the spot indicator LED with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package led

// Indicator sets the binary visual state of the spot LED.
type Indicator interface {
	// Set turns the LED on or off. Idempotent: setting the same value
	// twice has no additional effect.
	Set(on bool) error

	// Close releases GPIO resources, leaving the LED off.
	Close() error
}

// DefaultPin is the BCM pin the LED is wired to.
const DefaultPin = 16
