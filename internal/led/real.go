//go:build linux

package led

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIndicator drives an LED on actual hardware using the Linux GPIO
// character device.
type RealIndicator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealIndicator requests the given BCM pin as an output, initially off.
func NewRealIndicator(pin int) (*RealIndicator, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", pin, err)
	}

	return &RealIndicator{chip: chip, line: line}, nil
}

// Set drives the LED output.
func (i *RealIndicator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := i.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED pin: %w", err)
	}
	return nil
}

// Close turns the LED off, reconfigures the pin to input (Pi boot default)
// and releases GPIO resources.
func (i *RealIndicator) Close() error {
	var errs []error

	if i.line != nil {
		if err := i.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear LED pin: %w", err))
		}
		if err := i.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure LED pin: %w", err))
		}
		if err := i.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED pin: %w", err))
		}
	}
	if i.chip != nil {
		if err := i.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
