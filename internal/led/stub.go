//go:build !linux

package led

import "errors"

// RealIndicator is not available on non-Linux platforms.
type RealIndicator struct{}

// NewRealIndicator returns an error on non-Linux platforms.
func NewRealIndicator(pin int) (*RealIndicator, error) {
	return nil, errors.New("led: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (i *RealIndicator) Set(on bool) error {
	return errors.New("led: not supported")
}

// Close is not implemented on non-Linux platforms.
func (i *RealIndicator) Close() error {
	return nil
}
