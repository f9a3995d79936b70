package sonar

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultScale is the IIO distance scale (meters per raw unit) used when the
// driver does not export in_distance_scale.
const defaultScale = 0.001

// IIOReader reads distance from a Linux IIO device in sysfs. The kernel
// driver (e.g. srf04 for HC-SR04 style rangers) owns the hardware protocol;
// this reader only consumes its exported channel.
type IIOReader struct {
	rawPath   string
	scalePath string
}

// NewIIOReader creates a reader for the given IIO device name, e.g.
// "iio:device0". An absolute path to the device directory is also accepted.
func NewIIOReader(device string) (*IIOReader, error) {
	dir := device
	if !filepath.IsAbs(device) {
		dir = filepath.Join("/sys/bus/iio/devices", device)
	}

	rawPath := filepath.Join(dir, "in_distance_raw")
	if _, err := os.Stat(rawPath); err != nil {
		return nil, fmt.Errorf("iio device %s has no distance channel: %w", device, err)
	}

	return &IIOReader{
		rawPath:   rawPath,
		scalePath: filepath.Join(dir, "in_distance_scale"),
	}, nil
}

// Read returns the current distance in centimeters.
func (r *IIOReader) Read() (float64, error) {
	raw, err := readSysfsFloat(r.rawPath)
	if err != nil {
		return 0, fmt.Errorf("read distance: %w", err)
	}

	scale := defaultScale
	if s, err := readSysfsFloat(r.scalePath); err == nil {
		scale = s
	}

	cm := raw * scale * 100
	if cm < 0 {
		return 0, fmt.Errorf("distance out of range: %.1f cm", cm)
	}
	return cm, nil
}

// Close is a no-op; sysfs files are opened per read.
func (r *IIOReader) Close() error {
	return nil
}

func readSysfsFloat(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
