package sonar

import "errors"

// Sample is a single scripted reading: a distance or an error.
type Sample struct {
	DistanceCm float64
	Err        error
}

// FakeReader is a test double that returns scripted readings.
type FakeReader struct {
	// Samples contains scripted readings. Each call to Read() consumes the
	// next sample; when exhausted, the last sample repeats.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Reads counts the total number of Read calls.
	Reads int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (float64, error) {
	f.Reads++

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	if sample.Err != nil {
		return 0, sample.Err
	}
	return sample.DistanceCm, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}
