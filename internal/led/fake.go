package led

// FakeIndicator records Set calls for test assertions.
type FakeIndicator struct {
	// On is the last value set.
	On bool

	// Calls contains every value passed to Set, in order.
	Calls []bool

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeIndicator creates a FakeIndicator for testing.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the value.
func (f *FakeIndicator) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.On = on
	f.Calls = append(f.Calls, on)
	return nil
}

// Close marks the indicator as closed and clears the LED.
func (f *FakeIndicator) Close() error {
	f.On = false
	f.Closed = true
	return nil
}

// Reset clears recorded calls.
func (f *FakeIndicator) Reset() {
	f.On = false
	f.Calls = nil
	f.SetError = nil
	f.Closed = false
}
