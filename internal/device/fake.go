package device

import "sync"

// Fake is a test double that returns scripted values. Each call to
// ReadValue consumes the next sample; when samples are exhausted the last
// one is returned repeatedly.
type Fake struct {
	mu sync.Mutex

	// Values contains scripted readings, consumed in order.
	Values []float64

	// ReadErr, if set, is returned by every ReadValue call.
	ReadErr error

	// WriteErr, if set, is returned by every WriteOutput call.
	WriteErr error

	// Writes records every successfully accepted output state.
	Writes []bool

	index int
	reads int
}

// NewFake creates a Fake returning the given readings.
func NewFake(values ...float64) *Fake {
	return &Fake{Values: values}
}

// ReadValue returns the next scripted reading.
func (f *Fake) ReadValue() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}

	if len(f.Values) == 0 {
		return 0, nil
	}

	value := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}

	return value, nil
}

// WriteOutput records the requested state, unless WriteErr is set.
func (f *Fake) WriteOutput(state bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Writes = append(f.Writes, state)

	return nil
}

// WriteCount returns how many writes the fake accepted.
func (f *Fake) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Writes)
}

// ReadCount returns how many reads were attempted.
func (f *Fake) ReadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// LastWrite returns the most recently accepted output state.
func (f *Fake) LastWrite() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Writes) == 0 {
		return false, false
	}

	return f.Writes[len(f.Writes)-1], true
}

// SetReadErr atomically sets the read error.
func (f *Fake) SetReadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadErr = err
}

// SetWriteErr atomically sets the write error.
func (f *Fake) SetWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WriteErr = err
}

// SetValues replaces the scripted readings and restarts from the first.
func (f *Fake) SetValues(values ...float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Values = values
	f.index = 0
}
