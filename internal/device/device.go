// Package device holds the synchronous I/O boundary to the monitored
// hardware. The controller only ever sees the Adapter interface; the
// simulator stands in for a real acquisition device and the fake is a
// scripted test double.
package device

// Adapter reads the monitored analog value and drives the digital output.
// Implementations must be callable from the monitoring task's goroutine.
type Adapter interface {
	// ReadValue returns the current input value in volts.
	ReadValue() (float64, error)

	// WriteOutput sets the digital output state.
	WriteOutput(state bool) error
}

// Binding identifies the device path a controller talks to.
type Binding struct {
	Port string
	Addr int
}

// Input signal limits of the supported hardware, in volts.
const (
	MinValue = -10.0
	MaxValue = 10.0
)
