package device

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"threshctl/internal/logger"
)

// Simulator generates a slow sine wave with a little noise, matching the
// signal shape the hardware bring-up rig produces. It lets the daemon run
// end to end without an acquisition device attached.
type Simulator struct {
	mu     sync.Mutex
	start  time.Time
	output bool
	rng    *rand.Rand
}

// NewSimulator creates a simulated device.
func NewSimulator() *Simulator {
	return &Simulator{
		start: time.Now(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ReadValue returns 5.0 + 4.0*sin(0.1*t) volts plus up to ±0.05 V of noise.
func (s *Simulator) ReadValue() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := time.Since(s.start).Seconds()
	value := 5.0 + 4.0*math.Sin(t*0.1) + 0.1*(s.rng.Float64()-0.5)

	return value, nil
}

// WriteOutput records the requested output state.
func (s *Simulator) WriteOutput(state bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.output = state
	logger.Debug().Bool("state", state).Msg("Simulated output set")

	return nil
}

// OutputState returns the last written output state.
func (s *Simulator) OutputState() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}
