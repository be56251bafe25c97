package controller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"threshctl/internal/controller"
)

func TestDecideRisingEdge(t *testing.T) {
	// From low, only a value strictly above the threshold asserts.
	assert.False(t, controller.Decide(2.5, 2.5, 0.2, false), "value equal to threshold must stay low")
	assert.False(t, controller.Decide(2.4, 2.5, 0.2, false))
	assert.True(t, controller.Decide(2.6, 2.5, 0.2, false))
}

func TestDecideFallingEdge(t *testing.T) {
	// From high, only a value strictly below threshold-hysteresis releases.
	assert.True(t, controller.Decide(2.3, 2.5, 0.2, true), "value equal to release point must stay high")
	assert.True(t, controller.Decide(2.4, 2.5, 0.2, true))
	assert.False(t, controller.Decide(2.29, 2.5, 0.2, true))
}

func TestDecideBandIsSticky(t *testing.T) {
	// Inside the dead band the previous state wins.
	assert.False(t, controller.Decide(2.4, 2.5, 0.2, false))
	assert.True(t, controller.Decide(2.4, 2.5, 0.2, true))
}

func TestDecideZeroHysteresis(t *testing.T) {
	// With zero hysteresis the decision degenerates to a plain comparator,
	// except that the threshold value itself keeps the previous state.
	assert.True(t, controller.Decide(2.6, 2.5, 0, false))
	assert.False(t, controller.Decide(2.4, 2.5, 0, true))
	assert.False(t, controller.Decide(2.5, 2.5, 0, false))
	assert.True(t, controller.Decide(2.5, 2.5, 0, true))
}

func TestDecideNegativeThreshold(t *testing.T) {
	assert.True(t, controller.Decide(-1.0, -2.0, 0.5, false))
	assert.True(t, controller.Decide(-2.4, -2.0, 0.5, true))
	assert.False(t, controller.Decide(-2.6, -2.0, 0.5, true))
}

func TestDecideSweep(t *testing.T) {
	// A full sweep through the band: rises only above the threshold, holds
	// through the band on the way down, releases below threshold-hysteresis.
	values := []float64{0, 1, 2, 2.5, 3, 4, 3, 2.3, 2, 1, 0}
	want := []bool{false, false, false, false, true, true, true, true, false, false, false}

	state := false
	for i, v := range values {
		state = controller.Decide(v, 2.5, 0.2, state)
		assert.Equal(t, want[i], state, "value %g (step %d)", v, i)
	}
}
