package device_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threshctl/internal/device"
)

func TestSimulatorStaysInRange(t *testing.T) {
	sim := device.NewSimulator()

	for i := 0; i < 100; i++ {
		value, err := sim.ReadValue()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, value, device.MinValue)
		assert.LessOrEqual(t, value, device.MaxValue)
	}
}

func TestSimulatorRecordsOutput(t *testing.T) {
	sim := device.NewSimulator()

	require.NoError(t, sim.WriteOutput(true))
	assert.True(t, sim.OutputState())

	require.NoError(t, sim.WriteOutput(false))
	assert.False(t, sim.OutputState())
}

func TestFakeConsumesValuesInOrder(t *testing.T) {
	fake := device.NewFake(1.0, 2.0, 3.0)

	for _, want := range []float64{1.0, 2.0, 3.0, 3.0, 3.0} {
		got, err := fake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, want, got, "exhausted values must repeat the last one")
	}
	assert.Equal(t, 5, fake.ReadCount())
}

func TestFakeErrors(t *testing.T) {
	fake := device.NewFake(1.0)
	fake.SetReadErr(fmt.Errorf("unplugged"))

	_, err := fake.ReadValue()
	require.Error(t, err)

	fake.SetWriteErr(fmt.Errorf("stuck"))
	require.Error(t, fake.WriteOutput(true))
	assert.Equal(t, 0, fake.WriteCount())

	fake.SetWriteErr(nil)
	require.NoError(t, fake.WriteOutput(true))
	last, ok := fake.LastWrite()
	require.True(t, ok)
	assert.True(t, last)
}
