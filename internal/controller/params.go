package controller

import "threshctl/internal/device"

// Operating limits for tunable parameters. Thresholds follow the ±10 V
// input range of the supported hardware.
const (
	MinThreshold = -10.0
	MaxThreshold = 10.0

	MinHysteresis = 0.0
	MaxHysteresis = 5.0

	MinUpdateRate = 0.1
	MaxUpdateRate = 1000.0

	MinDeviceAddr = 0
	MaxDeviceAddr = 255

	MaxPortNameLength = 63
)

// Params holds the tunable configuration of a controller instance.
// Mutated only through validated setters; the monitoring task works from a
// consistent copy taken at the top of each tick.
type Params struct {
	Threshold  float64
	Hysteresis float64
	UpdateRate float64
	Binding    device.Binding
}

// DefaultParams returns the construction-time defaults: comparator at 0 V,
// 0.1 V dead-band, 10 Hz sampling.
func DefaultParams() Params {
	return Params{
		Threshold:  0.0,
		Hysteresis: 0.1,
		UpdateRate: 10.0,
	}
}
