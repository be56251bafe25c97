package controller_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"threshctl/internal/alarm"
	"threshctl/internal/controller"
	"threshctl/internal/device"
)

func validParams() controller.Params {
	p := controller.DefaultParams()
	p.Threshold = 2.0
	p.Hysteresis = 0.5
	p.Binding = device.Binding{Port: "USB1", Addr: 0}
	return p
}

func TestValidateParamsOK(t *testing.T) {
	result := controller.ValidateParams(validParams())
	assert.True(t, result.Valid)
	assert.Equal(t, alarm.LevelInfo, result.Level)
}

func TestValidateParamsPortName(t *testing.T) {
	cases := []struct {
		name string
		port string
		ok   bool
	}{
		{"simple", "USB1", true},
		{"underscore", "usb_dio_0", true},
		{"empty", "", false},
		{"dash", "usb-1", false},
		{"space", "usb 1", false},
		{"max length", strings.Repeat("a", 63), true},
		{"too long", strings.Repeat("a", 64), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			p.Binding.Port = tc.port
			result := controller.ValidateParams(p)
			assert.Equal(t, tc.ok, result.Valid)
		})
	}
}

func TestValidateParamsHardViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*controller.Params)
	}{
		{"addr negative", func(p *controller.Params) { p.Binding.Addr = -1 }},
		{"addr too high", func(p *controller.Params) { p.Binding.Addr = 256 }},
		{"rate too low", func(p *controller.Params) { p.UpdateRate = 0.05 }},
		{"rate too high", func(p *controller.Params) { p.UpdateRate = 2000 }},
		{"threshold too low", func(p *controller.Params) { p.Threshold = -10.5 }},
		{"threshold too high", func(p *controller.Params) { p.Threshold = 10.5 }},
		{"hysteresis negative", func(p *controller.Params) { p.Hysteresis = -0.1 }},
		{"hysteresis too wide", func(p *controller.Params) { p.Hysteresis = 6.0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			result := controller.ValidateParams(p)
			assert.False(t, result.Valid)
			assert.Equal(t, alarm.LevelError, result.Level)
			assert.NotEmpty(t, result.Suggestion, "hard violations must carry a remedy")
		})
	}
}

func TestValidateParamsShortCircuits(t *testing.T) {
	// The port name check runs first: with several violations present only
	// the identifier message surfaces.
	p := validParams()
	p.Binding.Port = "bad name"
	p.UpdateRate = 5000

	result := controller.ValidateParams(p)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "port name")
}

func TestValidateParamsSoftHysteresis(t *testing.T) {
	// A dead band wider than the threshold magnitude warns but stays valid.
	p := validParams()
	p.Threshold = 2.0
	p.Hysteresis = 3.0

	result := controller.ValidateParams(p)
	assert.True(t, result.Valid)
	assert.Equal(t, alarm.LevelWarning, result.Level)
	assert.Contains(t, result.Message, "exceeds threshold magnitude")
}
