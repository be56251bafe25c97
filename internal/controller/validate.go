package controller

import (
	"fmt"
	"math"

	"threshctl/internal/alarm"
)

// ValidationResult classifies a configuration snapshot. Hard violations
// clear Valid and carry a remedy suggestion; soft violations keep Valid
// set and downgrade to a warning.
type ValidationResult struct {
	Valid      bool
	Level      alarm.Level
	Message    string
	Suggestion string
}

// ValidateParams checks a configuration snapshot without side effects.
// Check order: identifier well-formedness, device address, update rate,
// threshold, hysteresis, then the soft hysteresis/threshold relation.
// The first hard violation short-circuits.
func ValidateParams(p Params) ValidationResult {
	if !validPortName(p.Binding.Port) {
		return ValidationResult{
			Valid:      false,
			Level:      alarm.LevelError,
			Message:    fmt.Sprintf("device port name %q is not valid", p.Binding.Port),
			Suggestion: "use 1-63 alphanumeric or underscore characters",
		}
	}

	if p.Binding.Addr < MinDeviceAddr || p.Binding.Addr > MaxDeviceAddr {
		return ValidationResult{
			Valid:      false,
			Level:      alarm.LevelError,
			Message:    fmt.Sprintf("device address %d is out of range", p.Binding.Addr),
			Suggestion: fmt.Sprintf("use a value in %d-%d", MinDeviceAddr, MaxDeviceAddr),
		}
	}

	if p.UpdateRate < MinUpdateRate || p.UpdateRate > MaxUpdateRate {
		return ValidationResult{
			Valid:      false,
			Level:      alarm.LevelError,
			Message:    fmt.Sprintf("update rate %g Hz is out of range", p.UpdateRate),
			Suggestion: fmt.Sprintf("use a value in %g-%g Hz", MinUpdateRate, MaxUpdateRate),
		}
	}

	if p.Threshold < MinThreshold || p.Threshold > MaxThreshold {
		return ValidationResult{
			Valid:      false,
			Level:      alarm.LevelError,
			Message:    fmt.Sprintf("threshold %g V is out of range", p.Threshold),
			Suggestion: fmt.Sprintf("use a value in %g..%g V", MinThreshold, MaxThreshold),
		}
	}

	if p.Hysteresis < MinHysteresis || p.Hysteresis > MaxHysteresis {
		return ValidationResult{
			Valid:      false,
			Level:      alarm.LevelError,
			Message:    fmt.Sprintf("hysteresis %g V is out of range", p.Hysteresis),
			Suggestion: fmt.Sprintf("use a value in %g-%g V", MinHysteresis, MaxHysteresis),
		}
	}

	// Soft relation: a dead-band wider than the threshold magnitude is
	// accepted but almost always a configuration mistake.
	if p.Hysteresis > math.Abs(p.Threshold) {
		return ValidationResult{
			Valid:      true,
			Level:      alarm.LevelWarning,
			Message:    fmt.Sprintf("hysteresis %g V exceeds threshold magnitude %g V", p.Hysteresis, math.Abs(p.Threshold)),
			Suggestion: "set hysteresis below the threshold magnitude",
		}
	}

	return ValidationResult{
		Valid:   true,
		Level:   alarm.LevelInfo,
		Message: "configuration is valid",
	}
}

func validPortName(name string) bool {
	if len(name) == 0 || len(name) > MaxPortNameLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}

	return true
}
