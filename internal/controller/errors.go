package controller

import "threshctl/internal/errors"

const (
	// Configuration errors
	ErrInvalidThreshold  = errors.ErrorCode("controller_invalid_threshold")
	ErrInvalidHysteresis = errors.ErrorCode("controller_invalid_hysteresis")
	ErrInvalidRate       = errors.ErrorCode("controller_invalid_update_rate")
	ErrInvalidBinding    = errors.ErrorCode("controller_invalid_binding")
	ErrReadOnlyField     = errors.ErrReadOnly

	// Lifecycle errors
	ErrEnableRejected     = errors.ErrorCode("controller_enable_rejected")
	ErrNoBinding          = errors.ErrorCode("controller_no_device_binding")
	ErrStopPending        = errors.ErrorCode("controller_stop_pending")
	ErrStopTimeout        = errors.ErrorCode("controller_stop_timeout")
	ErrRebindWhileRunning = errors.ErrorCode("controller_rebind_while_running")
)
