package controller

import (
	"time"

	"threshctl/internal/alarm"
)

// RuntimeState is the live state of a controller instance. Read-only from
// the outside; only the monitoring task and the reset command mutate it.
type RuntimeState struct {
	CurrentValue  float64
	OutputState   bool
	CompareResult bool
	AlarmStatus   alarm.Status
	Enabled       bool
	LastUpdate    time.Time
}

// Snapshot is what gets pushed to the host publish surface once per tick
// and on every externally driven state change.
type Snapshot struct {
	Timestamp time.Time
	Params    Params
	State     RuntimeState
	Alarms    alarm.Statistics
}

// Publisher is the host publish surface. Publish errors are logged and
// never interrupt the monitoring task.
type Publisher interface {
	Publish(snap Snapshot) error
}
