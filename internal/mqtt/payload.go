package mqtt

import (
	"encoding/json"

	"threshctl/internal/alarm"
	"threshctl/internal/controller"
	"threshctl/internal/errors"
)

// statePayload is the wire form of a controller snapshot.
type statePayload struct {
	Timestamp     int64   `json:"timestamp"`
	CurrentValue  float64 `json:"current_value"`
	OutputState   bool    `json:"output_state"`
	CompareResult bool    `json:"compare_result"`
	AlarmStatus   string  `json:"alarm_status"`
	Enabled       bool    `json:"enabled"`
	Threshold     float64 `json:"threshold"`
	Hysteresis    float64 `json:"hysteresis"`
	UpdateRate    float64 `json:"update_rate"`
}

// alarmPayload is the wire form of a single alarm event.
type alarmPayload struct {
	Timestamp int64  `json:"timestamp"`
	Severity  string `json:"severity"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

// FormatStatePayload serializes a snapshot for the state topic.
func FormatStatePayload(snapshot controller.Snapshot) ([]byte, error) {
	payload := statePayload{
		Timestamp:     snapshot.Timestamp.Unix(),
		CurrentValue:  snapshot.State.CurrentValue,
		OutputState:   snapshot.State.OutputState,
		CompareResult: snapshot.State.CompareResult,
		AlarmStatus:   snapshot.State.AlarmStatus.String(),
		Enabled:       snapshot.State.Enabled,
		Threshold:     snapshot.Params.Threshold,
		Hysteresis:    snapshot.Params.Hysteresis,
		UpdateRate:    snapshot.Params.UpdateRate,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New().Wrap(ErrEncodePayload, err)
	}
	return data, nil
}

// FormatAlarmPayload serializes an alarm event for the alarm topic.
func FormatAlarmPayload(event alarm.Event) ([]byte, error) {
	payload := alarmPayload{
		Timestamp: event.Timestamp.Unix(),
		Severity:  event.Level.String(),
		Category:  event.Category.String(),
		Source:    event.Source,
		Message:   event.Message,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New().Wrap(ErrEncodePayload, err)
	}
	return data, nil
}
