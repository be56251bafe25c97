package mqtt_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threshctl/internal/alarm"
	"threshctl/internal/controller"
	"threshctl/internal/mqtt"
)

func TestFormatStatePayload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	snap := controller.Snapshot{
		Timestamp: now,
		Params: controller.Params{
			Threshold:  2.5,
			Hysteresis: 0.2,
			UpdateRate: 10,
		},
		State: controller.RuntimeState{
			CurrentValue:  3.1,
			OutputState:   true,
			CompareResult: true,
			AlarmStatus:   alarm.StatusNormal,
			Enabled:       true,
			LastUpdate:    now,
		},
	}

	data, err := mqtt.FormatStatePayload(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(1700000000), decoded["timestamp"])
	assert.Equal(t, 3.1, decoded["current_value"])
	assert.Equal(t, true, decoded["output_state"])
	assert.Equal(t, true, decoded["compare_result"])
	assert.Equal(t, "NORMAL", decoded["alarm_status"])
	assert.Equal(t, true, decoded["enabled"])
	assert.Equal(t, 2.5, decoded["threshold"])
	assert.Equal(t, 0.2, decoded["hysteresis"])
	assert.Equal(t, float64(10), decoded["update_rate"])
}

func TestFormatAlarmPayload(t *testing.T) {
	event := alarm.Event{
		Level:     alarm.LevelError,
		Category:  alarm.CategoryComm,
		Source:    "controller.tick",
		Message:   "read from USB1 addr 0 failed",
		Timestamp: time.Unix(1700000000, 0),
	}

	data, err := mqtt.FormatAlarmPayload(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(1700000000), decoded["timestamp"])
	assert.Equal(t, "ERROR", decoded["severity"])
	assert.Equal(t, "comm", decoded["category"])
	assert.Equal(t, "controller.tick", decoded["source"])
	assert.Equal(t, "read from USB1 addr 0 failed", decoded["message"])
}
