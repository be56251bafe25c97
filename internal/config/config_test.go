package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threshctl/internal/config"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
threshold = 2.5
hysteresis = 0.2
update_rate = 50.0
device_port = "USB1"
device_addr = 3
enable = false
log_level = "debug"
telemetry = true
database = "/path/to/telemetry.db"
mqtt_broker = "tcp://localhost:1883"
mqtt_topic = "lab/threshctl"
`)
	configPath := filepath.Join(tempDir, "threshctl.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	// Point the loader at the test config file
	t.Setenv("THRESHCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.InDelta(t, 2.5, cfg.Threshold, 1e-9, "Expected Threshold 2.5")
	assert.InDelta(t, 0.2, cfg.Hysteresis, 1e-9, "Expected Hysteresis 0.2")
	assert.InDelta(t, 50.0, cfg.UpdateRate, 1e-9, "Expected UpdateRate 50")
	assert.Equal(t, "USB1", cfg.DevicePort, "Expected DevicePort USB1")
	assert.Equal(t, 3, cfg.DeviceAddr, "Expected DeviceAddr 3")
	assert.False(t, cfg.Enable, "Expected Enable false")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/path/to/telemetry.db", cfg.TelemetryDB, "Expected TelemetryDB /path/to/telemetry.db")
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker, "Expected MQTTBroker tcp://localhost:1883")
	assert.Equal(t, "lab/threshctl", cfg.MQTTTopic, "Expected MQTTTopic lab/threshctl")
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("THRESHCTL_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.InDelta(t, 0.0, cfg.Threshold, 1e-9, "Expected default Threshold 0")
	assert.InDelta(t, 0.1, cfg.Hysteresis, 1e-9, "Expected default Hysteresis 0.1")
	assert.InDelta(t, 10.0, cfg.UpdateRate, 1e-9, "Expected default UpdateRate 10")
	assert.Equal(t, 0, cfg.DeviceAddr, "Expected default DeviceAddr 0")
	assert.True(t, cfg.Enable, "Expected default Enable true")
	assert.False(t, cfg.Telemetry, "Expected default Telemetry false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, "threshctl", cfg.MQTTTopic, "Expected default MQTTTopic threshctl")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// Create an invalid test config file
	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "threshctl.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("THRESHCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "threshctl.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("THRESHCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("THRESHCTL_CONFIG", "")

	// Save original args and restore after test
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "--log-level", "debug"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestFlagOverridesFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
threshold = 1.0
`)
	configPath := filepath.Join(tempDir, "threshctl.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("THRESHCTL_CONFIG", configPath)

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd", "--threshold", "4.5"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.InDelta(t, 4.5, cfg.Threshold, 1e-9, "Expected flag to override file value")
}
