package config

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"threshctl/internal/errors"
)

// Defaults match the controller's construction-time parameters.
const (
	DefaultLogLevel   = "info"
	defaultThreshold  = 0.0
	defaultHysteresis = 0.1
	defaultUpdateRate = 10.0
	defaultDeviceAddr = 0
	defaultMQTTTopic  = "threshctl"
	defaultDBPath     = "/var/lib/threshctl/telemetry.db"
)

// Config is the daemon-level configuration: initial controller parameters
// plus the host-side publisher wiring.
type Config struct {
	Threshold  float64
	Hysteresis float64
	UpdateRate float64 `mapstructure:"update_rate"`
	DevicePort string  `mapstructure:"device_port"`
	DeviceAddr int     `mapstructure:"device_addr"`
	Enable     bool

	LogLevel string `mapstructure:"log_level"`
	Debug    bool
	Verbose  bool

	Telemetry   bool
	TelemetryDB string `mapstructure:"database"`

	MQTTBroker string `mapstructure:"mqtt_broker"`
	MQTTTopic  string `mapstructure:"mqtt_topic"`
}

// Load reads configuration from flags, an optional TOML file (explicit
// --config path, THRESHCTL_CONFIG, or /etc/threshctl.toml) and THRESHCTL_*
// environment variables. Flags override file and environment values.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("threshctl", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	debugFlag := fs.Bool("debug", false, "Enable debug logging")
	verboseFlag := fs.Bool("verbose", false, "Enable verbose logging")
	logLevelFlag := fs.String("log-level", "", "Log level (debug, info, warning, error)")
	configFlag := fs.String("config", "", "Path to configuration file")
	fs.Float64("threshold", defaultThreshold, "Threshold value in volts")
	fs.Float64("hysteresis", defaultHysteresis, "Hysteresis width in volts")
	fs.Float64("rate", defaultUpdateRate, "Update rate in Hz")
	fs.String("device-port", "", "Device port identifier")
	fs.Int("device-addr", defaultDeviceAddr, "Device address")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("threshold", defaultThreshold)
	v.SetDefault("hysteresis", defaultHysteresis)
	v.SetDefault("update_rate", defaultUpdateRate)
	v.SetDefault("device_port", "")
	v.SetDefault("device_addr", defaultDeviceAddr)
	v.SetDefault("enable", true)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultDBPath)
	v.SetDefault("mqtt_broker", "")
	v.SetDefault("mqtt_topic", defaultMQTTTopic)

	v.SetEnvPrefix("THRESHCTL")
	v.AutomaticEnv()

	path := *configFlag
	if path == "" {
		path = os.Getenv("THRESHCTL_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file: "+err.Error())
		}
	} else {
		v.SetConfigName("threshctl")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Flags the caller actually passed override everything else.
	flagKeys := map[string]string{
		"threshold":   "threshold",
		"hysteresis":  "hysteresis",
		"rate":        "update_rate",
		"device-port": "device_port",
		"device-addr": "device_addr",
		"debug":       "debug",
		"verbose":     "verbose",
		"log-level":   "log_level",
	}
	fs.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// Booleans from pflag need explicit handling: --debug with no value
	// is still an override.
	if *debugFlag {
		config.Debug = true
	}
	if *verboseFlag {
		config.Verbose = true
	}
	if *logLevelFlag != "" {
		config.LogLevel = *logLevelFlag
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the daemon-level fields. Controller parameter ranges are
// enforced again by the controller's own validator; this catches what
// would break daemon start-up.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.UpdateRate <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "update_rate must be positive")
	}

	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "telemetry enabled without a database path")
	}

	return nil
}
