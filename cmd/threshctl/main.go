package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"threshctl/internal/alarm"
	"threshctl/internal/config"
	"threshctl/internal/controller"
	"threshctl/internal/device"
	"threshctl/internal/logger"
	"threshctl/internal/mqtt"
	"threshctl/internal/pid"
	"threshctl/internal/telemetry"
)

var cfg *config.Config

func init() {
	// A .env file is optional; environment wins when both are present.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	reporter := alarm.NewReporter()

	var closers []func() error

	var opts []controller.Option
	if cfg.Telemetry {
		collector, err := telemetry.NewService(telemetry.Config{
			Enabled: true,
			DBPath:  cfg.TelemetryDB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telemetry")
		}
		closers = append(closers, collector.Close)
		opts = append(opts, controller.WithPublisher(collector))
	}
	if cfg.MQTTBroker != "" {
		publisher, err := mqtt.NewPublisher(mqtt.Config{
			Broker:      cfg.MQTTBroker,
			TopicPrefix: cfg.MQTTTopic,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to MQTT broker")
		}
		closers = append(closers, publisher.Close)
		opts = append(opts, controller.WithPublisher(publisher))
		reporter.AddSink(publisher)
	}

	binding := device.Binding{Port: cfg.DevicePort, Addr: cfg.DeviceAddr}
	if binding.Port == "" {
		binding.Port = "SIM1"
	}

	ctrl := controller.New(device.NewSimulator(), reporter, binding, opts...)

	if err := applyParams(ctrl); err != nil {
		logger.Fatal().Err(err).Msg("invalid controller parameters")
	}

	if cfg.Enable {
		if err := ctrl.Enable(true); err != nil {
			logger.Fatal().Err(err).Msg("failed to enable controller")
		}
	}

	waitForSignal()

	shutdown(ctrl, closers)
}

func applyParams(ctrl *controller.Controller) error {
	if err := ctrl.SetThreshold(cfg.Threshold); err != nil {
		return err
	}
	if err := ctrl.SetHysteresis(cfg.Hysteresis); err != nil {
		return err
	}
	return ctrl.SetUpdateRate(cfg.UpdateRate)
}

func waitForSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
}

func shutdown(ctrl *controller.Controller, closers []func() error) {
	if err := ctrl.Enable(false); err != nil {
		logger.Error().Err(err).Msg("failed to disable controller")
	}
	if err := ctrl.Stop(); err != nil {
		logger.Error().Err(err).Msg("monitoring task shutdown incomplete")
	}

	for _, close := range closers {
		if err := close(); err != nil {
			logger.Error().Err(err).Msg("failed to close publisher")
		}
	}

	logger.Info().Msg("Exiting...")
}
