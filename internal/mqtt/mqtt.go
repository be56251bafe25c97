// Package mqtt pushes controller snapshots and alarm events to an MQTT
// broker. It implements both the controller's publish surface and the
// alarm reporter's sink interface.
package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"threshctl/internal/alarm"
	"threshctl/internal/controller"
	"threshctl/internal/errors"
	"threshctl/internal/logger"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	retryInterval  = 5 * time.Second
)

type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

func (c Config) Validate() error {
	if c.Broker == "" {
		return errors.New().New(ErrInvalidBroker)
	}
	return nil
}

// Publisher publishes to an actual MQTT broker.
type Publisher struct {
	client      paho.Client
	topicPrefix string
}

// NewPublisher creates a publisher connected to the configured broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "threshctl"
	}
	topicPrefix := cfg.TopicPrefix
	if topicPrefix == "" {
		topicPrefix = "threshctl"
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errFactory.New(ErrConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, errFactory.Wrap(ErrConnectFailed, err)
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
	}, nil
}

// Publish sends a controller snapshot to the state topic.
// QoS 0 (at-most-once), not retained: the next tick supersedes it.
func (p *Publisher) Publish(snapshot controller.Snapshot) error {
	errFactory := errors.New()

	payload, err := FormatStatePayload(snapshot)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topicPrefix+"/state", 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errFactory.New(ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}

	return nil
}

// Alarm sends an alarm event to the alarm topic. The sink interface carries
// no error return, so delivery failures are logged and dropped.
// QoS 1 (at-least-once): alarms are worth a duplicate.
func (p *Publisher) Alarm(event alarm.Event) {
	payload, err := FormatAlarmPayload(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode alarm payload")
		return
	}

	token := p.client.Publish(p.topicPrefix+"/alarm", 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		logger.Warn().Msg("Timed out publishing alarm event")
		return
	}
	if err := token.Error(); err != nil {
		logger.Error().Err(err).Msg("Failed to publish alarm event")
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.client.Disconnect(1000) // milliseconds
	return nil
}
