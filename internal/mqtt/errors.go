package mqtt

import "threshctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidBroker = errors.ErrorCode("mqtt_invalid_broker")

	// Connection Errors
	ErrConnectTimeout = errors.ErrorCode("mqtt_connect_timeout")
	ErrConnectFailed  = errors.ErrorCode("mqtt_connect_failed")

	// Publish Errors
	ErrPublishTimeout = errors.ErrorCode("mqtt_publish_timeout")
	ErrPublishFailed  = errors.ErrorCode("mqtt_publish_failed")
	ErrEncodePayload  = errors.ErrorCode("mqtt_encode_payload_failed")
)
