package mqtt

import "errors"

var (
	ErrConnectFailed  = errors.New("mqtt: connection failed")
	ErrConnectTimeout = errors.New("mqtt: unable to connect in time")
	ErrNotConnected   = errors.New("mqtt: client not connected")
	ErrInvalidTopic   = errors.New("mqtt: topic cannot be empty")
	ErrPublishFailed  = errors.New("mqtt: publish failed")
	ErrPublishTimeout = errors.New("mqtt: publish timed out")
)
