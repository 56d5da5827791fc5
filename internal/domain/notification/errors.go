package notification

import "errors"

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrUnsupportedEvent = errors.New("unsupported event type")
)
