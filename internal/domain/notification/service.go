package notification

import "context"

// Dispatcher accepts events for asynchronous delivery. Dispatch never
// blocks on delivery and never reports delivery failures to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// Sink delivers an event over one channel (email, pub/sub, ...).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}
