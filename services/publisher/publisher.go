package publisher

import "context"

// Publisher announces refreshed trip snapshots to downstream consumers
type Publisher interface {
	// Publish publishes a message to a stream
	Publish(ctx context.Context, key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

// Nop discards every message. Used when no Redis is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, []byte) error { return nil }
func (Nop) TrimStreams(context.Context) error              { return nil }
func (Nop) Close() error                                   { return nil }
