package events

import "context"

// Publisher delivers change notifications to whoever listens for them.
type Publisher interface {
	// Publish sends one event
	Publish(ctx context.Context, event Event) error

	// Close releases the underlying connection
	Close() error
}

// Compile-time verification that *RedisPublisher implements Publisher
var _ Publisher = (*RedisPublisher)(nil)
