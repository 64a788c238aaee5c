// Package messaging defines the queue abstraction deferred calls travel on.
package messaging

import (
	"context"
)

// Vendor names a queue implementation.
type Vendor string

const (
	VendorMemory Vendor = "memory"
	VendorFs     Vendor = "fs"
)

// Disposition tells what a queue did with a nacked message.
type Disposition int

const (
	// Requeued messages are delivered again.
	Requeued Disposition = iota
	// DeadLettered messages exhausted their retries and are kept for inspection.
	DeadLettered
	// Dropped messages exhausted their retries and are discarded.
	Dropped
)

// Terminal reports whether the message will not be delivered again.
func (d Disposition) Terminal() bool { return d != Requeued }

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message; implementations that cannot block
	// return a nil message when the queue is empty.
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack reports a processing failure; the queue decides between retry and dead letter.
	Nack(err error) (Disposition, error)
}
