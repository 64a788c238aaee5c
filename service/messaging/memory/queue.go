package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/nftstub/internal/clock"
	"github.com/viant/nftstub/internal/idgen"
	"github.com/viant/nftstub/service/messaging"
)

// ErrProcessed is returned when a message is acked or nacked twice.
var ErrProcessed = errors.New("message already processed")

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns a configuration without retries: a failed message goes
// straight to the dead letter list.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  0,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is an in-memory queue entry.
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	retries   int
	lastErr   error
	createdAt time.Time
	mu        sync.Mutex
	processed bool
}

func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Err returns the error the message was last nacked with.
func (m *Message[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Message[T]) settle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack requeues the message after RetryDelay until MaxRetries is reached,
// then moves it to the dead letter list when enabled.
func (m *Message[T]) Nack(err error) (messaging.Disposition, error) {
	if sErr := m.settle(); sErr != nil {
		return messaging.Dropped, sErr
	}
	m.mu.Lock()
	m.lastErr = err
	retries := m.retries + 1
	m.mu.Unlock()

	q := m.queue
	if retries <= q.config.MaxRetries {
		retry := &Message[T]{id: m.id, payload: m.payload, queue: q, retries: retries, createdAt: clock.Now()}
		go func() {
			time.Sleep(q.config.RetryDelay)
			q.messages <- retry
		}()
		return messaging.Requeued, nil
	}
	if !q.config.DeadLetter {
		return messaging.Dropped, nil
	}
	q.dlqMu.Lock()
	q.dlq = append(q.dlq, m)
	q.dlqMu.Unlock()
	return messaging.DeadLettered, nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlq      []*Message[T]
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: clock.Now(),
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume blocks until a message is available or ctx is done.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns payloads of messages that exhausted their retries.
func (q *Queue[T]) DeadLetters() []*T {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	ret := make([]*T, 0, len(q.dlq))
	for _, m := range q.dlq {
		ret = append(ret, m.T())
	}
	return ret
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
