package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/nftstub/internal/clock"
	"github.com/viant/nftstub/internal/idgen"
	"github.com/viant/nftstub/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateCompleted  MessageState = "completed"
	MessageStateFailed     MessageState = "failed"
)

// Message is a queue entry persisted as one JSON file.
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to the completed directory.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = clock.Now()
	return m.queue.settle(context.Background(), m, m.queue.completedDir)
}

// Nack moves the message back to pending, or to the dead letter directory
// once MaxRetries is exceeded.
func (m *Message[T]) Nack(err error) (messaging.Disposition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.Dropped, fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.Retries++
	m.UpdatedAt = clock.Now()
	if err != nil {
		m.Error = err.Error()
	}
	if m.Retries > m.queue.config.MaxRetries {
		m.State = MessageStateFailed
		return messaging.DeadLettered, m.queue.settle(context.Background(), m, m.queue.dlqDir)
	}
	m.State = MessageStatePending
	if sErr := m.queue.settle(context.Background(), m, m.queue.pendingDir); sErr != nil {
		return messaging.Dropped, sErr
	}
	return messaging.Requeued, nil
}

// Config holds configuration for filesystem queue
type Config struct {
	BasePath   string `json:"basePath" yaml:"basePath"`
	MaxRetries int    `json:"maxRetries" yaml:"maxRetries"`
}

// DefaultConfig returns a configuration rooted in a fresh per-run directory,
// so calls left pending by an earlier process are never consumed.
func DefaultConfig() Config {
	return Config{BasePath: path.Join(os.TempDir(), "nftstub", "queue-"+idgen.New())}
}

// Queue implements a filesystem-based messaging.Queue; file names start with
// a creation sequence so pending messages are consumed in publish order.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	completedDir  string
	dlqDir        string
	lastSeq       uint64
	mu            sync.Mutex
}

// NewQueue creates a new filesystem-based queue
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BasePath, "pending"),
		processingDir: path.Join(config.BasePath, "processing"),
		completedDir:  path.Join(config.BasePath, "completed"),
		dlqDir:        path.Join(config.BasePath, "dlq"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.dlqDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes a new message to the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := clock.Now()
	message := &Message[T]{
		ID:        idgen.Sortable(q.nextSeq(now)),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return q.write(ctx, q.pendingDir, message)
}

// Consume claims the oldest pending message; it returns nil when none is pending.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.list(ctx, q.pendingDir)
	if err != nil || len(pending) == 0 {
		return nil, err
	}
	obj := pending[0]
	message, err := q.read(ctx, obj.URL())
	if err != nil {
		_ = q.fs.Move(ctx, obj.URL(), path.Join(q.dlqDir, "invalid-"+obj.Name()))
		return nil, err
	}
	message.State = MessageStateProcessing
	message.UpdatedAt = clock.Now()
	if err = q.write(ctx, q.processingDir, message); err != nil {
		return nil, fmt.Errorf("failed to claim message %s: %w", message.ID, err)
	}
	if err = q.fs.Delete(ctx, obj.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete pending message %s: %w", message.ID, err)
	}
	message.queue = q
	return message, nil
}

// Size returns the number of pending messages.
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	pending, err := q.list(ctx, q.pendingDir)
	return len(pending), err
}

// DeadLetters returns payloads of messages that exhausted their retries.
func (q *Queue[T]) DeadLetters(ctx context.Context) ([]*T, error) {
	objects, err := q.list(ctx, q.dlqDir)
	if err != nil {
		return nil, err
	}
	ret := make([]*T, 0, len(objects))
	for _, obj := range objects {
		message, err := q.read(ctx, obj.URL())
		if err != nil {
			return nil, err
		}
		ret = append(ret, message.T())
	}
	return ret, nil
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], dir string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.write(ctx, dir, m); err != nil {
		return err
	}
	processing := path.Join(q.processingDir, q.filename(m.ID))
	if exists, _ := q.fs.Exists(ctx, processing); exists {
		if err := q.fs.Delete(ctx, processing); err != nil {
			return fmt.Errorf("failed to delete processing message %s: %w", m.ID, err)
		}
	}
	return nil
}

func (q *Queue[T]) list(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var ret []storage.Object
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), ".json") {
			ret = append(ret, obj)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name() < ret[j].Name() })
	return ret, nil
}

func (q *Queue[T]) nextSeq(now time.Time) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	seq := uint64(now.UnixNano())
	if seq <= q.lastSeq {
		seq = q.lastSeq + 1
	}
	q.lastSeq = seq
	return seq
}

func (q *Queue[T]) filename(id string) string {
	return id + ".json"
}

func (q *Queue[T]) write(ctx context.Context, dir string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", m.ID, err)
	}
	return q.fs.Upload(ctx, path.Join(dir, q.filename(m.ID)), file.DefaultFileOsMode, bytes.NewReader(data))
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
