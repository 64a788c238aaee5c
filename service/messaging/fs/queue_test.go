package fs

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/nftstub/service/messaging"
)

type testPayload struct {
	ID   string `json:"id"`
	Args string `json:"args"`
}

func newTestQueue(t *testing.T, maxRetries int) *Queue[testPayload] {
	queue, err := NewQueue[testPayload](afs.New(), Config{BasePath: t.TempDir(), MaxRetries: maxRetries})
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	return queue
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t, 0)

	for _, id := range []string{"c1", "c2", "c3"} {
		assert.NoError(t, queue.Publish(ctx, &testPayload{ID: id, Args: `{"msg":"hi"}`}))
	}
	size, err := queue.Size(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, size)

	for _, expect := range []string{"c1", "c2", "c3"} {
		message, err := queue.Consume(ctx)
		if !assert.NoError(t, err) || !assert.NotNil(t, message) {
			return
		}
		assert.Equal(t, expect, message.T().ID)
		assert.Equal(t, `{"msg":"hi"}`, message.T().Args)
		assert.NoError(t, message.Ack())
		assert.Error(t, message.Ack())
	}

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Nil(t, message)
}

func TestQueue_Nack(t *testing.T) {
	ctx := context.Background()

	t.Run("dead letter without retries", func(t *testing.T) {
		queue := newTestQueue(t, 0)
		assert.NoError(t, queue.Publish(ctx, &testPayload{ID: "bad"}))
		message, err := queue.Consume(ctx)
		if !assert.NoError(t, err) || !assert.NotNil(t, message) {
			return
		}
		disposition, err := message.Nack(errors.New("boom"))
		assert.NoError(t, err)
		assert.Equal(t, messaging.DeadLettered, disposition)

		dead, err := queue.DeadLetters(ctx)
		assert.NoError(t, err)
		if assert.Len(t, dead, 1) {
			assert.Equal(t, "bad", dead[0].ID)
		}
		size, _ := queue.Size(ctx)
		assert.Equal(t, 0, size)
	})

	t.Run("retry once", func(t *testing.T) {
		queue := newTestQueue(t, 1)
		assert.NoError(t, queue.Publish(ctx, &testPayload{ID: "flaky"}))
		message, _ := queue.Consume(ctx)
		disposition, err := message.Nack(nil)
		assert.NoError(t, err)
		assert.Equal(t, messaging.Requeued, disposition)

		message, err = queue.Consume(ctx)
		if !assert.NoError(t, err) || !assert.NotNil(t, message) {
			return
		}
		assert.Equal(t, 1, message.(*Message[testPayload]).Retries)
		disposition, err = message.Nack(nil)
		assert.NoError(t, err)
		assert.True(t, disposition.Terminal())
		dead, _ := queue.DeadLetters(ctx)
		assert.Len(t, dead, 1)
	})
}

func TestDefaultConfig(t *testing.T) {
	first, second := DefaultConfig(), DefaultConfig()
	assert.NotEqual(t, first.BasePath, second.BasePath)
	assert.True(t, strings.HasPrefix(first.BasePath, os.TempDir()))
}
