package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PublishConsume(t *testing.T) {
	queue := NewQueue[string](Config{QueueBuffer: 4})
	ctx := context.Background()

	for _, v := range []string{"a", "b"} {
		value := v
		assert.NoError(t, queue.Publish(ctx, &value))
	}
	assert.Equal(t, 2, queue.Size())

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "a", *msg.T())
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())
}

func TestQueue_DefaultBuffer(t *testing.T) {
	queue := NewQueue[int](Config{})
	assert.Equal(t, DefaultConfig().QueueBuffer, cap(queue.messages))
}
