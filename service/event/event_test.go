package event

import (
	"context"
	"testing"
	"time"

	"github.com/maitred/maitred/service/messaging/memory"
	"github.com/stretchr/testify/assert"
)

func TestPublisherConsume(t *testing.T) {
	queue := memory.NewQueue[Event[string]](memory.Config{QueueBuffer: 4})
	publisher := NewPublisher[string](queue)
	ctx := context.Background()

	err := publisher.Publish(ctx, NewEvent(&Context{Seq: 1, Phase: "assigningTable", EventType: "phase"}, "payload"))
	assert.NoError(t, err)

	event, err := publisher.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "payload", event.Data)
	assert.Equal(t, 1, event.Context.Seq)
}

func TestListener(t *testing.T) {
	queue := memory.NewQueue[Event[int]](memory.Config{QueueBuffer: 4})
	publisher := NewPublisher[int](queue)

	received := make(chan int, 2)
	listener := NewListener(publisher, func(e *Event[int]) {
		received <- e.Data
	})
	listener.Start()
	defer listener.Stop()

	ctx := context.Background()
	assert.NoError(t, publisher.Publish(ctx, NewEvent(&Context{EventType: "phase"}, 7)))

	select {
	case v := <-received:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("listener did not deliver event")
	}
}
