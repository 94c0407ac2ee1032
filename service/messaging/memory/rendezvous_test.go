package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRendezvous_PublishBlocksUntilAck(t *testing.T) {
	queue := NewRendezvous[int]()
	ctx := context.Background()

	published := make(chan error, 1)
	value := 42
	go func() {
		published <- queue.Publish(ctx, &value)
	}()

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 42, *msg.T())

	// The publisher must still be blocked: the message was consumed but not
	// acknowledged yet.
	select {
	case <-published:
		t.Fatal("publisher released before ack")
	case <-time.After(50 * time.Millisecond):
	}

	assert.NoError(t, msg.Ack())
	select {
	case err := <-published:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publisher not released after ack")
	}
}

func TestRendezvous_StrictAlternation(t *testing.T) {
	queue := NewRendezvous[int]()
	ctx := context.Background()

	first, second := 1, 2
	firstDone := make(chan error, 1)
	secondDone := make(chan error, 1)
	go func() { firstDone <- queue.Publish(ctx, &first) }()

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)

	go func() { secondDone <- queue.Publish(ctx, &second) }()

	// The second submission cannot complete while the first is unacked: a
	// consume attempt with a short deadline must come back empty only after
	// the first message has been acknowledged.
	select {
	case <-secondDone:
		t.Fatal("second publisher released before first was acked")
	case <-time.After(50 * time.Millisecond):
	}

	assert.NoError(t, msg.Ack())
	<-firstDone

	next, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, *next.T())
	assert.NoError(t, next.Ack())
	assert.NoError(t, <-secondDone)
}

func TestRendezvous_NackPropagatesToPublisher(t *testing.T) {
	queue := NewRendezvous[int]()
	ctx := context.Background()

	value := 7
	published := make(chan error, 1)
	go func() { published <- queue.Publish(ctx, &value) }()

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)

	cause := errors.New("cannot serve")
	assert.NoError(t, msg.Nack(cause))
	assert.Equal(t, cause, <-published)
}

func TestRendezvous_DoubleAck(t *testing.T) {
	queue := NewRendezvous[int]()
	ctx := context.Background()

	value := 1
	go func() { _ = queue.Publish(ctx, &value) }()

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())
	assert.Error(t, msg.Nack(errors.New("late")))
}

func TestRendezvous_ContextCancellation(t *testing.T) {
	queue := NewRendezvous[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	value := 3
	err = queue.Publish(ctx, &value)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
