package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/maitred/maitred/service/messaging"
)

// RendezvousMessage is a message delivered through a Rendezvous queue.
// Acking (or nacking) it releases the blocked publisher.
type RendezvousMessage[T any] struct {
	id      string
	payload T
	release chan error
	mu      sync.Mutex
	settled bool
}

// T returns the message payload.
func (m *RendezvousMessage[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message and releases its publisher.
func (m *RendezvousMessage[T]) Ack() error {
	return m.settle(nil)
}

// Nack reports a processing failure to the blocked publisher. There is no
// retry: the publisher's Publish call returns err.
func (m *RendezvousMessage[T]) Nack(err error) error {
	if err == nil {
		err = fmt.Errorf("message %s nacked", m.id)
	}
	return m.settle(err)
}

func (m *RendezvousMessage[T]) settle(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message already processed")
	}
	m.settled = true
	m.release <- err
	return nil
}

// Rendezvous is a single-slot queue implementing a full request handshake:
// Publish blocks until the consumer has both received the message and acked
// it, so a publisher can never race ahead with a second request while the
// previous one is still being handled.  At most one undelivered message
// exists at any instant; concurrent publishers queue up on the slot.
type Rendezvous[T any] struct {
	slot chan *RendezvousMessage[T]
}

// NewRendezvous creates a single-slot handshake queue.
func NewRendezvous[T any]() *Rendezvous[T] {
	return &Rendezvous[T]{slot: make(chan *RendezvousMessage[T])}
}

// Publish deposits the payload and blocks until the consumer acknowledges
// it. Returns the consumer's error when the message was nacked, or the
// context error when cancelled while waiting.
func (q *Rendezvous[T]) Publish(ctx context.Context, t *T) error {
	msg := &RendezvousMessage[T]{
		id:      uuid.New().String(),
		payload: *t,
		release: make(chan error, 1),
	}
	select {
	case q.slot <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-msg.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume blocks until a message is present and returns it. The publisher
// stays blocked until the returned message is acked or nacked.
func (q *Rendezvous[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.slot:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ensure Rendezvous implements messaging.Queue
var _ messaging.Queue[any] = (*Rendezvous[any])(nil)
