package event

import "time"

// Context carries the provenance of an event through the stream.
type Context struct {
	Seq       int    `json:"seq"`
	Phase     string `json:"phase"`
	EventType string `json:"eventType"`
}

// Event wraps a typed payload with its context and metadata.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event for the supplied payload.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
