package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/taskvault/apiserver/types"
)

// todoChannel is the broker channel (queue or topic) change events go to.
const todoChannel = "todo-events"

// Action names the kind of change that happened to a todo.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is the JSON payload published after a successful todo mutation.
type Event struct {
	Action     Action     `json:"action"`
	Todo       types.Todo `json:"todo"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Backend defines the broker-agnostic publish operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher wraps a backend with a stable API for todo change events.
type Publisher struct {
	backend Backend
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend) *Publisher {
	return &Publisher{backend: backend}
}

// TodoChanged publishes a change event for the given todo.
func (p *Publisher) TodoChanged(ctx context.Context, action Action, todo types.Todo) error {
	event := Event{
		Action:     action,
		Todo:       todo,
		OccurredAt: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.backend.Publish(ctx, todoChannel, data, map[string]string{
		"action": string(action),
	})
	return err
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}
