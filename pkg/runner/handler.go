package runner

import (
	"context"

	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
)

// EventKind classifies what the runner presents.
type EventKind string

const (
	EventMessage    EventKind = "message"
	EventLesson     EventKind = "lesson"
	EventCurriculum EventKind = "curriculum"
)

// Event is one unit of output. Text is markdown; handlers decide how to render it.
type Event struct {
	Kind    EventKind       `json:"kind"`
	Message *domain.Message `json:"message,omitempty"`
	Topic   *domain.Topic   `json:"topic,omitempty"`
	Text    string          `json:"text,omitempty"`
	Nodes   []markdown.Node `json:"nodes,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents an event to the user.
	Output(ctx context.Context, ev Event) error

	// Input reads the next line from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (status, usage errors).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written.
// This allows terminal styling without coupling the runner to a presentation package.
type ContentRenderer func(string) (string, error)
