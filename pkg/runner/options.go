package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler sets the IO strategy.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInitialTopic opens a topic right after the welcome message.
func WithInitialTopic(topicID string) Option {
	return func(r *Runner) {
		r.InitialTopic = topicID
	}
}
