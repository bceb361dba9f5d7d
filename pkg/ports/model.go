package ports

import (
	"context"

	"github.com/aretw0/mentor/pkg/domain"
)

// ModelClient is the boundary to the hosted language model.
type ModelClient interface {
	// CreateSession establishes a conversational context with a fixed system instruction.
	CreateSession(ctx context.Context, systemInstruction string, opts domain.SessionOptions) (*domain.ModelSession, error)

	// SendMessage sends text within the session and returns the generated reply.
	// On success the exchange is appended to the session history.
	SendMessage(ctx context.Context, session *domain.ModelSession, text string) (string, error)

	// CompleteOnePrompt runs a single stateless prompt.
	CompleteOnePrompt(ctx context.Context, prompt string, systemInstruction string) (string, error)
}
