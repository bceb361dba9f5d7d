package domain

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser   Sender = "USER"
	SenderAI     Sender = "AI"
	SenderSystem Sender = "SYSTEM"
)

// ViewMode selects which pane the learner is looking at.
type ViewMode string

const (
	ViewLesson ViewMode = "LESSON"
	ViewChat   ViewMode = "CHAT"
)

// Message is one entry of the conversation log.
// A loading message is a placeholder that gets replaced once the reply arrives.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Loading   bool      `json:"loading,omitempty"`
}

// SessionOptions are the generation settings fixed when a model session is created.
type SessionOptions struct {
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// DefaultSessionOptions balances creativity and accuracy for tutoring.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Temperature:     0.7,
		MaxOutputTokens: 2000,
	}
}
