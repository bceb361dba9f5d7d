package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/mentor/pkg/domain"
)

// Call records a request made to a ScriptedModel.
type Call struct {
	Kind              string // "session", "send" or "complete"
	Text              string
	SystemInstruction string
}

// ScriptedModel implements ports.ModelClient without a network.
// Replies are produced by Reply (or echoed when nil); Err, when set, fails every request.
type ScriptedModel struct {
	Reply func(prompt string, history []domain.Turn) string
	Err   error

	mu    sync.Mutex
	calls []Call
}

// NewScriptedModel returns a model that answers with reply.
func NewScriptedModel(reply func(prompt string, history []domain.Turn) string) *ScriptedModel {
	return &ScriptedModel{Reply: reply}
}

// NewEchoModel returns a model that repeats the prompt back, useful for offline demos.
func NewEchoModel() *ScriptedModel {
	return &ScriptedModel{}
}

func (m *ScriptedModel) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Calls returns a copy of the recorded requests.
func (m *ScriptedModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *ScriptedModel) answer(prompt string, history []domain.Turn) string {
	if m.Reply != nil {
		return m.Reply(prompt, history)
	}
	return fmt.Sprintf("You said: **%s**", prompt)
}

// CreateSession returns an empty session.
func (m *ScriptedModel) CreateSession(ctx context.Context, systemInstruction string, opts domain.SessionOptions) (*domain.ModelSession, error) {
	m.record(Call{Kind: "session", SystemInstruction: systemInstruction})
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.ModelSession{
		SystemInstruction: systemInstruction,
		Options:           opts,
	}, nil
}

// SendMessage answers within the session and appends the exchange.
func (m *ScriptedModel) SendMessage(ctx context.Context, session *domain.ModelSession, text string) (string, error) {
	m.record(Call{Kind: "send", Text: text, SystemInstruction: session.SystemInstruction})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	reply := m.answer(text, session.History)
	session.Append(text, reply)
	return reply, nil
}

// CompleteOnePrompt answers a single prompt.
func (m *ScriptedModel) CompleteOnePrompt(ctx context.Context, prompt string, systemInstruction string) (string, error) {
	m.record(Call{Kind: "complete", Text: prompt, SystemInstruction: systemInstruction})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.answer(prompt, nil), nil
}
