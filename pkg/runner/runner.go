package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/tutor"
)

// Runner handles the interactive loop of a single conversation.
type Runner struct {
	Tutor        *tutor.Tutor
	Handler      IOHandler
	Logger       *slog.Logger
	InitialTopic string
}

// NewRunner creates a Runner with a text handler on Stdin/Stdout.
func NewRunner(t *tutor.Tutor, opts ...Option) *Runner {
	r := &Runner{
		Tutor:  t,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run starts a conversation and processes input until /quit, EOF or cancellation of ctx.
// An interrupt while the tutor is working aborts that request only.
func (r *Runner) Run(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	conv := r.Tutor.Start(signals.Context())
	if err := r.emitMessages(ctx, conv.Messages); err != nil {
		return err
	}

	if r.InitialTopic != "" {
		if err := r.openTopic(signals.Context(), conv, r.InitialTopic); err != nil {
			return err
		}
	}

	for {
		line, err := r.Handler.Input(signals.Context())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if line == "" {
			continue
		}

		quit, err := r.dispatch(signals.Context(), conv, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}
		if signals.Context().Err() != nil {
			_ = r.Handler.SystemOutput(ctx, "Interrupted.")
			signals.Reset()
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, conv *domain.Conversation, line string) (bool, error) {
	cmd, ok := ParseCommand(line)
	if !ok {
		return false, r.ask(ctx, conv, line)
	}

	switch cmd.Name {
	case CmdQuit:
		return true, nil
	case CmdHelp:
		return false, r.Handler.SystemOutput(ctx, HelpText)
	case CmdTopics:
		return false, r.Handler.Output(ctx, Event{Kind: EventCurriculum, Text: CurriculumMarkdown(r.Tutor.Curriculum(), conv.ActiveTopic)})
	case CmdTopic:
		if cmd.Arg == "" {
			return false, r.Handler.SystemOutput(ctx, "Usage: /topic <id>")
		}
		return false, r.openTopic(ctx, conv, cmd.Arg)
	case CmdLesson:
		_ = r.Tutor.SetView(conv, domain.ViewLesson)
		if conv.ActiveTopic == nil {
			return false, r.Handler.SystemOutput(ctx, "No topic selected. Use /topics to pick one.")
		}
		return false, r.Handler.Output(ctx, Event{Kind: EventLesson, Topic: conv.ActiveTopic, Text: conv.Lesson})
	case CmdChat:
		_ = r.Tutor.SetView(conv, domain.ViewChat)
		return false, r.emitMessages(ctx, conv.Messages)
	case CmdQuiz:
		prompt, ok := r.Tutor.QuizPrompt(conv)
		if !ok {
			return false, r.Handler.SystemOutput(ctx, "No topic selected. Use /topic <id> first.")
		}
		return false, r.ask(ctx, conv, prompt)
	case CmdReset:
		r.Tutor.Reset(ctx, conv)
		return false, r.emitMessages(ctx, conv.Messages)
	default:
		return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("Unknown command /%s. Type /help for the list.", cmd.Name))
	}
}

func (r *Runner) openTopic(ctx context.Context, conv *domain.Conversation, topicID string) error {
	if err := r.Handler.SystemOutput(ctx, "Loading lesson..."); err != nil {
		return err
	}
	if err := r.Tutor.SelectTopic(ctx, conv, topicID); err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			return r.Handler.SystemOutput(ctx, fmt.Sprintf("Unknown topic %q. Use /topics to list them.", topicID))
		}
		return err
	}
	r.Logger.Debug("topic selected", "conversation_id", conv.ID, "topic_id", topicID)
	return r.Handler.Output(ctx, Event{Kind: EventLesson, Topic: conv.ActiveTopic, Text: conv.Lesson})
}

func (r *Runner) ask(ctx context.Context, conv *domain.Conversation, text string) error {
	reply, err := r.Tutor.Send(ctx, conv, text)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return nil
		}
		return err
	}
	return r.Handler.Output(ctx, Event{Kind: EventMessage, Message: &reply})
}

func (r *Runner) emitMessages(ctx context.Context, msgs []domain.Message) error {
	for i := range msgs {
		if err := r.Handler.Output(ctx, Event{Kind: EventMessage, Message: &msgs[i]}); err != nil {
			return err
		}
	}
	return nil
}

// CurriculumMarkdown lists the modules and topics, marking the active one.
func CurriculumMarkdown(c *domain.Curriculum, active *domain.Topic) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	if c.Title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", c.Title)
	}
	for _, m := range c.Modules {
		fmt.Fprintf(&b, "**%s**\n", m.Title)
		for _, t := range m.Topics {
			marker := " "
			if active != nil && active.ID == t.ID {
				marker = "*"
			}
			fmt.Fprintf(&b, "%s %-6s %s", marker, t.ID, t.Title)
			if t.Description != "" {
				fmt.Fprintf(&b, " - %s", t.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
