package tutor

import (
	"context"
	"fmt"

	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/session"
)

// Service addresses conversations by ID. Operations on one conversation are serialized;
// model calls run with the conversation unlocked, so Get observes the loading state.
type Service struct {
	tutor    *Tutor
	sessions *session.Manager
}

// NewService binds a Tutor to a session manager.
func NewService(t *Tutor, sessions *session.Manager) *Service {
	return &Service{tutor: t, sessions: sessions}
}

// Tutor returns the underlying Tutor.
func (s *Service) Tutor() *Tutor {
	return s.tutor
}

// Open starts and registers a conversation. A non-empty topicID is selected immediately.
func (s *Service) Open(ctx context.Context, topicID string) (domain.Conversation, error) {
	if topicID != "" {
		if _, ok := s.tutor.findTopic(topicID); !ok {
			return domain.Conversation{}, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, topicID)
		}
	}

	conv := s.tutor.Start(ctx)
	if err := s.sessions.Create(conv); err != nil {
		return domain.Conversation{}, err
	}
	if topicID == "" {
		return s.sessions.Get(ctx, conv.ID)
	}
	return s.SelectTopic(ctx, conv.ID, topicID)
}

// Get returns a snapshot of the conversation.
func (s *Service) Get(ctx context.Context, id string) (domain.Conversation, error) {
	return s.sessions.Get(ctx, id)
}

// Close discards the conversation.
func (s *Service) Close(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// List returns the IDs of the live conversations.
func (s *Service) List() []string {
	return s.sessions.List()
}

// SelectTopic changes the active topic and loads its lesson.
func (s *Service) SelectTopic(ctx context.Context, id, topicID string) (domain.Conversation, error) {
	var snap domain.Conversation
	err := s.sessions.Do(ctx, id, func(ctx context.Context, update session.Update) error {
		var topic domain.Topic
		err := update(func(conv *domain.Conversation) error {
			var err error
			topic, err = s.tutor.BeginTopic(conv, topicID)
			return err
		})
		if err != nil {
			return err
		}

		lesson := s.tutor.Lesson(ctx, topic)

		return update(func(conv *domain.Conversation) error {
			s.tutor.FinishTopic(conv, topic, lesson)
			snap = conv.Snapshot()
			return nil
		})
	})
	return snap, err
}

// Ask sends a question and returns the reply.
func (s *Service) Ask(ctx context.Context, id, text string) (domain.Message, error) {
	return s.send(ctx, id, func(*domain.Conversation) (string, error) {
		return text, nil
	})
}

// Quiz asks for a quiz on the active topic.
func (s *Service) Quiz(ctx context.Context, id string) (domain.Message, error) {
	return s.send(ctx, id, func(conv *domain.Conversation) (string, error) {
		prompt, ok := s.tutor.QuizPrompt(conv)
		if !ok {
			return "", fmt.Errorf("%w: no active topic", domain.ErrTopicNotFound)
		}
		return prompt, nil
	})
}

func (s *Service) send(ctx context.Context, id string, prompt func(*domain.Conversation) (string, error)) (domain.Message, error) {
	var reply domain.Message
	err := s.sessions.Do(ctx, id, func(ctx context.Context, update session.Update) error {
		var pending *PendingReply
		err := update(func(conv *domain.Conversation) error {
			text, err := prompt(conv)
			if err != nil {
				return err
			}
			pending, err = s.tutor.BeginSend(conv, text)
			return err
		})
		if err != nil {
			return err
		}

		s.tutor.Await(ctx, pending)

		return update(func(conv *domain.Conversation) error {
			reply = s.tutor.FinishSend(conv, pending)
			return nil
		})
	})
	return reply, err
}

// SetView switches the conversation's view.
func (s *Service) SetView(ctx context.Context, id string, mode domain.ViewMode) (domain.Conversation, error) {
	var snap domain.Conversation
	err := s.sessions.WithLock(ctx, id, func(ctx context.Context, conv *domain.Conversation) error {
		if err := s.tutor.SetView(conv, mode); err != nil {
			return err
		}
		snap = conv.Snapshot()
		return nil
	})
	return snap, err
}

// Reset clears the conversation and starts it over.
func (s *Service) Reset(ctx context.Context, id string) (domain.Conversation, error) {
	var snap domain.Conversation
	err := s.sessions.WithLock(ctx, id, func(ctx context.Context, conv *domain.Conversation) error {
		s.tutor.Reset(ctx, conv)
		snap = conv.Snapshot()
		return nil
	})
	return snap, err
}

// Lesson returns the lesson for a topic outside of any conversation.
func (s *Service) Lesson(ctx context.Context, topicID string) (string, error) {
	topic, ok := s.tutor.findTopic(topicID)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrTopicNotFound, topicID)
	}
	return s.tutor.Lesson(ctx, topic), nil
}
