package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/internal/metrics"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/ports"
	"github.com/google/uuid"
)

const defaultLockTTL = 2 * time.Minute

// Tutor applies conversation operations against a model and a curriculum.
type Tutor struct {
	model      ports.ModelClient
	curriculum *domain.Curriculum

	cache   ports.LessonCache
	locker  ports.DistributedLocker
	metrics *metrics.Metrics
	logger  *slog.Logger

	systemInstruction string
	sessionOpts       domain.SessionOptions
	lockTTL           time.Duration
	now               func() time.Time
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tutor) {
		t.logger = logger
	}
}

// WithLessonCache stores generated lessons by topic ID.
func WithLessonCache(cache ports.LessonCache) Option {
	return func(t *Tutor) {
		t.cache = cache
	}
}

// WithLocker makes lesson generation single-flight per topic across every process sharing the locker.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(t *Tutor) {
		t.locker = locker
	}
}

// WithMetrics records model and cache activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tutor) {
		t.metrics = m
	}
}

// WithSystemInstruction overrides the curriculum's tutor persona.
func WithSystemInstruction(s string) Option {
	return func(t *Tutor) {
		t.systemInstruction = s
	}
}

// WithSessionOptions sets the generation settings of new model sessions.
func WithSessionOptions(opts domain.SessionOptions) Option {
	return func(t *Tutor) {
		t.sessionOpts = opts
	}
}

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tutor) {
		t.now = now
	}
}

// New creates a Tutor. A nil model is allowed: conversations then start with a
// system message and reject questions.
func New(model ports.ModelClient, curriculum *domain.Curriculum, opts ...Option) *Tutor {
	t := &Tutor{
		model:       model,
		curriculum:  curriculum,
		logger:      logging.NewNop(),
		sessionOpts: domain.DefaultSessionOptions(),
		lockTTL:     defaultLockTTL,
		now:         time.Now,
	}
	if curriculum != nil {
		t.systemInstruction = curriculum.SystemInstruction
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Curriculum returns the course the tutor teaches.
func (t *Tutor) Curriculum() *domain.Curriculum {
	return t.curriculum
}

func (t *Tutor) message(sender domain.Sender, text string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: t.now(),
	}
}

// Start opens a conversation with a fresh model session and a welcome message.
// When the model cannot be initialized the conversation records a system message instead.
func (t *Tutor) Start(ctx context.Context) *domain.Conversation {
	conv := &domain.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: t.now(),
		View:      domain.ViewLesson,
	}
	t.initialize(ctx, conv)
	return conv
}

// Reset discards the conversation state in place, keeping its ID.
func (t *Tutor) Reset(ctx context.Context, conv *domain.Conversation) {
	id := conv.ID
	*conv = domain.Conversation{
		ID:        id,
		CreatedAt: t.now(),
		View:      domain.ViewLesson,
	}
	t.initialize(ctx, conv)
}

func (t *Tutor) initialize(ctx context.Context, conv *domain.Conversation) {
	if t.model == nil {
		conv.Append(t.message(domain.SenderSystem, MissingCredentialsText))
		return
	}

	session, err := t.model.CreateSession(ctx, t.systemInstruction, t.sessionOpts)
	if err != nil {
		t.logger.Error("failed to create model session", "conversation_id", conv.ID, "err", err)
		conv.Append(t.message(domain.SenderSystem, MissingCredentialsText))
		return
	}

	conv.Session = session
	title := ""
	if t.curriculum != nil {
		title = t.curriculum.Title
	}
	conv.Append(t.message(domain.SenderAI, WelcomeText(title)))
}

// SelectTopic makes topicID the active topic, switches to the lesson view and loads its lesson.
func (t *Tutor) SelectTopic(ctx context.Context, conv *domain.Conversation, topicID string) error {
	topic, err := t.BeginTopic(conv, topicID)
	if err != nil {
		return err
	}
	t.FinishTopic(conv, topic, t.Lesson(ctx, topic))
	return nil
}

// BeginTopic makes topicID the active topic and marks its lesson as loading.
// The lesson is then produced by Lesson and recorded with FinishTopic.
func (t *Tutor) BeginTopic(conv *domain.Conversation, topicID string) (domain.Topic, error) {
	topic, ok := t.findTopic(topicID)
	if !ok {
		return domain.Topic{}, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, topicID)
	}

	conv.ActiveTopic = &topic
	conv.View = domain.ViewLesson
	conv.Lesson = ""
	conv.LessonLoading = true
	return topic, nil
}

// FinishTopic records the lesson of topic and clears the loading flag.
func (t *Tutor) FinishTopic(conv *domain.Conversation, topic domain.Topic, lesson string) {
	if conv.ActiveTopic != nil && conv.ActiveTopic.ID == topic.ID {
		conv.Lesson = lesson
	}
	conv.LessonLoading = false
}

func (t *Tutor) findTopic(id string) (domain.Topic, bool) {
	if t.curriculum == nil {
		return domain.Topic{}, false
	}
	return t.curriculum.FindTopic(id)
}

// Lesson returns the mini-lesson for a topic, from the cache when possible.
// Failures produce one of the fixed lesson texts, which are never cached.
func (t *Tutor) Lesson(ctx context.Context, topic domain.Topic) string {
	if lesson, ok := t.cached(ctx, topic.ID); ok {
		return lesson
	}
	if t.model == nil {
		return LessonFailedText
	}

	if t.locker != nil {
		unlock, err := t.locker.Lock(ctx, "lesson:"+topic.ID, t.lockTTL)
		if err != nil {
			t.logger.Warn("lesson lock unavailable, generating without it", "topic_id", topic.ID, "err", err)
		} else {
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					t.logger.Warn("failed to release lesson lock (will expire via TTL)", "topic_id", topic.ID, "err", err)
				}
			}()
			// Another holder may have generated it while we waited.
			if lesson, ok := t.cached(ctx, topic.ID); ok {
				return lesson
			}
		}
	}

	start := time.Now()
	lesson, err := t.model.CompleteOnePrompt(ctx, LessonPrompt(topic.PromptContext), t.systemInstruction)
	switch {
	case err != nil:
		t.metrics.ObserveModel(metrics.KindLesson, metrics.OutcomeError, time.Since(start))
		t.logger.Error("failed to generate lesson", "topic_id", topic.ID, "err", err)
		return LessonFailedText
	case lesson == "":
		t.metrics.ObserveModel(metrics.KindLesson, metrics.OutcomeEmpty, time.Since(start))
		return LessonEmptyText
	}
	t.metrics.ObserveModel(metrics.KindLesson, metrics.OutcomeOK, time.Since(start))

	if t.cache != nil {
		if err := t.cache.Set(ctx, topic.ID, lesson); err != nil {
			t.logger.Warn("failed to cache lesson", "topic_id", topic.ID, "err", err)
		}
	}
	return lesson
}

func (t *Tutor) cached(ctx context.Context, topicID string) (string, bool) {
	if t.cache == nil {
		return "", false
	}
	lesson, err := t.cache.Get(ctx, topicID)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.logger.Warn("lesson cache lookup failed", "topic_id", topicID, "err", err)
		}
		t.metrics.LessonCache(false)
		return "", false
	}
	t.metrics.LessonCache(true)
	return lesson, true
}

// PendingReply is a question recorded in a conversation and waiting for the model.
type PendingReply struct {
	conversationID string
	text           string
	placeholder    domain.Message
	session        *domain.ModelSession
	reply          string
	final          *domain.Message
}

// Send relays a question to the model and returns the reply message.
// Blank text is rejected with domain.ErrEmptyMessage and leaves the conversation untouched.
// Other failures are reported through the returned message, never as an error.
func (t *Tutor) Send(ctx context.Context, conv *domain.Conversation, text string) (domain.Message, error) {
	p, err := t.BeginSend(conv, text)
	if err != nil {
		return domain.Message{}, err
	}
	t.Await(ctx, p)
	return t.FinishSend(conv, p), nil
}

// BeginSend appends the question and a loading placeholder, switching to the chat view.
// The model is asked by Await on a copy of the session, so the conversation can be
// read while the answer is pending.
func (t *Tutor) BeginSend(conv *domain.Conversation, text string) (*PendingReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if !conv.Available() || t.model == nil {
		msg := t.message(domain.SenderSystem, UnavailableText)
		conv.Append(msg)
		return &PendingReply{conversationID: conv.ID, text: text, final: &msg}, nil
	}

	conv.Append(t.message(domain.SenderUser, text))
	conv.View = domain.ViewChat

	placeholder := t.message(domain.SenderAI, "")
	placeholder.Loading = true
	conv.Append(placeholder)
	conv.ChatLoading = true

	return &PendingReply{
		conversationID: conv.ID,
		text:           text,
		placeholder:    placeholder,
		session:        conv.Session.Clone(),
	}, nil
}

// Await asks the model. Failures become one of the fixed reply texts.
func (t *Tutor) Await(ctx context.Context, p *PendingReply) {
	if p.final != nil {
		return
	}

	start := time.Now()
	reply, err := t.model.SendMessage(ctx, p.session, p.text)
	switch {
	case err != nil:
		t.metrics.ObserveModel(metrics.KindChat, metrics.OutcomeError, time.Since(start))
		t.logger.Error("failed to send message", "conversation_id", p.conversationID, "err", err)
		reply = ChatFailedText
	case reply == "":
		t.metrics.ObserveModel(metrics.KindChat, metrics.OutcomeEmpty, time.Since(start))
		reply = NoReplyText
	default:
		t.metrics.ObserveModel(metrics.KindChat, metrics.OutcomeOK, time.Since(start))
	}
	p.reply = reply
}

// FinishSend replaces the placeholder with the reply and keeps the session history the model extended.
func (t *Tutor) FinishSend(conv *domain.Conversation, p *PendingReply) domain.Message {
	if p.final != nil {
		return *p.final
	}

	final := domain.Message{
		ID:        p.placeholder.ID,
		Text:      p.reply,
		Sender:    domain.SenderAI,
		Timestamp: t.now(),
	}
	conv.Replace(p.placeholder.ID, final)
	conv.Session = p.session
	conv.ChatLoading = false
	return final
}

// QuizPrompt returns the quiz request for the active topic and switches to the chat view.
// It reports false when no topic is active.
func (t *Tutor) QuizPrompt(conv *domain.Conversation) (string, bool) {
	if conv.ActiveTopic == nil {
		return "", false
	}
	conv.View = domain.ViewChat
	return QuizText(conv.ActiveTopic.Title), true
}

// SetView switches between the lesson and chat views.
func (t *Tutor) SetView(conv *domain.Conversation, mode domain.ViewMode) error {
	switch mode {
	case domain.ViewLesson, domain.ViewChat:
		conv.View = mode
		return nil
	default:
		return fmt.Errorf("unknown view mode %q", mode)
	}
}
