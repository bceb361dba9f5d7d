package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/pkg/domain"
)

// lockEntry holds the operation slot and the reference count.
// The slot is a one-element semaphore so waiting for it can be abandoned.
type lockEntry struct {
	slot chan struct{}
	refs int
}

// record guards one conversation's data. Its mutex is only held while state is
// read or written, never across a model call.
type record struct {
	mu   sync.Mutex
	conv *domain.Conversation
}

// Update runs fn on the live conversation while its data is locked.
type Update func(fn func(*domain.Conversation) error) error

// Manager orchestrates conversation access, ensuring safe concurrent operations.
// Operations on one conversation run one at a time; snapshots never wait for them.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	mu            sync.Mutex
	locks         map[string]*lockEntry
	conversations map[string]*record

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:         make(map[string]*lockEntry),
		conversations: make(map[string]*record),
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST call release(id) once done with the entry.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{slot: make(chan struct{}, 1)}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) lookup(id string) (*record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.conversations[id]
	return r, ok
}

// Create registers a new conversation.
func (m *Manager) Create(conv *domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conversations[conv.ID]; exists {
		return fmt.Errorf("conversation %s already exists", conv.ID)
	}
	m.conversations[conv.ID] = &record{conv: conv}
	m.logger.Debug("conversation created", "conversation_id", conv.ID)
	return nil
}

// Get returns a snapshot of the conversation. It does not wait for a running
// operation, so loading flags and placeholders set by that operation are visible.
func (m *Manager) Get(ctx context.Context, id string) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}
	rec, ok := m.lookup(id)
	if !ok {
		return domain.Conversation{}, fmt.Errorf("%w: %s", domain.ErrConversationNotFound, id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.conv.Snapshot(), nil
}

// Delete removes the conversation, waiting for any in-flight operation on it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.Do(ctx, id, func(ctx context.Context, update Update) error {
		m.mu.Lock()
		delete(m.conversations, id)
		m.mu.Unlock()
		m.logger.Debug("conversation deleted", "conversation_id", id)
		return nil
	})
}

// List returns the IDs of all live conversations, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.conversations))
	for id := range m.conversations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Do runs fn as the only operation on the conversation. fn changes state through
// update, which may be called several times so that slow work (a model call) happens
// between updates with the data unlocked.
//
// Waiting for a running operation stops when ctx is done. Do returns
// domain.ErrConversationNotFound if the conversation is unknown or was deleted while waiting.
func (m *Manager) Do(ctx context.Context, id string, fn func(ctx context.Context, update Update) error) error {
	entry := m.acquire(id)
	defer m.release(id)

	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-entry.slot }()

	if err := ctx.Err(); err != nil {
		return err
	}

	rec, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrConversationNotFound, id)
	}
	return fn(ctx, func(apply func(*domain.Conversation) error) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return apply(rec.conv)
	})
}

// WithLock executes fn as a single update: the operation slot and the data lock are held throughout.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context, *domain.Conversation) error) error {
	return m.Do(ctx, id, func(ctx context.Context, update Update) error {
		return update(func(conv *domain.Conversation) error {
			return fn(ctx, conv)
		})
	})
}
