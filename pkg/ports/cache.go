package ports

import (
	"context"
)

// LessonCache stores generated lesson text keyed by topic ID.
// Conversations are never stored here.
type LessonCache interface {
	// Get returns domain.ErrCacheMiss when no lesson is cached for the key.
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, lesson string) error

	Delete(ctx context.Context, key string) error
}
