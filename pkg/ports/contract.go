package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/mentor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLessonCacheContract runs a suite of tests to verify that a LessonCache implementation
// adheres to the defined interface contract.
func RunLessonCacheContract(t *testing.T, cache LessonCache) {
	ctx := context.Background()
	key := "contract-test-topic-" + time.Now().Format("20060102150405")

	t.Run("Miss", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Set and Get", func(t *testing.T) {
		lesson := "# Lesson\n\n```cpp\nint32 X = 0;\n```"
		require.NoError(t, cache.Set(ctx, key, lesson), "Set should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, lesson, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "first"))
		require.NoError(t, cache.Set(ctx, key, "second"))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "lesson"))
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		// Deleting twice is not an error.
		assert.NoError(t, cache.Delete(ctx, key))
	})
}

// RunLockerContract verifies that a DistributedLocker serialises holders of the same key.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Exclusive", func(t *testing.T) {
		var (
			mu      sync.Mutex
			holders int
			maxSeen int
			wg      sync.WaitGroup
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, key, 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				holders++
				if holders > maxSeen {
					maxSeen = holders
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				holders--
				mu.Unlock()
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxSeen, "lock must never be held twice")
	})

	t.Run("Canceled", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key+"-cancel", 5*time.Second)
		require.NoError(t, err)
		defer unlock(ctx)

		cctx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(cctx, key+"-cancel", 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
