package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"Medivue/database"
)

const (
	lockExpiry    = 10 * time.Second
	lockRetries   = 3
	lockRetryWait = 2 * time.Second
)

// waitBeforeRetry blocks for the retry interval unless the context ends
// first, so a cancelled request does not sit out the full backoff.
func waitBeforeRetry(ctx context.Context, wait time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// withLock runs fn while holding the distributed lock for key, retrying the
// acquisition a few times before giving up. It guards cross-instance writes;
// in-process serialization is handled by the core stores.
func withLock(ctx context.Context, key string, fn func() error) error {
	lockValue := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < lockRetries; i++ {
		locked, err = database.NewLock(ctx, key, lockValue, lockExpiry)
		if err == nil && locked {
			break
		}
		if i < lockRetries-1 {
			if waitErr := waitBeforeRetry(ctx, lockRetryWait); waitErr != nil {
				return waitErr
			}
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, key, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	return fn()
}
