package ports

import (
	"context"
	"time"
)

type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}
