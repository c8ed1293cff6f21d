package repository

import "context"

// LoginAttemptStore counts failed logins per key with an explicit expiry.
// Implementations must not keep process-lifetime state.
type LoginAttemptStore interface {
	IsLocked(ctx context.Context, key string) (bool, error)
	RegisterFailure(ctx context.Context, key string) (attempts int64, locked bool, err error)
	Reset(ctx context.Context, key string) error
}
