// ABOUTME: Bounded exponential backoff for transient user lookups
// ABOUTME: Standalone helper, reusable outside the session layer

package auth

import (
	"context"
	"errors"
	"time"
)

// Backoff retries an operation with exponentially growing pauses. The zero
// value is not usable; call DefaultBackoff or fill all fields.
type Backoff struct {
	MaxAttempts int
	Initial     time.Duration
}

// DefaultBackoff retries up to five times starting at 100ms, so a lookup
// that races a slow schema migration or a locked database file resolves
// without surfacing an error.
func DefaultBackoff() Backoff {
	return Backoff{MaxAttempts: 5, Initial: 100 * time.Millisecond}
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context
// is cancelled. The pause doubles after every failed attempt. The last
// error is returned when all attempts fail.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	var err error
	delay := b.Initial

	for attempt := 0; attempt < b.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
				delay *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err = fn(); err == nil {
			return nil
		}
	}

	return err
}

// GetUserWithRetry looks up a user by id, retrying transient failures.
// ErrUserNotFound is terminal: the store answers from a single SQLite
// database with no replication lag, so a missing row stays missing and
// retrying it would only stall every request carrying a stale token.
func GetUserWithRetry(ctx context.Context, users UserStore, id string, b Backoff) (*User, error) {
	var user *User
	err := b.Do(ctx, func() error {
		var lookupErr error
		user, lookupErr = users.GetUser(ctx, id)
		if errors.Is(lookupErr, ErrUserNotFound) {
			user = nil
			return nil
		}
		return lookupErr
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
