// ABOUTME: Tests for the bounded exponential backoff helper
// ABOUTME: Attempt counting, cancellation, and retried user lookups

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffSucceedsAfterRetries(t *testing.T) {
	b := Backoff{MaxAttempts: 4, Initial: time.Millisecond}

	attempts := 0
	err := b.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestBackoffExhaustsAttempts(t *testing.T) {
	b := Backoff{MaxAttempts: 3, Initial: time.Millisecond}

	attempts := 0
	wantErr := errors.New("still down")
	err := b.Do(context.Background(), func() error {
		attempts++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, attempts)
}

func TestBackoffRespectsCancellation(t *testing.T) {
	b := Backoff{MaxAttempts: 10, Initial: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := b.Do(ctx, func() error { return errors.New("transient") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetUserWithRetry(t *testing.T) {
	store := NewMockUserStore()
	user, err := store.CreateUser(context.Background(), "mario@example.com", "trattoria")
	require.NoError(t, err)

	store.FailGets = 2
	b := Backoff{MaxAttempts: 4, Initial: time.Millisecond}

	got, err := GetUserWithRetry(context.Background(), store, user.ID, b)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, 3, store.GetCalls)
}

func TestGetUserWithRetryNotFoundIsTerminal(t *testing.T) {
	store := NewMockUserStore()
	b := Backoff{MaxAttempts: 5, Initial: time.Millisecond}

	_, err := GetUserWithRetry(context.Background(), store, "missing", b)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, store.GetCalls)
}
