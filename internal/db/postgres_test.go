package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
	"github.com/yigit/edutrack/internal/pkg/dberrors"
)

func TestRetryTransactionSucceedsAfterDeadlock(t *testing.T) {
	calls := 0
	err := retryTransaction(context.Background(), 3, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return &pgconn.PgError{Code: dberrors.CodeDeadlockDetected}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryTransactionExhaustedIsConflict(t *testing.T) {
	calls := 0
	err := retryTransaction(context.Background(), 3, func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: dberrors.CodeSerializationFailure}
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRetryTransactionDoesNotRetryDomainErrors(t *testing.T) {
	calls := 0
	domainErr := apperrors.NewCapacityExceededError("Course is full")
	err := retryTransaction(context.Background(), 5, func(ctx context.Context) error {
		calls++
		return domainErr
	})

	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
}

func TestRetryTransactionStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryTransaction(ctx, 5, func(ctx context.Context) error {
		calls++
		cancel()
		return &pgconn.PgError{Code: dberrors.CodeDeadlockDetected}
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryTransactionClampsAttempts(t *testing.T) {
	calls := 0
	_ = retryTransaction(context.Background(), 0, func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.Equal(t, 1, calls)
}
