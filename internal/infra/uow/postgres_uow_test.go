//go:build unit

package uow

import (
	"errors"
	"testing"
	"time"

	"fastpick/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, 0, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, 1, true},
		{"last attempt", &pgconn.PgError{Code: "40001"}, 3, false},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, 0, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, 0, false},
		{"plain error", errors.New("boom"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRetry(tt.err, tt.attempt, 3))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 0; attempt < 4; attempt++ {
		wait := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base
		assert.GreaterOrEqual(t, wait, floor)
		assert.Less(t, wait, floor+floor/5+time.Nanosecond)
	}
}

func TestMarkedTxErrorsMatch(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "40001"}
	exhausted := errs.Mark(pgErr, errMaxRetriesExceeded)

	assert.True(t, errs.Is(exhausted, errMaxRetriesExceeded))
	assert.False(t, errs.Is(exhausted, errTransactionCommit))

	var target *pgconn.PgError
	assert.True(t, errors.As(exhausted, &target))
	assert.Equal(t, "40001", target.Code)
}
