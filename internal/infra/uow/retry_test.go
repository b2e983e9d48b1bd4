//go:build unit

package uow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"wrapped deadlock", fmt.Errorf("confirm: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"exclusion violation", &pgconn.PgError{Code: "23P01"}, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"not a database error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryable(tc.err))
		})
	}
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := retryPolicy{maxRetries: 3, base: 100 * time.Millisecond}

	for attempt, floor := range []time.Duration{100, 200, 400, 800} {
		floor *= time.Millisecond
		for range 20 {
			got := p.backoff(attempt)
			assert.GreaterOrEqual(t, got, floor)
			assert.Less(t, got, floor+floor/5)
		}
	}
}
