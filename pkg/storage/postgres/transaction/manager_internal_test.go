package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	testCases := []struct {
		desc string
		err  error
		want bool
	}{
		{desc: "Deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{desc: "SerializationFailure", err: fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "40001"}), want: true},
		{desc: "UniqueViolation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{desc: "DeadlineExceeded", err: context.DeadlineExceeded, want: false},
		{desc: "Canceled", err: fmt.Errorf("query: %w", context.Canceled), want: false},
		{desc: "PlainError", err: errors.New("boom"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(nil, logger.NewNop(), metric.NewFactory().Transaction())
	require.Error(t, err)
}
