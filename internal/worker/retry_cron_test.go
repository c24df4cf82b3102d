package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRetryBackoffDuplicaYTopa(t *testing.T) {
	casos := []struct {
		retryCount int
		esperado   time.Duration
	}{
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{5, 16 * time.Minute},
		{6, 30 * time.Minute}, // 32m capped
		{10, 30 * time.Minute},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, computeRetryBackoff(c.retryCount), "retry %d", c.retryCount)
	}
}

func TestWithRetryReintentaHastaExito(t *testing.T) {
	intentos := 0
	err := withRetry(context.Background(), 3, func(int) error {
		intentos++
		if intentos < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, intentos)
}

func TestWithRetryDevuelveUltimoError(t *testing.T) {
	definitivo := errors.New("gateway caído")
	intentos := 0
	err := withRetry(context.Background(), 3, func(int) error {
		intentos++
		return definitivo
	})
	require.ErrorIs(t, err, definitivo)
	assert.Equal(t, 3, intentos)
}

func TestWithRetryRespetaCancelacion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	intentos := 0
	err := withRetry(ctx, 3, func(int) error {
		intentos++
		return errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	// The first attempt runs before any wait; cancellation stops the rest.
	assert.Equal(t, 1, intentos)
}
