package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGateway = errors.New("gateway down")

func newTestCB(openTimeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func fail() error { return errGateway }
func ok() error   { return nil }

func TestCircuitBreakerAbreTrasFallosConsecutivos(t *testing.T) {
	cb := newTestCB(time.Minute)

	for i := 0; i < 3; i++ {
		require.Equal(t, CBClosed, cb.State())
		require.ErrorIs(t, cb.Execute(fail), errGateway)
	}
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerFallaRapidoAbierto(t *testing.T) {
	cb := newTestCB(time.Minute)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}

	llamado := false
	err := cb.Execute(func() error {
		llamado = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado, "no debe invocar la función con el circuito abierto")
}

func TestCircuitBreakerExitoReiniciaContador(t *testing.T) {
	cb := newTestCB(time.Minute)

	require.ErrorIs(t, cb.Execute(fail), errGateway)
	require.ErrorIs(t, cb.Execute(fail), errGateway)
	require.NoError(t, cb.Execute(ok))

	// The counter restarted: two more failures do not reach the threshold.
	require.ErrorIs(t, cb.Execute(fail), errGateway)
	require.ErrorIs(t, cb.Execute(fail), errGateway)
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerMedioAbiertoTrasTimeout(t *testing.T) {
	cb := newTestCB(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())
}

func TestCircuitBreakerCierraTrasExitosEnMedioAbierto(t *testing.T) {
	cb := newTestCB(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ok))
	require.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerFalloEnMedioAbiertoReabre(t *testing.T) {
	cb := newTestCB(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.ErrorIs(t, cb.Execute(fail), errGateway)
	assert.Equal(t, CBOpen, cb.State())
}
