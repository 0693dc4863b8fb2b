package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errOffline = errors.New("printer offline")

func failingJob() error { return errOffline }
func okJob() error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Hour})

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(failingJob), errOffline)
		assert.Equal(t, CBClosed, cb.State())
	}
	assert.ErrorIs(t, cb.Execute(failingJob), errOffline)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})

	_ = cb.Execute(failingJob)
	assert.NoError(t, cb.Execute(okJob))
	_ = cb.Execute(failingJob)
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenTrialPrint(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 20 * time.Millisecond})

	_ = cb.Execute(failingJob)
	assert.Equal(t, CBOpen, cb.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// a failed trial print takes the printer offline again
	_ = cb.Execute(failingJob)
	assert.Equal(t, CBOpen, cb.State())

	time.Sleep(30 * time.Millisecond)
	assert.NoError(t, cb.Execute(okJob))
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(okJob))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRejectsExtraPrints(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 20 * time.Millisecond})
	_ = cb.Execute(failingJob)
	time.Sleep(30 * time.Millisecond)

	// the single trial slot is taken while this print is running
	err := cb.Execute(func() error {
		assert.ErrorIs(t, cb.Execute(okJob), ErrCircuitOpen)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, CBClosed, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	for i := 0; i < 4; i++ {
		_ = cb.Execute(failingJob)
	}
	assert.Equal(t, CBClosed, cb.State())
	_ = cb.Execute(failingJob)
	assert.Equal(t, CBOpen, cb.State())
}
