package infra

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// CBState is the printer breaker state reported by /health and checked by
// the reprint cron.
type CBState = gobreaker.State

const (
	CBClosed   = gobreaker.StateClosed
	CBHalfOpen = gobreaker.StateHalfOpen
	CBOpen     = gobreaker.StateOpen
)

// ErrCircuitOpen is returned without touching the spooler while the printer
// is considered offline.
var ErrCircuitOpen = gobreaker.ErrOpenState

// CircuitBreakerConfig tunes the printer breaker.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failed prints that mark the printer offline (default 5)
	SuccessThreshold int           // successful trial prints that bring it back (default 2)
	OpenTimeout      time.Duration // wait before the first trial print (default 60s)
}

// DefaultCBConfig: three failed jobs take the printer offline for a minute.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Minute,
	}
}

// CircuitBreaker guards the print spooler so that an offline printer fails
// receipt jobs fast and leaves them to the reprint cron.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	threshold := uint32(cfg.FailureThreshold)
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "printer",
		MaxRequests: uint32(cfg.SuccessThreshold),
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ev := log.Info()
			if to == gobreaker.StateOpen {
				ev = log.Warn()
			}
			ev.Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("printer breaker state changed")
		},
	})}
}

// State reports the current state; an open breaker whose timeout elapsed
// reads as half-open.
func (b *CircuitBreaker) State() CBState { return b.cb.State() }

// Execute runs a print through the breaker. While open, or while the
// half-open trial prints are already in flight, it returns ErrCircuitOpen.
func (b *CircuitBreaker) Execute(job func() error) error {
	_, err := b.cb.Execute(func() (any, error) { return nil, job() })
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
