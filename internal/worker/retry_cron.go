package worker

// retry_cron.go
// Background goroutine that re-prints receipts stuck in status 'failed'
// whose next_retry_at is due. Uses the printer circuit breaker to avoid
// hammering an offline printer, and a Redis lock so only one instance runs
// each tick.

import (
	"context"
	"errors"
	"time"

	"github.com/st9-8/mouegne/internal/infra"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	retryLockKey      = "lock:receipt-reprint"
	retryLockTTL      = 25 * time.Second

	retryBaseBackoff = 30 * time.Second
	retryMaxBackoff  = 30 * time.Minute
)

// RetryCronConfig holds all dependencies for the reprint goroutine.
type RetryCronConfig struct {
	Receipts repository.ReceiptRepository
	Worker   *ReceiptWorker
	CB       *infra.CircuitBreaker
	Locker   *redislock.Client // nil runs without a lock
}

// StartRetryCron ticks every 30s until ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				runRetryTick(ctx, cfg)
			}
		}
	}()
}

func runRetryTick(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Locker != nil {
		lock, err := cfg.Locker.Obtain(ctx, retryLockKey, retryLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			log.Debug().Msg("retry_cron: another instance holds the lock, skipping tick")
			return
		}
		if err != nil {
			log.Warn().Err(err).Msg("retry_cron: could not obtain lock, skipping tick")
			return
		}
		defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()
	}
	processRetries(ctx, cfg)
}

func processRetries(ctx context.Context, cfg RetryCronConfig) int {
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	receipts, err := cfg.Receipts.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return 0
	}
	if len(receipts) == 0 {
		return 0
	}

	log.Info().Int("count", len(receipts)).Msg("retry_cron: reprinting failed receipts")

	done := 0
	for i := range receipts {
		// it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			break
		}
		cfg.Worker.Retry(ctx, &receipts[i])
		done++
	}
	return done
}

// computeRetryBackoff doubles from 30s per attempt, capped at 30 minutes.
func computeRetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := retryBaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= retryMaxBackoff {
			return retryMaxBackoff
		}
	}
	return d
}
