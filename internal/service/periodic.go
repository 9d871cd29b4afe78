package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"
)

// periodicTask runs fn once after a jittered start and then on every tick
// until ctx is cancelled. Errors are logged and the loop continues.
type periodicTask struct {
	name     string
	interval time.Duration
	logger   *slog.Logger
	fn       func(context.Context) error
}

// run returns nil on graceful shutdown (context.Canceled), ctx.Err() otherwise.
func (p periodicTask) run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "starting "+p.name, "interval", p.interval)

	// Add jitter to prevent thundering herd if multiple instances start together
	waitWithJitter(ctx, p.interval, p.logger)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logError(ctx, p.fn(ctx), "initial "+p.name)

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, p.name+" stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			p.logError(ctx, p.fn(ctx), p.name)
		}
	}
}

func (p periodicTask) logError(ctx context.Context, err error, label string) {
	if err == nil {
		return
	}
	if isContextCancellation(err) {
		p.logger.DebugContext(ctx, label+" cancelled by context", "error", err)
		return
	}
	p.logger.ErrorContext(ctx, label+" failed", "error", err)
}

// waitWithJitter sleeps a random delay up to 10% of interval.
func waitWithJitter(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	maxJitter := int64(interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	// Use modulo on uint64 before converting to avoid overflow
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
