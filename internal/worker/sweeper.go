package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepBatch is how many elapsed bookings one ledger call completes.
const DefaultSweepBatch = 200

// Completer completes confirmed bookings whose event date is before now.
type Completer interface {
	CompleteElapsed(ctx context.Context, now time.Time, batch int) (int, error)
}

// Sweeper periodically moves elapsed confirmed bookings to completed.
type Sweeper struct {
	completer Completer
	interval  time.Duration
	batch     int
	now       func() time.Time
	logger    *zap.Logger
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(c Completer, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{completer: c, interval: interval, batch: DefaultSweepBatch, now: time.Now, logger: logger}
}

// RunOnce drains elapsed bookings batch by batch and returns how many were completed.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	total := 0
	now := s.now().UTC()
	for {
		n, err := s.completer.CompleteElapsed(ctx, now, s.batch)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.batch {
			return total, nil
		}
	}
}

// Run sweeps immediately, then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		n, err := s.RunOnce(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			s.logger.Error("completion sweep failed", zap.Int("completed", n), zap.Error(err))
		case n > 0:
			s.logger.Info("completed elapsed bookings", zap.Int("completed", n))
		}
		select {
		case <-ctx.Done():
			s.logger.Info("completion sweeper stopping")
			return
		case <-ticker.C:
		}
	}
}
