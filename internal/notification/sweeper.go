package notification

import (
	"context"
	"log/slog"
	"time"
)

type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Locker elects one replica per sweep. Implementations must let the lock
// expire on its own.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

const sweepLockKey = "notifications:purge"

type SweeperConfig struct {
	Interval     time.Duration
	SweepOnStart bool
	Timeout      time.Duration
}

type Sweeper struct {
	purger Purger
	locker Locker
	cfg    SweeperConfig
	logger *slog.Logger
}

// NewSweeper builds a periodic purge loop. locker may be nil for single
// instance deployments.
func NewSweeper(purger Purger, locker Locker, cfg SweeperConfig, logger *slog.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &Sweeper{purger: purger, locker: locker, cfg: cfg, logger: logger}
}

// Run blocks until ctx is cancelled. A failed sweep is logged and retried
// on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "notification sweeper started", "interval", s.cfg.Interval.String(), "on_start", s.cfg.SweepOnStart)

	if s.cfg.SweepOnStart {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "notification sweeper stopped")
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, sweepLockKey, s.cfg.Interval/2)
		if err != nil {
			s.logger.WarnContext(ctx, "sweeper lock unavailable, sweeping anyway", "error", err)
		} else if !ok {
			s.logger.DebugContext(ctx, "another instance holds the sweep lock")
			return
		}
	}

	if _, err := s.purger.Purge(ctx); err != nil {
		s.logger.ErrorContext(ctx, "notification sweep failed", "error", err)
	}
}
