package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"weshare/internal/config"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 5 * time.Minute

// Scheduler wraps cron-based maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  logger,
	}
}

// Add registers run under spec (standard five-field or descriptors such as "@every 1h").
func (s *Scheduler) Add(name, spec string, run func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, s.wrap(name, run))
	if err != nil {
		return 0, fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return id, nil
}

func (s *Scheduler) wrap(name string, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			s.log.ErrorContext(ctx, "job failed", "job", name, "error", err)
			return
		}
		s.log.InfoContext(ctx, "job finished", "job", name, "duration_ms", time.Since(start).Milliseconds())
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type totalCountSyncer interface {
	SyncTotalCount(ctx context.Context) (int64, error)
}

type refreshTokenPurger interface {
	PurgeRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// RegisterMaintenance schedules the statistics reconciliation and the refresh token purge.
func RegisterMaintenance(s *Scheduler, cfg config.SchedulerConfig, stats totalCountSyncer, tokens refreshTokenPurger) error {
	if _, err := s.Add("stats_total_count_sync", cfg.StatsSyncSpec, func(ctx context.Context) error {
		total, err := stats.SyncTotalCount(ctx)
		if err != nil {
			return err
		}
		s.log.InfoContext(ctx, "schedule total count synced", "total", total)
		return nil
	}); err != nil {
		return err
	}

	_, err := s.Add("refresh_token_purge", cfg.TokenPurgeSpec, func(ctx context.Context) error {
		n, err := tokens.PurgeRefreshTokens(ctx, time.Now())
		if err != nil {
			return err
		}
		s.log.InfoContext(ctx, "expired refresh tokens purged", "deleted", n)
		return nil
	})
	return err
}
