package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
)

// JanitorConfig controls how often orphaned snapshots are swept.
type JanitorConfig struct {
	Interval time.Duration
}

// Janitor removes task snapshots whose owner record no longer exists. Logout
// deletes the session, the user record, and the snapshot as separate steps;
// a crash or failure after the user record is gone leaves the snapshot
// behind with no owner, and nothing else would ever reclaim it.
type Janitor struct {
	snapshots repository.SnapshotRepository
	users     repository.UserRepository
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       JanitorConfig
}

func NewJanitor(snapshots repository.SnapshotRepository, users repository.UserRepository, logger *zap.Logger, cfg JanitorConfig) *Janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		snapshots: snapshots,
		users:     users,
		logger:    logger,
		cfg:       cfg,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := j.Sweep(ctx); err != nil {
			j.logger.Error("snapshot sweep failed", zap.Error(err))
		}
	})

	return j
}

// Start launches the cron scheduler.
func (j *Janitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("janitor started", zap.Duration("interval", j.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (j *Janitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("janitor stopped")
}

// Sweep deletes every snapshot whose user record is gone.
func (j *Janitor) Sweep(ctx context.Context) error {
	keys, err := j.snapshots.Keys(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		_, err := j.users.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		if err := j.snapshots.Delete(ctx, key); err != nil {
			j.logger.Warn("failed to delete orphaned snapshot", zap.String("user", key), zap.Error(err))
			continue
		}
		j.logger.Info("deleted orphaned snapshot", zap.String("user", key))
	}
	return nil
}
