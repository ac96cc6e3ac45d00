package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const TotalsRefreshJobName = "totals_refresh"

// TotalsRefresher re-derives every stored offer against the current catalog
// and persists headline totals that drifted. It reports how many offers changed.
type TotalsRefresher interface {
	RefreshTotals(ctx context.Context) (int, error)
}

type TotalsRefreshJob struct {
	refresher TotalsRefresher
	logger    *zap.Logger
	timeout   time.Duration
}

func NewTotalsRefreshJob(refresher TotalsRefresher, logger *zap.Logger, timeout time.Duration) *TotalsRefreshJob {
	return &TotalsRefreshJob{
		refresher: refresher,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes one refresh bounded by the job timeout
func (j *TotalsRefreshJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	updated, err := j.refresher.RefreshTotals(ctx)
	if err != nil {
		j.logger.Error("offer totals refresh failed",
			zap.Error(err),
			zap.Int("offers_updated", updated),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("offer totals refresh completed",
		zap.Int("offers_updated", updated),
		zap.Duration("duration", time.Since(start)))
}

// RegisterTotalsRefreshJob adds the nightly totals refresh to the scheduler
func RegisterTotalsRefreshJob(scheduler *Scheduler, refresher TotalsRefresher, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewTotalsRefreshJob(refresher, logger, timeout)
	return scheduler.AddJob(TotalsRefreshJobName, cronExpr, job.Run)
}
