package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/tapfolio/tapfolio-backend/pkg/logger"
	"github.com/tapfolio/tapfolio-backend/pkg/metrics"
)

const cartRetentionDays = 30

// StaleCartsJobParams configure the converted-cart retention job.
type StaleCartsJobParams struct {
	Logger        *logger.Logger
	Carts         convertedCartPruner
	Metrics       *metrics.CronJobMetrics
	RetentionDays int
}

type convertedCartPruner interface {
	DeleteConvertedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewStaleCartsJob builds the job that removes converted carts past the
// retention window. Their order rows carry the durable copy of each line.
func NewStaleCartsJob(params StaleCartsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = cartRetentionDays
	}
	return &staleCartsJob{
		logg:      params.Logger,
		carts:     params.Carts,
		metrics:   params.Metrics,
		retention: retention,
		now:       time.Now,
	}, nil
}

type staleCartsJob struct {
	logg      *logger.Logger
	carts     convertedCartPruner
	metrics   *metrics.CronJobMetrics
	retention int
	now       func() time.Time
}

func (j *staleCartsJob) Name() string { return "stale-carts" }

func (j *staleCartsJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.carts.DeleteConvertedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stale carts: %w", err)
	}
	j.metrics.AddPruned(j.Name(), deleted)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "stale cart cleanup complete")
	return nil
}
