package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
	"github.com/tapfolio/tapfolio-backend/pkg/metrics"
)

const (
	replacedMediaRetentionDays = 7
	objectDeleteRetries        = 3
	objectDeleteBackoff        = 200 * time.Millisecond
)

// ReplacedMediaJobParams configure the superseded-asset reaper.
type ReplacedMediaJobParams struct {
	Logger        *logger.Logger
	Media         replacedMediaRepo
	Objects       objectDeleter
	Metrics       *metrics.CronJobMetrics
	RetentionDays int
}

type replacedMediaRepo interface {
	ListReplacedBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error)
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, bucket, object string) error
	DefaultBucket() string
}

// NewReplacedMediaJob builds the job that removes superseded media rows and
// any bucket objects the upload flow failed to delete inline.
func NewReplacedMediaJob(params ReplacedMediaJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if params.Objects == nil {
		return nil, fmt.Errorf("object store required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = replacedMediaRetentionDays
	}
	return &replacedMediaJob{
		logg:      params.Logger,
		media:     params.Media,
		objects:   params.Objects,
		metrics:   params.Metrics,
		retention: retention,
		now:       time.Now,
	}, nil
}

type replacedMediaJob struct {
	logg      *logger.Logger
	media     replacedMediaRepo
	objects   objectDeleter
	metrics   *metrics.CronJobMetrics
	retention int
	now       func() time.Time
}

func (j *replacedMediaJob) Name() string { return "replaced-media" }

// Run deletes each candidate independently so one bad row cannot starve the
// rest; failures are aggregated into the returned error.
func (j *replacedMediaJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	rows, err := j.media.ListReplacedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list replaced media: %w", err)
	}

	var (
		deleted int64
		errs    error
	)
	for _, row := range rows {
		if err := j.reap(ctx, row); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("media %s: %w", row.ID, err))
			continue
		}
		deleted++
	}

	j.metrics.AddPruned(j.Name(), deleted)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"candidates":     len(rows),
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "replaced media cleanup complete")
	if errs != nil {
		return fmt.Errorf("replaced media: %w", errs)
	}
	return nil
}

func (j *replacedMediaJob) reap(ctx context.Context, row models.Media) error {
	backoff := retry.WithMaxRetries(objectDeleteRetries, retry.NewExponential(objectDeleteBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := j.objects.DeleteObject(ctx, j.objects.DefaultBucket(), row.ObjectKey); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", row.ObjectKey, err)
	}
	if err := j.media.Delete(ctx, row.ID); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}
