package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

func TestReplacedMediaJobDeletesObjectsAndRows(t *testing.T) {
	rowA := models.Media{ID: uuid.New(), ObjectKey: "assets/u/a/logo.png"}
	rowB := models.Media{ID: uuid.New(), ObjectKey: "assets/u/b/logo.png"}
	repo := &fakeReplacedMediaRepo{rows: []models.Media{rowA, rowB}}
	objects := &fakeObjectDeleter{}
	job := newReplacedMediaJob(t, repo, objects)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(objects.deleted) != 2 {
		t.Fatalf("expected 2 object deletes, got %d", len(objects.deleted))
	}
	if objects.deleted[0] != rowA.ObjectKey || objects.deleted[1] != rowB.ObjectKey {
		t.Fatalf("deleted wrong objects: %v", objects.deleted)
	}
	if len(repo.deleted) != 2 {
		t.Fatalf("expected 2 row deletes, got %d", len(repo.deleted))
	}
}

func TestReplacedMediaJobContinuesPastBadRow(t *testing.T) {
	rowA := models.Media{ID: uuid.New(), ObjectKey: "assets/u/a/logo.png"}
	rowB := models.Media{ID: uuid.New(), ObjectKey: "assets/u/b/logo.png"}
	repo := &fakeReplacedMediaRepo{rows: []models.Media{rowA, rowB}}
	objects := &fakeObjectDeleter{failKeys: map[string]bool{rowA.ObjectKey: true}}
	job := newReplacedMediaJob(t, repo, objects)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !strings.Contains(err.Error(), rowA.ID.String()) {
		t.Fatalf("expected error to name the failed row, got %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != rowB.ID {
		t.Fatalf("expected only the healthy row deleted, got %v", repo.deleted)
	}
}

func TestReplacedMediaJobKeepsRowWhenObjectDeleteFails(t *testing.T) {
	row := models.Media{ID: uuid.New(), ObjectKey: "assets/u/a/logo.png"}
	repo := &fakeReplacedMediaRepo{rows: []models.Media{row}}
	objects := &fakeObjectDeleter{failKeys: map[string]bool{row.ObjectKey: true}}
	job := newReplacedMediaJob(t, repo, objects)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("row must survive until its object is gone, got %v", repo.deleted)
	}
}

func newReplacedMediaJob(t *testing.T, repo *fakeReplacedMediaRepo, objects *fakeObjectDeleter) *replacedMediaJob {
	t.Helper()
	jobIface, err := NewReplacedMediaJob(ReplacedMediaJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Media:   repo,
		Objects: objects,
	})
	if err != nil {
		t.Fatalf("NewReplacedMediaJob: %v", err)
	}
	job, ok := jobIface.(*replacedMediaJob)
	if !ok {
		t.Fatalf("expected replacedMediaJob, got %T", jobIface)
	}
	return job
}

type fakeReplacedMediaRepo struct {
	rows    []models.Media
	deleted []uuid.UUID
}

func (f *fakeReplacedMediaRepo) ListReplacedBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error) {
	return f.rows, nil
}

func (f *fakeReplacedMediaRepo) Delete(ctx context.Context, mediaID uuid.UUID) error {
	f.deleted = append(f.deleted, mediaID)
	return nil
}

type fakeObjectDeleter struct {
	deleted  []string
	failKeys map[string]bool
}

func (f *fakeObjectDeleter) DeleteObject(ctx context.Context, bucket, object string) error {
	if f.failKeys[object] {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, object)
	return nil
}

func (f *fakeObjectDeleter) DefaultBucket() string { return "test-bucket" }
