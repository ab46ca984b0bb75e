package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox/payloads"
)

type memoryMediaStore struct {
	rows map[uuid.UUID]*models.Media
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{rows: map[uuid.UUID]*models.Media{}}
}

func (s *memoryMediaStore) WithTx(tx *gorm.DB) MediaStore { return s }

func (s *memoryMediaStore) Create(ctx context.Context, row *models.Media) error {
	copied := *row
	s.rows[row.ID] = &copied
	return nil
}

func (s *memoryMediaStore) FindByIDAndUser(ctx context.Context, mediaID, userID uuid.UUID) (*models.Media, error) {
	row, ok := s.rows[mediaID]
	if !ok || row.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *memoryMediaStore) MarkReplaced(ctx context.Context, mediaID, replacedBy uuid.UUID) error {
	row, ok := s.rows[mediaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.ReplacedBy = &replacedBy
	return nil
}

func (s *memoryMediaStore) Delete(ctx context.Context, mediaID uuid.UUID) error {
	delete(s.rows, mediaID)
	return nil
}

type fakeObjectStore struct {
	signErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeObjectStore) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return fmt.Sprintf("https://storage.example.com/%s/%s?sig=abc", bucket, object), nil
}

func (f *fakeObjectStore) PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, bucket, object string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, object)
	return nil
}

func (f *fakeObjectStore) DefaultBucket() string { return "tf-assets" }

type mediaEmitter struct {
	events []outbox.DomainEvent
}

func (c *mediaEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	c.events = append(c.events, event)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newMediaFixture(t *testing.T, storage *fakeObjectStore) (Service, *memoryMediaStore, *mediaEmitter) {
	t.Helper()
	store := newMemoryMediaStore()
	emitter := &mediaEmitter{}
	svc, err := NewService(ServiceParams{
		Repo:    store,
		Storage: storage,
		Emitter: emitter,
		Tx:      passthroughTx{},
		Config:  config.MediaConfig{MaxUploadMB: 10},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store, emitter
}

func TestPresignUpload(t *testing.T) {
	storage := &fakeObjectStore{}
	svc, store, emitter := newMediaFixture(t, storage)
	userID := uuid.New()

	out, err := svc.PresignUpload(context.Background(), userID, PresignInput{
		FileName:  "my logo.png",
		MimeType:  "image/PNG",
		SizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(out.ObjectKey, "my_logo.png") {
		t.Fatalf("object key %q should carry sanitized file name", out.ObjectKey)
	}
	if out.ContentType != "image/png" {
		t.Fatalf("content type %q should fold case", out.ContentType)
	}
	if !strings.HasPrefix(out.PublicURL, "https://storage.googleapis.com/tf-assets/") {
		t.Fatalf("public url %q", out.PublicURL)
	}
	if out.SignedPUTURL == "" {
		t.Fatal("expected signed url")
	}
	if _, ok := store.rows[out.MediaID]; !ok {
		t.Fatal("metadata row should be persisted")
	}
	if len(emitter.events) != 0 {
		t.Fatal("plain upload should emit nothing")
	}
}

func TestPresignUploadValidation(t *testing.T) {
	svc, store, _ := newMediaFixture(t, &fakeObjectStore{})
	userID := uuid.New()

	cases := []PresignInput{
		{FileName: "", MimeType: "image/png", SizeBytes: 10},
		{FileName: "a.png", MimeType: "image/png", SizeBytes: 0},
		{FileName: "a.png", MimeType: "image/png", SizeBytes: 11 << 20},
		{FileName: "a.pdf", MimeType: "application/pdf", SizeBytes: 10},
		{FileName: "a.mp4", MimeType: "video/mp4", SizeBytes: 10},
	}
	for i, input := range cases {
		_, err := svc.PresignUpload(context.Background(), userID, input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if len(store.rows) != 0 {
		t.Fatal("no rows should be persisted")
	}
}

func TestPresignUploadOversizeMessage(t *testing.T) {
	svc, _, _ := newMediaFixture(t, &fakeObjectStore{})

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		FileName:  "a.png",
		MimeType:  "image/png",
		SizeBytes: 11 << 20,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := fmt.Sprintf("size_bytes must be at most %d bytes", 10<<20)
	if typed.Message() != want {
		t.Fatalf("unexpected message %q, want %q", typed.Message(), want)
	}
	for _, r := range typed.Message() {
		if r > 127 {
			t.Fatalf("message %q should stay ASCII", typed.Message())
		}
	}
}

func TestPresignUploadSupersedesOldAsset(t *testing.T) {
	storage := &fakeObjectStore{}
	svc, store, emitter := newMediaFixture(t, storage)
	userID := uuid.New()

	oldID := uuid.New()
	store.rows[oldID] = &models.Media{
		ID:        oldID,
		UserID:    userID,
		ObjectKey: "assets/old/logo.png",
	}

	out, err := svc.PresignUpload(context.Background(), userID, PresignInput{
		FileName:   "new.png",
		MimeType:   "image/png",
		SizeBytes:  512,
		ReplacesID: &oldID,
	})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	old := store.rows[oldID]
	if old.ReplacedBy == nil || *old.ReplacedBy != out.MediaID {
		t.Fatalf("old row should point at replacement, got %v", old.ReplacedBy)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "assets/old/logo.png" {
		t.Fatalf("old object should be deleted, got %v", storage.deleted)
	}

	if len(emitter.events) != 1 {
		t.Fatalf("expected superseded event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventMediaSuperseded {
		t.Fatalf("event type %s", event.EventType)
	}
	payload := event.Data.(payloads.MediaSupersededEvent)
	if payload.MediaID != oldID || payload.ReplacedByID != out.MediaID {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestPresignUploadDeleteFailureDoesNotBlock(t *testing.T) {
	storage := &fakeObjectStore{deleteErr: errors.New("bucket unavailable")}
	svc, store, _ := newMediaFixture(t, storage)
	userID := uuid.New()

	oldID := uuid.New()
	store.rows[oldID] = &models.Media{ID: oldID, UserID: userID, ObjectKey: "assets/old/logo.png"}

	out, err := svc.PresignUpload(context.Background(), userID, PresignInput{
		FileName:   "new.png",
		MimeType:   "image/png",
		SizeBytes:  512,
		ReplacesID: &oldID,
	})
	if err != nil {
		t.Fatalf("presign should succeed despite delete failure: %v", err)
	}
	if out.SignedPUTURL == "" {
		t.Fatal("expected signed url")
	}
}

func TestPresignUploadSignFailureRollsBackRow(t *testing.T) {
	storage := &fakeObjectStore{signErr: errors.New("signer unavailable")}
	svc, store, _ := newMediaFixture(t, storage)

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		FileName:  "a.png",
		MimeType:  "image/png",
		SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("row should be removed after sign failure")
	}
}

func TestPresignUploadForeignReplaceTarget(t *testing.T) {
	svc, store, _ := newMediaFixture(t, &fakeObjectStore{})
	oldID := uuid.New()
	store.rows[oldID] = &models.Media{ID: oldID, UserID: uuid.New(), ObjectKey: "assets/old/logo.png"}

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		FileName:   "new.png",
		MimeType:   "image/png",
		SizeBytes:  10,
		ReplacesID: &oldID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign asset, got %v", err)
	}
}
