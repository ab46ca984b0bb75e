package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/api/middleware"
	"github.com/tapfolio/tapfolio-backend/internal/media"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

type stubMediaService struct {
	presigned *media.PresignInput
}

func (s *stubMediaService) PresignUpload(ctx context.Context, userID uuid.UUID, input media.PresignInput) (*media.PresignOutput, error) {
	s.presigned = &input
	return &media.PresignOutput{MediaID: uuid.New(), ObjectKey: "uploads/test.png"}, nil
}

func (s *stubMediaService) Get(ctx context.Context, mediaID, userID uuid.UUID) (*models.Media, error) {
	return &models.Media{}, nil
}

func TestPresignMedia(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("missing user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/media/presign", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		PresignMedia(&stubMediaService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user context, got %d", rec.Code)
		}
	})

	t.Run("rejects missing size", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"file_name":"logo.png","mime_type":"image/png"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/media/presign", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		PresignMedia(&stubMediaService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing size_bytes, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		replaces := uuid.New()
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"file_name":"logo.png","mime_type":"image/png","size_bytes":2048,"replaces_id":"` + replaces.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/media/presign", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		stub := &stubMediaService{}
		PresignMedia(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.presigned == nil || stub.presigned.SizeBytes != 2048 {
			t.Fatalf("expected PresignUpload with size, got %+v", stub.presigned)
		}
		if stub.presigned.ReplacesID == nil || *stub.presigned.ReplacesID != replaces {
			t.Fatalf("expected replaces id forwarded, got %+v", stub.presigned.ReplacesID)
		}
	})
}
