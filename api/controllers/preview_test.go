package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tapfolio/tapfolio-backend/internal/preview"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

func newTestRenderer(t *testing.T) *preview.Renderer {
	t.Helper()
	renderer, err := preview.NewRenderer(config.StorefrontConfig{
		ProfileHost:    "tapfolio.link",
		FallbackQRPath: "/tap",
	})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func TestRenderPreview(t *testing.T) {
	logg := testLogger()
	renderer := newTestRenderer(t)

	t.Run("unknown category", func(t *testing.T) {
		body := `{"category":"poster","customization":{}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RenderPreview(renderer, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
		}
	})

	t.Run("single-sided category rejects back", func(t *testing.T) {
		body := `{"category":"sticker","customization":{},"show_back":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RenderPreview(renderer, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for back side of sticker, got %d", rec.Code)
		}
	})

	t.Run("renders card front", func(t *testing.T) {
		body := `{"category":"card","customization":{"front":{"backgroundColor":"#112233","name":"Ada"}}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RenderPreview(renderer, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var envelope struct {
			Data preview.VisualTree `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.Category != enums.ProductCategoryCard {
			t.Fatalf("expected card tree, got %q", envelope.Data.Category)
		}
	})

	t.Run("tolerates malformed customization", func(t *testing.T) {
		body := `{"category":"card","customization":{"front":"not-an-object"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RenderPreview(renderer, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with defaults for malformed payload, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
