package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/api/middleware"
	"github.com/tapfolio/tapfolio-backend/internal/profiles"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

type stubProfilesService struct {
	claimed  *profiles.ClaimInput
	lookedUp string
}

func (s *stubProfilesService) List(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	return []models.Profile{}, nil
}

func (s *stubProfilesService) Claim(ctx context.Context, userID uuid.UUID, input profiles.ClaimInput) (*models.Profile, error) {
	s.claimed = &input
	return &models.Profile{Username: input.Username}, nil
}

func (s *stubProfilesService) Lookup(ctx context.Context, username string) (*models.Profile, error) {
	s.lookedUp = username
	return &models.Profile{Username: username}, nil
}

func (s *stubProfilesService) GetOwned(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error) {
	return &models.Profile{}, nil
}

func TestClaimProfile(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("rejects short username", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"username":"ab","title":"My Page"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/me/profiles", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		ClaimProfile(&stubProfilesService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for short username, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"username":"ada-lovelace","title":"Ada's Links"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/me/profiles", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		stub := &stubProfilesService{}
		ClaimProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.claimed == nil || stub.claimed.Username != "ada-lovelace" {
			t.Fatalf("expected Claim with username, got %+v", stub.claimed)
		}
	})
}

func TestLookupProfile(t *testing.T) {
	logg := testLogger()

	t.Run("missing username", func(t *testing.T) {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("username", "  ")
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/%20", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		LookupProfile(&stubProfilesService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for blank username, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("username", "ada-lovelace")
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/ada-lovelace", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		stub := &stubProfilesService{}
		LookupProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lookedUp != "ada-lovelace" {
			t.Fatalf("expected Lookup with username, got %q", stub.lookedUp)
		}
	})
}
