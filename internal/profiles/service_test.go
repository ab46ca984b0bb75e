package profiles

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

type stubProfileStore struct {
	byUsername map[string]*models.Profile
	created    []models.Profile
}

func newStubProfileStore() *stubProfileStore {
	return &stubProfileStore{byUsername: map[string]*models.Profile{}}
}

func (s *stubProfileStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range s.byUsername {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProfileStore) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	if p, ok := s.byUsername[strings.ToLower(strings.TrimSpace(username))]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileStore) FindByIDAndUser(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error) {
	for _, p := range s.byUsername {
		if p.ID == profileID && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	if _, taken := s.byUsername[profile.Username]; taken {
		return &pgconn.PgError{
			Code:           "23505",
			Message:        `duplicate key value violates unique constraint "` + usernameConstraint + `"`,
			ConstraintName: usernameConstraint,
		}
	}
	profile.ID = uuid.New()
	s.byUsername[profile.Username] = profile
	s.created = append(s.created, *profile)
	return nil
}

func TestClaimNormalizesUsername(t *testing.T) {
	store := newStubProfileStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	profile, err := svc.Claim(context.Background(), uuid.New(), ClaimInput{
		Username: "  Jane.Doe  ",
		Title:    "Designer",
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if profile.Username != "jane.doe" {
		t.Fatalf("unexpected username %q", profile.Username)
	}

	found, err := svc.Lookup(context.Background(), "JANE.DOE")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != profile.ID {
		t.Fatalf("lookup returned wrong profile %s", found.ID)
	}
}

func TestClaimRejectsBadHandles(t *testing.T) {
	store := newStubProfileStore()
	svc, _ := NewService(store)

	for _, username := range []string{"", " ", "-leading", "trailing_", "has space", "a@b", strings.Repeat("x", 31)} {
		_, err := svc.Claim(context.Background(), uuid.New(), ClaimInput{Username: username})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("username %q: expected validation error, got %v", username, err)
		}
	}
	if len(store.created) != 0 {
		t.Fatal("no profile should be created")
	}
}

func TestClaimTakenUsernameConflicts(t *testing.T) {
	store := newStubProfileStore()
	svc, _ := NewService(store)

	if _, err := svc.Claim(context.Background(), uuid.New(), ClaimInput{Username: "jane"}); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := svc.Claim(context.Background(), uuid.New(), ClaimInput{Username: "Jane"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetOwnedScopesToUser(t *testing.T) {
	store := newStubProfileStore()
	svc, _ := NewService(store)
	owner := uuid.New()

	profile, err := svc.Claim(context.Background(), owner, ClaimInput{Username: "jane"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), profile.ID, owner); err != nil {
		t.Fatalf("owner fetch: %v", err)
	}
	_, err = svc.GetOwned(context.Background(), profile.ID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestLookupUnknownUsername(t *testing.T) {
	svc, _ := NewService(newStubProfileStore())
	_, err := svc.Lookup(context.Background(), "ghost")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
