package profiles

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/tapfolio/tapfolio-backend/pkg/db"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

// usernameConstraint is the unique index backing profile handles.
const usernameConstraint = "ux_profiles_username"

var usernamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9_.-]{1,28}[a-z0-9])?$`)

type profileStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Profile, error)
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	FindByIDAndUser(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

// ClaimInput registers a new public handle for the current user.
type ClaimInput struct {
	Username string
	Title    string
	Bio      *string
}

// Service exposes the profile directory.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Profile, error)
	Claim(ctx context.Context, userID uuid.UUID, input ClaimInput) (*models.Profile, error)
	Lookup(ctx context.Context, username string) (*models.Profile, error)
	GetOwned(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error)
}

type service struct {
	repo profileStore
}

// NewService builds a profile service.
func NewService(repo profileStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// List returns the user's claimed profiles for the link-profile picker.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list profiles")
	}
	return rows, nil
}

// Claim registers a username for the user. Handles are folded to lowercase
// before storage; a taken handle surfaces as a conflict.
func (s *service) Claim(ctx context.Context, userID uuid.UUID, input ClaimInput) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if !usernamePattern.MatchString(username) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must be 1-30 characters of letters, digits, dot, dash or underscore")
	}
	row := models.Profile{
		UserID:   userID,
		Username: username,
		Title:    strings.TrimSpace(input.Title),
		Bio:      input.Bio,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		if dbpkg.IsUniqueViolation(err, usernameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("username %q is taken", username))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim profile")
	}
	return &row, nil
}

// Lookup resolves a public handle.
func (s *service) Lookup(ctx context.Context, username string) (*models.Profile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	row, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return row, nil
}

// GetOwned loads a profile only if the user owns it. The customization
// editor uses this before linking a profile to a design.
func (s *service) GetOwned(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	row, err := s.repo.FindByIDAndUser(ctx, profileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return row, nil
}
