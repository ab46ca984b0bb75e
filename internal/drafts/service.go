package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

type draftStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Draft, error)
	FindByIDAndUser(ctx context.Context, draftID, userID uuid.UUID) (*models.Draft, error)
	Create(ctx context.Context, draft *models.Draft) error
	Update(ctx context.Context, draft *models.Draft) error
	Delete(ctx context.Context, draftID, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes draft management scoped to the owning user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]DraftDTO, error)
	Save(ctx context.Context, userID uuid.UUID, input SaveDraftInput) (*DraftDTO, error)
	Update(ctx context.Context, draftID, userID uuid.UUID, input UpdateDraftInput) (*DraftDTO, error)
	ApplyCommand(ctx context.Context, draftID, userID uuid.UUID, cmd customization.Command) (*DraftDTO, error)
	Delete(ctx context.Context, draftID, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the draft service.
type ServiceParams struct {
	Repo     draftStore
	Products productLoader
	Logger   *logger.Logger
}

type service struct {
	repo     draftStore
	products productLoader
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a draft service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("draft repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// List returns the user's drafts, newest edits first. Stored customization
// blobs are migrated to the current shape on the way out; rows that fail to
// parse fall back to defaults rather than breaking the whole listing.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DraftDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drafts")
	}
	out := make([]DraftDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row, s.decode(ctx, row)))
	}
	return out, nil
}

// Save creates a new draft. The product must exist at save time; its name is
// snapshotted onto the row so the draft survives later catalog edits.
func (s *service) Save(ctx context.Context, userID uuid.UUID, input SaveDraftInput) (*DraftDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	payload, err := json.Marshal(input.Customization)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode customization")
	}

	name := draftName(input.Name, product.Name, s.now())
	row := models.Draft{
		UserID:        userID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Customization: payload,
		Name:          &name,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save draft")
	}
	dto := toDTO(row, input.Customization)
	return &dto, nil
}

// Update overwrites an existing draft in place. The row keeps its identity;
// only the customization and, when supplied, the name change.
func (s *service) Update(ctx context.Context, draftID, userID uuid.UUID, input UpdateDraftInput) (*DraftDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if draftID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft id is required")
	}
	row, err := s.repo.FindByIDAndUser(ctx, draftID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft")
	}

	payload, err := json.Marshal(input.Customization)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode customization")
	}
	row.Customization = payload
	if input.Name != nil {
		if trimmed := strings.TrimSpace(*input.Name); trimmed != "" {
			row.Name = &trimmed
		}
	}
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update draft")
	}
	dto := toDTO(*row, input.Customization)
	return &dto, nil
}

// ApplyCommand runs a single editor mutation against a stored draft. The
// stored customization is decoded, reduced through the editor and written
// back, so side flips, template picks and profile links obey the same rules
// here as in the live editor.
func (s *service) ApplyCommand(ctx context.Context, draftID, userID uuid.UUID, cmd customization.Command) (*DraftDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if draftID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft id is required")
	}
	row, err := s.repo.FindByIDAndUser(ctx, draftID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft")
	}
	product, err := s.products.FindByID(ctx, row.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	design, err := customization.Apply(s.decode(ctx, *row), product.Category, cmd)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(design)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode customization")
	}
	row.Customization = payload
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update draft")
	}
	dto := toDTO(*row, design)
	return &dto, nil
}

// Delete removes a draft owned by the user.
func (s *service) Delete(ctx context.Context, draftID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if draftID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft id is required")
	}
	if err := s.repo.Delete(ctx, draftID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete draft")
	}
	return nil
}

func (s *service) decode(ctx context.Context, row models.Draft) customization.DesignCustomization {
	design, format := customization.Decode(row.Customization)
	if format == customization.FormatInvalid && s.logg != nil {
		logCtx := s.logg.WithDraftID(ctx, row.ID.String())
		s.logg.Warn(logCtx, "draft customization unparseable, substituted defaults")
	}
	return design
}

func draftName(supplied *string, productName string, at time.Time) string {
	if supplied != nil {
		if trimmed := strings.TrimSpace(*supplied); trimmed != "" {
			return trimmed
		}
	}
	return fmt.Sprintf("%s - %s", productName, at.Format("Jan 2, 2006"))
}
