package drafts

import (
	"time"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
)

// DraftDTO is a draft with its customization decoded into the current
// two-sided shape, regardless of how the row was stored.
type DraftDTO struct {
	ID            uuid.UUID                         `json:"id"`
	ProductID     uuid.UUID                         `json:"productId"`
	ProductName   string                            `json:"productName"`
	Name          string                            `json:"name"`
	Customization customization.DesignCustomization `json:"customization"`
	CreatedAt     time.Time                         `json:"createdAt"`
	UpdatedAt     time.Time                         `json:"updatedAt"`
}

// SaveDraftInput creates a new draft.
type SaveDraftInput struct {
	ProductID     uuid.UUID
	Customization customization.DesignCustomization
	Name          *string
}

// UpdateDraftInput overwrites an existing draft in place.
type UpdateDraftInput struct {
	Customization customization.DesignCustomization
	Name          *string
}

func toDTO(row models.Draft, design customization.DesignCustomization) DraftDTO {
	name := ""
	if row.Name != nil {
		name = *row.Name
	}
	return DraftDTO{
		ID:            row.ID,
		ProductID:     row.ProductID,
		ProductName:   row.ProductName,
		Name:          name,
		Customization: design,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
