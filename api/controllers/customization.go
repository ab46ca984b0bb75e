package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/api/responses"
	"github.com/tapfolio/tapfolio-backend/api/validators"
	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

// ListTemplates returns the fixed color-preset catalog.
func ListTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, customization.Templates())
	}
}

// ListIcons returns the fixed decorative icon catalog.
func ListIcons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, enums.Icons())
	}
}

type applyCustomizationRequest struct {
	Category      string          `json:"category" validate:"required"`
	Customization json.RawMessage `json:"customization" validate:"required"`
	Action        string          `json:"action" validate:"required"`
	Field         string          `json:"field,omitempty"`
	Value         json.RawMessage `json:"value,omitempty"`
	TemplateID    string          `json:"templateId,omitempty"`
	ProfileID     *uuid.UUID      `json:"profileId,omitempty"`
	Username      string          `json:"username,omitempty"`
}

// ApplyCustomization runs a single editor command against a submitted design
// and returns the reduced state. The editor client uses this for unsaved
// work; saved drafts go through the draft-scoped variant instead.
func ApplyCustomization(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body applyCustomizationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(strings.TrimSpace(body.Category))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		cmd, err := customization.ParseCommand(customization.CommandInput{
			Action:     body.Action,
			Field:      body.Field,
			Value:      body.Value,
			TemplateID: body.TemplateID,
			ProfileID:  body.ProfileID,
			Username:   body.Username,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, _ := customization.Decode(body.Customization)
		design, err = customization.Apply(design, category, cmd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, design)
	}
}
