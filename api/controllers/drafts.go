package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/api/responses"
	"github.com/tapfolio/tapfolio-backend/api/validators"
	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/internal/drafts"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

type createDraftRequest struct {
	ProductID     uuid.UUID       `json:"product_id" validate:"required"`
	Name          *string         `json:"name,omitempty" validate:"omitempty,max=120"`
	Customization json.RawMessage `json:"customization" validate:"required"`
}

type updateDraftRequest struct {
	Name          *string         `json:"name,omitempty" validate:"omitempty,max=120"`
	Customization json.RawMessage `json:"customization" validate:"required"`
}

type draftCommandRequest struct {
	Action     string          `json:"action" validate:"required"`
	Field      string          `json:"field,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
	TemplateID string          `json:"templateId,omitempty"`
	ProfileID  *uuid.UUID      `json:"profileId,omitempty"`
	Username   string          `json:"username,omitempty"`
}

func ListDrafts(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"drafts": rows})
	}
}

func CreateDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createDraftRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, _ := customization.Decode(body.Customization)
		draft, err := svc.Save(r.Context(), userID, drafts.SaveDraftInput{
			ProductID:     body.ProductID,
			Customization: design,
			Name:          body.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, draft)
	}
}

func UpdateDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draftID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateDraftRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, _ := customization.Decode(body.Customization)
		draft, err := svc.Update(r.Context(), draftID, userID, drafts.UpdateDraftInput{
			Customization: design,
			Name:          body.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

// ApplyDraftCommand mutates a stored draft through a single editor command
// instead of replacing the whole customization blob.
func ApplyDraftCommand(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draftID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body draftCommandRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
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

		draft, err := svc.ApplyCommand(r.Context(), draftID, userID, cmd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

func DeleteDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draftID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), draftID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "deleted"})
	}
}
