package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/api/responses"
	"github.com/tapfolio/tapfolio-backend/api/validators"
	"github.com/tapfolio/tapfolio-backend/internal/media"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

type presignMediaRequest struct {
	FileName   string     `json:"file_name" validate:"required,max=255"`
	MimeType   string     `json:"mime_type" validate:"required"`
	SizeBytes  int64      `json:"size_bytes" validate:"required,min=1"`
	ReplacesID *uuid.UUID `json:"replaces_id,omitempty"`
}

func PresignMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body presignMediaRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.PresignUpload(r.Context(), userID, media.PresignInput{
			FileName:   body.FileName,
			MimeType:   body.MimeType,
			SizeBytes:  body.SizeBytes,
			ReplacesID: body.ReplacesID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

func GetMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mediaID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Get(r.Context(), mediaID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}
