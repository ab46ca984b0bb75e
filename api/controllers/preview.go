package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tapfolio/tapfolio-backend/api/responses"
	"github.com/tapfolio/tapfolio-backend/api/validators"
	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/internal/preview"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

type previewRequest struct {
	Category      string          `json:"category" validate:"required"`
	Customization json.RawMessage `json:"customization" validate:"required"`
	ShowBack      bool            `json:"show_back"`
}

// RenderPreview computes the visual tree for a submitted customization.
// Malformed customization payloads fall back to defaults rather than erroring,
// matching how persisted drafts are read.
func RenderPreview(renderer *preview.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preview renderer unavailable"))
			return
		}

		var body previewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(strings.TrimSpace(body.Category))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		design, _ := customization.Decode(body.Customization)
		tree, err := renderer.Render(category, design, body.ShowBack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tree)
	}
}
