package customization

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// Format identifies which schema a stored customization blob decoded as.
type Format string

const (
	// FormatCurrent is the two-sided schema written by this codebase.
	FormatCurrent Format = "current"
	// FormatLegacy is the flat single-sided shape older drafts carry.
	FormatLegacy Format = "legacy"
	// FormatInvalid means neither schema parsed; defaults were substituted.
	FormatInvalid Format = "invalid"
)

// legacyCustomization is the flat pre-two-sided record. Pointers distinguish
// absent fields so each gets its documented fallback.
type legacyCustomization struct {
	BackgroundColor       *string    `json:"backgroundColor"`
	TextColor             *string    `json:"textColor"`
	AccentColor           *string    `json:"accentColor"`
	Name                  *string    `json:"name"`
	Title                 *string    `json:"title"`
	LogoURL               *string    `json:"logoUrl"`
	CustomArtworkURL      *string    `json:"customArtworkUrl"`
	CanvaDesignURL        *string    `json:"canvaDesignUrl"`
	TemplateID            *string    `json:"templateId"`
	LinkedProfileID       *uuid.UUID `json:"linkedProfileId"`
	LinkedProfileUsername *string    `json:"linkedProfileUsername"`
}

// Decode maps a stored customization blob onto the current schema. Records
// carrying a "front" key are current-format and pass through; flat records
// are migrated field by field; anything unparseable falls back to full
// defaults so a corrupt row can never take down the editor. Decode is a pure
// function of its input.
func Decode(raw json.RawMessage) (DesignCustomization, Format) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return DefaultDesign(), FormatInvalid
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return DefaultDesign(), FormatInvalid
	}

	if _, hasFront := probe["front"]; hasFront {
		var current DesignCustomization
		if err := json.Unmarshal(trimmed, &current); err != nil {
			return DefaultDesign(), FormatInvalid
		}
		return normalize(current), FormatCurrent
	}

	var legacy legacyCustomization
	if err := json.Unmarshal(trimmed, &legacy); err != nil {
		return DefaultDesign(), FormatInvalid
	}
	return migrateLegacy(legacy), FormatLegacy
}

// migrateLegacy lifts a flat record into the two-sided schema. Every legacy
// field has an explicit fallback; the back side starts from system defaults.
func migrateLegacy(legacy legacyCustomization) DesignCustomization {
	front := DefaultSide()
	front.BackgroundColor = stringOr(legacy.BackgroundColor, DefaultBackgroundColor)
	front.TextColor = stringOr(legacy.TextColor, DefaultTextColor)
	front.AccentColor = stringOr(legacy.AccentColor, DefaultAccentColor)
	front.Name = stringOr(legacy.Name, "")
	front.Title = stringOr(legacy.Title, "")
	front.LogoURL = legacy.LogoURL
	front.CustomArtworkURL = legacy.CustomArtworkURL

	design := DesignCustomization{
		Front:          front,
		Back:           DefaultSide(),
		ActiveSide:     enums.SideFront,
		CanvaDesignURL: legacy.CanvaDesignURL,
		TemplateID:     legacy.TemplateID,
	}

	// The linked pair only survives migration when both halves are present.
	if legacy.LinkedProfileID != nil && legacy.LinkedProfileUsername != nil {
		design.LinkedProfileID = legacy.LinkedProfileID
		design.LinkedProfileUsername = legacy.LinkedProfileUsername
	}

	return design
}

// normalize repairs invariant drift in current-format records without
// touching valid values.
func normalize(design DesignCustomization) DesignCustomization {
	if !design.ActiveSide.IsValid() {
		design.ActiveSide = enums.SideFront
	}
	design.Front = normalizeSide(design.Front)
	design.Back = normalizeSide(design.Back)
	if design.LinkedProfileID == nil || design.LinkedProfileUsername == nil {
		design.LinkedProfileID = nil
		design.LinkedProfileUsername = nil
	}
	return design
}

func normalizeSide(side SideCustomization) SideCustomization {
	if side.BackgroundColor == "" {
		side.BackgroundColor = DefaultBackgroundColor
	}
	if side.TextColor == "" {
		side.TextColor = DefaultTextColor
	}
	if side.AccentColor == "" {
		side.AccentColor = DefaultAccentColor
	}
	if !side.Pattern.IsValid() {
		side.Pattern = enums.PatternNone
	}
	if !side.BorderStyle.IsValid() {
		side.BorderStyle = enums.BorderStyleNone
	}
	if side.Icon != nil && !side.Icon.IsValid() {
		side.Icon = nil
	}
	return side
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
