package customization

import (
	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// Default side colors. Legacy drafts that predate the two-sided schema fall
// back to these exact values during migration, so they must never change.
const (
	DefaultBackgroundColor = "#1a1a2e"
	DefaultTextColor       = "#ffffff"
	DefaultAccentColor     = "#6366f1"
)

// SideCustomization holds the full appearance state for one physical side of
// a product. Every non-pointer field always carries a concrete value.
type SideCustomization struct {
	BackgroundColor  string            `json:"backgroundColor"`
	TextColor        string            `json:"textColor"`
	AccentColor      string            `json:"accentColor"`
	Name             string            `json:"name"`
	Title            string            `json:"title"`
	LogoURL          *string           `json:"logoUrl"`
	CustomArtworkURL *string           `json:"customArtworkUrl"`
	Pattern          enums.Pattern     `json:"pattern"`
	BorderStyle      enums.BorderStyle `json:"borderStyle"`
	Icon             *enums.Icon       `json:"icon"`
	ShowQRCode       bool              `json:"showQRCode"`
}

// DesignCustomization wraps both sides plus cross-side metadata. Field
// updates are always routed through ActiveSide, never written to Front/Back
// directly.
type DesignCustomization struct {
	Front                 SideCustomization `json:"front"`
	Back                  SideCustomization `json:"back"`
	ActiveSide            enums.Side        `json:"activeSide"`
	CanvaDesignURL        *string           `json:"canvaDesignUrl"`
	TemplateID            *string           `json:"templateId"`
	LinkedProfileID       *uuid.UUID        `json:"linkedProfileId"`
	LinkedProfileUsername *string           `json:"linkedProfileUsername"`
}

// DefaultSide returns a fully populated side with system defaults.
func DefaultSide() SideCustomization {
	return SideCustomization{
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		AccentColor:     DefaultAccentColor,
		Pattern:         enums.PatternNone,
		BorderStyle:     enums.BorderStyleNone,
		ShowQRCode:      false,
	}
}

// DefaultDesign returns a two-sided design with both sides at defaults and
// the front active.
func DefaultDesign() DesignCustomization {
	return DesignCustomization{
		Front:      DefaultSide(),
		Back:       DefaultSide(),
		ActiveSide: enums.SideFront,
	}
}

// activeSideValue returns a copy of the side ActiveSide points at.
func (d DesignCustomization) activeSideValue() SideCustomization {
	if d.ActiveSide == enums.SideBack {
		return d.Back
	}
	return d.Front
}

// withActiveSide returns a copy of the design with the active side replaced.
// The inactive side is carried over untouched.
func (d DesignCustomization) withActiveSide(side SideCustomization) DesignCustomization {
	if d.ActiveSide == enums.SideBack {
		d.Back = side
	} else {
		d.Front = side
	}
	return d
}

// Linked reports whether a profile is attached. The two linked-profile
// fields are always both-nil or both-set.
func (d DesignCustomization) Linked() bool {
	return d.LinkedProfileID != nil && d.LinkedProfileUsername != nil
}
