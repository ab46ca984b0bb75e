package customization

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	apperrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

// Field names the per-side attribute a SetField command writes.
type Field string

const (
	FieldBackgroundColor  Field = "backgroundColor"
	FieldTextColor        Field = "textColor"
	FieldAccentColor      Field = "accentColor"
	FieldName             Field = "name"
	FieldTitle            Field = "title"
	FieldLogoURL          Field = "logoUrl"
	FieldCustomArtworkURL Field = "customArtworkUrl"
	FieldPattern          Field = "pattern"
	FieldBorderStyle      Field = "borderStyle"
	FieldIcon             Field = "icon"
	FieldShowQRCode       Field = "showQRCode"
)

var validFields = []Field{
	FieldBackgroundColor,
	FieldTextColor,
	FieldAccentColor,
	FieldName,
	FieldTitle,
	FieldLogoURL,
	FieldCustomArtworkURL,
	FieldPattern,
	FieldBorderStyle,
	FieldIcon,
	FieldShowQRCode,
}

// IsValid reports whether the field is part of the editable set.
func (f Field) IsValid() bool {
	for _, candidate := range validFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseField converts raw input into a Field.
func ParseField(value string) (Field, error) {
	for _, candidate := range validFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customization field %q", value)
}

// Command is the closed set of editor mutations. Every state change flows
// through Apply so the invariants hold no matter which surface issued it.
type Command interface {
	isCommand()
}

// SetField writes a single value to the named field on the active side.
type SetField struct {
	Field Field
	Value any
}

// SelectTemplate applies a preset's colors to the active side. Unknown ids
// are a silent no-op.
type SelectTemplate struct {
	TemplateID string
}

// FlipSide toggles the active side on two-sided categories.
type FlipSide struct{}

// LinkProfile attaches a tap profile; both identifiers travel together.
type LinkProfile struct {
	ProfileID uuid.UUID
	Username  string
}

// UnlinkProfile clears both linked-profile fields.
type UnlinkProfile struct{}

func (SetField) isCommand()       {}
func (SelectTemplate) isCommand() {}
func (FlipSide) isCommand()       {}
func (LinkProfile) isCommand()    {}
func (UnlinkProfile) isCommand()  {}

// Apply runs a single command against the design and returns the new state.
// The input design is never mutated; callers can compare against the prior
// value to detect changes.
func Apply(design DesignCustomization, category enums.ProductCategory, cmd Command) (DesignCustomization, error) {
	switch c := cmd.(type) {
	case SetField:
		return applySetField(design, c)
	case SelectTemplate:
		return applySelectTemplate(design, c), nil
	case FlipSide:
		return applyFlipSide(design, category)
	case LinkProfile:
		return applyLinkProfile(design, c)
	case UnlinkProfile:
		design.LinkedProfileID = nil
		design.LinkedProfileUsername = nil
		return design, nil
	default:
		return design, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown editor command %T", cmd))
	}
}

func applySetField(design DesignCustomization, cmd SetField) (DesignCustomization, error) {
	side := design.activeSideValue()

	switch cmd.Field {
	case FieldBackgroundColor, FieldTextColor, FieldAccentColor, FieldName, FieldTitle:
		value, ok := cmd.Value.(string)
		if !ok {
			return design, fieldTypeError(cmd.Field, "string")
		}
		switch cmd.Field {
		case FieldBackgroundColor:
			side.BackgroundColor = value
		case FieldTextColor:
			side.TextColor = value
		case FieldAccentColor:
			side.AccentColor = value
		case FieldName:
			side.Name = value
		case FieldTitle:
			side.Title = value
		}

	case FieldLogoURL, FieldCustomArtworkURL:
		value, err := optionalString(cmd.Value)
		if err != nil {
			return design, fieldTypeError(cmd.Field, "string or nil")
		}
		if cmd.Field == FieldLogoURL {
			side.LogoURL = value
		} else {
			side.CustomArtworkURL = value
		}

	case FieldPattern:
		value, ok := cmd.Value.(enums.Pattern)
		if !ok || !value.IsValid() {
			return design, fieldTypeError(cmd.Field, "pattern")
		}
		side.Pattern = value

	case FieldBorderStyle:
		value, ok := cmd.Value.(enums.BorderStyle)
		if !ok || !value.IsValid() {
			return design, fieldTypeError(cmd.Field, "border style")
		}
		side.BorderStyle = value

	case FieldIcon:
		if cmd.Value == nil {
			side.Icon = nil
			break
		}
		value, ok := cmd.Value.(enums.Icon)
		if !ok || !value.IsValid() {
			return design, fieldTypeError(cmd.Field, "icon or nil")
		}
		side.Icon = &value

	case FieldShowQRCode:
		value, ok := cmd.Value.(bool)
		if !ok {
			return design, fieldTypeError(cmd.Field, "bool")
		}
		side.ShowQRCode = value

	default:
		return design, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown customization field %q", cmd.Field))
	}

	return design.withActiveSide(side), nil
}

func applySelectTemplate(design DesignCustomization, cmd SelectTemplate) DesignCustomization {
	template, ok := TemplateByID(cmd.TemplateID)
	if !ok {
		// Unknown template ids are ignored without surfacing an error.
		return design
	}

	side := design.activeSideValue()
	side.BackgroundColor = template.BackgroundColor
	side.TextColor = template.TextColor
	side.AccentColor = template.AccentColor

	design = design.withActiveSide(side)
	id := template.ID
	design.TemplateID = &id
	return design
}

func applyFlipSide(design DesignCustomization, category enums.ProductCategory) (DesignCustomization, error) {
	if !category.SupportsTwoSides() {
		return design, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("%s products have a single side", category))
	}
	design.ActiveSide = design.ActiveSide.Opposite()
	return design, nil
}

func applyLinkProfile(design DesignCustomization, cmd LinkProfile) (DesignCustomization, error) {
	username := strings.TrimSpace(cmd.Username)
	if cmd.ProfileID == uuid.Nil || username == "" {
		return design, apperrors.New(apperrors.CodeValidation, "profile id and username are both required")
	}
	id := cmd.ProfileID
	design.LinkedProfileID = &id
	design.LinkedProfileUsername = &username
	return design, nil
}

func optionalString(value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		s := v
		return &s, nil
	case *string:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

func fieldTypeError(field Field, want string) error {
	return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("field %q requires a %s value", field, want))
}
