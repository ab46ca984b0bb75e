package customization

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	apperrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

// Editor actions accepted over the wire.
const (
	ActionSetField       = "setField"
	ActionSelectTemplate = "selectTemplate"
	ActionFlipSide       = "flipSide"
	ActionLinkProfile    = "linkProfile"
	ActionUnlinkProfile  = "unlinkProfile"
)

// CommandInput is the wire shape of a single editor mutation. Which fields
// matter depends on the action; the rest are ignored.
type CommandInput struct {
	Action     string          `json:"action"`
	Field      string          `json:"field,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
	TemplateID string          `json:"templateId,omitempty"`
	ProfileID  *uuid.UUID      `json:"profileId,omitempty"`
	Username   string          `json:"username,omitempty"`
}

// ParseCommand converts raw wire input into a typed Command. Field names go
// through ParseField and enum-valued fields through their parsers, so Apply
// only ever sees well-typed values.
func ParseCommand(input CommandInput) (Command, error) {
	switch strings.TrimSpace(input.Action) {
	case ActionSetField:
		field, err := ParseField(input.Field)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid field")
		}
		value, err := parseFieldValue(field, input.Value)
		if err != nil {
			return nil, err
		}
		return SetField{Field: field, Value: value}, nil

	case ActionSelectTemplate:
		return SelectTemplate{TemplateID: strings.TrimSpace(input.TemplateID)}, nil

	case ActionFlipSide:
		return FlipSide{}, nil

	case ActionLinkProfile:
		var profileID uuid.UUID
		if input.ProfileID != nil {
			profileID = *input.ProfileID
		}
		return LinkProfile{ProfileID: profileID, Username: input.Username}, nil

	case ActionUnlinkProfile:
		return UnlinkProfile{}, nil

	default:
		return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown editor action %q", input.Action))
	}
}

func parseFieldValue(field Field, raw json.RawMessage) (any, error) {
	switch field {
	case FieldBackgroundColor, FieldTextColor, FieldAccentColor, FieldName, FieldTitle:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fieldTypeError(field, "string")
		}
		return value, nil

	case FieldLogoURL, FieldCustomArtworkURL:
		if isJSONNull(raw) {
			return nil, nil
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fieldTypeError(field, "string or nil")
		}
		return value, nil

	case FieldPattern:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fieldTypeError(field, "pattern")
		}
		pattern, err := enums.ParsePattern(value)
		if err != nil {
			return nil, fieldTypeError(field, "pattern")
		}
		return pattern, nil

	case FieldBorderStyle:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fieldTypeError(field, "border style")
		}
		style, err := enums.ParseBorderStyle(value)
		if err != nil {
			return nil, fieldTypeError(field, "border style")
		}
		return style, nil

	case FieldIcon:
		if isJSONNull(raw) {
			return nil, nil
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fieldTypeError(field, "icon or nil")
		}
		icon, err := enums.ParseIcon(value)
		if err != nil {
			return nil, fieldTypeError(field, "icon or nil")
		}
		return icon, nil

	case FieldShowQRCode:
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fieldTypeError(field, "bool")
		}
		return value, nil
	}
	return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown customization field %q", field))
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
