package enums

import "fmt"

// Side identifies which face of a two-sided product is being edited or shown.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

var validSides = []Side{SideFront, SideBack}

// String implements fmt.Stringer.
func (s Side) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Side.
func (s Side) IsValid() bool {
	for _, candidate := range validSides {
		if candidate == s {
			return true
		}
	}
	return false
}

// Opposite returns the other face.
func (s Side) Opposite() Side {
	if s == SideBack {
		return SideFront
	}
	return SideBack
}

// ParseSide converts raw input into a Side.
func ParseSide(value string) (Side, error) {
	for _, candidate := range validSides {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid side %q", value)
}

// Pattern is the background fill applied to one side of a product.
type Pattern string

const (
	PatternNone      Pattern = "none"
	PatternDots      Pattern = "dots"
	PatternLines     Pattern = "lines"
	PatternGrid      Pattern = "grid"
	PatternWaves     Pattern = "waves"
	PatternGeometric Pattern = "geometric"
)

var validPatterns = []Pattern{
	PatternNone,
	PatternDots,
	PatternLines,
	PatternGrid,
	PatternWaves,
	PatternGeometric,
}

// String implements fmt.Stringer.
func (p Pattern) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Pattern.
func (p Pattern) IsValid() bool {
	for _, candidate := range validPatterns {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePattern converts raw input into a Pattern.
func ParsePattern(value string) (Pattern, error) {
	for _, candidate := range validPatterns {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pattern %q", value)
}

// BorderStyle is the stroke treatment applied around one side of a product.
type BorderStyle string

const (
	BorderStyleNone     BorderStyle = "none"
	BorderStyleSolid    BorderStyle = "solid"
	BorderStyleDashed   BorderStyle = "dashed"
	BorderStyleGradient BorderStyle = "gradient"
	BorderStyleGlow     BorderStyle = "glow"
)

var validBorderStyles = []BorderStyle{
	BorderStyleNone,
	BorderStyleSolid,
	BorderStyleDashed,
	BorderStyleGradient,
	BorderStyleGlow,
}

// String implements fmt.Stringer.
func (b BorderStyle) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BorderStyle.
func (b BorderStyle) IsValid() bool {
	for _, candidate := range validBorderStyles {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBorderStyle converts raw input into a BorderStyle.
func ParseBorderStyle(value string) (BorderStyle, error) {
	for _, candidate := range validBorderStyles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid border style %q", value)
}

// Icon references the fixed decorative icon catalog offered by the editor.
type Icon string

const (
	IconStar   Icon = "star"
	IconHeart  Icon = "heart"
	IconBolt   Icon = "bolt"
	IconFlame  Icon = "flame"
	IconMusic  Icon = "music"
	IconCamera Icon = "camera"
	IconGlobe  Icon = "globe"
	IconCrown  Icon = "crown"
)

var validIcons = []Icon{
	IconStar,
	IconHeart,
	IconBolt,
	IconFlame,
	IconMusic,
	IconCamera,
	IconGlobe,
	IconCrown,
}

// Icons returns the fixed icon catalog in display order.
func Icons() []Icon {
	out := make([]Icon, len(validIcons))
	copy(out, validIcons)
	return out
}

// String implements fmt.Stringer.
func (i Icon) String() string {
	return string(i)
}

// IsValid reports whether the value is a known Icon.
func (i Icon) IsValid() bool {
	for _, candidate := range validIcons {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseIcon converts raw input into an Icon.
func ParseIcon(value string) (Icon, error) {
	for _, candidate := range validIcons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid icon %q", value)
}
