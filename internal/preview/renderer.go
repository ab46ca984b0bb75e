package preview

import (
	"fmt"
	"strings"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	apperrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

const keychainTagScale = 0.6

// Renderer maps a design onto a VisualTree. Render is a pure function of its
// arguments; the renderer itself carries only the QR host configuration.
type Renderer struct {
	profileHost string
	fallbackURL string
}

// NewRenderer builds a renderer from storefront configuration.
func NewRenderer(cfg config.StorefrontConfig) (*Renderer, error) {
	host := strings.TrimSpace(cfg.ProfileHost)
	if host == "" {
		return nil, fmt.Errorf("profile host is required")
	}
	path := strings.TrimSpace(cfg.FallbackQRPath)
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Renderer{
		profileHost: host,
		fallbackURL: "https://" + host + path,
	}, nil
}

// Render produces the visual tree for the requested side. Asking for the
// back of a single-sided category is a validation error; the category
// switch below covers every member of the closed set.
func (r *Renderer) Render(category enums.ProductCategory, design customization.DesignCustomization, showBack bool) (VisualTree, error) {
	if !category.IsValid() {
		return VisualTree{}, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown product category %q", category))
	}
	if showBack && !category.SupportsTwoSides() {
		return VisualTree{}, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("%s products have a single side", category))
	}

	side := design.Front
	sideName := enums.SideFront
	if showBack {
		side = design.Back
		sideName = enums.SideBack
	}

	// The QR payload is recomputed on every call so a profile linked or
	// unlinked since the last render can never leak a stale URL.
	qrPayload := r.qrPayload(design)

	var root Node
	switch category {
	case enums.ProductCategoryCard, enums.ProductCategoryReview:
		root = r.renderCard(side, qrPayload)
	case enums.ProductCategorySticker:
		root = r.renderSticker(side)
	case enums.ProductCategoryBand:
		root = r.renderBand(side)
	case enums.ProductCategoryKeychain:
		root = r.renderKeychain(side, qrPayload)
	default:
		return VisualTree{}, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unhandled product category %q", category))
	}

	return VisualTree{
		Category: category,
		Side:     sideName,
		Root:     root,
	}, nil
}

func (r *Renderer) qrPayload(design customization.DesignCustomization) string {
	if design.LinkedProfileUsername != nil {
		return fmt.Sprintf("https://%s/@%s", r.profileHost, *design.LinkedProfileUsername)
	}
	return r.fallbackURL
}

// renderCard is the rectangular layout shared by card and review products,
// and reused by the keychain tag.
func (r *Renderer) renderCard(side customization.SideCustomization, qrPayload string) Node {
	root := Node{
		Kind:    NodeSurface,
		Shape:   ShapeRect,
		Fill:    side.BackgroundColor,
		Pattern: side.Pattern,
		Stroke:  strokeFor(side, false),
	}

	root.Children = append(root.Children, Node{
		Kind:  NodeAccentStrip,
		Color: side.AccentColor,
	})

	if side.LogoURL != nil {
		root.Children = append(root.Children, Node{
			Kind:     NodeImage,
			Anchor:   AnchorTopLeft,
			ImageURL: *side.LogoURL,
		})
	}
	if side.CustomArtworkURL != nil {
		root.Children = append(root.Children, Node{
			Kind:     NodeImage,
			Anchor:   AnchorCenter,
			ImageURL: *side.CustomArtworkURL,
		})
	}

	if side.Name != "" {
		root.Children = append(root.Children, Node{
			Kind:  NodeLabel,
			Text:  side.Name,
			Color: side.TextColor,
		})
	}
	if side.Title != "" {
		root.Children = append(root.Children, Node{
			Kind:  NodeLabel,
			Text:  side.Title,
			Color: side.AccentColor,
		})
	}

	if side.ShowQRCode {
		root.Children = append(root.Children, Node{
			Kind:      NodeQRBadge,
			Anchor:    AnchorBottomRight,
			QRPayload: qrPayload,
		})
	}

	return root
}

func (r *Renderer) renderSticker(side customization.SideCustomization) Node {
	root := Node{
		Kind:    NodeSurface,
		Shape:   ShapeCircle,
		Fill:    side.BackgroundColor,
		Pattern: side.Pattern,
		Stroke:  strokeFor(side, true),
	}

	// Centerpiece preference: uploaded logo, then catalog icon, then name.
	switch {
	case side.LogoURL != nil:
		root.Children = append(root.Children, Node{
			Kind:     NodeImage,
			Anchor:   AnchorCenter,
			ImageURL: *side.LogoURL,
		})
	case side.Icon != nil:
		root.Children = append(root.Children, Node{
			Kind:   NodeIcon,
			Anchor: AnchorCenter,
			Icon:   *side.Icon,
			Color:  side.AccentColor,
		})
	case side.Name != "":
		root.Children = append(root.Children, Node{
			Kind:   NodeLabel,
			Anchor: AnchorCenter,
			Text:   side.Name,
			Color:  side.TextColor,
		})
	}

	return root
}

func (r *Renderer) renderBand(side customization.SideCustomization) Node {
	root := Node{
		Kind:    NodeSurface,
		Shape:   ShapePill,
		Fill:    side.BackgroundColor,
		Pattern: side.Pattern,
		Stroke:  strokeFor(side, true),
	}

	label := side.Name
	if label == "" {
		label = side.Title
	}
	if label != "" {
		root.Children = append(root.Children, Node{
			Kind:   NodeLabel,
			Anchor: AnchorCenter,
			Text:   label,
			Color:  side.TextColor,
		})
	}

	return root
}

// renderKeychain composes ring + chain + tag, the tag reusing the card
// layout at reduced scale.
func (r *Renderer) renderKeychain(side customization.SideCustomization, qrPayload string) Node {
	tag := r.renderCard(side, qrPayload)
	tag.Shape = ShapeTag

	return Node{
		Kind: NodeGroup,
		Children: []Node{
			{Kind: NodeRing, Color: side.AccentColor},
			{Kind: NodeChain, Color: side.AccentColor},
			{
				Kind:     NodeGroup,
				Scale:    keychainTagScale,
				Children: []Node{tag},
			},
		},
	}
}

// strokeFor converts the border style into a stroke. Circular products draw
// an implicit accent ring when the style is none so they are never
// borderless.
func strokeFor(side customization.SideCustomization, implicitRing bool) *Stroke {
	if side.BorderStyle == enums.BorderStyleNone {
		if implicitRing {
			return &Stroke{Style: enums.BorderStyleSolid, Color: side.AccentColor}
		}
		return nil
	}
	return &Stroke{Style: side.BorderStyle, Color: side.AccentColor}
}
