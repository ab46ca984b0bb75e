package preview

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(config.StorefrontConfig{
		ProfileHost:    "tapfolio.link",
		FallbackQRPath: "/tap",
	})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func findNodes(root Node, kind NodeKind) []Node {
	var out []Node
	if root.Kind == kind {
		out = append(out, root)
	}
	for _, child := range root.Children {
		out = append(out, findNodes(child, kind)...)
	}
	return out
}

func TestRenderIsDeterministic(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	design.Front.Name = "Jane"
	design.Front.ShowQRCode = true

	first, err := renderer.Render(enums.ProductCategoryCard, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := renderer.Render(enums.ProductCategoryCard, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two renders of equal input differ")
	}
}

func TestRenderCardLayout(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	design.Front.Name = "Jane"
	design.Front.Title = "Designer"
	logo := "https://cdn.example/logo.png"
	design.Front.LogoURL = &logo
	design.Front.Pattern = enums.PatternDots
	design.Front.BorderStyle = enums.BorderStyleGlow
	design.Front.ShowQRCode = true

	tree, err := renderer.Render(enums.ProductCategoryCard, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if tree.Root.Shape != ShapeRect {
		t.Fatalf("shape = %s", tree.Root.Shape)
	}
	if tree.Root.Pattern != enums.PatternDots {
		t.Fatalf("pattern = %s", tree.Root.Pattern)
	}
	if tree.Root.Stroke == nil || tree.Root.Stroke.Style != enums.BorderStyleGlow {
		t.Fatalf("stroke = %+v", tree.Root.Stroke)
	}
	if len(findNodes(tree.Root, NodeAccentStrip)) != 1 {
		t.Fatal("missing accent strip")
	}
	images := findNodes(tree.Root, NodeImage)
	if len(images) != 1 || images[0].Anchor != AnchorTopLeft {
		t.Fatalf("logo placement wrong: %+v", images)
	}
	badges := findNodes(tree.Root, NodeQRBadge)
	if len(badges) != 1 || badges[0].Anchor != AnchorBottomRight {
		t.Fatalf("qr badge placement wrong: %+v", badges)
	}
	labels := findNodes(tree.Root, NodeLabel)
	if len(labels) != 2 {
		t.Fatalf("expected name and title labels, got %+v", labels)
	}
}

func TestRenderCardOmitsOptionalNodes(t *testing.T) {
	renderer := newTestRenderer(t)
	tree, err := renderer.Render(enums.ProductCategoryReview, customization.DefaultDesign(), false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if tree.Root.Stroke != nil {
		t.Fatal("borderStyle none must not draw a stroke on rectangular products")
	}
	if len(findNodes(tree.Root, NodeQRBadge)) != 0 {
		t.Fatal("qr badge drawn with showQRCode false")
	}
	if len(findNodes(tree.Root, NodeImage)) != 0 {
		t.Fatal("image drawn without any asset url")
	}
}

func TestRenderStickerImplicitRing(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	icon := enums.IconStar
	design.Front.Icon = &icon

	tree, err := renderer.Render(enums.ProductCategorySticker, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if tree.Root.Shape != ShapeCircle {
		t.Fatalf("shape = %s", tree.Root.Shape)
	}
	if tree.Root.Stroke == nil || tree.Root.Stroke.Color != design.Front.AccentColor {
		t.Fatalf("expected implicit accent ring, got %+v", tree.Root.Stroke)
	}
	icons := findNodes(tree.Root, NodeIcon)
	if len(icons) != 1 || icons[0].Icon != enums.IconStar {
		t.Fatalf("icon centerpiece wrong: %+v", icons)
	}
}

func TestRenderStickerLogoBeatsIcon(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	logo := "https://cdn.example/logo.png"
	design.Front.LogoURL = &logo
	icon := enums.IconHeart
	design.Front.Icon = &icon

	tree, err := renderer.Render(enums.ProductCategorySticker, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(findNodes(tree.Root, NodeImage)) != 1 {
		t.Fatal("logo should be the centerpiece")
	}
	if len(findNodes(tree.Root, NodeIcon)) != 0 {
		t.Fatal("icon drawn alongside logo")
	}
}

func TestRenderBandLayout(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	design.Front.Name = "Jane"
	design.Front.BorderStyle = enums.BorderStyleDashed

	tree, err := renderer.Render(enums.ProductCategoryBand, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if tree.Root.Shape != ShapePill {
		t.Fatalf("shape = %s", tree.Root.Shape)
	}
	if tree.Root.Stroke == nil || tree.Root.Stroke.Style != enums.BorderStyleDashed {
		t.Fatalf("explicit border style dropped: %+v", tree.Root.Stroke)
	}
	labels := findNodes(tree.Root, NodeLabel)
	if len(labels) != 1 || labels[0].Text != "Jane" {
		t.Fatalf("band label wrong: %+v", labels)
	}
}

func TestRenderKeychainComposite(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	design.Front.Name = "Jane"

	tree, err := renderer.Render(enums.ProductCategoryKeychain, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(findNodes(tree.Root, NodeRing)) != 1 {
		t.Fatal("missing keychain ring")
	}
	if len(findNodes(tree.Root, NodeChain)) != 1 {
		t.Fatal("missing keychain chain")
	}
	tags := findNodes(tree.Root, NodeSurface)
	if len(tags) != 1 || tags[0].Shape != ShapeTag {
		t.Fatalf("tag surface wrong: %+v", tags)
	}
	scaled := false
	for _, group := range findNodes(tree.Root, NodeGroup) {
		if group.Scale > 0 && group.Scale < 1 {
			scaled = true
		}
	}
	if !scaled {
		t.Fatal("tag must be rendered at reduced scale")
	}
}

func TestRenderFlipShowsBackContent(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	design.Front.Name = "Front Jane"
	design.Back.Name = "Back Jane"

	front, err := renderer.Render(enums.ProductCategoryCard, design, false)
	if err != nil {
		t.Fatalf("render front: %v", err)
	}
	back, err := renderer.Render(enums.ProductCategoryCard, design, true)
	if err != nil {
		t.Fatalf("render back: %v", err)
	}

	if front.Side != enums.SideFront || back.Side != enums.SideBack {
		t.Fatalf("sides = %s/%s", front.Side, back.Side)
	}
	if findNodes(front.Root, NodeLabel)[0].Text != "Front Jane" {
		t.Fatal("front render shows wrong side")
	}
	if findNodes(back.Root, NodeLabel)[0].Text != "Back Jane" {
		t.Fatal("back render shows wrong side")
	}

	for _, category := range []enums.ProductCategory{
		enums.ProductCategorySticker,
		enums.ProductCategoryBand,
		enums.ProductCategoryReview,
	} {
		if _, err := renderer.Render(category, design, true); err == nil {
			t.Fatalf("expected back-render error for %s", category)
		}
	}
}

func TestRenderQRPayload(t *testing.T) {
	renderer := newTestRenderer(t)
	design := customization.DefaultDesign()
	design.Front.ShowQRCode = true

	tree, err := renderer.Render(enums.ProductCategoryCard, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	badge := findNodes(tree.Root, NodeQRBadge)[0]
	if badge.QRPayload != "https://tapfolio.link/tap" {
		t.Fatalf("fallback payload = %q", badge.QRPayload)
	}

	profileID := uuid.New()
	username := "jane"
	design.LinkedProfileID = &profileID
	design.LinkedProfileUsername = &username

	tree, err = renderer.Render(enums.ProductCategoryCard, design, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	badge = findNodes(tree.Root, NodeQRBadge)[0]
	if badge.QRPayload != "https://tapfolio.link/@jane" {
		t.Fatalf("profile payload = %q", badge.QRPayload)
	}
}

func TestRenderRejectsUnknownCategory(t *testing.T) {
	renderer := newTestRenderer(t)
	if _, err := renderer.Render(enums.ProductCategory("poster"), customization.DefaultDesign(), false); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
