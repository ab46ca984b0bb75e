package customization

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

func TestApplySetFieldWritesActiveSideOnly(t *testing.T) {
	design := DefaultDesign()

	next, err := Apply(design, enums.ProductCategoryCard, SetField{Field: FieldName, Value: "Jane"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if next.Front.Name != "Jane" {
		t.Fatalf("expected front name set, got %q", next.Front.Name)
	}
	if !reflect.DeepEqual(next.Back, design.Back) {
		t.Fatal("back side changed by a front-side write")
	}
	if design.Front.Name != "" {
		t.Fatal("input design mutated in place")
	}
}

func TestApplySetFieldFollowsActiveSide(t *testing.T) {
	design := DefaultDesign()
	design.ActiveSide = enums.SideBack

	next, err := Apply(design, enums.ProductCategoryCard, SetField{Field: FieldBackgroundColor, Value: "#222222"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if next.Back.BackgroundColor != "#222222" {
		t.Fatalf("expected back background set, got %q", next.Back.BackgroundColor)
	}
	if next.Front.BackgroundColor != DefaultBackgroundColor {
		t.Fatal("front side changed by a back-side write")
	}
}

func TestApplySetFieldTypedValues(t *testing.T) {
	design := DefaultDesign()

	cases := []struct {
		name  string
		cmd   SetField
		check func(t *testing.T, side SideCustomization)
	}{
		{
			name: "pattern",
			cmd:  SetField{Field: FieldPattern, Value: enums.PatternWaves},
			check: func(t *testing.T, side SideCustomization) {
				if side.Pattern != enums.PatternWaves {
					t.Fatalf("pattern = %s", side.Pattern)
				}
			},
		},
		{
			name: "border style",
			cmd:  SetField{Field: FieldBorderStyle, Value: enums.BorderStyleGlow},
			check: func(t *testing.T, side SideCustomization) {
				if side.BorderStyle != enums.BorderStyleGlow {
					t.Fatalf("border = %s", side.BorderStyle)
				}
			},
		},
		{
			name: "icon",
			cmd:  SetField{Field: FieldIcon, Value: enums.IconStar},
			check: func(t *testing.T, side SideCustomization) {
				if side.Icon == nil || *side.Icon != enums.IconStar {
					t.Fatalf("icon = %v", side.Icon)
				}
			},
		},
		{
			name: "icon cleared",
			cmd:  SetField{Field: FieldIcon, Value: nil},
			check: func(t *testing.T, side SideCustomization) {
				if side.Icon != nil {
					t.Fatalf("icon = %v", side.Icon)
				}
			},
		},
		{
			name: "qr toggle",
			cmd:  SetField{Field: FieldShowQRCode, Value: true},
			check: func(t *testing.T, side SideCustomization) {
				if !side.ShowQRCode {
					t.Fatal("expected showQRCode true")
				}
			},
		},
		{
			name: "logo url",
			cmd:  SetField{Field: FieldLogoURL, Value: "https://cdn.example/logo.png"},
			check: func(t *testing.T, side SideCustomization) {
				if side.LogoURL == nil || *side.LogoURL != "https://cdn.example/logo.png" {
					t.Fatalf("logo = %v", side.LogoURL)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Apply(design, enums.ProductCategoryCard, tc.cmd)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			tc.check(t, next.Front)
		})
	}
}

func TestApplySetFieldRejectsWrongTypes(t *testing.T) {
	design := DefaultDesign()

	cases := []SetField{
		{Field: FieldName, Value: 42},
		{Field: FieldPattern, Value: "waves"},
		{Field: FieldPattern, Value: enums.Pattern("swirl")},
		{Field: FieldBorderStyle, Value: true},
		{Field: FieldShowQRCode, Value: "yes"},
		{Field: FieldIcon, Value: enums.Icon("dragon")},
		{Field: Field("unknown"), Value: "x"},
	}

	for _, cmd := range cases {
		next, err := Apply(design, enums.ProductCategoryCard, cmd)
		if err == nil {
			t.Fatalf("expected error for %+v", cmd)
		}
		if !reflect.DeepEqual(next, design) {
			t.Fatalf("design changed on rejected command %+v", cmd)
		}
	}
}

func TestApplySelectTemplatePreservesInactiveSide(t *testing.T) {
	design := DefaultDesign()
	design.Front.Name = "Jane"
	design.Back.BackgroundColor = "#040404"
	priorBack := design.Back

	next, err := Apply(design, enums.ProductCategoryCard, SelectTemplate{TemplateID: "sunset"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	template, _ := TemplateByID("sunset")
	if next.Front.BackgroundColor != template.BackgroundColor ||
		next.Front.TextColor != template.TextColor ||
		next.Front.AccentColor != template.AccentColor {
		t.Fatalf("template colors not applied: %+v", next.Front)
	}
	if next.Front.Name != "Jane" {
		t.Fatal("non-color field overwritten by template")
	}
	if !reflect.DeepEqual(next.Back, priorBack) {
		t.Fatal("inactive side changed by template selection")
	}
	if next.TemplateID == nil || *next.TemplateID != "sunset" {
		t.Fatalf("templateId = %v", next.TemplateID)
	}
}

func TestApplySelectTemplateUnknownIDIsNoOp(t *testing.T) {
	design := DefaultDesign()
	design.Front.Name = "Jane"

	next, err := Apply(design, enums.ProductCategoryCard, SelectTemplate{TemplateID: "does-not-exist"})
	if err != nil {
		t.Fatalf("unknown template must not error: %v", err)
	}
	if !reflect.DeepEqual(next, design) {
		t.Fatal("unknown template changed state")
	}
}

func TestApplyFlipSide(t *testing.T) {
	design := DefaultDesign()

	next, err := Apply(design, enums.ProductCategoryCard, FlipSide{})
	if err != nil {
		t.Fatalf("flip card: %v", err)
	}
	if next.ActiveSide != enums.SideBack {
		t.Fatalf("active side = %s", next.ActiveSide)
	}

	next, err = Apply(next, enums.ProductCategoryKeychain, FlipSide{})
	if err != nil {
		t.Fatalf("flip keychain: %v", err)
	}
	if next.ActiveSide != enums.SideFront {
		t.Fatalf("active side = %s", next.ActiveSide)
	}

	for _, category := range []enums.ProductCategory{
		enums.ProductCategorySticker,
		enums.ProductCategoryBand,
		enums.ProductCategoryReview,
	} {
		if _, err := Apply(design, category, FlipSide{}); err == nil {
			t.Fatalf("expected flip error for single-sided category %s", category)
		}
	}
}

func TestLinkUnlinkProfilePairInvariant(t *testing.T) {
	design := DefaultDesign()
	profileID := uuid.New()

	assertPaired := func(d DesignCustomization) {
		t.Helper()
		if (d.LinkedProfileID == nil) != (d.LinkedProfileUsername == nil) {
			t.Fatalf("linked pair out of sync: id=%v username=%v", d.LinkedProfileID, d.LinkedProfileUsername)
		}
	}

	ops := []Command{
		LinkProfile{ProfileID: profileID, Username: "jane"},
		UnlinkProfile{},
		LinkProfile{ProfileID: profileID, Username: "jane"},
		LinkProfile{ProfileID: uuid.New(), Username: "other"},
		UnlinkProfile{},
		UnlinkProfile{},
	}

	current := design
	for i, op := range ops {
		next, err := Apply(current, enums.ProductCategoryCard, op)
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		assertPaired(next)
		current = next
	}
	if current.Linked() {
		t.Fatal("expected unlinked final state")
	}

	// Partial link commands are rejected outright.
	if _, err := Apply(design, enums.ProductCategoryCard, LinkProfile{ProfileID: profileID}); err == nil {
		t.Fatal("expected error for missing username")
	}
	if _, err := Apply(design, enums.ProductCategoryCard, LinkProfile{Username: "jane"}); err == nil {
		t.Fatal("expected error for missing profile id")
	}
}
