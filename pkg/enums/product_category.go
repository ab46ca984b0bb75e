package enums

import "fmt"

// ProductCategory represents the physical NFC product families in the catalog.
// The category drives preview dispatch and whether a back side exists.
type ProductCategory string

const (
	ProductCategoryCard     ProductCategory = "card"
	ProductCategorySticker  ProductCategory = "sticker"
	ProductCategoryBand     ProductCategory = "band"
	ProductCategoryKeychain ProductCategory = "keychain"
	ProductCategoryReview   ProductCategory = "review"
)

var validProductCategories = []ProductCategory{
	ProductCategoryCard,
	ProductCategorySticker,
	ProductCategoryBand,
	ProductCategoryKeychain,
	ProductCategoryReview,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// SupportsTwoSides reports whether products of this category have a printable
// back face. Only cards and keychain tags do.
func (c ProductCategory) SupportsTwoSides() bool {
	return c == ProductCategoryCard || c == ProductCategoryKeychain
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
