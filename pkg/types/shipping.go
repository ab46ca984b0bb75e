package types

// ShippingInfo is the address payload collected at checkout. Stored as a JSON
// column on the order row; validation tags are enforced before any network or
// database work happens.
type ShippingInfo struct {
	FullName   string `json:"full_name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
	Phone      string `json:"phone,omitempty"`
}
