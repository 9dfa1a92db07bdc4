package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category classifies a product. The zero value is CategoryUnknown so that
// unrecognized input degrades to a valid tag instead of an error.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryTools
)

var categoryLabels = map[Category]string{
	CategoryUnknown:    "Unknown",
	CategoryCloths:     "Cloths",
	CategoryFood:       "Food",
	CategoryHousewares: "Housewares",
	CategoryTools:      "Tools",
}

var categoryTags = map[Category]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryTools:      "TOOLS",
}

// ParseCategory maps a raw string to a Category. Matching is
// case-insensitive, so both the display label ("Housewares") and the
// internal tag ("HOUSEWARES") resolve to the same value. It is total:
// anything unrecognized yields CategoryUnknown.
func ParseCategory(raw string) Category {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CLOTHS":
		return CategoryCloths
	case "FOOD":
		return CategoryFood
	case "HOUSEWARES":
		return CategoryHousewares
	case "TOOLS":
		return CategoryTools
	default:
		return CategoryUnknown
	}
}

// String returns the display label used on the wire, e.g. "Cloths".
func (c Category) String() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryUnknown]
}

// Tag returns the internal tag stored in the database, e.g. "CLOTHS".
func (c Category) Tag() string {
	if tag, ok := categoryTags[c]; ok {
		return tag
	}
	return categoryTags[CategoryUnknown]
}

// MarshalJSON serializes a Category as its display label.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses a Category from any JSON string, never failing on
// unknown labels.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("domain: category must be a string: %w", err)
	}
	*c = ParseCategory(raw)
	return nil
}

// Product represents a product in the catalog.
// The json tags correspond to the fields expected in API responses/requests.
// Price is a decimal so amounts like "59.95" round-trip exactly; it
// marshals as a quoted decimal string.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	Category    Category        `json:"category"`
}

// ValidationError reports malformed or missing product input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("domain: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the invariants every stored product must satisfy.
// Category is not checked here: parsing is total and unknown input has
// already been coerced to CategoryUnknown.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}
