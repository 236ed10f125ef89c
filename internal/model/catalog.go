package model

import "strings"

// Category classifies catalog entries. The set is fixed; anything that does
// not fit goes under Other.
type Category string

const (
	CategoryAudio     Category = "Audio"
	CategoryLights    Category = "Lights"
	CategoryVideo     Category = "Video"
	CategoryStructure Category = "Structure"
	CategoryCables    Category = "Cables"
	CategoryRegia     Category = "Regia"
	CategoryOther     Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryAudio,
	CategoryLights,
	CategoryVideo,
	CategoryStructure,
	CategoryCables,
	CategoryRegia,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ItemRef points at an inventory item with a fixed quantity. Used for kit
// members and item accessory bundles.
type ItemRef struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// InventoryItem is one catalog entry. Identity is ID; Name is unique under
// NormalizeName comparison, enforced on every catalog write.
type InventoryItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Weight      float64   `json:"weight,omitempty"`
	Description string    `json:"description,omitempty"`
	InStock     int       `json:"inStock"`
	Accessories []ItemRef `json:"accessories,omitempty"`
}

// Kit is a named bundle of item references with fixed quantities,
// independent of stock.
type Kit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	Items       []ItemRef `json:"items"`
}

// NormalizeName is the identity under which catalog names are compared:
// lower-cased, trimmed, inner whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
