package model

// CatalogExportType marks a catalog export file.
const CatalogExportType = "cuepack_catalog"

// CatalogExport is the catalog exchange file envelope.
type CatalogExport struct {
	Type       string          `json:"type"`
	ExportDate string          `json:"exportDate"`
	Inventory  []InventoryItem `json:"inventory"`
	Kits       []Kit           `json:"kits"`
}

// ImportSummary reports what a catalog import did.
type ImportSummary struct {
	ItemsUpdated int `json:"itemsUpdated"`
	ItemsCreated int `json:"itemsCreated"`
	KitsUpdated  int `json:"kitsUpdated"`
	KitsCreated  int `json:"kitsCreated"`
}

// ExportRow is one line of the flattened table consumed by the external
// PDF/CSV renderers. Content rows carry the owning component's name in
// FromComponent and a quantity already multiplied by the component quantity.
type ExportRow struct {
	Section       string   `json:"section"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Quantity      int      `json:"quantity"`
	Notes         string   `json:"notes,omitempty"`
	FromComponent string   `json:"fromComponent,omitempty"`
}
