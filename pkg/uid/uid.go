// Package uid generates the surrogate identifiers used across the catalog
// and packing-list documents.
package uid

import "github.com/google/uuid"

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}
