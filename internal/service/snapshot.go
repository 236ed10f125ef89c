package service

import (
	"cuepack-api/internal/model"
	"cuepack-api/internal/state"
)

// expandAccessories resolves an item's accessory bundle into a contents
// snapshot, looking names and categories up live from the catalog. Refs to
// deleted items are dropped; there is nothing left to snapshot for them.
func expandAccessories(doc *state.Document, item model.InventoryItem) []model.ContentEntry {
	return expandRefs(doc, item.Accessories)
}

// expandKit resolves a kit's member list into a contents snapshot.
func expandKit(doc *state.Document, kit model.Kit) []model.ContentEntry {
	return expandRefs(doc, kit.Items)
}

func expandRefs(doc *state.Document, refs []model.ItemRef) []model.ContentEntry {
	if len(refs) == 0 {
		return nil
	}
	entries := make([]model.ContentEntry, 0, len(refs))
	for _, ref := range refs {
		member := doc.ItemByID(ref.ItemID)
		if member == nil {
			continue
		}
		qty := ref.Quantity
		if qty < 1 {
			qty = 1
		}
		entries = append(entries, model.ContentEntry{
			ItemID:   member.ID,
			Name:     member.Name,
			Quantity: qty,
			Category: member.Category,
		})
	}
	if len(entries) == 0 {
		return nil
	}
	return entries
}
