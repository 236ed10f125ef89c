package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cuepack-api/internal/cache"
	"cuepack-api/internal/model"
	"cuepack-api/internal/search"
	"cuepack-api/internal/state"
	"cuepack-api/pkg/uid"
)

// CatalogService owns inventory items and kits. Every write enforces the
// one-entry-per-normalized-name invariant and propagates snapshot changes
// into the packing lists through the sync engine.
type CatalogService struct {
	store     *state.Store
	cache     cache.Cache
	searchTTL time.Duration
}

// NewCatalogService creates a new catalog service. The cache is optional;
// without one every search ranks from scratch.
func NewCatalogService(store *state.Store, c cache.Cache, searchTTL time.Duration) *CatalogService {
	if store == nil {
		return nil
	}
	return &CatalogService{store: store, cache: c, searchTTL: searchTTL}
}

func itemFields(i model.InventoryItem) search.Fields {
	return search.Fields{ID: i.ID, Name: i.Name, Category: string(i.Category), Description: i.Description}
}

func kitFields(k model.Kit) search.Fields {
	return search.Fields{ID: k.ID, Name: k.Name, Category: string(k.Category), Description: k.Description}
}

// SearchItems returns inventory items ranked against the query. The picker
// flag selects the list-builder weight variant.
func (s *CatalogService) SearchItems(ctx context.Context, query, category string, picker bool) []model.InventoryItem {
	weights, scope := search.CatalogWeights, "catalog"
	if picker {
		weights, scope = search.PickerWeights, "picker"
	}

	rank := func() []model.InventoryItem {
		var records []model.InventoryItem
		s.store.View(func(doc *state.Document) {
			records = append(records, doc.Inventory...)
		})
		return search.Rank(records, itemFields, query, category, weights)
	}

	if s.cache == nil {
		return rank()
	}
	key := fmt.Sprintf("search:items:%s:%d:%s:%s", scope, s.store.Revision(), category, query)
	raw, err := s.cache.GetOrSet(ctx, key, s.searchTTL, func() ([]byte, error) {
		return json.Marshal(rank())
	})
	if err == nil {
		var out []model.InventoryItem
		if json.Unmarshal(raw, &out) == nil {
			return out
		}
	}
	return rank()
}

// SearchKits returns kits ranked against the query.
func (s *CatalogService) SearchKits(ctx context.Context, query, category string, picker bool) []model.Kit {
	weights, scope := search.CatalogWeights, "catalog"
	if picker {
		weights, scope = search.PickerWeights, "picker"
	}

	rank := func() []model.Kit {
		var records []model.Kit
		s.store.View(func(doc *state.Document) {
			records = append(records, doc.Kits...)
		})
		return search.Rank(records, kitFields, query, category, weights)
	}

	if s.cache == nil {
		return rank()
	}
	key := fmt.Sprintf("search:kits:%s:%d:%s:%s", scope, s.store.Revision(), category, query)
	raw, err := s.cache.GetOrSet(ctx, key, s.searchTTL, func() ([]byte, error) {
		return json.Marshal(rank())
	})
	if err == nil {
		var out []model.Kit
		if json.Unmarshal(raw, &out) == nil {
			return out
		}
	}
	return rank()
}

// SaveItem creates or updates an inventory item. A name colliding with a
// different existing record redirects the edit onto that record (its id is
// kept, the edited record is deleted), so at most one catalog entry per
// normalized name survives any save. Name/category changes and accessory
// edits are synchronized into every list. An empty name is a silent no-op.
func (s *CatalogService) SaveItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return model.InventoryItem{}, nil
	}
	if !item.Category.Valid() {
		item.Category = model.CategoryOther
	}

	var saved model.InventoryItem
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		norm := model.NormalizeName(item.Name)
		targetID := ""
		for i := range doc.Inventory {
			if doc.Inventory[i].ID != item.ID && model.NormalizeName(doc.Inventory[i].Name) == norm {
				targetID = doc.Inventory[i].ID
				break
			}
		}
		if targetID != "" {
			if item.ID != "" && item.ID != targetID {
				removeItemByID(doc, item.ID)
			}
			item.ID = targetID
		}
		if item.ID == "" {
			item.ID = uid.New()
		}

		dirty := []string{state.KeyInventory}
		prev := doc.ItemByID(item.ID)
		if prev == nil {
			doc.Inventory = append(doc.Inventory, item)
		} else {
			renamed := prev.Name != item.Name || prev.Category != item.Category
			accessoriesChanged := !equalRefs(prev.Accessories, item.Accessories)
			*prev = item

			listsDirty := false
			if renamed {
				listsDirty = syncItemRename(doc.Lists, item.ID, item.Name, item.Category) || listsDirty
			}
			if accessoriesChanged {
				contents := expandAccessories(doc, item)
				listsDirty = syncComponentContents(doc.Lists, model.ComponentItem, item.ID, contents) || listsDirty
			}
			if listsDirty {
				dirty = append(dirty, state.KeyLists)
			}
		}
		saved = item
		return dirty, nil
	})
	return saved, err
}

// DeleteItem removes an item from the catalog. Lists keep their cached
// snapshots; references simply dangle.
func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		if !removeItemByID(doc, id) {
			return nil, ErrNotFound
		}
		return []string{state.KeyInventory}, nil
	})
}

// SaveKit creates or updates a kit with the same merge-by-name and sync
// discipline as items. Member edits replace the contents snapshot of every
// top-level placement of the kit.
func (s *CatalogService) SaveKit(ctx context.Context, kit model.Kit) (model.Kit, error) {
	kit.Name = strings.TrimSpace(kit.Name)
	if kit.Name == "" {
		return model.Kit{}, nil
	}
	if !kit.Category.Valid() {
		kit.Category = model.CategoryOther
	}

	var saved model.Kit
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		norm := model.NormalizeName(kit.Name)
		targetID := ""
		for i := range doc.Kits {
			if doc.Kits[i].ID != kit.ID && model.NormalizeName(doc.Kits[i].Name) == norm {
				targetID = doc.Kits[i].ID
				break
			}
		}
		if targetID != "" {
			if kit.ID != "" && kit.ID != targetID {
				removeKitByID(doc, kit.ID)
			}
			kit.ID = targetID
		}
		if kit.ID == "" {
			kit.ID = uid.New()
		}

		dirty := []string{state.KeyKits}
		prev := doc.KitByID(kit.ID)
		if prev == nil {
			doc.Kits = append(doc.Kits, kit)
		} else {
			renamed := prev.Name != kit.Name || prev.Category != kit.Category
			membersChanged := !equalRefs(prev.Items, kit.Items)
			*prev = kit

			listsDirty := false
			if renamed {
				listsDirty = syncKitRename(doc.Lists, kit.ID, kit.Name, kit.Category) || listsDirty
			}
			if membersChanged {
				contents := expandKit(doc, kit)
				listsDirty = syncComponentContents(doc.Lists, model.ComponentKit, kit.ID, contents) || listsDirty
			}
			if listsDirty {
				dirty = append(dirty, state.KeyLists)
			}
		}
		saved = kit
		return dirty, nil
	})
	return saved, err
}

// DeleteKit removes a kit from the catalog.
func (s *CatalogService) DeleteKit(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		if !removeKitByID(doc, id) {
			return nil, ErrNotFound
		}
		return []string{state.KeyKits}, nil
	})
}

func removeItemByID(doc *state.Document, id string) bool {
	for i := range doc.Inventory {
		if doc.Inventory[i].ID == id {
			doc.Inventory = append(doc.Inventory[:i], doc.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

func removeKitByID(doc *state.Document, id string) bool {
	for i := range doc.Kits {
		if doc.Kits[i].ID == id {
			doc.Kits = append(doc.Kits[:i], doc.Kits[i+1:]...)
			return true
		}
	}
	return false
}

func equalRefs(a, b []model.ItemRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
