package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"cuepack-api/internal/model"
	"cuepack-api/internal/state"
	"cuepack-api/pkg/uid"
)

// importedSuffix tags the event name of every imported list.
const importedSuffix = " (imported)"

// TransferService translates between exchange files and the in-memory
// document, and flattens lists into the table shape the external PDF/CSV
// renderers consume.
type TransferService struct {
	store *state.Store
}

// NewTransferService creates a new transfer service.
func NewTransferService(store *state.Store) *TransferService {
	if store == nil {
		return nil
	}
	return &TransferService{store: store}
}

// ExportCatalog returns the catalog exchange envelope.
func (s *TransferService) ExportCatalog(ctx context.Context) model.CatalogExport {
	out := model.CatalogExport{
		Type:       model.CatalogExportType,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
	}
	s.store.View(func(doc *state.Document) {
		out.Inventory = append([]model.InventoryItem(nil), doc.Inventory...)
		out.Kits = append([]model.Kit(nil), doc.Kits...)
	})
	return out
}

// ImportCatalog merges a catalog exchange file into the catalog by
// normalized name: colliding records are updated in place (original id
// preserved, imported values win), new names become new records. Snapshot
// changes are synchronized into the lists. A malformed payload aborts the
// whole import with ErrBadFormat.
func (s *TransferService) ImportCatalog(ctx context.Context, raw []byte) (model.ImportSummary, error) {
	var file model.CatalogExport
	if err := json.Unmarshal(raw, &file); err != nil {
		return model.ImportSummary{}, ErrBadFormat
	}
	if file.Type != model.CatalogExportType {
		return model.ImportSummary{}, ErrBadFormat
	}

	var summary model.ImportSummary
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		listsDirty := false

		for _, item := range file.Inventory {
			item.Name = strings.TrimSpace(item.Name)
			if item.Name == "" {
				continue
			}
			if !item.Category.Valid() {
				item.Category = model.CategoryOther
			}

			prev := findItemByName(doc, model.NormalizeName(item.Name))
			if prev == nil {
				if item.ID == "" || doc.ItemByID(item.ID) != nil {
					item.ID = uid.New()
				}
				doc.Inventory = append(doc.Inventory, item)
				summary.ItemsCreated++
				continue
			}

			item.ID = prev.ID
			renamed := prev.Name != item.Name || prev.Category != item.Category
			accessoriesChanged := !equalRefs(prev.Accessories, item.Accessories)
			*prev = item
			if renamed {
				listsDirty = syncItemRename(doc.Lists, item.ID, item.Name, item.Category) || listsDirty
			}
			if accessoriesChanged {
				contents := expandAccessories(doc, item)
				listsDirty = syncComponentContents(doc.Lists, model.ComponentItem, item.ID, contents) || listsDirty
			}
			summary.ItemsUpdated++
		}

		for _, kit := range file.Kits {
			kit.Name = strings.TrimSpace(kit.Name)
			if kit.Name == "" {
				continue
			}
			if !kit.Category.Valid() {
				kit.Category = model.CategoryOther
			}

			prev := findKitByName(doc, model.NormalizeName(kit.Name))
			if prev == nil {
				if kit.ID == "" || doc.KitByID(kit.ID) != nil {
					kit.ID = uid.New()
				}
				doc.Kits = append(doc.Kits, kit)
				summary.KitsCreated++
				continue
			}

			kit.ID = prev.ID
			renamed := prev.Name != kit.Name || prev.Category != kit.Category
			membersChanged := !equalRefs(prev.Items, kit.Items)
			*prev = kit
			if renamed {
				listsDirty = syncKitRename(doc.Lists, kit.ID, kit.Name, kit.Category) || listsDirty
			}
			if membersChanged {
				contents := expandKit(doc, kit)
				listsDirty = syncComponentContents(doc.Lists, model.ComponentKit, kit.ID, contents) || listsDirty
			}
			summary.KitsUpdated++
		}

		dirty := []string{state.KeyInventory, state.KeyKits}
		if listsDirty {
			dirty = append(dirty, state.KeyLists)
		}
		return dirty, nil
	})
	if err != nil {
		return model.ImportSummary{}, err
	}
	return summary, nil
}

// ExportLists returns a deep copy of every packing list, the lists exchange
// file shape.
func (s *TransferService) ExportLists(ctx context.Context) []model.PackingList {
	var out []model.PackingList
	s.store.View(func(doc *state.Document) {
		out = make([]model.PackingList, len(doc.Lists))
		for i, l := range doc.Lists {
			out[i] = l.Clone()
		}
	})
	return out
}

// ImportLists appends every list from a lists exchange file. Imported lists
// never merge with existing ones: each gets a fresh id and an "(imported)"
// tag on its event name.
func (s *TransferService) ImportLists(ctx context.Context, raw []byte) (int, error) {
	var lists []model.PackingList
	if err := json.Unmarshal(raw, &lists); err != nil {
		return 0, ErrBadFormat
	}

	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		if len(lists) == 0 {
			return nil, nil
		}
		for _, list := range lists {
			list.ID = uid.New()
			list.EventName += importedSuffix
			if len(list.Sections) == 0 {
				list.Sections = []model.ListSection{{ID: uid.New(), Name: defaultSectionName}}
			}
			doc.Lists = append(doc.Lists, list)
		}
		return []string{state.KeyLists}, nil
	})
	if err != nil {
		return 0, err
	}
	return len(lists), nil
}

// Totals aggregates a list into a per-name quantity map: each component
// contributes its quantity, and each content entry contributes its per-unit
// quantity multiplied by the owning component's quantity, all folded into
// the same name-keyed totals.
func (s *TransferService) Totals(ctx context.Context, listID string) (map[string]int, error) {
	var totals map[string]int
	s.store.View(func(doc *state.Document) {
		list := doc.ListByID(listID)
		if list == nil {
			return
		}
		totals = make(map[string]int)
		for _, sec := range list.Sections {
			for _, c := range sec.Components {
				totals[c.Name] += c.Quantity
				for _, e := range c.Contents {
					totals[e.Name] += e.Quantity * c.Quantity
				}
			}
		}
	})
	if totals == nil {
		return nil, ErrNotFound
	}
	return totals, nil
}

// Rows flattens a list into export rows: one row per component plus one row
// per content entry, content quantities already multiplied out.
func (s *TransferService) Rows(ctx context.Context, listID string) ([]model.ExportRow, error) {
	var rows []model.ExportRow
	found := false
	s.store.View(func(doc *state.Document) {
		list := doc.ListByID(listID)
		if list == nil {
			return
		}
		found = true
		for _, sec := range list.Sections {
			for _, c := range sec.Components {
				rows = append(rows, model.ExportRow{
					Section:  sec.Name,
					Name:     c.Name,
					Category: c.Category,
					Quantity: c.Quantity,
					Notes:    c.Notes,
				})
				for _, e := range c.Contents {
					rows = append(rows, model.ExportRow{
						Section:       sec.Name,
						Name:          e.Name,
						Category:      e.Category,
						Quantity:      e.Quantity * c.Quantity,
						FromComponent: c.Name,
					})
				}
			}
		}
	})
	if !found {
		return nil, ErrNotFound
	}
	return rows, nil
}

func findItemByName(doc *state.Document, norm string) *model.InventoryItem {
	for i := range doc.Inventory {
		if model.NormalizeName(doc.Inventory[i].Name) == norm {
			return &doc.Inventory[i]
		}
	}
	return nil
}

func findKitByName(doc *state.Document, norm string) *model.Kit {
	for i := range doc.Kits {
		if model.NormalizeName(doc.Kits[i].Name) == norm {
			return &doc.Kits[i]
		}
	}
	return nil
}
