package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuepack-api/internal/model"
	"cuepack-api/internal/state"
)

func TestExportCatalogEnvelope(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)

	seed(t, store, func(doc *state.Document) {
		doc.Inventory = []model.InventoryItem{{ID: "i1", Name: "Cavo XLR", Category: model.CategoryCables}}
		doc.Kits = []model.Kit{{ID: "k1", Name: "PA Set", Category: model.CategoryAudio}}
	})

	out := svc.ExportCatalog(context.Background())
	assert.Equal(t, model.CatalogExportType, out.Type)
	assert.NotEmpty(t, out.ExportDate)
	assert.Len(t, out.Inventory, 1)
	assert.Len(t, out.Kits, 1)
}

func TestImportCatalogRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	_, err := svc.ImportCatalog(ctx, []byte("not json at all"))
	assert.ErrorIs(t, err, ErrBadFormat)

	wrongType, _ := json.Marshal(map[string]string{"type": "something_else"})
	_, err = svc.ImportCatalog(ctx, wrongType)
	assert.ErrorIs(t, err, ErrBadFormat)

	store.View(func(doc *state.Document) {
		assert.Empty(t, doc.Inventory)
	})
}

func TestImportCatalogMergesByName(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	seed(t, store, func(doc *state.Document) {
		doc.Inventory = []model.InventoryItem{
			{ID: "i1", Name: "Cavo XLR", Category: model.CategoryCables, InStock: 3},
		}
		doc.Lists = []model.PackingList{{
			ID: "l1",
			Sections: []model.ListSection{{
				ID: "s1",
				Components: []model.ListComponent{
					{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1",
						Name: "Cavo XLR", Category: model.CategoryCables, Quantity: 2},
				},
			}},
		}}
	})

	file := model.CatalogExport{
		Type: model.CatalogExportType,
		Inventory: []model.InventoryItem{
			// Collides with i1 by normalized name; imported values win.
			{ID: "foreign-id", Name: "  CAVO   xlr ", Category: model.CategoryAudio, InStock: 10},
			// New record.
			{Name: "Mixer", Category: model.CategoryAudio},
		},
		Kits: []model.Kit{{Name: "PA Set", Category: model.CategoryAudio}},
	}
	raw, err := json.Marshal(file)
	require.NoError(t, err)

	summary, err := svc.ImportCatalog(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsCreated)
	assert.Equal(t, 1, summary.ItemsUpdated)
	assert.Equal(t, 1, summary.KitsCreated)
	assert.Equal(t, 0, summary.KitsUpdated)

	store.View(func(doc *state.Document) {
		require.Len(t, doc.Inventory, 2)
		merged := doc.ItemByID("i1")
		require.NotNil(t, merged, "the existing id survives the merge")
		assert.Equal(t, "CAVO   xlr", merged.Name)
		assert.Equal(t, 10, merged.InStock)
		assert.Equal(t, model.CategoryAudio, merged.Category)
	})

	// The rename was synchronized into the list snapshot.
	list := snapshotList(t, store, "l1")
	assert.Equal(t, "CAVO   xlr", list.Sections[0].Components[0].Name)
	assert.Equal(t, model.CategoryAudio, list.Sections[0].Components[0].Category)
}

func TestImportCatalogRegeneratesCollidingIDs(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	seed(t, store, func(doc *state.Document) {
		doc.Inventory = []model.InventoryItem{{ID: "i1", Name: "Cavo XLR", Category: model.CategoryCables}}
	})

	// A new name carrying an id that already belongs to another record must
	// not hijack it.
	file := model.CatalogExport{
		Type:      model.CatalogExportType,
		Inventory: []model.InventoryItem{{ID: "i1", Name: "Mixer", Category: model.CategoryAudio}},
	}
	raw, err := json.Marshal(file)
	require.NoError(t, err)

	summary, err := svc.ImportCatalog(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsCreated)

	store.View(func(doc *state.Document) {
		require.Len(t, doc.Inventory, 2)
		assert.Equal(t, "Cavo XLR", doc.ItemByID("i1").Name)
		assert.NotEqual(t, "i1", doc.Inventory[1].ID)
	})
}

func TestImportListsAppendsWithFreshIDs(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	seed(t, store, func(doc *state.Document) {
		doc.Lists = []model.PackingList{{ID: "l1", EventName: "Esistente",
			Sections: []model.ListSection{{ID: "s1", Name: "General"}}}}
	})

	incoming := []model.PackingList{
		{ID: "l1", EventName: "Esistente", Sections: []model.ListSection{{ID: "s1", Name: "General",
			Components: []model.ListComponent{{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR", Quantity: 2}}}}},
		{EventName: "Senza sezioni"},
	}
	raw, err := json.Marshal(incoming)
	require.NoError(t, err)

	n, err := svc.ImportLists(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	store.View(func(doc *state.Document) {
		require.Len(t, doc.Lists, 3)
		assert.Equal(t, "Esistente", doc.Lists[0].EventName, "the existing list is untouched")

		first := doc.Lists[1]
		assert.NotEqual(t, "l1", first.ID)
		assert.True(t, strings.HasSuffix(first.EventName, importedSuffix))
		require.Len(t, first.Sections, 1)
		assert.Len(t, first.Sections[0].Components, 1, "imported components keep their snapshots")

		second := doc.Lists[2]
		require.Len(t, second.Sections, 1)
		assert.Equal(t, defaultSectionName, second.Sections[0].Name)
	})
}

func TestImportListsBadPayload(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)

	_, err := svc.ImportLists(context.Background(), []byte(`{"not":"a list array"}`))
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestTotalsFoldsContentsIntoNames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	seed(t, store, func(doc *state.Document) {
		doc.Lists = []model.PackingList{{
			ID: "l1",
			Sections: []model.ListSection{
				{ID: "s1", Name: "General", Components: []model.ListComponent{
					{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR", Quantity: 3},
					{UniqueID: "u2", Type: model.ComponentKit, ReferenceID: "k1", Name: "PA Set", Quantity: 2,
						Contents: []model.ContentEntry{
							{ItemID: "i1", Name: "Cavo XLR", Quantity: 2},
							{ItemID: "i2", Name: "Mixer", Quantity: 1},
						}},
				}},
				{ID: "s2", Name: "Palco", Components: []model.ListComponent{
					{UniqueID: "u3", Type: model.ComponentItem, ReferenceID: "i2", Name: "Mixer", Quantity: 1},
				}},
			},
		}}
	})

	totals, err := svc.Totals(ctx, "l1")
	require.NoError(t, err)
	// Cavo XLR: 3 direct + 2 per kit × 2 kits = 7.
	assert.Equal(t, 7, totals["Cavo XLR"])
	// Mixer: 1 per kit × 2 kits + 1 direct = 3.
	assert.Equal(t, 3, totals["Mixer"])
	assert.Equal(t, 2, totals["PA Set"])

	_, err = svc.Totals(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRowsFlattenListInOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	seed(t, store, func(doc *state.Document) {
		doc.Lists = []model.PackingList{{
			ID: "l1",
			Sections: []model.ListSection{{
				ID: "s1", Name: "General",
				Components: []model.ListComponent{
					{UniqueID: "u1", Type: model.ComponentKit, ReferenceID: "k1", Name: "PA Set",
						Category: model.CategoryAudio, Quantity: 2, Notes: "flight case blu",
						Contents: []model.ContentEntry{{ItemID: "i1", Name: "Cavo XLR", Quantity: 2, Category: model.CategoryCables}}},
				},
			}},
		}}
	})

	rows, err := svc.Rows(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.ExportRow{
		Section: "General", Name: "PA Set", Category: model.CategoryAudio, Quantity: 2, Notes: "flight case blu",
	}, rows[0])
	assert.Equal(t, model.ExportRow{
		Section: "General", Name: "Cavo XLR", Category: model.CategoryCables, Quantity: 4, FromComponent: "PA Set",
	}, rows[1])
}
