package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuepack-api/internal/model"
	"cuepack-api/internal/state"
)

// seedBuildList installs a catalog plus one list with a single section "s1"
// holding the given components.
func seedBuildList(t *testing.T, store *state.Store, components ...model.ListComponent) {
	t.Helper()
	seed(t, store, func(doc *state.Document) {
		doc.Inventory = []model.InventoryItem{
			{ID: "i1", Name: "Cavo XLR 5mt", Category: model.CategoryCables},
			{ID: "i2", Name: "Mixer", Category: model.CategoryAudio,
				Accessories: []model.ItemRef{{ItemID: "i1", Quantity: 4}}},
			{ID: "i3", Name: "Par LED", Category: model.CategoryLights},
		}
		doc.Kits = []model.Kit{
			{ID: "k1", Name: "PA Set", Category: model.CategoryAudio,
				Items: []model.ItemRef{{ItemID: "i1", Quantity: 2}, {ItemID: "i2", Quantity: 1}}},
		}
		doc.Lists = []model.PackingList{{
			ID:        "l1",
			EventName: "Concerto in piazza",
			Sections:  []model.ListSection{{ID: "s1", Name: "General", Components: components}},
		}}
		doc.ActiveListID = "l1"
	})
}

func TestCreateListDefaultsAndActivation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	created, err := svc.CreateList(ctx, model.PackingList{EventName: "  Sagra  ", Location: "Milano"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreationDate)
	require.Len(t, created.Sections, 1)
	assert.Equal(t, defaultSectionName, created.Sections[0].Name)

	store.View(func(doc *state.Document) {
		assert.Equal(t, created.ID, doc.ActiveListID)
	})

	// Empty names create nothing.
	empty, err := svc.CreateList(ctx, model.PackingList{EventName: "   "})
	require.NoError(t, err)
	assert.Empty(t, empty.ID)
	store.View(func(doc *state.Document) {
		assert.Len(t, doc.Lists, 1)
	})
}

func TestDeleteListRepairsActivePointer(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	first, err := svc.CreateList(ctx, model.PackingList{EventName: "Prima"})
	require.NoError(t, err)
	second, err := svc.CreateList(ctx, model.PackingList{EventName: "Seconda"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, second.ID))
	active, ok := svc.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)

	require.NoError(t, svc.DeleteList(ctx, first.ID))
	_, ok = svc.Active(ctx)
	assert.False(t, ok)
}

func TestAddComponentAggregatesByReference(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store)

	c1, err := svc.AddComponent(ctx, "l1", "s1", model.ComponentItem, "i1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, c1.Quantity)

	c2, err := svc.AddComponent(ctx, "l1", "s1", model.ComponentItem, "i1", "")
	require.NoError(t, err)
	assert.Equal(t, c1.UniqueID, c2.UniqueID)
	assert.Equal(t, 2, c2.Quantity)

	list := snapshotList(t, store, "l1")
	assert.Len(t, list.Sections[0].Components, 1)
}

func TestAddComponentSnapshotsContents(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store)

	mixer, err := svc.AddComponent(ctx, "l1", "s1", model.ComponentItem, "i2", "")
	require.NoError(t, err)
	require.Len(t, mixer.Contents, 1)
	assert.Equal(t, "Cavo XLR 5mt", mixer.Contents[0].Name)
	assert.Equal(t, 4, mixer.Contents[0].Quantity)

	kit, err := svc.AddComponent(ctx, "l1", "s1", model.ComponentKit, "k1", "")
	require.NoError(t, err)
	require.Len(t, kit.Contents, 2)
	assert.Equal(t, "Cavo XLR 5mt", kit.Contents[0].Name)
	assert.Equal(t, "Mixer", kit.Contents[1].Name)

	_, err = svc.AddComponent(ctx, "l1", "s1", model.ComponentItem, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceComponentInPlace(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store, model.ListComponent{
		UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1",
		Name: "Cavo XLR 5mt", Category: model.CategoryCables, Quantity: 6, Notes: "bancale 2",
	})

	replaced, err := svc.AddComponent(ctx, "l1", "s1", model.ComponentItem, "i3", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", replaced.UniqueID, "identity survives an in-place swap")
	assert.Equal(t, "Par LED", replaced.Name)
	assert.Equal(t, 6, replaced.Quantity)
	assert.Equal(t, "bancale 2", replaced.Notes)
}

func TestReplaceComponentMergesIntoDuplicate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1",
			Name: "Cavo XLR 5mt", Category: model.CategoryCables, Quantity: 3},
		model.ListComponent{UniqueID: "u2", Type: model.ComponentItem, ReferenceID: "i3",
			Name: "Par LED", Category: model.CategoryLights, Quantity: 2,
			Contents: []model.ContentEntry{{ItemID: "stale", Name: "Gancio", Quantity: 1, Category: model.CategoryStructure}}},
	)

	// Replacing u1 with a reference u2 already holds transfers u1's quantity
	// onto u2 and deletes u1. u2's contents are left alone.
	merged, err := svc.AddComponent(ctx, "l1", "s1", model.ComponentItem, "i3", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u2", merged.UniqueID)
	assert.Equal(t, 5, merged.Quantity)
	require.Len(t, merged.Contents, 1)
	assert.Equal(t, "Gancio", merged.Contents[0].Name)

	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"u2"}, componentIDs(list.Sections[0]))
}

func TestUpdateQuantityRejectsBelowOne(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store, model.ListComponent{
		UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1",
		Name: "Cavo XLR 5mt", Category: model.CategoryCables, Quantity: 3,
	})

	c, err := svc.UpdateQuantity(ctx, "l1", "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Quantity, "invalid quantity leaves the component unchanged")

	c, err = svc.UpdateQuantity(ctx, "l1", "u1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Quantity)
}

func TestDuplicateComponentInsertsAfterOriginal(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 2},
		model.ListComponent{UniqueID: "u2", Type: model.ComponentItem, ReferenceID: "i3", Name: "Par LED", Quantity: 1},
	)

	dup, err := svc.DuplicateComponent(ctx, "l1", "u1")
	require.NoError(t, err)
	assert.NotEqual(t, "u1", dup.UniqueID)
	assert.Equal(t, "i1", dup.ReferenceID)
	assert.Equal(t, 2, dup.Quantity)

	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"u1", dup.UniqueID, "u2"}, componentIDs(list.Sections[0]))
}

func TestCopyPasteKeepsBufferAndMintsIDs(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 2},
		model.ListComponent{UniqueID: "u2", Type: model.ComponentItem, ReferenceID: "i3", Name: "Par LED", Quantity: 1},
	)

	n, err := svc.Copy(ctx, "l1", []string{"u2", "u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pasted, err := svc.Paste(ctx, "l1", "s1")
	require.NoError(t, err)
	require.Len(t, pasted, 2)
	// Buffered components come back in list order regardless of selection order.
	assert.Equal(t, "i1", pasted[0].ReferenceID)
	assert.Equal(t, "i3", pasted[1].ReferenceID)
	assert.NotEqual(t, "u1", pasted[0].UniqueID)
	assert.NotEqual(t, "u2", pasted[1].UniqueID)

	// The buffer survives, so a second paste mints yet more placements.
	again, err := svc.Paste(ctx, "l1", "s1")
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.NotEqual(t, pasted[0].UniqueID, again[0].UniqueID)

	list := snapshotList(t, store, "l1")
	assert.Len(t, list.Sections[0].Components, 6)
}

func TestCutRemovesThenPasteRestores(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 2},
		model.ListComponent{UniqueID: "u2", Type: model.ComponentItem, ReferenceID: "i3", Name: "Par LED", Quantity: 1},
	)

	sec, err := svc.AddSection(ctx, "l1", "Palco")
	require.NoError(t, err)

	n, err := svc.Cut(ctx, "l1", []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"u2"}, componentIDs(list.Sections[0]))

	pasted, err := svc.Paste(ctx, "l1", sec.ID)
	require.NoError(t, err)
	require.Len(t, pasted, 1)
	assert.Equal(t, "i1", pasted[0].ReferenceID)

	list = snapshotList(t, store, "l1")
	require.Len(t, list.Sections, 2)
	assert.Len(t, list.Sections[1].Components, 1)
}

func TestBulkDeleteAcrossSections(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "u1", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 2},
		model.ListComponent{UniqueID: "u2", Type: model.ComponentItem, ReferenceID: "i3", Name: "Par LED", Quantity: 1},
		model.ListComponent{UniqueID: "u3", Type: model.ComponentKit, ReferenceID: "k1", Name: "PA Set", Quantity: 1},
	)

	removed, err := svc.BulkDelete(ctx, "l1", []string{"u1", "u3", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"u2"}, componentIDs(list.Sections[0]))
}

func TestReorderMovesSelectionBeforeTarget(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "a", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 1},
		model.ListComponent{UniqueID: "b", Type: model.ComponentItem, ReferenceID: "i2", Name: "Mixer", Quantity: 1},
		model.ListComponent{UniqueID: "c", Type: model.ComponentItem, ReferenceID: "i3", Name: "Par LED", Quantity: 1},
		model.ListComponent{UniqueID: "d", Type: model.ComponentKit, ReferenceID: "k1", Name: "PA Set", Quantity: 1},
		model.ListComponent{UniqueID: "e", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 1},
	)

	// Dragging "d" while {"b","d"} is selected moves the whole selection in
	// front of "a", keeping the selection's own order.
	require.NoError(t, svc.Reorder(ctx, "l1", "s1", "d", []string{"b", "d"}, "a"))
	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, componentIDs(list.Sections[0]))
}

func TestReorderSingleWhenDraggedOutsideSelection(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "a", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 1},
		model.ListComponent{UniqueID: "b", Type: model.ComponentItem, ReferenceID: "i2", Name: "Mixer", Quantity: 1},
		model.ListComponent{UniqueID: "c", Type: model.ComponentItem, ReferenceID: "i3", Name: "Par LED", Quantity: 1},
	)

	// "a" is selected but "c" is dragged, so only "c" moves.
	require.NoError(t, svc.Reorder(ctx, "l1", "s1", "c", []string{"a"}, "a"))
	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"c", "a", "b"}, componentIDs(list.Sections[0]))
}

func TestReorderNoOps(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store,
		model.ListComponent{UniqueID: "a", Type: model.ComponentItem, ReferenceID: "i1", Name: "Cavo XLR 5mt", Quantity: 1},
		model.ListComponent{UniqueID: "b", Type: model.ComponentItem, ReferenceID: "i2", Name: "Mixer", Quantity: 1},
	)

	// Dropping onto a component that is itself moving changes nothing.
	require.NoError(t, svc.Reorder(ctx, "l1", "s1", "a", []string{"a", "b"}, "b"))
	list := snapshotList(t, store, "l1")
	assert.Equal(t, []string{"a", "b"}, componentIDs(list.Sections[0]))

	// A dragged id that is not in the section changes nothing either.
	require.NoError(t, svc.Reorder(ctx, "l1", "s1", "ghost", nil, "a"))
	list = snapshotList(t, store, "l1")
	assert.Equal(t, []string{"a", "b"}, componentIDs(list.Sections[0]))
}

func TestDeleteSectionKeepsLastOne(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()
	seedBuildList(t, store)

	// The only section cannot be deleted.
	require.NoError(t, svc.DeleteSection(ctx, "l1", "s1"))
	list := snapshotList(t, store, "l1")
	require.Len(t, list.Sections, 1)

	sec, err := svc.AddSection(ctx, "l1", "Palco")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSection(ctx, "l1", sec.ID))
	list = snapshotList(t, store, "l1")
	require.Len(t, list.Sections, 1)
	assert.Equal(t, "s1", list.Sections[0].ID)
}
