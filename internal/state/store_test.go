package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuepack-api/internal/model"
	"cuepack-api/internal/repository"
)

func TestStoreLoadDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(repository.NewMemoryStateRepository())
	require.NoError(t, store.Load(context.Background()))

	store.View(func(doc *Document) {
		assert.Empty(t, doc.Inventory)
		assert.Empty(t, doc.Kits)
		assert.Empty(t, doc.Lists)
		assert.Equal(t, "", doc.ActiveListID)
		assert.JSONEq(t, "[]", string(doc.Checklists))
	})
}

func TestStoreUpdatePersistsDirtyKeys(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryStateRepository()
	store := NewStore(repo)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	err := store.Update(ctx, func(doc *Document) ([]string, error) {
		doc.Inventory = append(doc.Inventory, model.InventoryItem{ID: "i1", Name: "Mixer", Category: model.CategoryAudio})
		return []string{KeyInventory}, nil
	})
	require.NoError(t, err)

	raw, err := repo.Load(ctx, KeyInventory)
	require.NoError(t, err)
	var persisted []model.InventoryItem
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, "Mixer", persisted[0].Name)

	raw, err = repo.Load(ctx, KeyKits)
	require.NoError(t, err)
	assert.Nil(t, raw, "untouched keys are not rewritten")

	assert.EqualValues(t, 1, store.Revision())
}

func TestStoreUpdateErrorPersistsNothing(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryStateRepository()
	store := NewStore(repo)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	wantErr := errors.New("rejected")
	err := store.Update(ctx, func(doc *Document) ([]string, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.EqualValues(t, 0, store.Revision())
}

func TestStoreActiveListRepair(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryStateRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, KeyLists, mustJSON(t, []model.PackingList{
		{ID: "l1", EventName: "Tour"},
		{ID: "l2", EventName: "Gala"},
	})))
	require.NoError(t, repo.Save(ctx, KeyActiveList, []byte(`"gone"`)))

	store := NewStore(repo)
	require.NoError(t, store.Load(ctx))

	store.View(func(doc *Document) {
		assert.Equal(t, "l2", doc.ActiveListID, "dangling active id falls back to the last list")
	})

	// Deleting the remaining lists degrades to no active list.
	err := store.Update(ctx, func(doc *Document) ([]string, error) {
		doc.Lists = nil
		return []string{KeyLists}, nil
	})
	require.NoError(t, err)
	store.View(func(doc *Document) {
		assert.Equal(t, "", doc.ActiveListID)
	})

	raw, err := repo.Load(ctx, KeyActiveList)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))
}

func TestStoreLoadResetsCorruptDocument(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryStateRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, KeyKits, []byte(`{not json`)))

	store := NewStore(repo)
	require.NoError(t, store.Load(ctx))
	store.View(func(doc *Document) {
		assert.Empty(t, doc.Kits)
	})
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
