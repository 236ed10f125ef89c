package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cuepack-api/internal/model"
	"cuepack-api/internal/repository"
	"cuepack-api/internal/state"
)

func newTestStore(t *testing.T) *state.Store {
	t.Helper()
	store := state.NewStore(repository.NewMemoryStateRepository())
	require.NoError(t, store.Load(context.Background()))
	return store
}

func seed(t *testing.T, store *state.Store, fn func(doc *state.Document)) {
	t.Helper()
	err := store.Update(context.Background(), func(doc *state.Document) ([]string, error) {
		fn(doc)
		return []string{state.KeyInventory, state.KeyKits, state.KeyLists}, nil
	})
	require.NoError(t, err)
}

func snapshotList(t *testing.T, store *state.Store, listID string) model.PackingList {
	t.Helper()
	var out model.PackingList
	found := false
	store.View(func(doc *state.Document) {
		if l := doc.ListByID(listID); l != nil {
			out = l.Clone()
			found = true
		}
	})
	require.True(t, found, "list %s not found", listID)
	return out
}

func componentIDs(sec model.ListSection) []string {
	out := make([]string, len(sec.Components))
	for i, c := range sec.Components {
		out[i] = c.UniqueID
	}
	return out
}
