// Package state owns the in-memory document tree (catalog + packing lists)
// and persists it wholesale, one JSON document per logical key, after every
// mutation.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"cuepack-api/internal/model"
	"cuepack-api/internal/repository"
)

// Logical persistence keys. Each one maps to a single serialized JSON
// document that is rewritten in full whenever its collection changes.
const (
	KeyInventory          = "inventory"
	KeyKits               = "kits"
	KeyLists              = "packing_lists"
	KeyActiveList         = "active_list_id"
	KeyChecklists         = "checklists"
	KeyChecklistTemplates = "checklist_templates"
)

var allKeys = []string{
	KeyInventory,
	KeyKits,
	KeyLists,
	KeyActiveList,
	KeyChecklists,
	KeyChecklistTemplates,
}

// Document is the whole application state. It is the sole source of truth;
// every engine mutates it through Store.Update.
type Document struct {
	Inventory    []model.InventoryItem
	Kits         []model.Kit
	Lists        []model.PackingList
	ActiveListID string

	// Checklist documents belong to a separate feature and pass through
	// this service opaquely.
	Checklists         json.RawMessage
	ChecklistTemplates json.RawMessage
}

// ListByID returns a pointer into the document's list collection, or nil.
func (d *Document) ListByID(id string) *model.PackingList {
	for i := range d.Lists {
		if d.Lists[i].ID == id {
			return &d.Lists[i]
		}
	}
	return nil
}

// ItemByID returns a pointer into the inventory, or nil.
func (d *Document) ItemByID(id string) *model.InventoryItem {
	for i := range d.Inventory {
		if d.Inventory[i].ID == id {
			return &d.Inventory[i]
		}
	}
	return nil
}

// KitByID returns a pointer into the kit collection, or nil.
func (d *Document) KitByID(id string) *model.Kit {
	for i := range d.Kits {
		if d.Kits[i].ID == id {
			return &d.Kits[i]
		}
	}
	return nil
}

// Store guards the document with a single writer lock and mirrors every
// mutation to the state repository before the mutating call returns.
type Store struct {
	mu   sync.RWMutex
	repo repository.StateRepository
	doc  Document
	rev  uint64
}

// NewStore creates a store backed by repo. Call Load before serving.
func NewStore(repo repository.StateRepository) *Store {
	return &Store{repo: repo}
}

// Load restores the document from the repository. Missing keys default to
// empty collections; a corrupt document is logged and reset rather than
// aborting startup.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = Document{
		Checklists:         json.RawMessage("[]"),
		ChecklistTemplates: json.RawMessage("[]"),
	}

	for _, key := range allKeys {
		raw, err := s.repo.Load(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to load %q: %w", key, err)
		}
		if raw == nil {
			continue
		}
		if err := s.unmarshalKey(key, raw); err != nil {
			log.Printf("[Store] Resetting corrupt document %q: %v", key, err)
		}
	}

	if repairActiveList(&s.doc) {
		if err := s.persist(ctx, []string{KeyActiveList}); err != nil {
			return err
		}
	}
	return nil
}

// View runs fn with read access to the document. fn must not retain
// references past the call.
func (s *Store) View(fn func(doc *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.doc)
}

// Update runs fn with exclusive access to the document. fn returns the
// logical keys it dirtied; those documents are persisted before Update
// returns. An error from fn rolls nothing back: mutators must not modify
// the document on their failure paths.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) ([]string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty, err := fn(&s.doc)
	if err != nil {
		return err
	}
	if len(dirty) == 0 {
		return nil
	}

	if containsKey(dirty, KeyLists) && repairActiveList(&s.doc) {
		dirty = append(dirty, KeyActiveList)
	}

	s.rev++
	return s.persist(ctx, dirty)
}

// Revision returns a counter that increments on every successful mutation.
// Cache keys embed it so stale search results are never served.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// persist is called with the write lock held.
func (s *Store) persist(ctx context.Context, keys []string) error {
	written := make(map[string]bool, len(keys))
	for _, key := range keys {
		if written[key] {
			continue
		}
		written[key] = true

		raw, err := s.marshalKey(key)
		if err != nil {
			return fmt.Errorf("failed to marshal %q: %w", key, err)
		}
		if err := s.repo.Save(ctx, key, raw); err != nil {
			return fmt.Errorf("failed to persist %q: %w", key, err)
		}
	}
	return nil
}

func (s *Store) marshalKey(key string) ([]byte, error) {
	switch key {
	case KeyInventory:
		return marshalOrEmptyArray(s.doc.Inventory)
	case KeyKits:
		return marshalOrEmptyArray(s.doc.Kits)
	case KeyLists:
		return marshalOrEmptyArray(s.doc.Lists)
	case KeyActiveList:
		return json.Marshal(s.doc.ActiveListID)
	case KeyChecklists:
		return rawOrEmptyArray(s.doc.Checklists), nil
	case KeyChecklistTemplates:
		return rawOrEmptyArray(s.doc.ChecklistTemplates), nil
	default:
		return nil, fmt.Errorf("unknown state key %q", key)
	}
}

func (s *Store) unmarshalKey(key string, raw []byte) error {
	switch key {
	case KeyInventory:
		return json.Unmarshal(raw, &s.doc.Inventory)
	case KeyKits:
		return json.Unmarshal(raw, &s.doc.Kits)
	case KeyLists:
		return json.Unmarshal(raw, &s.doc.Lists)
	case KeyActiveList:
		return json.Unmarshal(raw, &s.doc.ActiveListID)
	case KeyChecklists:
		if !json.Valid(raw) {
			return fmt.Errorf("invalid JSON")
		}
		s.doc.Checklists = append(json.RawMessage(nil), raw...)
		return nil
	case KeyChecklistTemplates:
		if !json.Valid(raw) {
			return fmt.Errorf("invalid JSON")
		}
		s.doc.ChecklistTemplates = append(json.RawMessage(nil), raw...)
		return nil
	default:
		return fmt.Errorf("unknown state key %q", key)
	}
}

// repairActiveList enforces the fallback rule: an active id that matches no
// list degrades to the last list, or to no active list at all.
func repairActiveList(doc *Document) bool {
	if doc.ActiveListID != "" && doc.ListByID(doc.ActiveListID) != nil {
		return false
	}
	repaired := ""
	if len(doc.Lists) > 0 {
		repaired = doc.Lists[len(doc.Lists)-1].ID
	}
	if repaired == doc.ActiveListID {
		return false
	}
	doc.ActiveListID = repaired
	return true
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func marshalOrEmptyArray(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return []byte("[]"), nil
	}
	return raw, nil
}

func rawOrEmptyArray(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("[]")
	}
	return raw
}
