package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"cuepack-api/internal/model"
	"cuepack-api/internal/state"
	"cuepack-api/pkg/uid"
)

// defaultSectionName names the section every new list starts with.
const defaultSectionName = "General"

// ListService owns the packing-list document tree: lists, sections and
// component placements, plus the in-process clipboard buffer. Selection is
// never service state; callers pass the selected uniqueIds with each
// operation.
type ListService struct {
	store *state.Store

	mu        sync.Mutex
	clipboard []model.ListComponent
}

// NewListService creates a new list service.
func NewListService(store *state.Store) *ListService {
	if store == nil {
		return nil
	}
	return &ListService{store: store}
}

// Lists returns a deep copy of every packing list.
func (s *ListService) Lists(ctx context.Context) []model.PackingList {
	var out []model.PackingList
	s.store.View(func(doc *state.Document) {
		out = make([]model.PackingList, len(doc.Lists))
		for i, l := range doc.Lists {
			out[i] = l.Clone()
		}
	})
	return out
}

// List returns one packing list by id.
func (s *ListService) List(ctx context.Context, id string) (model.PackingList, error) {
	var out model.PackingList
	found := false
	s.store.View(func(doc *state.Document) {
		if l := doc.ListByID(id); l != nil {
			out = l.Clone()
			found = true
		}
	})
	if !found {
		return model.PackingList{}, ErrNotFound
	}
	return out, nil
}

// CreateList adds a new packing list with one default section and makes it
// the active list. An empty event name is a silent no-op.
func (s *ListService) CreateList(ctx context.Context, list model.PackingList) (model.PackingList, error) {
	list.EventName = strings.TrimSpace(list.EventName)
	if list.EventName == "" {
		return model.PackingList{}, nil
	}

	list.ID = uid.New()
	list.CreationDate = time.Now().UTC().Format(time.RFC3339)
	if len(list.Sections) == 0 {
		list.Sections = []model.ListSection{{ID: uid.New(), Name: defaultSectionName}}
	} else {
		for i := range list.Sections {
			list.Sections[i].ID = uid.New()
			list.Sections[i].Components = nil
		}
	}

	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		doc.Lists = append(doc.Lists, list)
		doc.ActiveListID = list.ID
		return []string{state.KeyLists, state.KeyActiveList}, nil
	})
	if err != nil {
		return model.PackingList{}, err
	}
	return list, nil
}

// UpdateList replaces a list's event metadata. Sections are untouched; an
// empty event name is a silent no-op.
func (s *ListService) UpdateList(ctx context.Context, id string, meta model.PackingList) (model.PackingList, error) {
	meta.EventName = strings.TrimSpace(meta.EventName)
	var out model.PackingList
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(id)
		if list == nil {
			return nil, ErrNotFound
		}
		if meta.EventName == "" {
			out = list.Clone()
			return nil, nil
		}
		list.EventName = meta.EventName
		list.EventDate = meta.EventDate
		list.Location = meta.Location
		list.Notes = meta.Notes
		out = list.Clone()
		return []string{state.KeyLists}, nil
	})
	return out, err
}

// DeleteList removes a list and everything in it. The active-list fallback
// is applied by the store.
func (s *ListService) DeleteList(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		for i := range doc.Lists {
			if doc.Lists[i].ID == id {
				doc.Lists = append(doc.Lists[:i], doc.Lists[i+1:]...)
				return []string{state.KeyLists}, nil
			}
		}
		return nil, ErrNotFound
	})
}

// SetActive makes the given list the active one.
func (s *ListService) SetActive(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		if doc.ListByID(id) == nil {
			return nil, ErrNotFound
		}
		doc.ActiveListID = id
		return []string{state.KeyActiveList}, nil
	})
}

// Active returns the active list, if any.
func (s *ListService) Active(ctx context.Context) (model.PackingList, bool) {
	var out model.PackingList
	found := false
	s.store.View(func(doc *state.Document) {
		if l := doc.ListByID(doc.ActiveListID); l != nil {
			out = l.Clone()
			found = true
		}
	})
	return out, found
}

// AddSection appends a new empty section. An empty name is a silent no-op.
func (s *ListService) AddSection(ctx context.Context, listID, name string) (model.ListSection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ListSection{}, nil
	}
	section := model.ListSection{ID: uid.New(), Name: name}
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(listID)
		if list == nil {
			return nil, ErrNotFound
		}
		list.Sections = append(list.Sections, section)
		return []string{state.KeyLists}, nil
	})
	if err != nil {
		return model.ListSection{}, err
	}
	return section, nil
}

// RenameSection changes a section's name. An empty name is a silent no-op.
func (s *ListService) RenameSection(ctx context.Context, listID, sectionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		sec := sectionByID(doc, listID, sectionID)
		if sec == nil {
			return nil, ErrNotFound
		}
		sec.Name = name
		return []string{state.KeyLists}, nil
	})
}

// DeleteSection removes a section and its components. A list always keeps
// at least one section; deleting the last one is a silent no-op.
func (s *ListService) DeleteSection(ctx context.Context, listID, sectionID string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(listID)
		if list == nil {
			return nil, ErrNotFound
		}
		if len(list.Sections) <= 1 {
			return nil, nil
		}
		for i := range list.Sections {
			if list.Sections[i].ID == sectionID {
				list.Sections = append(list.Sections[:i], list.Sections[i+1:]...)
				return []string{state.KeyLists}, nil
			}
		}
		return nil, ErrNotFound
	})
}

// AddComponent places a catalog reference into a section.
//
// With replaceUniqueID empty (normal mode): an existing component with the
// same type and reference in the section gets its quantity incremented;
// otherwise a new component is created with a fresh contents snapshot.
//
// With replaceUniqueID set (replacement mode): if the chosen reference
// already exists elsewhere in the section, the replaced component's quantity
// is transferred onto that duplicate and the replaced component is deleted —
// the duplicate's contents are deliberately left as they are. Otherwise the
// replaced component is overwritten in place, keeping its uniqueId, quantity
// and notes.
func (s *ListService) AddComponent(ctx context.Context, listID, sectionID string, ctype model.ComponentType, refID, replaceUniqueID string) (model.ListComponent, error) {
	var result model.ListComponent
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		sec := sectionByID(doc, listID, sectionID)
		if sec == nil {
			return nil, ErrNotFound
		}

		var name string
		var category model.Category
		var contents []model.ContentEntry
		switch ctype {
		case model.ComponentItem:
			item := doc.ItemByID(refID)
			if item == nil {
				return nil, ErrNotFound
			}
			name, category = item.Name, item.Category
			contents = expandAccessories(doc, *item)
		case model.ComponentKit:
			kit := doc.KitByID(refID)
			if kit == nil {
				return nil, ErrNotFound
			}
			name, category = kit.Name, kit.Category
			contents = expandKit(doc, *kit)
		default:
			return nil, ErrNotFound
		}

		if replaceUniqueID != "" {
			ri := componentIndex(sec, replaceUniqueID)
			if ri < 0 {
				return nil, ErrNotFound
			}
			di := -1
			for i := range sec.Components {
				if i != ri && sec.Components[i].Type == ctype && sec.Components[i].ReferenceID == refID {
					di = i
					break
				}
			}
			if di >= 0 {
				sec.Components[di].Quantity += sec.Components[ri].Quantity
				sec.Components = append(sec.Components[:ri], sec.Components[ri+1:]...)
				if ri < di {
					di--
				}
				result = sec.Components[di].Clone()
			} else {
				c := &sec.Components[ri]
				c.Type = ctype
				c.ReferenceID = refID
				c.Name = name
				c.Category = category
				c.Contents = contents
				result = c.Clone()
			}
			return []string{state.KeyLists}, nil
		}

		for i := range sec.Components {
			if sec.Components[i].Type == ctype && sec.Components[i].ReferenceID == refID {
				sec.Components[i].Quantity++
				result = sec.Components[i].Clone()
				return []string{state.KeyLists}, nil
			}
		}

		comp := model.ListComponent{
			UniqueID:    uid.New(),
			Type:        ctype,
			ReferenceID: refID,
			Name:        name,
			Category:    category,
			Quantity:    1,
			Notes:       "",
			Contents:    contents,
		}
		sec.Components = append(sec.Components, comp)
		result = comp.Clone()
		return []string{state.KeyLists}, nil
	})
	return result, err
}

// UpdateQuantity sets a component's quantity. Quantities below 1 are
// silently rejected.
func (s *ListService) UpdateQuantity(ctx context.Context, listID, uniqueID string, quantity int) (model.ListComponent, error) {
	var result model.ListComponent
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		c := componentByUniqueID(doc, listID, uniqueID)
		if c == nil {
			return nil, ErrNotFound
		}
		if quantity < 1 {
			result = c.Clone()
			return nil, nil
		}
		c.Quantity = quantity
		result = c.Clone()
		return []string{state.KeyLists}, nil
	})
	return result, err
}

// UpdateNotes sets a component's notes.
func (s *ListService) UpdateNotes(ctx context.Context, listID, uniqueID, notes string) (model.ListComponent, error) {
	var result model.ListComponent
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		c := componentByUniqueID(doc, listID, uniqueID)
		if c == nil {
			return nil, ErrNotFound
		}
		c.Notes = notes
		result = c.Clone()
		return []string{state.KeyLists}, nil
	})
	return result, err
}

// RemoveComponent deletes one component by uniqueId.
func (s *ListService) RemoveComponent(ctx context.Context, listID, uniqueID string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(listID)
		if list == nil {
			return nil, ErrNotFound
		}
		if removeComponents(list, map[string]bool{uniqueID: true}) == 0 {
			return nil, ErrNotFound
		}
		return []string{state.KeyLists}, nil
	})
}

// DuplicateComponent clones a component under a fresh uniqueId, inserted
// immediately after the original. This is the one sanctioned way, besides
// paste, to hold two independent placements of the same reference in a
// section.
func (s *ListService) DuplicateComponent(ctx context.Context, listID, uniqueID string) (model.ListComponent, error) {
	var result model.ListComponent
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(listID)
		if list == nil {
			return nil, ErrNotFound
		}
		for si := range list.Sections {
			sec := &list.Sections[si]
			for ci := range sec.Components {
				if sec.Components[ci].UniqueID != uniqueID {
					continue
				}
				dup := sec.Components[ci].Clone()
				dup.UniqueID = uid.New()
				sec.Components = append(sec.Components, model.ListComponent{})
				copy(sec.Components[ci+2:], sec.Components[ci+1:])
				sec.Components[ci+1] = dup
				result = dup.Clone()
				return []string{state.KeyLists}, nil
			}
		}
		return nil, ErrNotFound
	})
	return result, err
}

// Copy snapshots the selected components, in list order, into the clipboard
// buffer. The list is not mutated.
func (s *ListService) Copy(ctx context.Context, listID string, selection []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := idSet(selection)
	var buffer []model.ListComponent
	found := false
	s.store.View(func(doc *state.Document) {
		list := doc.ListByID(listID)
		if list == nil {
			return
		}
		found = true
		buffer = collectComponents(list, selected)
	})
	if !found {
		return 0, ErrNotFound
	}
	s.clipboard = buffer
	return len(buffer), nil
}

// Cut snapshots the selected components and removes them from their
// sections.
func (s *ListService) Cut(ctx context.Context, listID string, selection []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := idSet(selection)
	var buffer []model.ListComponent
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(listID)
		if list == nil {
			return nil, ErrNotFound
		}
		buffer = collectComponents(list, selected)
		if removeComponents(list, selected) == 0 {
			return nil, nil
		}
		return []string{state.KeyLists}, nil
	})
	if err != nil {
		return 0, err
	}
	s.clipboard = buffer
	return len(buffer), nil
}

// Paste appends every buffered component to the end of the target section
// under a fresh uniqueId. Pasting never deduplicates against existing
// components, and the buffer survives so paste can be repeated.
func (s *ListService) Paste(ctx context.Context, listID, sectionID string) ([]model.ListComponent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pasted []model.ListComponent
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		sec := sectionByID(doc, listID, sectionID)
		if sec == nil {
			return nil, ErrNotFound
		}
		if len(s.clipboard) == 0 {
			return nil, nil
		}
		for _, buffered := range s.clipboard {
			c := buffered.Clone()
			c.UniqueID = uid.New()
			sec.Components = append(sec.Components, c)
			pasted = append(pasted, c.Clone())
		}
		return []string{state.KeyLists}, nil
	})
	if err != nil {
		return nil, err
	}
	return pasted, nil
}

// BulkDelete removes every selected component from every section of the
// list.
func (s *ListService) BulkDelete(ctx context.Context, listID string, selection []string) (int, error) {
	selected := idSet(selection)
	removed := 0
	err := s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		list := doc.ListByID(listID)
		if list == nil {
			return nil, ErrNotFound
		}
		removed = removeComponents(list, selected)
		if removed == 0 {
			return nil, nil
		}
		return []string{state.KeyLists}, nil
	})
	return removed, err
}

// Reorder applies a same-section drag. The moving set is the selection when
// it contains the dragged component, otherwise just the dragged component;
// it is spliced back immediately before the drop target, with both
// subsequences keeping their relative order. Dropping onto a moving
// component, or dragging across sections, is a no-op.
func (s *ListService) Reorder(ctx context.Context, listID, sectionID, draggedID string, selection []string, targetID string) error {
	return s.store.Update(ctx, func(doc *state.Document) ([]string, error) {
		sec := sectionByID(doc, listID, sectionID)
		if sec == nil {
			return nil, ErrNotFound
		}
		if componentIndex(sec, draggedID) < 0 {
			return nil, nil
		}

		selected := idSet(selection)
		moving := map[string]bool{draggedID: true}
		if selected[draggedID] {
			moving = selected
		}
		if moving[targetID] {
			return nil, nil
		}

		var movingSeq, stayingSeq []model.ListComponent
		targetAt := -1
		for _, c := range sec.Components {
			if moving[c.UniqueID] {
				movingSeq = append(movingSeq, c)
				continue
			}
			if c.UniqueID == targetID {
				targetAt = len(stayingSeq)
			}
			stayingSeq = append(stayingSeq, c)
		}
		if targetAt < 0 {
			return nil, nil
		}

		reordered := make([]model.ListComponent, 0, len(sec.Components))
		reordered = append(reordered, stayingSeq[:targetAt]...)
		reordered = append(reordered, movingSeq...)
		reordered = append(reordered, stayingSeq[targetAt:]...)
		sec.Components = reordered
		return []string{state.KeyLists}, nil
	})
}

func sectionByID(doc *state.Document, listID, sectionID string) *model.ListSection {
	list := doc.ListByID(listID)
	if list == nil {
		return nil
	}
	for i := range list.Sections {
		if list.Sections[i].ID == sectionID {
			return &list.Sections[i]
		}
	}
	return nil
}

func componentByUniqueID(doc *state.Document, listID, uniqueID string) *model.ListComponent {
	list := doc.ListByID(listID)
	if list == nil {
		return nil
	}
	for si := range list.Sections {
		comps := list.Sections[si].Components
		for ci := range comps {
			if comps[ci].UniqueID == uniqueID {
				return &comps[ci]
			}
		}
	}
	return nil
}

func componentIndex(sec *model.ListSection, uniqueID string) int {
	for i := range sec.Components {
		if sec.Components[i].UniqueID == uniqueID {
			return i
		}
	}
	return -1
}

func collectComponents(list *model.PackingList, selected map[string]bool) []model.ListComponent {
	var out []model.ListComponent
	for si := range list.Sections {
		for _, c := range list.Sections[si].Components {
			if selected[c.UniqueID] {
				out = append(out, c.Clone())
			}
		}
	}
	return out
}

func removeComponents(list *model.PackingList, selected map[string]bool) int {
	removed := 0
	for si := range list.Sections {
		sec := &list.Sections[si]
		kept := sec.Components[:0]
		for _, c := range sec.Components {
			if selected[c.UniqueID] {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		sec.Components = kept
	}
	return removed
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
