package service

import "cuepack-api/internal/model"

// The sync engine keeps list snapshots consistent with the catalog. List
// components cache name/category/contents instead of dereferencing the
// catalog at render time, so every catalog write that changes those fields
// walks all lists and rewrites the affected copies.

// syncItemRename propagates an item's new name/category into every list:
// top-level item components referencing the id, and nested content entries
// carrying the id. Returns whether any list changed.
func syncItemRename(lists []model.PackingList, itemID, name string, category model.Category) bool {
	changed := false
	for li := range lists {
		for si := range lists[li].Sections {
			comps := lists[li].Sections[si].Components
			for ci := range comps {
				c := &comps[ci]
				if c.Type == model.ComponentItem && c.ReferenceID == itemID &&
					(c.Name != name || c.Category != category) {
					c.Name = name
					c.Category = category
					changed = true
				}
				for ei := range c.Contents {
					e := &c.Contents[ei]
					if e.ItemID == itemID && (e.Name != name || e.Category != category) {
						e.Name = name
						e.Category = category
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// syncKitRename propagates a kit's new name/category into every top-level
// kit component referencing it. Kits never appear inside contents, so no
// nested walk is needed.
func syncKitRename(lists []model.PackingList, kitID, name string, category model.Category) bool {
	changed := false
	for li := range lists {
		for si := range lists[li].Sections {
			comps := lists[li].Sections[si].Components
			for ci := range comps {
				c := &comps[ci]
				if c.Type == model.ComponentKit && c.ReferenceID == kitID &&
					(c.Name != name || c.Category != category) {
					c.Name = name
					c.Category = category
					changed = true
				}
			}
		}
	}
	return changed
}

// syncComponentContents replaces, wholesale, the contents snapshot of every
// top-level placement of the given catalog reference. The bundle composition
// is authoritative from the catalog at edit time, so this is a full replace,
// not a merge.
func syncComponentContents(lists []model.PackingList, ctype model.ComponentType, refID string, contents []model.ContentEntry) bool {
	changed := false
	for li := range lists {
		for si := range lists[li].Sections {
			comps := lists[li].Sections[si].Components
			for ci := range comps {
				c := &comps[ci]
				if c.Type != ctype || c.ReferenceID != refID {
					continue
				}
				fresh := make([]model.ContentEntry, len(contents))
				copy(fresh, contents)
				c.Contents = fresh
				changed = true
			}
		}
	}
	return changed
}
