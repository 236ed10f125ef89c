package model

// ComponentType distinguishes item placements from kit placements.
type ComponentType string

const (
	ComponentItem ComponentType = "item"
	ComponentKit  ComponentType = "kit"
)

// ContentEntry is one row of a component's snapshot expansion (a kit member
// or an accessory). Quantity is per unit of the owning component. ItemID is
// recorded when the entry was resolvable at snapshot time so later catalog
// edits can be propagated into it.
type ContentEntry struct {
	ItemID   string   `json:"itemId,omitempty"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Category Category `json:"category"`
}

// ListComponent is one placement of a catalog reference inside a section.
// Name, Category and Contents are snapshots copied from the catalog at
// placement time; the sync engine rewrites them when the catalog changes.
type ListComponent struct {
	UniqueID    string         `json:"uniqueId"`
	Type        ComponentType  `json:"type"`
	ReferenceID string         `json:"referenceId"`
	Name        string         `json:"name"`
	Category    Category       `json:"category"`
	Quantity    int            `json:"quantity"`
	Notes       string         `json:"notes,omitempty"`
	Contents    []ContentEntry `json:"contents,omitempty"`
}

// Clone returns a deep copy of the component.
func (c ListComponent) Clone() ListComponent {
	out := c
	if c.Contents != nil {
		out.Contents = make([]ContentEntry, len(c.Contents))
		copy(out.Contents, c.Contents)
	}
	return out
}

// ListSection is an ordered run of components. Order is user-controlled.
type ListSection struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Components []ListComponent `json:"components"`
}

// PackingList is one event's packing plan.
type PackingList struct {
	ID           string        `json:"id"`
	EventName    string        `json:"eventName"`
	EventDate    string        `json:"eventDate"`
	Location     string        `json:"location"`
	CreationDate string        `json:"creationDate"`
	Notes        string        `json:"notes"`
	Sections     []ListSection `json:"sections"`
}

// Clone returns a deep copy of the list.
func (l PackingList) Clone() PackingList {
	out := l
	out.Sections = make([]ListSection, len(l.Sections))
	for i, sec := range l.Sections {
		cloned := sec
		cloned.Components = make([]ListComponent, len(sec.Components))
		for j, comp := range sec.Components {
			cloned.Components[j] = comp.Clone()
		}
		out.Sections[i] = cloned
	}
	return out
}
