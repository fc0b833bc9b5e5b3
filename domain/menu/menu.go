package menu

import (
	"fmt"
	"strings"

	"github.com/somabay/handbook/domain/tree"
)

// Menu is a named, ordered list of links.
type Menu struct {
	id    int64
	name  string
	items []Item
}

// NewMenu creates a validated Menu from submitted items. An item id given
// twice is a DuplicateReferenceError; stored menus go through Reconstruct.
func NewMenu(name string, items []Item) (Menu, error) {
	if strings.TrimSpace(name) == "" {
		return Menu{}, tree.NewValidationError("name", "menu name is required")
	}
	if items == nil {
		items = []Item{}
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID()]; dup {
			return Menu{}, fmt.Errorf("menu %s: %w", name, &tree.DuplicateReferenceError{ID: item.ID()})
		}
		seen[item.ID()] = struct{}{}
	}
	return Menu{name: name, items: items}, nil
}

// Reconstruct rebuilds a Menu from storage.
func Reconstruct(id int64, name string, items []Item) Menu {
	if items == nil {
		items = []Item{}
	}
	return Menu{id: id, name: name, items: items}
}

// ID returns the storage identifier, zero until saved.
func (m Menu) ID() int64 { return m.id }

// Name returns the unique menu name.
func (m Menu) Name() string { return m.name }

// Items returns the ordered links.
func (m Menu) Items() []Item { return m.items }

// WithID returns a copy with the storage identifier set.
func (m Menu) WithID(id int64) Menu {
	m.id = id
	return m
}

// WithItems returns a copy holding a new item list.
func (m Menu) WithItems(items []Item) (Menu, error) {
	next, err := NewMenu(m.name, items)
	if err != nil {
		return Menu{}, err
	}
	next.id = m.id
	return next, nil
}

// Reorder permutes the items into the order of ids. Every existing id must
// appear exactly once.
func (m Menu) Reorder(ids []string) (Menu, error) {
	items, err := tree.ApplyOrder(m.items, tree.FlatOrder(ids), tree.WithMaxDepth(1))
	if err != nil {
		return Menu{}, fmt.Errorf("reorder menu %s: %w", m.name, err)
	}
	m.items = items
	return m, nil
}

// IDs returns the item ids in order.
func (m Menu) IDs() []string {
	return tree.IDs(m.items)
}
