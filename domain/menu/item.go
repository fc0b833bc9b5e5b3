// Package menu provides navigation menus: flat, ordered link lists built on
// the same tree engine as the sidebar with nesting capped at one level.
package menu

import (
	"fmt"
	"slices"
	"strings"

	"github.com/somabay/handbook/domain/tree"
)

// Target is the browsing context a menu link opens in.
type Target string

// Link targets.
const (
	TargetSelf   Target = "_self"
	TargetBlank  Target = "_blank"
	TargetParent Target = "_parent"
	TargetTop    Target = "_top"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []Target{TargetSelf, TargetBlank, TargetParent, TargetTop}

// ParseTarget converts a string into a Target. Empty means TargetSelf.
func ParseTarget(s string) (Target, error) {
	if strings.TrimSpace(s) == "" {
		return TargetSelf, nil
	}
	t := Target(s)
	if !slices.Contains(ValidTargets, t) {
		return "", tree.NewValidationError("target", fmt.Sprintf("unknown link target %q", s))
	}
	return t, nil
}

// Item is a single menu link. Items never own children.
type Item struct {
	id     string
	title  string
	url    string
	target Target
}

// NewItem creates a validated Item.
func NewItem(id, title, url string, target Target) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, tree.NewValidationError("id", "menu item id is required")
	}
	if strings.TrimSpace(title) == "" {
		return Item{}, tree.NewValidationError("title", "menu item title is required")
	}
	if strings.TrimSpace(url) == "" {
		return Item{}, tree.NewValidationError("url", "menu item url is required")
	}
	t, err := ParseTarget(string(target))
	if err != nil {
		return Item{}, err
	}
	return Item{id: id, title: title, url: url, target: t}, nil
}

// ReconstructItem rebuilds an Item from storage without validation.
func ReconstructItem(id, title, url string, target Target) Item {
	if target == "" {
		target = TargetSelf
	}
	return Item{id: id, title: title, url: url, target: target}
}

// ID returns the item identifier.
func (i Item) ID() string { return i.id }

// Title returns the link text.
func (i Item) Title() string { return i.title }

// URL returns the link destination.
func (i Item) URL() string { return i.url }

// Target returns the browsing context.
func (i Item) Target() Target { return i.target }

// Children always returns nil.
func (i Item) Children() []Item { return nil }

// WithChildren rejects any children.
func (i Item) WithChildren(children []Item) (Item, error) {
	if len(children) > 0 {
		return Item{}, tree.NewStructuralViolationError(i.id, "menu items cannot be nested")
	}
	return i, nil
}
