package page

import (
	"errors"
	"fmt"

	"github.com/somabay/handbook/domain/slug"
	"github.com/somabay/handbook/domain/tree"
)

// ErrSlugTaken indicates a slug already used elsewhere in the forest.
var ErrSlugTaken = errors.New("slug already exists")

// SlugTakenError reports the conflicting slug.
type SlugTakenError struct {
	Slug string
}

// Error implements the error interface.
func (e *SlugTakenError) Error() string {
	return fmt.Sprintf("slug %q already exists, choose a unique slug", e.Slug)
}

// Unwrap returns ErrSlugTaken for errors.Is compatibility.
func (e *SlugTakenError) Unwrap() error { return ErrSlugTaken }

// Find returns the node with the given id.
func Find(forest []Page, id string) (Page, bool) {
	for e := range tree.Walk(forest) {
		if e.Node.ID() == id {
			return e.Node, true
		}
	}
	return Page{}, false
}

// FindBySlug returns the first node in pre-order carrying the slug.
func FindBySlug(forest []Page, s string) (Page, bool) {
	if s == "" {
		return Page{}, false
	}
	for e := range tree.Walk(forest) {
		if e.Node.Slug() == s {
			return e.Node, true
		}
	}
	return Page{}, false
}

// ParentOf returns the chapter enclosing the node, if any.
func ParentOf(forest []Page, id string) (Page, bool) {
	for e := range tree.Walk(forest) {
		if e.Node.ID() != id {
			continue
		}
		if e.IsRoot() {
			return Page{}, false
		}
		return Find(forest, e.ParentID)
	}
	return Page{}, false
}

func slugTaken(forest []Page, s, exceptID string) bool {
	if s == "" {
		return false
	}
	for e := range tree.Walk(forest) {
		if e.Node.ID() != exceptID && e.Node.Slug() == s {
			return true
		}
	}
	return false
}

// rewrite rebuilds the path to the node with the given id, replacing it with
// whatever fn returns. Untouched subtrees are shared with the input.
func rewrite(nodes []Page, id string, fn func(Page) ([]Page, error)) ([]Page, bool, error) {
	for i, n := range nodes {
		if n.ID() == id {
			repl, err := fn(n)
			if err != nil {
				return nil, true, err
			}
			out := make([]Page, 0, len(nodes)-1+len(repl))
			out = append(out, nodes[:i]...)
			out = append(out, repl...)
			out = append(out, nodes[i+1:]...)
			return out, true, nil
		}
		children, found, err := rewrite(n.children, id, fn)
		if err != nil {
			return nil, true, err
		}
		if found {
			out := make([]Page, len(nodes))
			copy(out, nodes)
			out[i].children = children
			return out, true, nil
		}
	}
	return nodes, false, nil
}

// Insert adds p as the last child of parentID, or as the last root when
// parentID is empty. The parent must be a chapter.
func Insert(forest []Page, parentID string, p Page) ([]Page, error) {
	if _, exists := Find(forest, p.ID()); exists {
		return nil, &tree.DuplicateIDError{ID: p.ID()}
	}
	if slugTaken(forest, p.Slug(), "") {
		return nil, &SlugTakenError{Slug: p.Slug()}
	}
	if parentID == "" {
		out := make([]Page, len(forest), len(forest)+1)
		copy(out, forest)
		return append(out, p), nil
	}
	out, found, err := rewrite(forest, parentID, func(parent Page) ([]Page, error) {
		if !parent.IsChapter() {
			return nil, tree.NewStructuralViolationError(parentID, "parent is not a chapter")
		}
		children := make([]Page, len(parent.children), len(parent.children)+1)
		copy(children, parent.children)
		placed, err := parent.WithChildren(append(children, p))
		if err != nil {
			return nil, err
		}
		return []Page{placed}, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &tree.UnknownNodeError{ID: parentID}
	}
	return out, nil
}

// Replace swaps the node carrying p's id for p, keeping its position and
// its existing children.
func Replace(forest []Page, p Page) ([]Page, error) {
	if slugTaken(forest, p.Slug(), p.ID()) {
		return nil, &SlugTakenError{Slug: p.Slug()}
	}
	out, found, err := rewrite(forest, p.ID(), func(old Page) ([]Page, error) {
		if old.kind != p.kind {
			return nil, tree.NewStructuralViolationError(p.ID(), "kind cannot change")
		}
		placed, err := p.WithChildren(old.children)
		if err != nil {
			return nil, err
		}
		return []Page{placed}, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &tree.UnknownNodeError{ID: p.ID()}
	}
	return out, nil
}

// Remove deletes the node with the given id. Chapters that still own
// children are rejected.
func Remove(forest []Page, id string) ([]Page, error) {
	out, found, err := rewrite(forest, id, func(old Page) ([]Page, error) {
		if len(old.children) > 0 {
			return nil, tree.NewStructuralViolationError(id, fmt.Sprintf("chapter has %d child node(s), move or delete them first", len(old.children)))
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &tree.UnknownNodeError{ID: id}
	}
	return out, nil
}

// Published returns the public view of the forest. An unpublished chapter
// hides its whole subtree.
func Published(forest []Page) []Page {
	out := make([]Page, 0, len(forest))
	for _, n := range forest {
		if !n.Published() {
			continue
		}
		n.children = Published(n.children)
		out = append(out, n)
	}
	return out
}

// Visibility selects nodes by their privacy flag.
type Visibility string

// Visibility filters.
const (
	VisibilityAll     Visibility = "all"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility converts a query value into a Visibility. Empty means all.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case "", VisibilityAll:
		return VisibilityAll, nil
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityPrivate:
		return VisibilityPrivate, nil
	default:
		return "", tree.NewValidationError("visibility", fmt.Sprintf("unknown visibility %q", s))
	}
}

// Filter narrows a flattened listing.
type Filter struct {
	Visibility Visibility
	Published  *bool
}

func (f Filter) keep(e tree.Entry[Page]) bool {
	switch f.Visibility {
	case VisibilityPublic:
		if e.Node.Private() {
			return false
		}
	case VisibilityPrivate:
		if !e.Node.Private() {
			return false
		}
	}
	if f.Published != nil && e.Node.Published() != *f.Published {
		return false
	}
	return true
}

// Entries returns the flattened forest narrowed by the filter. The pre-order
// of the remaining entries is preserved.
func Entries(forest []Page, f Filter) []tree.Entry[Page] {
	var out []tree.Entry[Page]
	for e := range tree.Select(tree.Walk(forest), f.keep) {
		out = append(out, e)
	}
	return out
}

// Chapters returns every chapter in pre-order, as offered to a parent picker.
func Chapters(forest []Page) []tree.Entry[Page] {
	var out []tree.Entry[Page]
	for e := range tree.Select(tree.Walk(forest), func(e tree.Entry[Page]) bool { return e.Node.IsChapter() }) {
		out = append(out, e)
	}
	return out
}

// SlugMismatch reports a node whose slug does not carry its chapter's slug.
type SlugMismatch struct {
	ID         string
	Slug       string
	ParentSlug string
}

// SlugMismatches lists nodes whose slug is not prefixed by the enclosing
// chapter's slug. Manually entered slugs are exempt.
func SlugMismatches(forest []Page) []SlugMismatch {
	slugs := make(map[string]string)
	var out []SlugMismatch
	for e := range tree.Walk(forest) {
		slugs[e.Node.ID()] = e.Node.Slug()
		if e.IsRoot() || e.Node.CustomSlug() || e.Node.Slug() == "" {
			continue
		}
		parentSlug := slugs[e.ParentID]
		if parentSlug == "" || slug.HasPrefix(e.Node.Slug(), parentSlug) {
			continue
		}
		out = append(out, SlugMismatch{ID: e.Node.ID(), Slug: e.Node.Slug(), ParentSlug: parentSlug})
	}
	return out
}

// Validate checks a whole forest: unique ids, unique slugs, and the
// structural rules of every node.
func Validate(forest []Page) error {
	if _, err := tree.BuildIndex(forest); err != nil {
		return err
	}
	seen := make(map[string]string)
	for e := range tree.Walk(forest) {
		if err := e.Node.validate(); err != nil {
			return err
		}
		s := e.Node.Slug()
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			return &SlugTakenError{Slug: s}
		}
		seen[s] = e.Node.ID()
	}
	return nil
}
