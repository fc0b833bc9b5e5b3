package tree

import "fmt"

// OrderSpec describes the desired position of an existing node and the order
// of its children. Omitted children are treated as empty.
type OrderSpec struct {
	ID       string      `json:"id" yaml:"id"`
	Children []OrderSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// OrderOf returns the identity order for a forest.
func OrderOf[T Node[T]](forest []T) []OrderSpec {
	out := make([]OrderSpec, 0, len(forest))
	for _, n := range forest {
		entry := OrderSpec{ID: n.ID()}
		if children := n.Children(); len(children) > 0 {
			entry.Children = OrderOf(children)
		}
		out = append(out, entry)
	}
	return out
}

// FlatOrder returns an order placing each id at the root, in the given order.
func FlatOrder(ids []string) []OrderSpec {
	out := make([]OrderSpec, 0, len(ids))
	for _, id := range ids {
		out = append(out, OrderSpec{ID: id})
	}
	return out
}

// OrderOption configures ApplyOrder.
type OrderOption func(*orderOptions)

type orderOptions struct {
	prune    bool
	maxDepth int
}

// WithPruning drops nodes that the submitted order leaves out instead of
// failing with an IncompleteOrderError.
func WithPruning() OrderOption {
	return func(o *orderOptions) { o.prune = true }
}

// WithMaxDepth limits the number of levels the submitted order may nest.
// A depth of 1 only allows root nodes. Zero means unlimited.
func WithMaxDepth(depth int) OrderOption {
	return func(o *orderOptions) {
		if depth >= 0 {
			o.maxDepth = depth
		}
	}
}

func newOrderOptions(opts []OrderOption) orderOptions {
	var o orderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ApplyOrder repositions the nodes of current according to order and returns
// the new canonical forest. Every referenced id must exist in current exactly
// once and may be referenced at most once. Content fields are carried over
// unchanged; only nesting and sibling order change.
//
// All validation happens before the new forest is assembled, and the input
// forest is never mutated, so a returned error leaves the caller's snapshot
// as the active state.
func ApplyOrder[T Node[T]](current []T, order []OrderSpec, opts ...OrderOption) ([]T, error) {
	o := newOrderOptions(opts)

	idx, err := BuildIndex(current)
	if err != nil {
		return nil, fmt.Errorf("index current forest: %w", err)
	}

	seen := make(map[string]struct{}, idx.Len())
	if err := checkReferences(idx, order, 1, o.maxDepth, seen); err != nil {
		return nil, err
	}

	if !o.prune && len(seen) != idx.Len() {
		var missing []string
		for _, id := range idx.IDs() {
			if _, ok := seen[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, &IncompleteOrderError{Missing: missing}
	}

	return assemble(idx, order)
}

func checkReferences[T Node[T]](idx Index[T], order []OrderSpec, depth, maxDepth int, seen map[string]struct{}) error {
	for _, entry := range order {
		if entry.ID == "" {
			return NewValidationError("id", "order entry id is required")
		}
		if !idx.Contains(entry.ID) {
			return &UnknownNodeError{ID: entry.ID}
		}
		if _, dup := seen[entry.ID]; dup {
			return &DuplicateReferenceError{ID: entry.ID}
		}
		seen[entry.ID] = struct{}{}
		if len(entry.Children) == 0 {
			continue
		}
		if maxDepth > 0 && depth >= maxDepth {
			return NewStructuralViolationError(entry.ID, fmt.Sprintf("nesting exceeds maximum depth of %d", maxDepth))
		}
		if err := checkReferences(idx, entry.Children, depth+1, maxDepth, seen); err != nil {
			return err
		}
	}
	return nil
}

func assemble[T Node[T]](idx Index[T], order []OrderSpec) ([]T, error) {
	out := make([]T, 0, len(order))
	for _, entry := range order {
		node, _ := idx.Lookup(entry.ID)
		children, err := assemble(idx, entry.Children)
		if err != nil {
			return nil, err
		}
		placed, err := node.WithChildren(children)
		if err != nil {
			return nil, fmt.Errorf("place %s: %w", entry.ID, err)
		}
		out = append(out, placed)
	}
	return out, nil
}
