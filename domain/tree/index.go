package tree

// Index provides constant time id lookups over one forest snapshot.
type Index[T Node[T]] struct {
	byID     map[string]T
	parentOf map[string]string
	order    []string
}

// BuildIndex traverses the forest depth-first and records every node and its
// parent id. A repeated id means the snapshot is corrupt and returns a
// DuplicateIDError.
func BuildIndex[T Node[T]](forest []T) (Index[T], error) {
	idx := Index[T]{
		byID:     make(map[string]T),
		parentOf: make(map[string]string),
	}
	for e := range Walk(forest) {
		id := e.Node.ID()
		if id == "" {
			return Index[T]{}, NewValidationError("id", "node id is required")
		}
		if _, exists := idx.byID[id]; exists {
			return Index[T]{}, &DuplicateIDError{ID: id}
		}
		idx.byID[id] = e.Node
		idx.parentOf[id] = e.ParentID
		idx.order = append(idx.order, id)
	}
	return idx, nil
}

// Lookup returns the node with the given id.
func (i Index[T]) Lookup(id string) (T, bool) {
	n, ok := i.byID[id]
	return n, ok
}

// Contains returns true if the id exists in the snapshot.
func (i Index[T]) Contains(id string) bool {
	_, ok := i.byID[id]
	return ok
}

// ParentOf returns the parent id of a node. Roots have an empty parent id.
// The boolean is false when the id is not in the snapshot.
func (i Index[T]) ParentOf(id string) (string, bool) {
	p, ok := i.parentOf[id]
	return p, ok
}

// Ancestors returns the ids enclosing a node, nearest first.
func (i Index[T]) Ancestors(id string) []string {
	var out []string
	for {
		parent, ok := i.parentOf[id]
		if !ok || parent == "" {
			return out
		}
		out = append(out, parent)
		id = parent
	}
}

// Len returns the number of indexed nodes.
func (i Index[T]) Len() int { return len(i.byID) }

// IDs returns every indexed id in pre-order.
func (i Index[T]) IDs() []string {
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}
