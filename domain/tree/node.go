// Package tree provides the ordered, nested tree engine shared by the
// handbook sidebar (pages and chapters) and navigation menus.
//
// A forest is an ordered slice of root nodes. Children are owned by their
// parent and parent linkage is never stored on a node: it is computed by
// Walk and BuildIndex from tree position.
package tree

// Node is implemented by values that can live in a forest.
type Node[T any] interface {
	// ID returns the stable identifier of the node.
	ID() string
	// Children returns the ordered children of the node.
	Children() []T
	// WithChildren returns a copy of the node owning the given children.
	// Implementations reject children they cannot own.
	WithChildren(children []T) (T, error)
}

// Entry is a node emitted by Walk together with its computed parent.
type Entry[T any] struct {
	Node     T
	ParentID string
	Depth    int
}

// IsRoot returns true if the entry has no enclosing node.
func (e Entry[T]) IsRoot() bool { return e.ParentID == "" }
