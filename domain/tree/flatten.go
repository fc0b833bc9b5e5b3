package tree

import (
	"iter"
	"slices"
)

// Walk returns a restartable pre-order sequence over the forest. A parent is
// emitted immediately before its children, children in stored order. Each
// entry carries the id of its nearest enclosing node, or "" for roots.
// The forest is never mutated.
func Walk[T Node[T]](forest []T) iter.Seq[Entry[T]] {
	return func(yield func(Entry[T]) bool) {
		walk(forest, "", 0, yield)
	}
}

func walk[T Node[T]](nodes []T, parentID string, depth int, yield func(Entry[T]) bool) bool {
	for _, n := range nodes {
		if !yield(Entry[T]{Node: n, ParentID: parentID, Depth: depth}) {
			return false
		}
		if !walk(n.Children(), n.ID(), depth+1, yield) {
			return false
		}
	}
	return true
}

// Flatten returns the pre-order entries of the forest as a slice.
func Flatten[T Node[T]](forest []T) []Entry[T] {
	return slices.Collect(Walk(forest))
}

// Select returns the entries of seq for which keep returns true.
func Select[T any](seq iter.Seq[Entry[T]], keep func(Entry[T]) bool) iter.Seq[Entry[T]] {
	return func(yield func(Entry[T]) bool) {
		for e := range seq {
			if keep(e) && !yield(e) {
				return
			}
		}
	}
}

// IDs returns the pre-order id sequence of the forest.
func IDs[T Node[T]](forest []T) []string {
	ids := []string{}
	for e := range Walk(forest) {
		ids = append(ids, e.Node.ID())
	}
	return ids
}

// Count returns the number of nodes in the forest.
func Count[T Node[T]](forest []T) int {
	n := 0
	for range Walk(forest) {
		n++
	}
	return n
}
