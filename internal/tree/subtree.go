package tree

// Subtree is one navigable level: the children of a real node, or a detached
// result set produced by DepthFirstFind. Items must not be modified.
type Subtree struct {
	Node     NodeID
	Label    string
	Items    []NodeID
	detached bool
}

// Count returns the number of items in the level.
func (s Subtree) Count() int {
	return len(s.Items)
}

// At returns the i-th item, or NoNode when out of range.
func (s Subtree) At(i int) NodeID {
	if i < 0 || i >= len(s.Items) {
		return NoNode
	}
	return s.Items[i]
}

// Detached reports whether the level is a synthetic result set that does not
// exist in the arena.
func (s Subtree) Detached() bool {
	return s.detached
}

// Valid reports whether the subtree addresses a node or is a result set.
func (s Subtree) Valid() bool {
	return s.detached || s.Node != NoNode
}

// Slice returns the items in [offset, offset+limit), clamped to the level.
// A non-positive limit returns everything from offset.
func (s Subtree) Slice(offset, limit int) []NodeID {
	n := len(s.Items)
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return s.Items[offset:end]
}
