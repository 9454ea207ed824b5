// Package tree implements the ordered N-ary tree that backs the palette index.
//
// Nodes live in an arena and are addressed by NodeID. Each entry stores the id
// of its parent and the ids of its children, so parent walks are O(1) and the
// structure has no reference cycles. Children are keyed by path segment at
// insertion time: inserting "A/B" and then "A/C" yields a single interior node
// "A" with two children.
package tree

import (
	"errors"
	"fmt"
	"strings"
)

// NodeID addresses a node inside a Tree.
type NodeID int

// NoNode is the parent of the root and the id of detached subtrees.
const NoNode NodeID = -1

// Separator splits insertion paths into segments.
const Separator = "/"

var (
	// ErrEmptyPath is returned by InsertByPath for paths without segments.
	ErrEmptyPath = errors.New("path has no segments")
	// ErrPathThroughLeaf is returned when a path descends below an existing leaf.
	ErrPathThroughLeaf = errors.New("path runs through a leaf")
	// ErrPathIsInterior is returned when a payload would land on a node that
	// already has children.
	ErrPathIsInterior = errors.New("path names an interior node")
)

type entry[T any] struct {
	label       string
	description string
	tags        []string
	payload     T
	hasPayload  bool
	parent      NodeID
	children    []NodeID
}

// Tree is an arena of nodes rooted at Root(). It is built once and read many
// times; insertion is not safe for concurrent use.
type Tree[T any] struct {
	nodes []entry[T]
}

// New creates a tree whose root carries the given label (e.g. "Home").
func New[T any](rootLabel string) *Tree[T] {
	return &Tree[T]{
		nodes: []entry[T]{{label: rootLabel, parent: NoNode}},
	}
}

// Root returns the id of the root node.
func (t *Tree[T]) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the arena, root included.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// Valid reports whether id addresses a node of this tree.
func (t *Tree[T]) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// InsertByPath walks path from the root, creating interior nodes for missing
// segments, and stores payload and tags on the terminal segment. An existing
// leaf at path is updated in place rather than duplicated. Empty segments are
// ignored.
//
// A node is either a leaf or interior, never both: a path that descends below
// an existing leaf fails with ErrPathThroughLeaf, and a path naming an existing
// interior node fails with ErrPathIsInterior. The tree is left unchanged on
// error.
func (t *Tree[T]) InsertByPath(path, description string, tags []string, payload T) (NodeID, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return NoNode, ErrEmptyPath
	}
	if err := t.checkPath(segments); err != nil {
		return NoNode, err
	}
	cur := t.Root()
	for _, seg := range segments {
		cur = t.childOrCreate(cur, seg)
	}
	e := &t.nodes[cur]
	e.description = description
	e.tags = appendUnique(nil, tags)
	e.payload = payload
	e.hasPayload = true
	return cur, nil
}

// checkPath follows the existing prefix of segments and reports a clash with
// a leaf or interior node.
func (t *Tree[T]) checkPath(segments []string) error {
	cur := t.Root()
	for i, seg := range segments {
		next, ok := t.FindChild(cur, seg)
		if !ok {
			return nil
		}
		e := t.nodes[next]
		last := i == len(segments)-1
		switch {
		case !last && e.hasPayload:
			return fmt.Errorf("%q: %w", strings.Join(segments[:i+1], Separator), ErrPathThroughLeaf)
		case last && len(e.children) > 0:
			return fmt.Errorf("%q: %w", strings.Join(segments, Separator), ErrPathIsInterior)
		}
		cur = next
	}
	return nil
}

func (t *Tree[T]) childOrCreate(parent NodeID, label string) NodeID {
	if id, ok := t.FindChild(parent, label); ok {
		return id
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, entry[T]{label: label, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// FindChild returns the direct child of parent with the given label.
func (t *Tree[T]) FindChild(parent NodeID, label string) (NodeID, bool) {
	if !t.Valid(parent) {
		return NoNode, false
	}
	for _, c := range t.nodes[parent].children {
		if t.nodes[c].label == label {
			return c, true
		}
	}
	return NoNode, false
}

// Label returns the display label of id.
func (t *Tree[T]) Label(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].label
}

// Description returns the secondary text of id.
func (t *Tree[T]) Description(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].description
}

// Tags returns the tags of id in insertion order. The slice must not be modified.
func (t *Tree[T]) Tags(id NodeID) []string {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].tags
}

// Payload returns the payload of id and whether one is present.
func (t *Tree[T]) Payload(id NodeID) (T, bool) {
	var zero T
	if !t.Valid(id) || !t.nodes[id].hasPayload {
		return zero, false
	}
	return t.nodes[id].payload, true
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree[T]) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

// Children returns the ordered child ids of id. The slice must not be modified.
func (t *Tree[T]) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].children
}

// Count returns the number of children of id.
func (t *Tree[T]) Count(id NodeID) int {
	return len(t.Children(id))
}

// Child returns the i-th child of id, or NoNode when out of range.
func (t *Tree[T]) Child(id NodeID, i int) NodeID {
	children := t.Children(id)
	if i < 0 || i >= len(children) {
		return NoNode
	}
	return children[i]
}

// IsLeaf reports whether id has a payload and no children.
func (t *Tree[T]) IsLeaf(id NodeID) bool {
	if !t.Valid(id) {
		return false
	}
	e := t.nodes[id]
	return e.hasPayload && len(e.children) == 0
}

// IsRoot reports whether id has no parent.
func (t *Tree[T]) IsRoot(id NodeID) bool {
	return t.Valid(id) && t.nodes[id].parent == NoNode
}

// Ancestors returns the parents of id from nearest to farthest, excluding the
// root. This is the breadcrumb trail of id.
func (t *Tree[T]) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p != NoNode && !t.IsRoot(p); p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Path returns the slash-joined labels from below the root down to id.
func (t *Tree[T]) Path(id NodeID) string {
	if !t.Valid(id) || t.IsRoot(id) {
		return ""
	}
	parts := []string{t.Label(id)}
	for _, a := range t.Ancestors(id) {
		parts = append(parts, t.Label(a))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, Separator)
}

// Walk visits id and its descendants in pre-order, left to right, passing the
// depth relative to id. Returning false from fn skips the node's children.
func (t *Tree[T]) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	if !t.Valid(id) {
		return
	}
	t.walk(id, 0, fn)
}

func (t *Tree[T]) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.nodes[id].children {
		t.walk(c, depth+1, fn)
	}
}

// Subtree returns the navigable level rooted at id.
func (t *Tree[T]) Subtree(id NodeID) Subtree {
	if !t.Valid(id) {
		return Subtree{Node: NoNode}
	}
	return Subtree{Node: id, Label: t.nodes[id].label, Items: t.nodes[id].children}
}

// DepthFirstFind collects, in pre-order, the leaves below from for which pred
// holds. The result is a detached subtree labelled label: it is never inserted
// into the arena. An empty result is still a valid subtree; ok is false only
// when from does not address a node.
func (t *Tree[T]) DepthFirstFind(from NodeID, label string, pred func(NodeID) bool) (Subtree, bool) {
	if !t.Valid(from) {
		return Subtree{Node: NoNode}, false
	}
	found := make([]NodeID, 0)
	t.walk(from, 0, func(id NodeID, _ int) bool {
		if t.IsLeaf(id) && pred(id) {
			found = append(found, id)
		}
		return true
	})
	return Subtree{Node: NoNode, Label: label, Items: found, detached: true}, true
}

// SplitPath splits a slash separated path into trimmed, non-empty segments.
func SplitPath(path string) []string {
	raw := strings.Split(path, Separator)
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		dup := false
		for _, d := range dst {
			if d == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}
