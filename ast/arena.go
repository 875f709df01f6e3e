package ast

// NodeIndex is an opaque handle into an Arena. The zero value, NoNode,
// never refers to a real node.
type NodeIndex uint32

// NoNode is the null NodeIndex.
const NoNode NodeIndex = 0

// Arena stores a parse tree as a set of parallel slices indexed by
// NodeIndex. Index 0 is reserved (NoNode) so a zero NodeIndex can mean
// "absent" without a separate validity flag. The arena does not enforce an
// allocation order: tree structure lives only in the firstChild and
// nextSibling links. The parser allocates some parents after their
// children (the compilation unit, binary and call expressions) and others
// before them (type, method and module declarations, blocks), so index
// order is not a post-order sequence of the tree.
type Arena struct {
	kinds       []NodeKind
	starts      []int
	ends        []int
	firstChild  []NodeIndex
	nextSibling []NodeIndex
	attributes  []Attribute
}

// NewArena returns an empty arena with its reserved NoNode slot filled in.
func NewArena() *Arena {
	a := &Arena{}
	a.kinds = append(a.kinds, KindError)
	a.starts = append(a.starts, 0)
	a.ends = append(a.ends, 0)
	a.firstChild = append(a.firstChild, NoNode)
	a.nextSibling = append(a.nextSibling, NoNode)
	a.attributes = append(a.attributes, nil)
	return a
}

// Allocate appends a new node with the given kind and byte range and
// returns its index. The node initially has no children; use AppendChild
// to attach them in left-to-right order.
func (a *Arena) Allocate(kind NodeKind, start, end int) NodeIndex {
	return a.AllocateWithAttr(kind, start, end, nil)
}

// AllocateWithAttr is like Allocate but also attaches an Attribute
// payload.
func (a *Arena) AllocateWithAttr(kind NodeKind, start, end int, attr Attribute) NodeIndex {
	idx := NodeIndex(len(a.kinds))
	a.kinds = append(a.kinds, kind)
	a.starts = append(a.starts, start)
	a.ends = append(a.ends, end)
	a.firstChild = append(a.firstChild, NoNode)
	a.nextSibling = append(a.nextSibling, NoNode)
	a.attributes = append(a.attributes, attr)
	return idx
}

// AppendChild links child as the new last child of parent. Children must
// be appended in left-to-right order; child must already exist in the
// arena. Parent and child may have been allocated in either order.
func (a *Arena) AppendChild(parent, child NodeIndex) {
	if a.firstChild[parent] == NoNode {
		a.firstChild[parent] = child
		return
	}
	last := a.firstChild[parent]
	for a.nextSibling[last] != NoNode {
		last = a.nextSibling[last]
	}
	a.nextSibling[last] = child
}

// Len returns the number of real nodes in the arena (excluding the
// reserved NoNode slot).
func (a *Arena) Len() int {
	return len(a.kinds) - 1
}

// Kind returns the node kind at idx.
func (a *Arena) Kind(idx NodeIndex) NodeKind {
	return a.kinds[idx]
}

// Range returns the [start, end) byte range the node spans.
func (a *Arena) Range(idx NodeIndex) (start, end int) {
	return a.starts[idx], a.ends[idx]
}

// Attribute returns the node's attribute payload, or nil if it has none.
func (a *Arena) Attribute(idx NodeIndex) Attribute {
	return a.attributes[idx]
}

// SetEnd widens a node's end offset, used when a node's true extent isn't
// known until after some of its children or trailing tokens are parsed.
func (a *Arena) SetEnd(idx NodeIndex, end int) {
	a.ends[idx] = end
}

// Children returns the node's direct children, left to right.
func (a *Arena) Children(idx NodeIndex) []NodeIndex {
	var out []NodeIndex
	for c := a.firstChild[idx]; c != NoNode; c = a.nextSibling[c] {
		out = append(out, c)
	}
	return out
}

// FirstChildOfKind returns the first direct child with the given kind, or
// NoNode if there is none.
func (a *Arena) FirstChildOfKind(idx NodeIndex, kind NodeKind) NodeIndex {
	for c := a.firstChild[idx]; c != NoNode; c = a.nextSibling[c] {
		if a.kinds[c] == kind {
			return c
		}
	}
	return NoNode
}

// ChildrenOfKind returns every direct child with the given kind, left to
// right.
func (a *Arena) ChildrenOfKind(idx NodeIndex, kind NodeKind) []NodeIndex {
	var out []NodeIndex
	for c := a.firstChild[idx]; c != NoNode; c = a.nextSibling[c] {
		if a.kinds[c] == kind {
			out = append(out, c)
		}
	}
	return out
}

// IsError reports whether the node is a KindError node.
func (a *Arena) IsError(idx NodeIndex) bool {
	return a.kinds[idx] == KindError
}

// Walk performs a pre-order traversal starting at root, calling visit for
// each node including root. If visit returns false for a node, that node's
// subtree is skipped and traversal continues with the node's next sibling.
func (a *Arena) Walk(root NodeIndex, visit func(NodeIndex) bool) {
	if root == NoNode {
		return
	}
	if !visit(root) {
		return
	}
	for c := a.firstChild[root]; c != NoNode; c = a.nextSibling[c] {
		a.Walk(c, visit)
	}
}

// Equal reports whether two arenas represent the same tree: same node
// count, and for every index the same kind, range, children (by
// structural recursion from the roots) and attribute value. Root indices
// may differ in absolute value only if the arenas were built identically
// from index 1, which Allocate always guarantees, so in practice Equal
// compares index-for-index.
func Equal(a, b *Arena) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 1; i < len(a.kinds); i++ {
		idx := NodeIndex(i)
		if a.kinds[idx] != b.kinds[idx] {
			return false
		}
		if a.starts[idx] != b.starts[idx] || a.ends[idx] != b.ends[idx] {
			return false
		}
		if a.firstChild[idx] != b.firstChild[idx] || a.nextSibling[idx] != b.nextSibling[idx] {
			return false
		}
		if !attributesEqual(a.attributes[idx], b.attributes[idx]) {
			return false
		}
	}
	return true
}

func attributesEqual(x, y Attribute) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	return x == y
}
