package render

// Tree is a rendered document: a root element plus the traversal and
// mutation capabilities highlight projection relies on.
type Tree struct {
	Root *Node
}

// NewTree creates a tree with the given root element.
func NewTree(root *Node) *Tree {
	return &Tree{Root: root}
}

// TextNodes returns every text leaf in depth-first document order.
// The snapshot stays valid while the caller mutates the tree, which is
// why projection collects nodes first and splices afterwards.
func (t *Tree) TextNodes() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsText() {
			out = append(out, n)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	if t.Root != nil {
		walk(t.Root)
	}
	return out
}

// ComparePosition reports the document order of a relative to b:
// -1 if a comes first, 1 if b comes first, 0 if they are the same node.
// Both nodes must belong to this tree.
func (t *Tree) ComparePosition(a, b *Node) int {
	if a == b {
		return 0
	}

	pathA := t.pathFromRoot(a)
	pathB := t.pathFromRoot(b)

	n := len(pathA)
	if len(pathB) < n {
		n = len(pathB)
	}
	for i := 0; i < n; i++ {
		if pathA[i] != pathB[i] {
			if pathA[i] < pathB[i] {
				return -1
			}
			return 1
		}
	}
	// One is an ancestor of the other; the ancestor comes first.
	if len(pathA) < len(pathB) {
		return -1
	}
	return 1
}

// pathFromRoot returns the child-index path from the root down to n.
func (t *Tree) pathFromRoot(n *Node) []int {
	var path []int
	for n != nil && n.parent != nil {
		path = append(path, n.parent.childIndex(n))
		n = n.parent
	}
	// Reverse to root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ReplaceWithFragment replaces node with the given sibling fragment in
// its parent's child list. An empty fragment removes the node.
func (t *Tree) ReplaceWithFragment(node *Node, frag ...*Node) error {
	parent := node.parent
	if parent == nil {
		return ErrDetachedNode
	}
	idx := parent.childIndex(node)
	if idx < 0 {
		return ErrNotInTree
	}

	for _, f := range frag {
		f.parent = parent
	}

	children := make([]*Node, 0, len(parent.children)-1+len(frag))
	children = append(children, parent.children[:idx]...)
	children = append(children, frag...)
	children = append(children, parent.children[idx+1:]...)
	parent.children = children
	node.parent = nil
	return nil
}
