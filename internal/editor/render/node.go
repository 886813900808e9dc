package render

import (
	"errors"
	"fmt"
)

// Errors returned by tree operations.
var (
	ErrDetachedNode = errors.New("node is not attached to a parent")
	ErrNotInTree    = errors.New("node does not belong to this tree")
)

// NodeKind distinguishes element nodes from text leaves.
type NodeKind uint8

const (
	KindElement NodeKind = iota // has a tag and children
	KindText                    // leaf carrying text content
)

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Key   string
	Value string
}

// Node is one node of a rendered tree: either an element with a tag,
// attributes and children, or a text leaf.
type Node struct {
	Kind  NodeKind
	Tag   string // element tag, lower case ("p", "em", "mark", ...)
	Attrs []Attr
	Text  string // text content, only for KindText

	parent   *Node
	children []*Node
}

// NewElement creates an element node with the given tag.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: tag}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// String returns a short description of the node.
func (n *Node) String() string {
	if n.Kind == KindText {
		return fmt.Sprintf("text(%q)", n.Text)
	}
	return fmt.Sprintf("<%s>", n.Tag)
}

// IsText returns true for text leaves.
func (n *Node) IsText() bool {
	return n.Kind == KindText
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in document order.
// The returned slice must not be mutated by callers.
func (n *Node) Children() []*Node {
	return n.children
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// SetAttr sets an attribute, replacing an existing value for the key.
func (n *Node) SetAttr(key, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

// Attr returns the value of an attribute, if present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// childIndex returns the index of child within n's children, or -1.
func (n *Node) childIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
