package dom

import (
	"strings"
	"sync/atomic"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <li>, etc.
	KindText                 // Plain text node
	KindComment              // <!-- ... -->
	KindFragment             // Detached grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// idCounter is the source of unique node IDs.
var idCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a node in the live element tree.
type Node struct {
	id       uint64
	Kind     Kind
	Tag      string // Element tag name, lower case
	Text     string // For KindText and KindComment
	attrs    []Attr
	props    map[string]any
	parent   *Node
	children []*Node
}

// NewElement creates a detached element.
func NewElement(tag string, children ...*Node) *Node {
	n := &Node{id: nextID(), Kind: KindElement, Tag: strings.ToLower(tag)}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{id: nextID(), Kind: KindText, Text: text}
}

// NewComment creates a detached comment node.
func NewComment(text string) *Node {
	return &Node{id: nextID(), Kind: KindComment, Text: text}
}

// NewFragment creates a fragment holding children.
func NewFragment(children ...*Node) *Node {
	n := &Node{id: nextID(), Kind: KindFragment}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// ID returns the node's process-unique identifier. IDs are never reused.
func (n *Node) ID() uint64 {
	return n.id
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// NextSibling returns the node following n under the same parent.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// ElementChildren returns the element children of n in order.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	return n.indexOf(child)
}

// AppendChild appends child, detaching it from its previous parent.
// Appending a fragment moves the fragment's children instead.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref, or a ref that is not a
// child of n, appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child == nil || child == n || child == ref {
		return child
	}
	if child.Kind == KindFragment {
		for _, c := range child.Children() {
			n.InsertBefore(c, ref)
		}
		return child
	}
	child.Remove()
	i := -1
	if ref != nil {
		i = n.indexOf(ref)
	}
	child.parent = n
	if i < 0 {
		n.children = append(n.children, child)
		return child
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	return child
}

// RemoveChild detaches child from n. It reports whether child was found.
func (n *Node) RemoveChild(child *Node) bool {
	i := n.indexOf(child)
	if i < 0 {
		return false
	}
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
	return true
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChildren removes every child of n and appends nodes.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Clone copies n. A deep clone copies the whole subtree. Clones receive
// fresh IDs; properties are copied shallowly.
func (n *Node) Clone(deep bool) *Node {
	c := &Node{
		id:   nextID(),
		Kind: n.Kind,
		Tag:  n.Tag,
		Text: n.Text,
	}
	if len(n.attrs) > 0 {
		c.attrs = make([]Attr, len(n.attrs))
		copy(c.attrs, n.attrs)
	}
	if len(n.props) > 0 {
		c.props = make(map[string]any, len(n.props))
		for k, v := range n.props {
			c.props[k] = v
		}
	}
	if deep {
		for _, child := range n.children {
			c.AppendChild(child.Clone(true))
		}
	}
	return c
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// TextContent returns the concatenated text of n's subtree.
func (n *Node) TextContent() string {
	switch n.Kind {
	case KindText:
		return n.Text
	case KindComment:
		return ""
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetTextContent replaces n's children with a single text node. An empty
// string leaves n without children.
func (n *Node) SetTextContent(text string) {
	if n.Kind == KindText || n.Kind == KindComment {
		n.Text = text
		return
	}
	if text == "" {
		n.ReplaceChildren()
		return
	}
	n.ReplaceChildren(NewText(text))
}

// Selector returns a short CSS-like description such as "li#a.item" used
// in error messages and logs.
func (n *Node) Selector() string {
	if n == nil {
		return ""
	}
	if n.Kind != KindElement {
		return "#" + strings.ToLower(n.Kind.String())
	}
	var b strings.Builder
	b.WriteString(n.Tag)
	if id, ok := n.Attribute("id"); ok && id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	if class, ok := n.Attribute("class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString(".")
			b.WriteString(c)
		}
	}
	return b.String()
}

// QueryAttr returns the elements in n's subtree (n included) that carry
// attribute name, in document order.
func (n *Node) QueryAttr(name string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == KindElement && c.HasAttribute(name) {
			out = append(out, c)
		}
		return true
	})
	return out
}
