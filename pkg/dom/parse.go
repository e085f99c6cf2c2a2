package dom

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a complete HTML document. The result is a fragment whose
// children are the document's top-level nodes (normally a single <html>).
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	root := NewFragment()
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if n := convert(c); n != nil {
			root.children = append(root.children, n)
			n.parent = root
		}
	}
	return root, nil
}

// ParseFragment reads an HTML fragment in a <body> context and returns a
// fragment holding the parsed nodes.
func ParseFragment(r io.Reader) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, err
	}
	root := NewFragment()
	for _, c := range nodes {
		if n := convert(c); n != nil {
			root.children = append(root.children, n)
			n.parent = root
		}
	}
	return root, nil
}

// convert maps an x/net/html node onto a Node. Doctype nodes are dropped;
// Render re-emits the doctype when asked.
func convert(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		n = &Node{id: nextID(), Kind: KindElement, Tag: h.Data}
		for _, a := range h.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attr{Name: name, Value: a.Val})
		}
	case html.TextNode:
		return NewText(h.Data)
	case html.CommentNode:
		return NewComment(h.Data)
	case html.DocumentNode:
		n = NewFragment()
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.children = append(n.children, child)
			child.parent = n
		}
	}
	return n
}

// FindElement returns the first element in n's subtree with the given tag.
func (n *Node) FindElement(tag string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Kind == KindElement && c.Tag == tag {
			found = c
			return false
		}
		return true
	})
	return found
}
