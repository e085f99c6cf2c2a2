package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// RenderConfig configures HTML serialization.
type RenderConfig struct {
	// Pretty enables indented output. Development only; it changes
	// whitespace inside the document.
	Pretty bool

	// Indent is the string used per indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string

	// Doctype prefixes the output with <!DOCTYPE html>.
	Doctype bool

	// StripDirectives omits attributes for which the function returns true,
	// e.g. binding directives that should not reach the client.
	StripDirectives func(name string) bool
}

type renderer struct {
	config RenderConfig
	w      io.Writer
	err    error
}

// Render writes node and its subtree to w as HTML.
func Render(w io.Writer, node *Node, config RenderConfig) error {
	if config.Indent == "" {
		config.Indent = "  "
	}
	r := &renderer{config: config, w: w}
	if config.Doctype {
		r.write("<!DOCTYPE html>")
		if config.Pretty {
			r.write("\n")
		}
	}
	r.node(node, 0, config.Pretty)
	return r.err
}

// RenderString renders node to a string.
func RenderString(node *Node, config RenderConfig) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, node, config); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OuterHTML renders n compactly. Errors cannot occur when writing to memory.
func (n *Node) OuterHTML() string {
	s, _ := RenderString(n, RenderConfig{})
	return s
}

// InnerHTML renders n's children compactly.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.OuterHTML())
	}
	return b.String()
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *renderer) indent(depth int) {
	if r.config.Pretty && depth > 0 {
		r.write(strings.Repeat(r.config.Indent, depth))
	}
}

// node writes n. block reports whether n sits on its own line.
func (r *renderer) node(n *Node, depth int, block bool) {
	if n == nil || r.err != nil {
		return
	}
	switch n.Kind {
	case KindElement:
		r.element(n, depth, block)
	case KindText:
		r.write(html.EscapeString(n.Text))
	case KindComment:
		r.write("<!--" + n.Text + "-->")
	case KindFragment:
		for _, c := range n.children {
			r.node(c, depth, block)
		}
	default:
		r.err = fmt.Errorf("unknown node kind: %d", n.Kind)
	}
}

func (r *renderer) element(n *Node, depth int, line bool) {
	if line {
		r.indent(depth)
	}
	r.write("<" + n.Tag)
	for _, a := range n.attrs {
		if r.config.StripDirectives != nil && r.config.StripDirectives(a.Name) {
			continue
		}
		if a.Value == "" && isBooleanAttr(a.Name) {
			r.write(" " + a.Name)
			continue
		}
		r.write(" " + a.Name + `="` + html.EscapeString(a.Value) + `"`)
	}
	r.write(">")

	if isVoidElement(n.Tag) {
		if line {
			r.write("\n")
		}
		return
	}

	block := r.config.Pretty && len(n.ElementChildren()) > 0 && !isInlineElement(n.Tag)
	if block {
		r.write("\n")
	}
	for _, c := range n.children {
		if block && c.Kind == KindText && strings.TrimSpace(c.Text) == "" {
			continue
		}
		if block && c.Kind != KindElement {
			r.indent(depth + 1)
		}
		r.node(c, depth+1, block)
		if block && c.Kind != KindElement {
			r.write("\n")
		}
	}
	if block {
		r.indent(depth)
	}
	r.write("</" + n.Tag + ">")
	if line {
		r.write("\n")
	}
}
