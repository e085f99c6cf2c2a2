package bind

import (
	"strings"
	"testing"

	"github.com/vango-dev/bindery/pkg/dom"
)

// parse builds a detached fragment from markup.
func parse(t *testing.T, src string) *dom.Node {
	t.Helper()
	frag, err := dom.ParseFragment(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return frag
}

// find returns the first element with the given id.
func find(t *testing.T, root *dom.Node, id string) *dom.Node {
	t.Helper()
	var found *dom.Node
	root.Walk(func(n *dom.Node) bool {
		if v, ok := n.Attribute("id"); ok && v == id && found == nil {
			found = n
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("no element #%s in %s", id, root.InnerHTML())
	}
	return found
}

func attr(el *dom.Node, name string) string {
	v, _ := el.Attribute(name)
	return v
}

// texts returns the text of every element child of el.
func texts(el *dom.Node) []string {
	var out []string
	for _, c := range el.ElementChildren() {
		out = append(out, c.TextContent())
	}
	return out
}

func attrs(el *dom.Node, name string) []string {
	var out []string
	for _, c := range el.ElementChildren() {
		out = append(out, attr(c, name))
	}
	return out
}

func equal(a, b []string) bool {
	return strings.Join(a, "|") == strings.Join(b, "|")
}

// recorder is a Writer that logs every write before applying it.
type recorder struct {
	writes []string
}

func (r *recorder) SetAttr(el *dom.Node, name string, value any) {
	r.writes = append(r.writes, attr(el, "id")+"@"+name)
	dom.SetAttr(el, name, value)
}

func (r *recorder) SetProp(el *dom.Node, name string, value any) {
	r.writes = append(r.writes, attr(el, "id")+"."+name)
	dom.SetProp(el, name, value)
}

// counter is an Observer that counts activity.
type counter struct {
	reacted     map[string]int
	parseErrors int
	ops         []string
}

func newCounter() *counter {
	return &counter{reacted: make(map[string]int)}
}

func (c *counter) Reacted(name string, writes int) { c.reacted[name] += writes }
func (c *counter) ParseFailed(error)               { c.parseErrors++ }
func (c *counter) ListOp(op string, _ int)         { c.ops = append(c.ops, op) }
