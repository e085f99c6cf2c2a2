package bind

import (
	"strings"

	"github.com/vango-dev/bindery/pkg/directive"
	"github.com/vango-dev/bindery/pkg/dom"
)

// Cell holds the current raw value of every participant of one multivalue
// expression and combines them into the written value. All reactions
// derived from the same expression text share one Cell.
type Cell struct {
	key    string
	refs   []string
	values []any
	fn     directive.CalcFunc
}

func newCell(e directive.Expr) *Cell {
	refs := make([]string, len(e.Refs))
	copy(refs, e.Refs)
	return &Cell{
		key:    e.Text,
		refs:   refs,
		values: make([]any, len(e.Refs)),
		fn:     e.Fn,
	}
}

// Key returns the expression text the cell was created for.
func (c *Cell) Key() string {
	return c.key
}

// Refs returns the participant names in slot order.
func (c *Cell) Refs() []string {
	out := make([]string, len(c.refs))
	copy(out, c.refs)
	return out
}

// Set writes slot i and returns the recomputed combined value. An index
// outside the cell leaves the slots untouched.
func (c *Cell) Set(i int, value any) any {
	if i >= 0 && i < len(c.values) {
		c.values[i] = value
	}
	return c.Value()
}

// Value combines the current slots. Without a calculation the slots'
// string forms are concatenated in expression order; nil slots contribute
// nothing.
func (c *Cell) Value() any {
	if c.fn != nil {
		values := make([]any, len(c.values))
		copy(values, c.values)
		return c.fn(values...)
	}
	var b strings.Builder
	for _, v := range c.values {
		b.WriteString(dom.ToString(v))
	}
	return b.String()
}
