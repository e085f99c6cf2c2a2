package bind

import (
	stderrors "errors"
	"strings"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/dom"
)

// scan collects the names registered and the directives skipped while
// scanning one Add or Mount call.
type scan struct {
	names []string
	seen  map[string]bool
	errs  []error
}

func (s *scan) register(names []string) {
	for _, n := range names {
		if !s.seen[n] {
			s.seen[n] = true
			s.names = append(s.names, n)
		}
	}
}

// Add mounts elements into the core. Each element and its descendants are
// scanned for binding attributes; descent stops at nested scopes and at
// b-closed elements. Every reference registered is then propagated so the
// elements reflect the current data. Fragments mount their children.
//
// Malformed directives are skipped and reported in the returned error;
// everything else is still registered. Adding an element again registers
// only what is new.
func (c *Core) Add(els ...*dom.Node) error {
	s := &scan{seen: make(map[string]bool)}
	for _, el := range flatten(els) {
		if !el.IsElement() {
			continue
		}
		c.mount(el)
		c.scanElement(el, s)
	}
	c.React(s.names...)
	return stderrors.Join(s.errs...)
}

// Mount makes el a scope root: el is recorded for Hide and Show and only
// its descendants are scanned.
func (c *Core) Mount(el *dom.Node) error {
	s := &scan{seen: make(map[string]bool)}
	c.mount(el)
	for _, child := range el.Children() {
		c.scanElement(child, s)
	}
	c.React(s.names...)
	return stderrors.Join(s.errs...)
}

func (c *Core) mount(el *dom.Node) {
	if c.mounted[el.ID()] {
		return
	}
	c.mounted[el.ID()] = true
	c.elements = append(c.elements, el)
	if c.hidden {
		c.display[el.ID()] = el.Style("display")
		el.SetStyle("display", "none")
	}
}

func flatten(els []*dom.Node) []*dom.Node {
	var out []*dom.Node
	for _, el := range els {
		if el == nil {
			continue
		}
		if el.Kind == dom.KindFragment {
			out = append(out, flatten(el.Children())...)
			continue
		}
		out = append(out, el)
	}
	return out
}

// scanElement registers el's own member bindings, then either opens a
// nested scope, stops, or descends.
func (c *Core) scanElement(el *dom.Node, s *scan) {
	if !el.IsElement() {
		return
	}
	c.scanMembers(el, s)

	o := c.opts
	switch {
	case el.HasAttribute(o.Attr.Closed):
		return
	case el.HasAttribute(o.Attr.Iter):
		name, _ := el.Attribute(o.Attr.Iter)
		c.openIter(el, strings.TrimSpace(name), s)
		return
	case el.HasAttribute(o.Attr.Ref):
		name, _ := el.Attribute(o.Attr.Ref)
		c.openRef(el, strings.TrimSpace(name), s)
		return
	}
	for _, child := range el.Children() {
		c.scanElement(child, s)
	}
}

// scanMembers registers the .attr, .prop and text bindings found on el.
func (c *Core) scanMembers(el *dom.Node, s *scan) {
	o := c.opts
	for _, a := range el.Attributes() {
		var (
			reg    *registry
			member string
		)
		switch {
		case a.Name == o.Attr.Text:
			reg, member = c.props, "textContent"
		case hasSuffix(a.Name, o.Suffix.Attr):
			reg, member = c.attrs, strings.TrimSuffix(a.Name, o.Suffix.Attr)
		case hasSuffix(a.Name, o.Suffix.Prop):
			reg, member = c.props, camelCase(strings.TrimSuffix(a.Name, o.Suffix.Prop))
		default:
			continue
		}
		names, err := c.addValue(a.Value, el, reg, member)
		if err != nil {
			c.skip(err, el, a.Name, s)
			continue
		}
		s.register(names)
	}
}

// skip reports a directive that could not be registered. Scanning goes on.
func (c *Core) skip(err error, el *dom.Node, attr string, s *scan) {
	be := errors.FromError(err, "B100").WithLocation(el.Selector(), attr)
	c.opts.Logger.Warn("bind: directive skipped",
		"element", el.Selector(),
		"attr", attr,
		"error", be.Error())
	c.opts.Observer.ParseFailed(be)
	s.errs = append(s.errs, be)
}

func (c *Core) openRef(el *dom.Node, name string, s *scan) {
	if name == "" {
		c.skip(errors.New("B100"), el, c.opts.Attr.Ref, s)
		return
	}
	child, ok := c.children[name]
	if !ok {
		value := c.Get(name)
		child = c.opts.Ref(c, name, value)
		c.adopt(name, child)
	}
	if err := child.Mount(el); err != nil {
		s.errs = append(s.errs, err)
	}
	if isNil(c.Get(name)) {
		child.Hide()
	}
}

func (c *Core) openIter(el *dom.Node, name string, s *scan) {
	if name == "" {
		c.skip(errors.New("B100"), el, c.opts.Attr.Iter, s)
		return
	}
	child, ok := c.children[name]
	if !ok {
		value := c.Get(name)
		coll, ok := toCollection(value)
		if !ok {
			c.skip(errors.New("B104").WithDetail(name), el, c.opts.Attr.Iter, s)
			return
		}
		if _, shared := value.(Collection); !shared && value != nil {
			// Store the wrapper so data and list share one sequence.
			c.assign(name, coll)
		}
		child = c.opts.Iter(c, name, coll)
		c.adopt(name, child)
	}
	if err := child.Mount(el); err != nil {
		s.errs = append(s.errs, err)
	}
	if isNil(c.Get(name)) {
		child.Hide()
	}
}

func (c *Core) adopt(name string, child Scope) {
	c.children[name] = child
	c.childOrder = append(c.childOrder, name)
}

func hasSuffix(name, suffix string) bool {
	return suffix != "" && len(name) > len(suffix) && strings.HasSuffix(name, suffix)
}

// camelCase converts a kebab-case member name ("text-content") to the
// property name ("textContent").
func camelCase(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	parts := strings.Split(name, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
