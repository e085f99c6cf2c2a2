package bind

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/directive"
	"github.com/vango-dev/bindery/pkg/dom"
)

// Scope is a nested binding unit owned by a parent Core: a child Core for
// b-ref elements or a List for b-iter elements.
type Scope interface {
	// Mount makes el a root of the scope. Only el's content is scanned;
	// el's own member bindings belong to the enclosing scope.
	Mount(el *dom.Node) error

	// React resynchronizes names, or everything when none are given.
	React(names ...string)

	// Sync adopts a new value for the scope's reference.
	Sync(value any)

	Hide()
	Show()
	Hidden() bool

	// Teardown drops all bookkeeping of the scope.
	Teardown()
}

// Core owns one data object, the registries of the elements mounted into
// it and its nested scopes.
type Core struct {
	opts Options
	data any

	attrs *registry
	props *registry
	cells map[string]*Cell

	children   map[string]Scope
	childOrder []string

	elements []*dom.Node
	mounted  map[uint64]bool

	// display records the style each mounted element had before Hide.
	display map[uint64]string
	hidden  bool

	// parent is a non-owning relation consulted for visibility only.
	parent *Core
}

// New creates a Core over data. A nil map is replaced by an empty one.
func New(data map[string]any, opts ...Option) *Core {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.applyDefaults()
	if data == nil {
		data = map[string]any{}
	}
	return newCore(nil, data, o)
}

// NewChild creates a Core over value that inherits parent's options.
func NewChild(parent *Core, value any) *Core {
	return newCore(parent, value, parent.opts)
}

func newCore(parent *Core, data any, opts Options) *Core {
	return &Core{
		opts:     opts,
		data:     data,
		attrs:    newRegistry(),
		props:    newRegistry(),
		cells:    make(map[string]*Cell),
		children: make(map[string]Scope),
		mounted:  make(map[uint64]bool),
		display:  make(map[uint64]string),
		parent:   parent,
	}
}

func defaultRefFactory(parent *Core, name string, value any) Scope {
	return NewChild(parent, value)
}

// Options returns the core's resolved options.
func (c *Core) Options() Options {
	return c.opts
}

// Data returns the core's data value.
func (c *Core) Data() any {
	return c.data
}

// Parent returns the enclosing core, or nil for a root core.
func (c *Core) Parent() *Core {
	return c.parent
}

// Elements returns the mounted root elements in mount order.
func (c *Core) Elements() []*dom.Node {
	out := make([]*dom.Node, len(c.elements))
	copy(out, c.elements)
	return out
}

// Child returns the nested scope opened for name, or nil.
func (c *Core) Child(name string) Scope {
	return c.children[name]
}

// Cell returns the multivalue cell for an expression text, or nil.
func (c *Core) Cell(expr string) *Cell {
	return c.cells[expr]
}

// Reactions returns the number of reactions registered for name across
// both registries.
func (c *Core) Reactions(name string) int {
	n := 0
	count := func(*dom.Node, Reaction) { n++ }
	c.attrs.each(name, count)
	c.props.each(name, count)
	return n
}

// Size returns the total number of registered reactions.
func (c *Core) Size() int {
	return c.attrs.size() + c.props.size()
}

// Destructure resolves a possibly nested reference to the object that owns
// it and the key within that object. The self keyword resolves to the
// core's data. A missing intermediate yields a nil parent.
func (c *Core) Destructure(ref string) (parent any, prop string) {
	segs := splitPath(ref)
	cur := c.data
	if segs[0] == c.opts.Self {
		segs = segs[1:]
		if len(segs) == 0 {
			return nil, c.opts.Self
		}
	}
	for _, seg := range segs[:len(segs)-1] {
		next, ok := lookup(cur, seg)
		if !ok || next == nil {
			return nil, segs[len(segs)-1]
		}
		cur = next
	}
	return cur, segs[len(segs)-1]
}

// Get returns the value at ref, or nil when it does not resolve.
func (c *Core) Get(ref string) any {
	if ref == c.opts.Self {
		return c.data
	}
	parent, prop := c.Destructure(ref)
	v, _ := lookup(parent, prop)
	return v
}

// Has reports whether ref resolves to a stored value.
func (c *Core) Has(ref string) bool {
	if ref == c.opts.Self {
		return c.data != nil
	}
	parent, prop := c.Destructure(ref)
	_, ok := lookup(parent, prop)
	return ok
}

// assign stores value at ref, creating intermediate maps as needed.
func (c *Core) assign(ref string, value any) {
	if ref == c.opts.Self {
		c.data = value
		return
	}
	segs := splitPath(ref)
	if segs[0] == c.opts.Self {
		segs = segs[1:]
	}
	if c.data == nil {
		c.data = map[string]any{}
	}
	cur := c.data
	for _, seg := range segs[:len(segs)-1] {
		next, ok := lookup(cur, seg)
		if !ok || next == nil {
			m := map[string]any{}
			if !store(cur, seg, m) {
				c.opts.Logger.Debug("bind: cannot assign", "ref", ref)
				return
			}
			next = m
		}
		cur = next
	}
	if !store(cur, segs[len(segs)-1], value) {
		c.opts.Logger.Debug("bind: cannot assign", "ref", ref)
	}
}

// Set assigns every key of partial into the data and propagates exactly
// those names.
func (c *Core) Set(partial map[string]any) {
	for _, name := range slices.Sorted(maps.Keys(partial)) {
		c.assign(name, partial[name])
	}
	c.ReactWith(partial)
}

// ReactWith propagates the names of values. The data stays the source of
// the written values; the map only selects names.
func (c *Core) ReactWith(values map[string]any) {
	c.React(slices.Sorted(maps.Keys(values))...)
}

// React resynchronizes the given references. Without names every
// reference tracked by a registry, a cell or a nested scope is processed.
// Names with no data and no reactions are ignored.
func (c *Core) React(names ...string) {
	if len(names) == 0 {
		names = c.tracked()
	}
	for _, name := range names {
		c.react(name)
	}
}

func (c *Core) react(name string) {
	seen := make(map[string]bool)
	for _, reg := range []*registry{c.attrs, c.props} {
		for _, n := range reg.matching(name) {
			if seen[n] {
				continue
			}
			seen[n] = true
			writes := c.write(n, c.Get(n))
			c.opts.Observer.Reacted(n, writes)
		}
	}
	for _, n := range c.childOrder {
		if covers(name, n) {
			c.syncChild(n, c.Get(n))
		} else if rest, ok := strings.CutPrefix(name, n+"."); ok {
			c.reactBelow(n, rest)
		}
	}
}

// reactBelow forwards a path nested below the scope n, e.g. "user.name"
// reaches the scope "user" as "name".
func (c *Core) reactBelow(n, rest string) {
	child := c.children[n]
	if child == nil {
		return
	}
	value := c.Get(n)
	if isNil(value) {
		child.Hide()
		return
	}
	if child.Hidden() {
		child.Show()
	}
	core, ok := child.(*Core)
	if !ok {
		child.Sync(value)
		return
	}
	core.data = value
	core.React(rest)
}

// write pushes value to every member registered under name and returns
// the number of writes.
func (c *Core) write(name string, value any) int {
	writes := 0
	c.attrs.each(name, func(el *dom.Node, r Reaction) {
		v := value
		if r.Cell != nil {
			v = r.Cell.Set(r.Index, value)
		}
		c.opts.Writer.SetAttr(el, r.Member, v)
		writes++
	})
	c.props.each(name, func(el *dom.Node, r Reaction) {
		v := value
		if r.Cell != nil {
			v = r.Cell.Set(r.Index, value)
		}
		c.opts.Writer.SetProp(el, r.Member, v)
		writes++
	})
	return writes
}

func (c *Core) syncChild(name string, value any) {
	child := c.children[name]
	if child == nil {
		return
	}
	if isNil(value) {
		child.Hide()
		return
	}
	if child.Hidden() {
		child.Show()
	}
	child.Sync(value)
}

// tracked returns every name known to the registries, cells and scopes.
func (c *Core) tracked() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range c.attrs.keys() {
		add(n)
	}
	for _, n := range c.props.keys() {
		add(n)
	}
	for _, key := range slices.Sorted(maps.Keys(c.cells)) {
		for _, n := range c.cells[key].refs {
			add(n)
		}
	}
	for _, n := range c.childOrder {
		add(n)
	}
	return out
}

// Remove drops the reactions registered for refs (and references nested
// below them). Without refs every reaction and cell is dropped. Remove
// never touches elements or data.
func (c *Core) Remove(refs ...string) {
	if len(refs) == 0 {
		c.attrs.clear()
		c.props.clear()
		c.cells = make(map[string]*Cell)
		return
	}
	for _, ref := range refs {
		for _, reg := range []*registry{c.attrs, c.props} {
			for _, n := range reg.matching(ref) {
				reg.remove(n)
			}
		}
	}
	c.pruneCells()
}

// pruneCells drops cells no reaction refers to anymore.
func (c *Core) pruneCells() {
	live := make(map[*Cell]bool)
	c.attrs.cells(live)
	c.props.cells(live)
	for key, cell := range c.cells {
		if !live[cell] {
			delete(c.cells, key)
		}
	}
}

// Delete removes refs from the data, writes the now missing values to
// every bound member (removing attributes and deleting properties), then
// drops the bookkeeping and tears down nested scopes opened for them.
// Without refs every own reference is deleted.
func (c *Core) Delete(refs ...string) {
	if len(refs) == 0 {
		refs = c.ownNames()
	}
	for _, ref := range refs {
		if parent, prop := c.Destructure(ref); parent != nil {
			unset(parent, prop)
		} else if ref == c.opts.Self {
			c.data = nil
		}
		c.React(ref)
		c.Remove(ref)
		c.dropChildren(ref)
		c.removeBelow(ref)
	}
}

// removeBelow drops the reactions a nested scope holds for a path below
// its own name.
func (c *Core) removeBelow(ref string) {
	for _, n := range c.childOrder {
		rest, ok := strings.CutPrefix(ref, n+".")
		if !ok {
			continue
		}
		if core, ok := c.children[n].(*Core); ok {
			core.Remove(rest)
			core.removeBelow(rest)
		}
	}
}

// ownNames returns the data keys plus every tracked name.
func (c *Core) ownNames() []string {
	names := c.tracked()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	if m, ok := c.data.(map[string]any); ok {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !seen[k] {
				names = append(names, k)
			}
		}
	}
	return names
}

func (c *Core) dropChildren(ref string) {
	kept := c.childOrder[:0]
	for _, n := range c.childOrder {
		if covers(ref, n) {
			c.children[n].Teardown()
			delete(c.children, n)
			continue
		}
		kept = append(kept, n)
	}
	c.childOrder = kept
}

// Call invokes the function stored at ref with args and writes the result
// to every member bound to ref. The stored function is kept. A
// non-function target or mismatched arguments return an invocation error
// and write nothing; an error returned by the function itself is passed
// through.
func (c *Core) Call(ref string, args ...any) (any, error) {
	fn := reflect.ValueOf(c.Get(ref))
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, errors.New("B200").WithDetail(ref)
	}
	in, err := callArgs(fn.Type(), args)
	if err != nil {
		return nil, errors.New("B201").WithDetail(ref + ": " + err.Error())
	}
	out := fn.Call(in)

	var result any
	if len(out) > 0 {
		last := out[len(out)-1]
		if last.Type() == errorType {
			if !last.IsNil() {
				return nil, last.Interface().(error)
			}
			out = out[:len(out)-1]
		}
	}
	if len(out) > 0 {
		result = out[0].Interface()
	}
	writes := c.write(ref, result)
	c.opts.Observer.Reacted(ref, writes)
	return result, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, errors.Newf(errors.CategoryInvocation, "want at least %d arguments, got %d", n-1, len(args))
		}
	} else if len(args) != n {
		return nil, errors.Newf(errors.CategoryInvocation, "want %d arguments, got %d", n, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= n-1 {
			pt = t.In(n - 1).Elem()
		} else {
			pt = t.In(i)
		}
		if a == nil {
			switch pt.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				in[i] = reflect.Zero(pt)
				continue
			}
			return nil, errors.Newf(errors.CategoryInvocation, "argument %d: nil for %s", i, pt)
		}
		v := reflect.ValueOf(a)
		switch {
		case v.Type().AssignableTo(pt):
		case v.Type().ConvertibleTo(pt) && v.Kind() != reflect.String && pt.Kind() != reflect.String:
			v = v.Convert(pt)
		default:
			return nil, errors.Newf(errors.CategoryInvocation, "argument %d: %s is not %s", i, v.Type(), pt)
		}
		in[i] = v
	}
	return in, nil
}

// Hide records the display style of every mounted element and hides it.
// Hiding twice keeps the first record.
func (c *Core) Hide() {
	for _, el := range c.elements {
		if _, ok := c.display[el.ID()]; ok {
			continue
		}
		c.display[el.ID()] = el.Style("display")
		el.SetStyle("display", "none")
	}
	c.hidden = true
}

// Show restores the display style recorded by Hide.
func (c *Core) Show() {
	for _, el := range c.elements {
		prev, ok := c.display[el.ID()]
		if !ok {
			continue
		}
		el.SetStyle("display", prev)
		delete(c.display, el.ID())
	}
	c.hidden = false
}

// Hidden reports whether the core is hidden.
func (c *Core) Hidden() bool {
	return c.hidden
}

// Visible reports whether neither the core nor any enclosing core is
// hidden.
func (c *Core) Visible() bool {
	for p := c; p != nil; p = p.parent {
		if p.hidden {
			return false
		}
	}
	return true
}

// Sync adopts value as the core's data and resynchronizes everything.
func (c *Core) Sync(value any) {
	c.data = value
	c.React()
}

// Teardown drops every reaction, cell and nested scope and forgets the
// mounted elements. Elements keep their last written values.
func (c *Core) Teardown() {
	for _, n := range c.childOrder {
		c.children[n].Teardown()
	}
	c.children = make(map[string]Scope)
	c.childOrder = nil
	c.Remove()
	c.elements = nil
	c.mounted = make(map[uint64]bool)
	c.display = make(map[uint64]string)
}

// createMultiValue resolves or creates the cell shared by every
// occurrence of e's exact text.
func (c *Core) createMultiValue(e directive.Expr) ([]string, *Cell) {
	cell, ok := c.cells[e.Text]
	if !ok {
		cell = newCell(e)
		c.cells[e.Text] = cell
	}
	return cell.Refs(), cell
}

// addValue parses one attribute's directive text and registers its
// reactions for member on el. It returns the names registered.
func (c *Core) addValue(text string, el *dom.Node, reg *registry, member string) ([]string, error) {
	exprs, err := directive.Parse(text, c.opts.grammar())
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range exprs {
		if !e.Multi() {
			reg.addRef(e.Refs[0], el, Reaction{Member: member})
			names = append(names, e.Refs[0])
			continue
		}
		refs, cell := c.createMultiValue(e)
		for i, ref := range refs {
			reg.addRef(ref, el, Reaction{Member: member, Cell: cell, Index: i})
			names = append(names, ref)
		}
	}
	return names, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
