package bind

import (
	stderrors "errors"
	"maps"
	"slices"
	"strconv"

	"github.com/vango-dev/bindery/pkg/dom"
)

// List reconciles the content of its mounted elements with an ordered
// collection. The element's original content becomes the item template;
// every item is rendered from a clone of it and owned by its own item
// Core. Structural operations reuse existing item cores and nodes.
type List struct {
	*Core

	name string
	coll Collection

	mounts map[uint64]*listMount
	order  []uint64
}

// listMount is the per-element state of a List.
type listMount struct {
	el       *dom.Node
	template *dom.Node
	rendered bool
	items    []*listItem
}

// listItem is one rendered item: its core and the nodes cloned for it.
type listItem struct {
	core  *Core
	nodes []*dom.Node
}

// NewList creates a List over coll that inherits parent's options. name is
// the reference the list is bound to in parent.
func NewList(parent *Core, name string, coll Collection) *List {
	if coll == nil {
		coll = NewSlice()
	}
	return &List{
		Core:   newCore(parent, coll, parent.opts),
		name:   name,
		coll:   coll,
		mounts: make(map[uint64]*listMount),
	}
}

func defaultIterFactory(parent *Core, name string, coll Collection) Scope {
	return NewList(parent, name, coll)
}

// NewItem creates the default item core: its data exposes "item" and,
// with index-wrapping, "index".
func NewItem(list *List, item any, index int) *Core {
	data := map[string]any{ItemRef: item}
	if list.opts.Index {
		data[IndexRef] = index
	}
	return newCore(list.Core, data, list.opts)
}

// Name returns the reference the list is bound to.
func (l *List) Name() string {
	return l.name
}

// Collection returns the backing collection.
func (l *List) Collection() Collection {
	return l.coll
}

// Len returns the collection length.
func (l *List) Len() int {
	return l.coll.Len()
}

// Items returns the item cores rendered into el, in collection order.
func (l *List) Items(el *dom.Node) []*Core {
	m := l.mounts[el.ID()]
	if m == nil {
		return nil
	}
	out := make([]*Core, len(m.items))
	for i, it := range m.items {
		out[i] = it.core
	}
	return out
}

// Template returns the template captured from el. On first use, or when
// replace is set, el's current content is detached and cached as the
// template; replacing the template of a rendered element first removes
// its rendered items.
func (l *List) Template(el *dom.Node, replace bool) *dom.Node {
	m := l.mountFor(el)
	if m.template != nil && !replace {
		return m.template
	}
	if m.rendered {
		l.clear(m)
		m.rendered = false
	}
	m.template = dom.NewFragment(el.Children()...)
	return m.template
}

func (l *List) mountFor(el *dom.Node) *listMount {
	m, ok := l.mounts[el.ID()]
	if !ok {
		m = &listMount{el: el}
		l.mounts[el.ID()] = m
		l.order = append(l.order, el.ID())
	}
	return m
}

// Mount renders the collection into el.
func (l *List) Mount(el *dom.Node) error {
	return l.Add(el)
}

// Add renders the collection into every element that is not rendered yet.
func (l *List) Add(els ...*dom.Node) error {
	var errs []error
	for _, el := range els {
		l.Core.mount(el)
		m := l.mountFor(el)
		if m.rendered {
			continue
		}
		l.Template(el, false)
		for i := 0; i < l.coll.Len(); i++ {
			it, err := l.newItem(m, l.coll.At(i), i, nil)
			if err != nil {
				errs = append(errs, err)
			}
			m.items = append(m.items, it)
		}
		m.rendered = true
	}
	return stderrors.Join(errs...)
}

// newItem clones the template, inserts the clone before anchor (nil
// appends) and binds it to a fresh item core.
func (l *List) newItem(m *listMount, value any, index int, anchor *dom.Node) (*listItem, error) {
	core := l.opts.Item(l, value, index)
	clone := m.template.Clone(true)
	nodes := clone.Children()
	for _, n := range nodes {
		m.el.InsertBefore(n, anchor)
	}
	return &listItem{core: core, nodes: nodes}, core.Add(nodes...)
}

// anchor returns the first node of the item at position i or, past the
// end, nil.
func (m *listMount) anchor(i int) *dom.Node {
	for ; i < len(m.items); i++ {
		if len(m.items[i].nodes) > 0 {
			return m.items[i].nodes[0]
		}
	}
	return nil
}

func (it *listItem) detach() {
	for _, n := range it.nodes {
		n.Remove()
	}
}

func (it *listItem) destroy() {
	it.detach()
	it.core.Teardown()
}

func (l *List) each(fn func(m *listMount)) {
	for _, id := range l.order {
		if m := l.mounts[id]; m != nil && m.rendered {
			fn(m)
		}
	}
}

// Push appends items to the collection and renders only the new items.
func (l *List) Push(items ...any) {
	if len(items) == 0 {
		return
	}
	start := l.coll.Len()
	l.coll.Push(items...)
	l.each(func(m *listMount) {
		for i, v := range items {
			it, err := l.newItem(m, v, start+i, nil)
			l.report(err)
			m.items = append(m.items, it)
		}
	})
	l.opts.Observer.ListOp("push", len(items))
}

// Pop removes the last item and its rendered nodes. It returns nil for an
// empty collection.
func (l *List) Pop() any {
	if l.coll.Len() == 0 {
		return nil
	}
	v := l.coll.Pop()
	l.each(func(m *listMount) {
		if n := len(m.items); n > 0 {
			m.items[n-1].destroy()
			m.items = m.items[:n-1]
		}
	})
	l.opts.Observer.ListOp("pop", 1)
	return v
}

// Splice removes deleteCount items at start and inserts items in their
// place. A negative start counts from the end. Items after the affected
// region keep their cores; only their index is updated.
func (l *List) Splice(start, deleteCount int, items ...any) []any {
	n := l.coll.Len()
	if start < 0 {
		start += n
	}
	start = clamp(start, 0, n)
	deleteCount = clamp(deleteCount, 0, n-start)

	removed := l.coll.Splice(start, deleteCount, items...)
	l.each(func(m *listMount) {
		from := min(start, len(m.items))
		to := min(start+deleteCount, len(m.items))
		for _, it := range m.items[from:to] {
			it.destroy()
		}
		anchor := m.anchor(to)
		added := make([]*listItem, len(items))
		for i, v := range items {
			it, err := l.newItem(m, v, from+i, anchor)
			l.report(err)
			added[i] = it
		}
		tail := append([]*listItem(nil), m.items[to:]...)
		m.items = append(append(m.items[:from], added...), tail...)
		if len(items) != to-from {
			l.reindex(m, from+len(items), len(m.items))
		}
	})
	l.opts.Observer.ListOp("splice", deleteCount+len(items))
	return removed
}

// Move relocates the item at i1 to i2, shifting the items in between, or
// with swap exchanges the two items. Cores and nodes are reused, so state
// held inside an item's subtree survives. Out-of-range positions are
// ignored; Move reports whether anything moved. A mount whose items are
// out of step with the collection is resynchronized instead.
func (l *List) Move(i1, i2 int, swap bool) bool {
	n := l.coll.Len()
	if i1 < 0 || i2 < 0 || i1 >= n || i2 >= n {
		return false
	}
	if i1 == i2 {
		return false
	}

	if swap {
		a, b := l.coll.At(i1), l.coll.At(i2)
		l.coll.SetAt(i1, b)
		l.coll.SetAt(i2, a)
	} else {
		v := l.coll.At(i1)
		l.coll.Splice(i1, 1)
		l.coll.Splice(i2, 0, v)
	}

	l.each(func(m *listMount) {
		if len(m.items) != n {
			l.resync(m)
			return
		}
		if swap {
			l.swapItems(m, i1, i2)
			l.reindex(m, i1, i1+1)
			l.reindex(m, i2, i2+1)
			return
		}
		it := m.items[i1]
		m.items = append(m.items[:i1], m.items[i1+1:]...)
		it.detach()
		anchor := m.anchor(i2)
		for _, node := range it.nodes {
			m.el.InsertBefore(node, anchor)
		}
		m.items = append(m.items[:i2], append([]*listItem{it}, m.items[i2:]...)...)
		l.reindex(m, min(i1, i2), max(i1, i2)+1)
	})
	op := "move"
	if swap {
		op = "swap"
	}
	l.opts.Observer.ListOp(op, 1)
	return true
}

func (l *List) swapItems(m *listMount, i1, i2 int) {
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	a, b := m.items[i1], m.items[i2]
	// Position after b, taken before anything moves.
	after := m.anchor(i2 + 1)
	first := m.anchor(i1)
	for _, node := range b.nodes {
		m.el.InsertBefore(node, first)
	}
	for _, node := range a.nodes {
		m.el.InsertBefore(node, after)
	}
	m.items[i1], m.items[i2] = b, a
}

// reindex updates the reactive index of items in [from, to).
func (l *List) reindex(m *listMount, from, to int) {
	if !l.opts.Index {
		return
	}
	for i := from; i < to && i < len(m.items); i++ {
		core := m.items[i].core
		if cur, ok := core.Get(IndexRef).(int); ok && cur == i {
			continue
		}
		core.Set(map[string]any{IndexRef: i})
	}
}

// SetItem replaces the item at i and propagates it to that item's cores.
func (l *List) SetItem(i int, value any) {
	if i < 0 || i >= l.coll.Len() {
		return
	}
	l.coll.SetAt(i, value)
	l.each(func(m *listMount) {
		if i < len(m.items) {
			m.items[i].core.Set(map[string]any{ItemRef: value})
		}
	})
}

// Set treats numeric keys as item positions.
func (l *List) Set(partial map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(partial)) {
		if i, err := strconv.Atoi(k); err == nil {
			l.SetItem(i, partial[k])
		}
	}
}

// Delete with positions removes those items (like Splice(i, 1)); without
// positions it empties the collection and tears down every item.
func (l *List) Delete(indexes ...int) {
	if len(indexes) == 0 {
		l.coll.Splice(0, l.coll.Len())
		l.each(l.clear)
		l.opts.Observer.ListOp("clear", 0)
		return
	}
	sorted := append([]int(nil), indexes...)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	for i, idx := range sorted {
		if i > 0 && idx == sorted[i-1] {
			continue
		}
		if idx >= 0 && idx < l.coll.Len() {
			l.Splice(idx, 1)
		}
	}
}

func (l *List) clear(m *listMount) {
	for _, it := range m.items {
		it.destroy()
	}
	m.items = nil
}

// React resynchronizes the items. Without names every item adopts its
// current collection value and position, and items are added or removed
// at the tail to match the collection length. With names only those
// names are propagated within every item.
func (l *List) React(names ...string) {
	if len(names) > 0 {
		l.each(func(m *listMount) {
			for _, it := range m.items {
				it.core.React(names...)
			}
		})
		return
	}
	l.each(l.resync)
}

// ReactOn performs the full resynchronization of React for the given
// mounted elements only.
func (l *List) ReactOn(els ...*dom.Node) {
	for _, el := range els {
		if m := l.mounts[el.ID()]; m != nil && m.rendered {
			l.resync(m)
		}
	}
}

func (l *List) resync(m *listMount) {
	n := l.coll.Len()
	for len(m.items) > n {
		m.items[len(m.items)-1].destroy()
		m.items = m.items[:len(m.items)-1]
	}
	for i, it := range m.items {
		values := map[string]any{ItemRef: l.coll.At(i)}
		if l.opts.Index {
			values[IndexRef] = i
		}
		for k, v := range values {
			it.core.assign(k, v)
		}
		it.core.React()
	}
	for i := len(m.items); i < n; i++ {
		it, err := l.newItem(m, l.coll.At(i), i, nil)
		l.report(err)
		m.items = append(m.items, it)
	}
}

// Sync adopts a new value for the list's reference. The same collection
// is resynchronized in place; a different one replaces every item.
func (l *List) Sync(value any) {
	if c, ok := value.(Collection); ok && c == l.coll {
		l.React()
		return
	}
	coll, ok := toCollection(value)
	if !ok {
		l.opts.Logger.Warn("bind: list value is not a collection", "ref", l.name)
		return
	}
	if _, shared := value.(Collection); !shared && l.parent != nil {
		l.parent.assign(l.name, coll)
	}
	l.coll = coll
	l.data = coll
	l.each(l.clear)
	l.each(l.resync)
}

// Teardown removes every rendered item and forgets all mounts.
func (l *List) Teardown() {
	l.each(l.clear)
	l.mounts = make(map[uint64]*listMount)
	l.order = nil
	l.Core.Teardown()
}

func (l *List) report(err error) {
	if err != nil {
		l.opts.Logger.Warn("bind: list item directives skipped", "ref", l.name, "error", err)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
