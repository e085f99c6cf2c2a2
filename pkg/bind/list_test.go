package bind

import (
	"testing"

	"github.com/vango-dev/bindery/pkg/dom"
)

const listMarkup = `<ul id="ul" b-iter="items"><li b-text="item.v" data-i.attr="index"></li></ul>`

func items(vs ...int) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = map[string]any{"v": v}
	}
	return out
}

// mountList binds listMarkup over items and returns the core, the list and
// the <ul>.
func mountList(t *testing.T, values []any, opts ...Option) (*Core, *List, *dom.Node) {
	t.Helper()
	root := parse(t, listMarkup)
	c := New(map[string]any{"items": values}, append([]Option{quiet(), WithIndex(true)}, opts...)...)
	if err := c.Add(root); err != nil {
		t.Fatal(err)
	}
	l, ok := c.Child("items").(*List)
	if !ok {
		t.Fatalf("child = %T, want *List", c.Child("items"))
	}
	return c, l, find(t, root, "ul")
}

func values(l *List) []string {
	var out []string
	for i := 0; i < l.Len(); i++ {
		out = append(out, dom.ToString(l.Collection().At(i).(map[string]any)["v"]))
	}
	return out
}

func TestListRender(t *testing.T) {
	c, l, ul := mountList(t, items(1, 2, 3))

	if got := texts(ul); !equal(got, []string{"1", "2", "3"}) {
		t.Errorf("texts = %v", got)
	}
	if got := attrs(ul, "data-i"); !equal(got, []string{"0", "1", "2"}) {
		t.Errorf("indexes = %v", got)
	}
	if _, ok := c.Get("items").(Collection); !ok {
		t.Errorf("parent data holds %T, want the shared collection", c.Get("items"))
	}
	if len(l.Items(ul)) != 3 {
		t.Errorf("items = %d", len(l.Items(ul)))
	}
	if c.Reactions("item.v") != 0 {
		t.Error("template bindings leaked into the parent")
	}
}

func TestListMovePreservesIdentity(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2, 3))
	before := l.Items(ul)
	nodes := ul.ElementChildren()

	if !l.Move(0, 2, false) {
		t.Fatal("Move reported nothing moved")
	}
	if got := values(l); !equal(got, []string{"2", "3", "1"}) {
		t.Errorf("collection = %v", got)
	}
	if got := texts(ul); !equal(got, []string{"2", "3", "1"}) {
		t.Errorf("texts = %v", got)
	}
	if got := attrs(ul, "data-i"); !equal(got, []string{"0", "1", "2"}) {
		t.Errorf("indexes = %v", got)
	}
	after := l.Items(ul)
	if after[0] != before[1] || after[1] != before[2] || after[2] != before[0] {
		t.Error("item cores were not reused")
	}
	if ul.ElementChildren()[2] != nodes[0] {
		t.Error("moved node was re-created")
	}
	if got := after[2].Get(IndexRef); got != 2 {
		t.Errorf("moved item index = %v, want 2", got)
	}

	l.Move(2, 0, false)
	if got := texts(ul); !equal(got, []string{"1", "2", "3"}) {
		t.Errorf("move back texts = %v", got)
	}
}

func TestListMoveKeepsExternalState(t *testing.T) {
	_, moved, ul1 := mountList(t, items(1, 2, 3))
	_, spliced, ul2 := mountList(t, items(1, 2, 3))

	ul1.ElementChildren()[0].SetPropValue("counter", 5)
	ul2.ElementChildren()[0].SetPropValue("counter", 5)

	moved.Move(0, 2, false)
	removed := spliced.Splice(0, 1)
	spliced.Splice(2, 0, removed...)

	if !equal(texts(ul1), texts(ul2)) {
		t.Fatalf("texts differ: %v vs %v", texts(ul1), texts(ul2))
	}
	if v, _ := ul1.ElementChildren()[2].Prop("counter"); v != 5 {
		t.Errorf("move lost external state: %v", v)
	}
	if ul2.ElementChildren()[2].HasProp("counter") {
		t.Error("splice should have re-created the item")
	}
}

func TestListSwap(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2, 3, 4))
	before := l.Items(ul)

	l.Move(3, 0, true)
	if got := texts(ul); !equal(got, []string{"4", "2", "3", "1"}) {
		t.Errorf("texts = %v", got)
	}
	if got := attrs(ul, "data-i"); !equal(got, []string{"0", "1", "2", "3"}) {
		t.Errorf("indexes = %v", got)
	}
	after := l.Items(ul)
	if after[0] != before[3] || after[3] != before[0] || after[1] != before[1] {
		t.Error("swap did not reuse cores")
	}

	l.Move(1, 2, true)
	if got := texts(ul); !equal(got, []string{"4", "3", "2", "1"}) {
		t.Errorf("adjacent swap texts = %v", got)
	}
}

func TestListMoveOutOfRange(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2))
	for _, tt := range [][2]int{{-1, 0}, {0, 2}, {5, 1}} {
		if l.Move(tt[0], tt[1], false) {
			t.Errorf("Move(%d, %d) reported a move", tt[0], tt[1])
		}
	}
	if got := texts(ul); !equal(got, []string{"1", "2"}) {
		t.Errorf("texts = %v", got)
	}
}

func TestListMoveSameIndex(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2))
	if l.Move(1, 1, false) || l.Move(0, 0, true) {
		t.Error("Move onto the same position reported a move")
	}
	if got := texts(ul); !equal(got, []string{"1", "2"}) {
		t.Errorf("texts = %v", got)
	}
}

func TestListMoveAfterExternalChange(t *testing.T) {
	for _, swap := range []bool{false, true} {
		_, l, ul := mountList(t, items(1, 2, 3))
		l.Collection().Push(map[string]any{"v": 4})

		if !l.Move(3, 0, swap) {
			t.Fatalf("swap=%v: Move reported no move", swap)
		}
		want := []string{"4", "1", "2", "3"}
		if swap {
			want = []string{"4", "2", "3", "1"}
		}
		if got := values(l); !equal(got, want) {
			t.Errorf("swap=%v: collection = %v, want %v", swap, got, want)
		}
		if got := texts(ul); !equal(got, want) {
			t.Errorf("swap=%v: texts = %v, want %v", swap, got, want)
		}
		if got := attrs(ul, "data-i"); !equal(got, []string{"0", "1", "2", "3"}) {
			t.Errorf("swap=%v: indexes = %v", swap, got)
		}
	}
}

func TestListPushPop(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2))
	before := l.Items(ul)

	l.Push(items(3, 4)...)
	if got := texts(ul); !equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("texts = %v", got)
	}
	if got := attrs(ul, "data-i"); !equal(got, []string{"0", "1", "2", "3"}) {
		t.Errorf("indexes = %v", got)
	}
	if after := l.Items(ul); after[0] != before[0] || after[1] != before[1] {
		t.Error("push re-created existing items")
	}

	v := l.Pop()
	if m, ok := v.(map[string]any); !ok || m["v"] != 4 {
		t.Errorf("Pop = %v", v)
	}
	if got := texts(ul); !equal(got, []string{"1", "2", "3"}) {
		t.Errorf("texts after pop = %v", got)
	}

	empty, _, eul := mountList(t, nil)
	l2 := empty.Child("items").(*List)
	if l2.Pop() != nil || len(eul.ElementChildren()) != 0 {
		t.Error("pop on empty list")
	}
}

func TestListSplice(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		count   int
		insert  []any
		want    []string
		removed int
	}{
		{"replace middle", 1, 1, items(9, 8), []string{"1", "9", "8", "3"}, 1},
		{"insert only", 0, 0, items(0), []string{"0", "1", "2", "3"}, 0},
		{"delete tail", 1, 10, nil, []string{"1"}, 2},
		{"negative start", -1, 1, items(7), []string{"1", "2", "7"}, 1},
		{"start past end", 10, 1, items(4), []string{"1", "2", "3", "4"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, l, ul := mountList(t, items(1, 2, 3))
			removed := l.Splice(tt.start, tt.count, tt.insert...)
			if len(removed) != tt.removed {
				t.Errorf("removed %d, want %d", len(removed), tt.removed)
			}
			if got := texts(ul); !equal(got, tt.want) {
				t.Errorf("texts = %v, want %v", got, tt.want)
			}
			if !equal(values(l), tt.want) {
				t.Errorf("collection = %v, want %v", values(l), tt.want)
			}
			var idx []string
			for i := range tt.want {
				idx = append(idx, dom.ToString(i))
			}
			if got := attrs(ul, "data-i"); !equal(got, idx) {
				t.Errorf("indexes = %v, want %v", got, idx)
			}
		})
	}
}

func TestListSpliceKeepsTailCores(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2, 3))
	before := l.Items(ul)
	l.Splice(1, 1, items(9, 8)...)
	after := l.Items(ul)
	if after[0] != before[0] || after[3] != before[2] {
		t.Error("items outside the spliced region were re-created")
	}
	if after[3].Get(IndexRef) != 3 {
		t.Errorf("tail index = %v, want 3", after[3].Get(IndexRef))
	}
}

func TestListDelete(t *testing.T) {
	c, l, ul := mountList(t, items(1, 2, 3, 4))

	l.Delete(0, 2, 2)
	if got := texts(ul); !equal(got, []string{"2", "4"}) {
		t.Errorf("texts = %v", got)
	}

	l.Delete()
	if len(ul.ElementChildren()) != 0 || l.Len() != 0 {
		t.Errorf("delete all left %d nodes, %d values", len(ul.ElementChildren()), l.Len())
	}
	if c.Get("items").(Collection).Len() != 0 {
		t.Error("parent data not emptied")
	}

	l.Push(items(5)...)
	if got := texts(ul); !equal(got, []string{"5"}) {
		t.Errorf("push after clear = %v", got)
	}
}

func TestListSetItem(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2))
	before := l.Items(ul)

	l.SetItem(1, map[string]any{"v": 20})
	l.Set(map[string]any{"0": map[string]any{"v": 10}, "x": 1})
	if got := texts(ul); !equal(got, []string{"10", "20"}) {
		t.Errorf("texts = %v", got)
	}
	if l.Items(ul)[1] != before[1] {
		t.Error("SetItem re-created the item")
	}
	l.SetItem(9, nil)
}

func TestListReactOn(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2, 3))
	coll := l.Collection()

	coll.SetAt(0, map[string]any{"v": 7})
	coll.Pop()
	l.ReactOn(ul)
	if got := texts(ul); !equal(got, []string{"7", "2"}) {
		t.Errorf("texts = %v", got)
	}

	coll.Push(items(5, 6)...)
	l.React()
	if got := texts(ul); !equal(got, []string{"7", "2", "5", "6"}) {
		t.Errorf("texts = %v", got)
	}
	if got := attrs(ul, "data-i"); !equal(got, []string{"0", "1", "2", "3"}) {
		t.Errorf("indexes = %v", got)
	}
}

func TestListParentValueChanges(t *testing.T) {
	c, l, ul := mountList(t, items(1, 2))

	c.Set(map[string]any{"items": nil})
	if !l.Hidden() || ul.Style("display") != "none" {
		t.Fatalf("hidden=%v display=%q", l.Hidden(), ul.Style("display"))
	}

	c.Set(map[string]any{"items": items(8)})
	if l.Hidden() || ul.HasAttribute("style") {
		t.Errorf("hidden=%v style=%q", l.Hidden(), attr(ul, "style"))
	}
	if got := texts(ul); !equal(got, []string{"8"}) {
		t.Errorf("texts = %v", got)
	}
	if c.Get("items") != l.Collection() {
		t.Error("new value not shared with the parent")
	}

	l.Push(items(9)...)
	c.React("items")
	if got := texts(ul); !equal(got, []string{"8", "9"}) {
		t.Errorf("same collection resync = %v", got)
	}
}

func TestListWithoutIndex(t *testing.T) {
	root := parse(t, `<ol id="ol" b-iter="xs"><li b-text="item" data-i.attr="index"></li></ol>`)
	c := New(map[string]any{"xs": []string{"a", "b"}}, quiet())
	if err := c.Add(root); err != nil {
		t.Fatal(err)
	}
	ol := find(t, root, "ol")
	if got := texts(ol); !equal(got, []string{"a", "b"}) {
		t.Errorf("texts = %v", got)
	}
	if ol.ElementChildren()[0].HasAttribute("data-i") {
		t.Error("index should not resolve without index-wrapping")
	}
}

func TestListTemplateWithText(t *testing.T) {
	root := parse(t, "<ul id=\"ul\" b-iter=\"xs\">\n  <li b-text=\"item\"></li>\n</ul>")
	c := New(map[string]any{"xs": []any{"a", "b", "c"}}, quiet())
	if err := c.Add(root); err != nil {
		t.Fatal(err)
	}
	ul := find(t, root, "ul")
	l := c.Child("xs").(*List)

	if n := ul.ChildCount(); n != 9 {
		t.Errorf("child nodes = %d, want 3 per item", n)
	}
	l.Move(0, 2, false)
	if got := texts(ul); !equal(got, []string{"b", "c", "a"}) {
		t.Errorf("texts = %v", got)
	}
	l.Move(0, 1, true)
	if got := texts(ul); !equal(got, []string{"c", "b", "a"}) {
		t.Errorf("texts = %v", got)
	}
	if n := ul.ChildCount(); n != 9 {
		t.Errorf("child nodes after moves = %d", n)
	}
}

func TestListTemplateReplace(t *testing.T) {
	_, l, ul := mountList(t, items(1, 2))

	fresh := dom.NewElement("li")
	fresh.SetAttribute("class", "new")
	fresh.SetAttribute("b-text", "item.v")
	ul.AppendChild(fresh)

	tpl := l.Template(ul, true)
	if tpl.ChildCount() != 1 || len(ul.Children()) != 0 {
		t.Fatalf("template has %d nodes, ul keeps %d", tpl.ChildCount(), len(ul.Children()))
	}
	if err := l.Add(ul); err != nil {
		t.Fatal(err)
	}
	if got := attrs(ul, "class"); !equal(got, []string{"new", "new"}) {
		t.Errorf("classes = %v", got)
	}
	if got := texts(ul); !equal(got, []string{"1", "2"}) {
		t.Errorf("texts = %v", got)
	}
}

func TestListMultipleMounts(t *testing.T) {
	root := parse(t, `<ul id="a" b-iter="xs"><li b-text="item"></li></ul><ol id="b" b-iter="xs"><li b-text="item"></li></ol>`)
	c := New(map[string]any{"xs": []any{"x"}}, quiet())
	if err := c.Add(root); err != nil {
		t.Fatal(err)
	}
	a, b := find(t, root, "a"), find(t, root, "b")
	l := c.Child("xs").(*List)

	l.Push("y")
	if !equal(texts(a), []string{"x", "y"}) || !equal(texts(b), []string{"x", "y"}) {
		t.Errorf("texts = %v / %v", texts(a), texts(b))
	}

	l.Collection().SetAt(0, "z")
	l.ReactOn(a)
	if texts(a)[0] != "z" || texts(b)[0] != "x" {
		t.Errorf("ReactOn touched other mount: %v / %v", texts(a), texts(b))
	}
}

func TestListObserverAndNestedLists(t *testing.T) {
	obs := newCounter()
	root := parse(t, `<div id="rows" b-iter="rows"><p b-iter="item"><i b-text="item"></i></p></div>`)
	c := New(map[string]any{"rows": []any{[]any{"a", "b"}, []any{"c"}}}, quiet(), WithObserver(obs))
	if err := c.Add(root); err != nil {
		t.Fatal(err)
	}
	rows := find(t, root, "rows")
	if got := rows.TextContent(); got != "abc" {
		t.Errorf("text = %q", got)
	}
	l := c.Child("rows").(*List)
	l.Push([]any{"d"})
	l.Move(0, 2, true)
	if got := rows.TextContent(); got != "dcab" {
		t.Errorf("text = %q", got)
	}
	if !equal(obs.ops, []string{"push", "swap"}) {
		t.Errorf("ops = %v", obs.ops)
	}
}

func TestListTeardown(t *testing.T) {
	c, l, ul := mountList(t, items(1, 2))
	c.Delete("items")
	if len(ul.ElementChildren()) != 0 {
		t.Errorf("teardown left %d items", len(ul.ElementChildren()))
	}
	if c.Child("items") != nil || len(l.Items(ul)) != 0 {
		t.Error("list bookkeeping survived")
	}
}
