package dom

import "testing"

func TestNodeIDsAreUnique(t *testing.T) {
	a := NewElement("div")
	b := NewElement("div")
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct IDs, got %d twice", a.ID())
	}
	if c := a.Clone(false); c.ID() == a.ID() {
		t.Error("clone should get a fresh ID")
	}
}

func TestAppendAndInsertBefore(t *testing.T) {
	ul := NewElement("ul")
	a := NewElement("li")
	b := NewElement("li")
	c := NewElement("li")

	ul.AppendChild(a)
	ul.AppendChild(c)
	ul.InsertBefore(b, c)

	got := ul.Children()
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("unexpected order: %v", got)
	}
	if b.Parent() != ul {
		t.Error("parent not set")
	}
	if a.NextSibling() != b || c.NextSibling() != nil {
		t.Error("NextSibling mismatch")
	}

	// Moving an attached node detaches it first.
	ul.InsertBefore(c, a)
	got = ul.Children()
	if got[0] != c || got[1] != a || got[2] != b {
		t.Fatalf("move failed: %v", got)
	}

	// Inserting a node before itself is a no-op.
	ul.InsertBefore(a, a)
	if ul.IndexOf(a) != 1 {
		t.Errorf("IndexOf(a) = %d, want 1", ul.IndexOf(a))
	}
}

func TestAppendFragmentMovesChildren(t *testing.T) {
	frag := NewFragment(NewElement("b"), NewText("x"))
	p := NewElement("p")
	p.AppendChild(frag)

	if p.ChildCount() != 2 {
		t.Fatalf("ChildCount = %d, want 2", p.ChildCount())
	}
	if frag.ChildCount() != 0 {
		t.Error("fragment should be emptied")
	}
}

func TestRemove(t *testing.T) {
	p := NewElement("p")
	s := NewElement("span")
	p.AppendChild(s)

	s.Remove()
	if s.Parent() != nil || p.ChildCount() != 0 {
		t.Error("Remove did not detach")
	}
	if p.RemoveChild(s) {
		t.Error("RemoveChild of non-child should report false")
	}
}

func TestCloneDeep(t *testing.T) {
	src := NewElement("li", NewElement("span", NewText("hi")))
	src.SetAttribute("class", "item")
	src.SetPropValue("counter", 3)

	c := src.Clone(true)
	if c.Parent() != nil {
		t.Error("clone should be detached")
	}
	if v, _ := c.Attribute("class"); v != "item" {
		t.Errorf("class = %q", v)
	}
	if v, _ := c.Prop("counter"); v != 3 {
		t.Errorf("counter = %v", v)
	}
	if c.TextContent() != "hi" {
		t.Errorf("TextContent = %q", c.TextContent())
	}

	c.SetAttribute("class", "other")
	if v, _ := src.Attribute("class"); v != "item" {
		t.Error("clone shares attributes with source")
	}
	if c.FirstChild() == src.FirstChild() {
		t.Error("deep clone shares children")
	}

	shallow := src.Clone(false)
	if shallow.ChildCount() != 0 {
		t.Error("shallow clone copied children")
	}
}

func TestWalkSkipsDescendants(t *testing.T) {
	root := NewElement("div",
		NewElement("section", NewElement("p")),
		NewElement("aside"),
	)
	var seen []string
	root.Walk(func(n *Node) bool {
		seen = append(seen, n.Tag)
		return n.Tag != "section"
	})
	want := []string{"div", "section", "aside"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestTextContent(t *testing.T) {
	p := NewElement("p", NewText("a"), NewElement("b", NewText("b")), NewComment("c"))
	if p.TextContent() != "ab" {
		t.Errorf("TextContent = %q", p.TextContent())
	}
	p.SetTextContent("z")
	if p.ChildCount() != 1 || p.TextContent() != "z" {
		t.Errorf("SetTextContent failed: %q", p.InnerHTML())
	}
	p.SetTextContent("")
	if p.ChildCount() != 0 {
		t.Error("empty text should clear children")
	}
}

func TestSelector(t *testing.T) {
	li := NewElement("li")
	li.SetAttribute("id", "first")
	li.SetAttribute("class", "item active")
	if got := li.Selector(); got != "li#first.item.active" {
		t.Errorf("Selector = %q", got)
	}
	if got := NewText("x").Selector(); got != "#text" {
		t.Errorf("text Selector = %q", got)
	}
}

func TestContains(t *testing.T) {
	inner := NewElement("i")
	outer := NewElement("div", NewElement("p", inner))
	if !outer.Contains(inner) || inner.Contains(outer) {
		t.Error("Contains mismatch")
	}
}
