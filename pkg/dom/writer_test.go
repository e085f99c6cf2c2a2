package dom

import "testing"

func TestSetAttr(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   any
		want    string
		present bool
	}{
		{"string", "title", "hello", "hello", true},
		{"int", "data-n", 42, "42", true},
		{"float", "data-x", 1.5, "1.5", true},
		{"bool plain attr", "aria-busy", true, "true", true},
		{"boolean attr true", "disabled", true, "", true},
		{"boolean attr false", "disabled", false, "", false},
		{"nil removes", "title", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := NewElement("button")
			el.SetAttribute(tt.attr, "old")
			SetAttr(el, tt.attr, tt.value)

			got, ok := el.Attribute(tt.attr)
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if ok && got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetProp(t *testing.T) {
	el := NewElement("input")

	SetProp(el, "value", "abc")
	if v, _ := el.Prop("value"); v != "abc" {
		t.Errorf("value = %v", v)
	}
	SetProp(el, "value", nil)
	if el.HasProp("value") {
		t.Error("nil should delete the property")
	}

	p := NewElement("p")
	SetProp(p, "textContent", 12)
	if p.TextContent() != "12" {
		t.Errorf("textContent = %q", p.TextContent())
	}
	SetProp(p, "textContent", nil)
	if p.ChildCount() != 0 {
		t.Error("nil textContent should clear children")
	}

	SetProp(p, "className", "a b")
	if v, _ := p.Attribute("class"); v != "a b" {
		t.Errorf("class = %q", v)
	}
	SetProp(p, "hidden", true)
	if !p.HasAttribute("hidden") {
		t.Error("hidden not reflected")
	}
	SetProp(p, "hidden", nil)
	if p.HasAttribute("hidden") {
		t.Error("hidden not removed")
	}
}

type stringer struct{}

func (stringer) String() string { return "S" }

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{7, "7"},
		{int64(8), "8"},
		{2.50, "2.5"},
		{stringer{}, "S"},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
