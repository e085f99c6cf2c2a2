package dom

import (
	"sort"
	"strings"
)

// Attribute returns the value of attribute name.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether attribute name is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// SetAttribute sets attribute name, keeping its position if it exists.
func (n *Node) SetAttribute(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// RemoveAttribute removes attribute name. It reports whether it existed.
func (n *Node) RemoveAttribute(name string) bool {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attributes returns a copy of the attributes in insertion order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Prop returns property name. Reflected properties read through to the
// element (textContent, className, id, hidden).
func (n *Node) Prop(name string) (any, bool) {
	switch name {
	case "textContent":
		return n.TextContent(), true
	case "className":
		v, ok := n.Attribute("class")
		return v, ok
	case "id":
		v, ok := n.Attribute("id")
		return v, ok
	case "hidden":
		return n.HasAttribute("hidden"), true
	}
	v, ok := n.props[name]
	return v, ok
}

// HasProp reports whether property name is set on the element. Reflected
// properties are never reported as own properties.
func (n *Node) HasProp(name string) bool {
	_, ok := n.props[name]
	return ok
}

// PropNames returns the own property names in sorted order.
func (n *Node) PropNames() []string {
	names := make([]string, 0, len(n.props))
	for k := range n.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetPropValue stores a plain property value without reflection.
func (n *Node) SetPropValue(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

// DeletePropValue removes a plain property value.
func (n *Node) DeletePropValue(name string) {
	delete(n.props, name)
}

// Style returns the inline style value for property name (e.g. "display").
func (n *Node) Style(name string) string {
	style, _ := n.Attribute("style")
	for _, decl := range parseStyle(style) {
		if decl.Name == name {
			return decl.Value
		}
	}
	return ""
}

// SetStyle sets inline style property name. An empty value removes it; the
// style attribute is dropped once no declarations remain.
func (n *Node) SetStyle(name, value string) {
	style, _ := n.Attribute("style")
	decls := parseStyle(style)
	found := false
	out := decls[:0]
	for _, d := range decls {
		if d.Name == name {
			found = true
			if value == "" {
				continue
			}
			d.Value = value
		}
		out = append(out, d)
	}
	if !found && value != "" {
		out = append(out, Attr{Name: name, Value: value})
	}
	if len(out) == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", formatStyle(out))
}

func parseStyle(style string) []Attr {
	var decls []Attr
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		decls = append(decls, Attr{Name: strings.ToLower(name), Value: value})
	}
	return decls
}

func formatStyle(decls []Attr) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Name + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}
