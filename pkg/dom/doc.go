// Package dom provides the live element tree that bindings write into.
//
// A Node is an element, a text node, a comment or a fragment. Elements hold
// ordered attributes, a property map and children. Unlike a virtual DOM the
// tree is mutated in place: the binding engine writes attribute and
// property values straight into the nodes it has mounted.
//
// # Building Trees
//
// Trees come from markup or are assembled by hand:
//
//	root, err := dom.ParseFragment(strings.NewReader(`<p b-text="name"></p>`))
//
//	p := dom.NewElement("p")
//	p.SetAttribute("class", "lead")
//	p.AppendChild(dom.NewText("hello"))
//
// # Member Writer
//
// SetAttr and SetProp are the primitive member writers. A nil value removes
// the attribute or deletes the property.
//
// # Rendering
//
// Render serializes a tree to HTML with escaping, void elements and optional
// pretty printing. Properties are never rendered; reflected properties such
// as textContent and className are written through to the tree.
package dom
