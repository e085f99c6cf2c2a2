// Package bind is the reactive binding engine.
//
// A Core owns a data object and keeps the attributes and properties of the
// elements mounted into it in sync with that data. Bindings are declared in
// markup and registered when elements are added:
//
//	<p title.attr="tip" text-content.prop="first+last"></p>
//	<span b-text="user.name"></span>
//	<section b-ref="user"><b b-text="name"></b></section>
//	<ul b-iter="todos"><li b-text="item.title"></li></ul>
//
// Reactivity is explicit. Set, Delete and Call mutate data and push the
// affected values to the bound members; after mutating data directly, call
// React to resynchronize.
//
//	core := bind.New(map[string]any{"first": "Ada", "last": "Lovelace"})
//	if err := core.Add(root); err != nil {
//	    // some directives were malformed and skipped
//	}
//	core.Set(map[string]any{"first": "Grace"})
//
// # Reactions
//
// Each reference name maps to the (element, member) pairs that depend on
// it. A multivalue expression such as "first+last" or "a+b:join" shares one
// Cell between its participants; writing any participant recomputes the
// combined value.
//
// # Scopes
//
// b-ref opens a nested Core over a sub-object and b-iter opens a List,
// which renders its element's content once per collection item and keeps
// the item cores aligned with the collection through Push, Pop, Splice and
// Move. Setting a scope's reference to nil hides its elements; setting it
// back shows them.
//
// # Thread Safety
//
// A Core is single-threaded. Every operation runs to completion before
// returning; callers sharing a Core between goroutines must serialize access.
package bind
