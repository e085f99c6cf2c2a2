package bind

import (
	"strings"

	"github.com/vango-dev/bindery/pkg/dom"
)

// Reaction is a recorded obligation to write a reference's value into one
// element member. A plain reaction writes the value as is; a multivalue
// reaction feeds slot Index of Cell and writes the combined value.
type Reaction struct {
	Member string
	Cell   *Cell
	Index  int
}

// Multi reports whether r is a multivalue reaction.
func (r Reaction) Multi() bool {
	return r.Cell != nil
}

// entry holds the reactions of one reference name, per element, in
// registration order.
type entry struct {
	els       []*dom.Node
	reactions map[*dom.Node][]Reaction
}

// registry maps reference names to the element members depending on them.
// Iteration follows registration order.
type registry struct {
	names   []string
	entries map[string]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry)}
}

// addRef records reaction for name on el. Re-adding an identical reaction
// is a no-op; it reports whether the reaction was new.
func (r *registry) addRef(name string, el *dom.Node, reaction Reaction) bool {
	e, ok := r.entries[name]
	if !ok {
		e = &entry{reactions: make(map[*dom.Node][]Reaction)}
		r.entries[name] = e
		r.names = append(r.names, name)
	}
	existing, seen := e.reactions[el]
	for _, x := range existing {
		if x == reaction {
			return false
		}
	}
	if !seen {
		e.els = append(e.els, el)
	}
	e.reactions[el] = append(existing, reaction)
	return true
}

// has reports whether name has any reactions.
func (r *registry) has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// each calls fn for every reaction registered under name.
func (r *registry) each(name string, fn func(el *dom.Node, reaction Reaction)) {
	e, ok := r.entries[name]
	if !ok {
		return
	}
	for _, el := range e.els {
		for _, reaction := range e.reactions[el] {
			fn(el, reaction)
		}
	}
}

// remove drops name's entry.
func (r *registry) remove(name string) {
	if _, ok := r.entries[name]; !ok {
		return
	}
	delete(r.entries, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// clear drops every entry.
func (r *registry) clear() {
	r.names = nil
	r.entries = make(map[string]*entry)
}

// keys returns the registered names in registration order.
func (r *registry) keys() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// matching returns the registered names equal to name or nested below it
// ("user" matches "user" and "user.name").
func (r *registry) matching(name string) []string {
	var out []string
	for _, n := range r.names {
		if covers(name, n) {
			out = append(out, n)
		}
	}
	return out
}

// cells returns the set of cells still referenced by some reaction.
func (r *registry) cells(into map[*Cell]bool) {
	for _, e := range r.entries {
		for _, reactions := range e.reactions {
			for _, reaction := range reactions {
				if reaction.Cell != nil {
					into[reaction.Cell] = true
				}
			}
		}
	}
}

// size returns the number of reactions registered.
func (r *registry) size() int {
	n := 0
	for _, e := range r.entries {
		for _, reactions := range e.reactions {
			n += len(reactions)
		}
	}
	return n
}

// covers reports whether reference path is name itself or nested below it.
func covers(name, path string) bool {
	return path == name || strings.HasPrefix(path, name+".")
}
