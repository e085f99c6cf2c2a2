package bind

import (
	"encoding/json"
	"reflect"
)

// Collection is the ordered, index-addressable, mutable sequence a List
// reconciles against.
type Collection interface {
	Len() int
	At(i int) any
	SetAt(i int, value any)
	Push(items ...any)
	Pop() any
	// Splice removes deleteCount items at start, inserts items there and
	// returns the removed items. start and deleteCount are already
	// clamped by the caller.
	Splice(start, deleteCount int, items ...any) []any
}

// Slice is the default Collection.
type Slice struct {
	items []any
}

// NewSlice creates a Slice holding items. The slice is used as is.
func NewSlice(items ...any) *Slice {
	return &Slice{items: items}
}

// Values returns a copy of the items.
func (s *Slice) Values() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Slice) Len() int               { return len(s.items) }
func (s *Slice) At(i int) any           { return s.items[i] }
func (s *Slice) SetAt(i int, value any) { s.items[i] = value }

func (s *Slice) Push(items ...any) {
	s.items = append(s.items, items...)
}

func (s *Slice) Pop() any {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return last
}

func (s *Slice) Splice(start, deleteCount int, items ...any) []any {
	removed := make([]any, deleteCount)
	copy(removed, s.items[start:start+deleteCount])

	tail := make([]any, len(s.items)-start-deleteCount)
	copy(tail, s.items[start+deleteCount:])

	s.items = append(s.items[:start], items...)
	s.items = append(s.items, tail...)
	return removed
}

// MarshalJSON encodes the items as a JSON array.
func (s *Slice) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.items)
}

// toCollection adapts a data value to a Collection. nil becomes an empty
// Slice; []any is wrapped without copying; other slices are copied.
func toCollection(v any) (Collection, bool) {
	switch c := v.(type) {
	case nil:
		return NewSlice(), true
	case Collection:
		return c, true
	case []any:
		return NewSlice(c...), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return NewSlice(items...), true
}
