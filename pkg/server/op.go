package server

import (
	"strings"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/bind"
)

// Op is one client operation.
type Op struct {
	ID  int64  `json:"id,omitempty"`
	Op  string `json:"op"`
	Ref string `json:"ref,omitempty"`

	// Values is the partial update for "set".
	Values map[string]any `json:"values,omitempty"`

	// Refs names the references for "delete" and "react".
	Refs []string `json:"refs,omitempty"`

	// Args are the arguments for "call".
	Args []any `json:"args,omitempty"`

	// Items are the values for "push" and "splice".
	Items []any `json:"items,omitempty"`

	Start int  `json:"start,omitempty"`
	Count int  `json:"count,omitempty"`
	From  int  `json:"from,omitempty"`
	To    int  `json:"to,omitempty"`
	Swap  bool `json:"swap,omitempty"`
}

// Operation names.
const (
	OpSet    = "set"
	OpDelete = "delete"
	OpReact  = "react"
	OpCall   = "call"
	OpPush   = "push"
	OpPop    = "pop"
	OpSplice = "splice"
	OpMove   = "move"
)

func (op Op) apply(core *bind.Core) (any, error) {
	switch op.Op {
	case OpSet:
		if len(op.Values) == 0 {
			return nil, invalid(op, "set needs values")
		}
		core.Set(op.Values)
		return nil, nil
	case OpDelete:
		if len(op.Refs) == 0 {
			return nil, invalid(op, "delete needs refs")
		}
		core.Delete(op.Refs...)
		return nil, nil
	case OpReact:
		core.React(op.Refs...)
		return nil, nil
	case OpCall:
		return core.Call(op.Ref, op.Args...)
	}

	list := listAt(core, op.Ref)
	switch op.Op {
	case OpPush, OpPop, OpSplice, OpMove:
		if list == nil {
			return nil, invalid(op, "no list is bound to "+strings.TrimSpace(op.Ref))
		}
	default:
		return nil, invalid(op, "unknown operation")
	}

	switch op.Op {
	case OpPush:
		list.Push(op.Items...)
		return list.Len(), nil
	case OpPop:
		return list.Pop(), nil
	case OpSplice:
		return list.Splice(op.Start, op.Count, op.Items...), nil
	default:
		return list.Move(op.From, op.To, op.Swap), nil
	}
}

// listAt resolves a dotted reference through nested scopes to a list.
func listAt(core *bind.Core, ref string) *bind.List {
	if ref == "" {
		return nil
	}
	segs := strings.Split(ref, ".")
	cur := core
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur.Child(seg).(*bind.Core)
		if !ok {
			return nil
		}
		cur = next
	}
	list, _ := cur.Child(segs[len(segs)-1]).(*bind.List)
	return list
}

func invalid(op Op, detail string) error {
	return errors.New("B402").WithDetail(op.Op + ": " + detail)
}
