package directive

import (
	"fmt"
	"strings"

	"github.com/vango-dev/bindery/internal/errors"
)

// CalcFunc combines the current values of a multivalue expression's
// participants, in expression order, into one written value.
type CalcFunc func(values ...any) any

// Default separators.
const (
	DefaultRefSep   = " "
	DefaultMultiSep = "+"
	DefaultCalcSep  = ":"
)

// Grammar is the option set the parser works with.
type Grammar struct {
	// RefSep separates expressions. A blank separator splits on any run
	// of whitespace.
	RefSep string

	// MultiSep joins the participants of a multivalue expression.
	MultiSep string

	// CalcSep introduces the calculation name.
	CalcSep string

	// Calc is the registry of named calculations.
	Calc map[string]CalcFunc
}

// DefaultGrammar returns the grammar with default separators and no
// calculations.
func DefaultGrammar() Grammar {
	return Grammar{
		RefSep:   DefaultRefSep,
		MultiSep: DefaultMultiSep,
		CalcSep:  DefaultCalcSep,
	}
}

func (g Grammar) withDefaults() Grammar {
	if g.MultiSep == "" {
		g.MultiSep = DefaultMultiSep
	}
	if g.CalcSep == "" {
		g.CalcSep = DefaultCalcSep
	}
	return g
}

// Expr is one parsed reference expression.
type Expr struct {
	// Text is the expression exactly as written. Multivalue cells are
	// shared by expressions with identical text.
	Text string

	// Refs are the participating reference names in order.
	Refs []string

	// Calc is the calculation name, empty for the default combiner.
	Calc string

	// Fn is the resolved calculation, nil for the default combiner.
	Fn CalcFunc
}

// Multi reports whether e is a multivalue expression. A single reference
// with an explicit calculation is a one-participant multivalue expression.
func (e Expr) Multi() bool {
	return len(e.Refs) > 1 || e.Calc != ""
}

// String returns the expression text.
func (e Expr) String() string {
	return e.Text
}

// Parse splits text into reference expressions.
func Parse(text string, g Grammar) ([]Expr, error) {
	g = g.withDefaults()

	var parts []string
	if strings.TrimSpace(g.RefSep) == "" {
		parts = strings.Fields(text)
	} else {
		for _, p := range strings.Split(text, g.RefSep) {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}
	if len(parts) == 0 {
		return nil, errors.New("B100")
	}

	exprs := make([]Expr, 0, len(parts))
	for _, p := range parts {
		e, err := ParseExpr(p, g)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// ParseExpr parses a single expression (no reference separators).
func ParseExpr(text string, g Grammar) (Expr, error) {
	g = g.withDefaults()
	e := Expr{Text: text}

	body := text
	if i := strings.Index(text, g.CalcSep); i >= 0 {
		body = text[:i]
		e.Calc = strings.TrimSpace(text[i+len(g.CalcSep):])
		if e.Calc == "" {
			return Expr{}, errors.New("B103").
				WithDetail(fmt.Sprintf("%q ends with %q", text, g.CalcSep))
		}
		fn, ok := g.Calc[e.Calc]
		if !ok || fn == nil {
			return Expr{}, errors.New("B102").
				WithDetail(fmt.Sprintf("%q is not registered", e.Calc))
		}
		e.Fn = fn
	}

	for _, name := range strings.Split(body, g.MultiSep) {
		name = strings.TrimSpace(name)
		if name == "" {
			return Expr{}, errors.New("B101").
				WithDetail(fmt.Sprintf("in %q", text))
		}
		e.Refs = append(e.Refs, name)
	}
	return e, nil
}
