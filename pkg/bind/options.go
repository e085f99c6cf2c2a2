package bind

import (
	"log/slog"

	"github.com/vango-dev/bindery/pkg/directive"
	"github.com/vango-dev/bindery/pkg/dom"
)

// Writer writes single members on elements. A nil value removes the
// attribute or deletes the property.
type Writer interface {
	SetAttr(el *dom.Node, name string, value any)
	SetProp(el *dom.Node, name string, value any)
}

// DOMWriter is the default Writer backed by dom.SetAttr and dom.SetProp.
type DOMWriter struct{}

func (DOMWriter) SetAttr(el *dom.Node, name string, value any) { dom.SetAttr(el, name, value) }
func (DOMWriter) SetProp(el *dom.Node, name string, value any) { dom.SetProp(el, name, value) }

// Observer receives binding activity. Implementations must be cheap; they
// run inline with propagation.
type Observer interface {
	// Reacted is called once per reference processed by React, with the
	// number of member writes performed.
	Reacted(name string, writes int)

	// ParseFailed is called for every directive skipped during scanning.
	ParseFailed(err error)

	// ListOp is called for every structural list operation.
	ListOp(op string, items int)
}

type nopObserver struct{}

func (nopObserver) Reacted(string, int) {}
func (nopObserver) ParseFailed(error)   {}
func (nopObserver) ListOp(string, int)  {}

// Suffixes select the member target of a bound attribute.
type Suffixes struct {
	// Attr marks element attribute bindings: title.attr="tip".
	Attr string

	// Prop marks element property bindings: text-content.prop="msg".
	// Kebab-case names are converted to camelCase.
	Prop string
}

// Names are the reserved directive attribute names.
type Names struct {
	// Text is shorthand for a textContent property binding.
	Text string

	// Ref opens a nested scope over a sub-object.
	Ref string

	// Iter opens a list scope over an ordered collection.
	Iter string

	// Closed stops the scan: descendants are never scanned.
	Closed string
}

// Separators are the directive grammar separators.
type Separators struct {
	Ref   string
	Multi string
	Calc  string
}

// RefFactory creates the scope for a b-ref element.
type RefFactory func(parent *Core, name string, value any) Scope

// IterFactory creates the scope for a b-iter element.
type IterFactory func(parent *Core, name string, coll Collection) Scope

// ItemFactory creates the core for one list item.
type ItemFactory func(list *List, item any, index int) *Core

// Options configures a Core. Child scopes inherit their parent's options.
type Options struct {
	Suffix Suffixes
	Attr   Names
	Sep    Separators

	// Calc is the registry of named calculations for multivalue
	// expressions.
	Calc map[string]directive.CalcFunc

	// Self is the keyword that resolves to a core's whole data value.
	Self string

	// Index enables index-wrapping: list items expose their position as
	// the reactive reference "index".
	Index bool

	Ref  RefFactory
	Iter IterFactory
	Item ItemFactory

	Writer   Writer
	Logger   *slog.Logger
	Observer Observer
}

// Option configures Options.
type Option func(*Options)

// Default directive names and suffixes.
const (
	DefaultAttrSuffix = ".attr"
	DefaultPropSuffix = ".prop"
	DefaultText       = "b-text"
	DefaultRef        = "b-ref"
	DefaultIter       = "b-iter"
	DefaultClosed     = "b-closed"
	DefaultSelf       = "self"
)

// Reference names exposed by list item cores.
const (
	ItemRef  = "item"
	IndexRef = "index"
)

// DefaultOptions returns the default option set.
func DefaultOptions() Options {
	return Options{
		Suffix: Suffixes{Attr: DefaultAttrSuffix, Prop: DefaultPropSuffix},
		Attr: Names{
			Text:   DefaultText,
			Ref:    DefaultRef,
			Iter:   DefaultIter,
			Closed: DefaultClosed,
		},
		Sep: Separators{
			Ref:   directive.DefaultRefSep,
			Multi: directive.DefaultMultiSep,
			Calc:  directive.DefaultCalcSep,
		},
		Calc: map[string]directive.CalcFunc{},
		Self: DefaultSelf,
	}
}

// applyDefaults fills zero fields so partially built Options stay usable.
func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.Suffix.Attr == "" {
		o.Suffix.Attr = d.Suffix.Attr
	}
	if o.Suffix.Prop == "" {
		o.Suffix.Prop = d.Suffix.Prop
	}
	if o.Attr.Text == "" {
		o.Attr.Text = d.Attr.Text
	}
	if o.Attr.Ref == "" {
		o.Attr.Ref = d.Attr.Ref
	}
	if o.Attr.Iter == "" {
		o.Attr.Iter = d.Attr.Iter
	}
	if o.Attr.Closed == "" {
		o.Attr.Closed = d.Attr.Closed
	}
	if o.Sep.Ref == "" {
		o.Sep.Ref = d.Sep.Ref
	}
	if o.Sep.Multi == "" {
		o.Sep.Multi = d.Sep.Multi
	}
	if o.Sep.Calc == "" {
		o.Sep.Calc = d.Sep.Calc
	}
	if o.Calc == nil {
		o.Calc = map[string]directive.CalcFunc{}
	}
	if o.Self == "" {
		o.Self = d.Self
	}
	if o.Ref == nil {
		o.Ref = defaultRefFactory
	}
	if o.Iter == nil {
		o.Iter = defaultIterFactory
	}
	if o.Item == nil {
		o.Item = NewItem
	}
	if o.Writer == nil {
		o.Writer = DOMWriter{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
}

func (o *Options) grammar() directive.Grammar {
	return directive.Grammar{
		RefSep:   o.Sep.Ref,
		MultiSep: o.Sep.Multi,
		CalcSep:  o.Sep.Calc,
		Calc:     o.Calc,
	}
}

// WithOptions replaces the whole option set. Later options still apply.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// WithSuffix sets the attribute and property target suffixes.
func WithSuffix(attr, prop string) Option {
	return func(o *Options) {
		o.Suffix = Suffixes{Attr: attr, Prop: prop}
	}
}

// WithNames sets the reserved directive attribute names.
func WithNames(names Names) Option {
	return func(o *Options) {
		o.Attr = names
	}
}

// WithGrammar sets the directive separators.
func WithGrammar(sep Separators) Option {
	return func(o *Options) {
		o.Sep = sep
	}
}

// WithCalc registers a named calculation.
func WithCalc(name string, fn directive.CalcFunc) Option {
	return func(o *Options) {
		if o.Calc == nil {
			o.Calc = map[string]directive.CalcFunc{}
		}
		o.Calc[name] = fn
	}
}

// WithSelf sets the self-reference keyword.
func WithSelf(keyword string) Option {
	return func(o *Options) {
		o.Self = keyword
	}
}

// WithIndex enables or disables index-wrapping for list items.
func WithIndex(enabled bool) Option {
	return func(o *Options) {
		o.Index = enabled
	}
}

// WithWriter sets the member writer.
func WithWriter(w Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver sets the activity observer.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// WithRefFactory overrides the constructor for b-ref scopes.
func WithRefFactory(f RefFactory) Option {
	return func(o *Options) {
		o.Ref = f
	}
}

// WithIterFactory overrides the constructor for b-iter scopes.
func WithIterFactory(f IterFactory) Option {
	return func(o *Options) {
		o.Iter = f
	}
}

// WithItemFactory overrides the constructor for list item cores.
func WithItemFactory(f ItemFactory) Option {
	return func(o *Options) {
		o.Item = f
	}
}

// IsDirective reports whether an attribute name is a binding directive
// under these options. Renderers use it to strip directives from output.
func (o Options) IsDirective(name string) bool {
	o.applyDefaults()
	switch name {
	case o.Attr.Text, o.Attr.Ref, o.Attr.Iter, o.Attr.Closed:
		return true
	}
	return hasSuffix(name, o.Suffix.Attr) || hasSuffix(name, o.Suffix.Prop)
}
