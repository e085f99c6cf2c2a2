package dom

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// voidElements have no closing tag and never hold children.
var voidElements = set(
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
)

// inlineElements stay on one line in pretty-printed output.
var inlineElements = set(
	"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn",
	"em", "i", "kbd", "label", "mark", "q", "s", "samp", "small", "span",
	"strong", "sub", "sup", "time", "u", "var", "wbr",
)

// booleanAttrs are written without a value when true and removed when false.
var booleanAttrs = set(
	"allowfullscreen", "async", "autofocus", "autoplay", "checked",
	"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
	"inert", "ismap", "itemscope", "loop", "multiple", "muted", "nomodule",
	"novalidate", "open", "playsinline", "readonly", "required", "reversed",
	"selected",
)

func isVoidElement(tag string) bool {
	_, ok := voidElements[tag]
	return ok
}

func isInlineElement(tag string) bool {
	_, ok := inlineElements[tag]
	return ok
}

func isBooleanAttr(name string) bool {
	_, ok := booleanAttrs[name]
	return ok
}
