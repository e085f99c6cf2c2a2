package dom

import (
	"fmt"
	"strconv"
)

// SetAttr writes attribute name on el. A nil value removes the attribute.
// Boolean attributes follow HTML semantics: true writes the bare attribute,
// false removes it.
func SetAttr(el *Node, name string, value any) {
	if el == nil || el.Kind != KindElement {
		return
	}
	if value == nil {
		el.RemoveAttribute(name)
		return
	}
	if b, ok := value.(bool); ok && isBooleanAttr(name) {
		if b {
			el.SetAttribute(name, "")
		} else {
			el.RemoveAttribute(name)
		}
		return
	}
	el.SetAttribute(name, ToString(value))
}

// SetProp writes property name on el. A nil value deletes the property.
// textContent, className, id and hidden reflect into the tree.
func SetProp(el *Node, name string, value any) {
	if el == nil {
		return
	}
	switch name {
	case "textContent":
		el.SetTextContent(ToString(value))
		return
	case "className":
		SetAttr(el, "class", value)
		return
	case "id":
		SetAttr(el, "id", value)
		return
	case "hidden":
		if value == nil {
			el.RemoveAttribute("hidden")
			return
		}
		SetAttr(el, "hidden", truthy(value))
		return
	}
	if value == nil {
		el.DeletePropValue(name)
		return
	}
	el.SetPropValue(name, value)
}

// ToString converts a bound value to its written string form. nil becomes
// the empty string.
func ToString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
