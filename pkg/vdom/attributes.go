package vdom

import (
	"slices"
	"strings"
)

// attr creates a single attribute.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary prop.
func Prop(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Style sets the style attribute.
func Style(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TitleAttr sets the title attribute.
func TitleAttr(t string) Attr { return attr("title", t) }

// Value sets the value prop. The renderer applies it after all other props
// so constraints such as min and max are already in place.
func Value(value any) Attr { return attr("value", value) }

// ClassIf conditionally adds a class.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{}
}

// Classes builds a class attribute from strings, string slices and
// condition maps. Map entries are sorted so the output is stable.
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				result = append(result, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					result = append(result, s)
				}
			}
		case map[string]bool:
			var on []string
			for class, include := range v {
				if include && class != "" {
					on = append(on, class)
				}
			}
			slices.Sort(on)
			result = append(result, on...)
		}
	}
	return attr("class", strings.Join(result, " "))
}
