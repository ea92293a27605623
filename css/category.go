package css

import "fmt"

// Category identifies the kind of a selector part. Categories are declared in
// the order parts must appear inside a compound selector.
type Category int

const (
	CategoryElement       Category = iota + 1 // div
	CategoryID                                // #main
	CategoryClass                             // .container
	CategoryAttribute                         // [href$=".png"]
	CategoryPseudoClass                       // :focus
	CategoryPseudoElement                     // ::before
)

var categoryNames = map[Category]string{
	CategoryElement:       "element",
	CategoryID:            "id",
	CategoryClass:         "class",
	CategoryAttribute:     "attribute",
	CategoryPseudoClass:   "pseudo-class",
	CategoryPseudoElement: "pseudo-element",
}

// String returns the CSS name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	if c == 0 {
		return "none"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Unique reports whether a selector may hold at most one part of this category.
func (c Category) Unique() bool {
	return c == CategoryElement || c == CategoryID || c == CategoryPseudoElement
}

// prefix is what precedes part value when rendering.
func (c Category) prefix() string {
	switch c {
	case CategoryID:
		return "#"
	case CategoryClass:
		return "."
	case CategoryAttribute:
		return "["
	case CategoryPseudoClass:
		return ":"
	case CategoryPseudoElement:
		return "::"
	default:
		return ""
	}
}
