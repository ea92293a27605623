package css

import "strings"

// Selector is anything which renders to CSS selector text. Both simple
// (SelectorBuilder) and complex (CombinedSelector) selectors implement it, so
// they could be combined with each other to any depth.
type Selector interface {
	Stringify() (string, error)
}

// SelectorBuilder accumulates parts of a single compound selector:
//
//	element#id.class[attr]:pseudoClass::pseudoElement
//	          \----/\----/\----------/
//	          can be several occurrences
//
// Every mutating method returns the builder itself so calls could be chained.
// The first rejected part is remembered, later calls are ignored and the error
// is reported by Err and Stringify. Builder must not be modified concurrently.
type SelectorBuilder struct {
	element       string
	id            string
	classes       []string
	attributes    []string
	pseudoClasses []string
	pseudoElement string

	present uint8    // bit set of categories which have at least one part
	reached Category // highest category added so far
	err     error
}

// NewSelector returns empty builder. Zero value SelectorBuilder is ready to use
// as well.
func NewSelector() *SelectorBuilder {
	return &SelectorBuilder{}
}

// Element sets type selector (tag name or "*").
func (b *SelectorBuilder) Element(value string) *SelectorBuilder {
	if b.accept(CategoryElement, value) {
		b.element = value
	}
	return b
}

// ID sets id selector, value is without leading '#'.
func (b *SelectorBuilder) ID(value string) *SelectorBuilder {
	if b.accept(CategoryID, value) {
		b.id = value
	}
	return b
}

// Class adds class selector, value is without leading '.'.
func (b *SelectorBuilder) Class(value string) *SelectorBuilder {
	if b.accept(CategoryClass, value) {
		b.classes = append(b.classes, value)
	}
	return b
}

// Attr adds attribute selector, value is what goes between brackets, for
// example `href$=".png"`. Value is not checked or escaped, see Attribute.
func (b *SelectorBuilder) Attr(value string) *SelectorBuilder {
	if b.accept(CategoryAttribute, value) {
		b.attributes = append(b.attributes, value)
	}
	return b
}

// PseudoClass adds pseudo-class, value is without leading ':', for example
// "nth-of-type(even)".
func (b *SelectorBuilder) PseudoClass(value string) *SelectorBuilder {
	if b.accept(CategoryPseudoClass, value) {
		b.pseudoClasses = append(b.pseudoClasses, value)
	}
	return b
}

// PseudoElement sets pseudo-element, value is without leading "::".
func (b *SelectorBuilder) PseudoElement(value string) *SelectorBuilder {
	if b.accept(CategoryPseudoElement, value) {
		b.pseudoElement = value
	}
	return b
}

// Add adds part of requested category. It is used when category is only known
// at run time. Unknown category is recorded as error like any other rejected
// part.
func (b *SelectorBuilder) Add(c Category, value string) *SelectorBuilder {
	switch c {
	case CategoryElement:
		return b.Element(value)
	case CategoryID:
		return b.ID(value)
	case CategoryClass:
		return b.Class(value)
	case CategoryAttribute:
		return b.Attr(value)
	case CategoryPseudoClass:
		return b.PseudoClass(value)
	case CategoryPseudoElement:
		return b.PseudoElement(value)
	}
	if b.err == nil {
		b.err = &PartError{Category: c, Reached: b.reached, Value: value, Err: ErrUnknownCategory}
	}
	return b
}

// accept checks that part of category c could be added and records it.
func (b *SelectorBuilder) accept(c Category, value string) bool {
	if b.err != nil {
		return false
	}
	if c.Unique() && b.has(c) {
		b.err = &PartError{Category: c, Reached: b.reached, Value: value, Err: ErrDuplicatePart}
		return false
	}
	if c < b.reached {
		b.err = &PartError{Category: c, Reached: b.reached, Value: value, Err: ErrOrder}
		return false
	}
	b.present |= 1 << c
	b.reached = c
	return true
}

func (b *SelectorBuilder) has(c Category) bool {
	return b.present&(1<<c) != 0
}

// Err returns the first error encountered while building the selector.
func (b *SelectorBuilder) Err() error {
	return b.err
}

// Empty reports whether no parts were added.
func (b *SelectorBuilder) Empty() bool {
	return b.present == 0
}

// Stringify returns CSS text of the selector or the error which broke the
// chain. It does not modify the builder.
func (b *SelectorBuilder) Stringify() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.String(), nil
}

// String renders accepted parts, ignoring any error.
func (b *SelectorBuilder) String() string {
	var sb strings.Builder
	sb.WriteString(b.element)
	if b.has(CategoryID) {
		sb.WriteString(CategoryID.prefix())
		sb.WriteString(b.id)
	}
	for _, v := range b.classes {
		sb.WriteString(CategoryClass.prefix())
		sb.WriteString(v)
	}
	for _, v := range b.attributes {
		sb.WriteString(CategoryAttribute.prefix())
		sb.WriteString(v)
		sb.WriteByte(']')
	}
	for _, v := range b.pseudoClasses {
		sb.WriteString(CategoryPseudoClass.prefix())
		sb.WriteString(v)
	}
	if b.has(CategoryPseudoElement) {
		sb.WriteString(CategoryPseudoElement.prefix())
		sb.WriteString(b.pseudoElement)
	}
	return sb.String()
}

// Attribute formats attribute selector value `name op "value"` suitable for
// Attr. Value is quoted and escaped. Empty op produces presence test `name`.
func Attribute(name, op, value string) string {
	if op == "" {
		return name
	}
	return name + op + quoteAttrValue(value)
}
