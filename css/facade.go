package css

// Functions below start new selector chains, e.g.
//
//	css.Element("a").Attr(`href$=".png"`).PseudoClass("focus")
//
// Each call returns a fresh builder, nothing is shared between chains.

// Element starts new selector with type selector.
func Element(value string) *SelectorBuilder {
	return NewSelector().Element(value)
}

// ID starts new selector with id selector.
func ID(value string) *SelectorBuilder {
	return NewSelector().ID(value)
}

// Class starts new selector with class selector.
func Class(value string) *SelectorBuilder {
	return NewSelector().Class(value)
}

// Attr starts new selector with attribute selector.
func Attr(value string) *SelectorBuilder {
	return NewSelector().Attr(value)
}

// PseudoClass starts new selector with pseudo-class.
func PseudoClass(value string) *SelectorBuilder {
	return NewSelector().PseudoClass(value)
}

// PseudoElement starts new selector with pseudo-element.
func PseudoElement(value string) *SelectorBuilder {
	return NewSelector().PseudoElement(value)
}

// Combine joins two built selectors with combinator. Combinator is not
// validated here, use ParseCombinator or Combinator.Valid on untrusted input.
func Combine(left Selector, combinator Combinator, right Selector) *CombinedSelector {
	return &CombinedSelector{left: left, combinator: combinator, right: right}
}
