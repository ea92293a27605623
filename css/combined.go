package css

import (
	"fmt"

	"go.uber.org/multierr"
)

// CombinedSelector is a pair of selectors joined by a combinator. Operands are
// rendered when Stringify is called, so they could be any Selector including
// other combined selectors.
type CombinedSelector struct {
	left       Selector
	combinator Combinator
	right      Selector
}

// Combinator returns the combinator joining operands.
func (s *CombinedSelector) Combinator() Combinator {
	return s.combinator
}

// Stringify renders "<left> <combinator> <right>". Combinator is always
// surrounded by single spaces, descendant combinator included. Errors of both
// operands are reported together, nil operand is ErrNilSelector.
func (s *CombinedSelector) Stringify() (string, error) {
	left, errLeft := stringify(s.left)
	right, errRight := stringify(s.right)
	if err := multierr.Combine(errLeft, errRight); err != nil {
		return "", err
	}
	return left + " " + s.combinator.String() + " " + right, nil
}

// String renders selector ignoring errors.
func (s *CombinedSelector) String() string {
	return render(s.left) + " " + s.combinator.String() + " " + render(s.right)
}

func stringify(s Selector) (string, error) {
	if s == nil {
		return "", ErrNilSelector
	}
	return s.Stringify()
}

// render is String counterpart of stringify, nil selector renders empty.
func render(s Selector) string {
	if s == nil {
		return ""
	}
	if str, ok := s.(fmt.Stringer); ok {
		return str.String()
	}
	text, _ := s.Stringify()
	return text
}
