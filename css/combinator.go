package css

import "fmt"

// Combinator joins two selectors into a complex selector.
type Combinator byte

const (
	Descendant Combinator = ' '
	Adjacent   Combinator = '+'
	General    Combinator = '~'
	Child      Combinator = '>'
)

// Valid reports whether c is one of the four CSS combinators.
func (c Combinator) Valid() bool {
	switch c {
	case Descendant, Adjacent, General, Child:
		return true
	}
	return false
}

func (c Combinator) String() string {
	return string(rune(c))
}

// ParseCombinator converts combinator symbol to Combinator. Empty string is
// treated as descendant combinator.
func ParseCombinator(s string) (Combinator, error) {
	switch s {
	case "", " ":
		return Descendant, nil
	case "+":
		return Adjacent, nil
	case "~":
		return General, nil
	case ">":
		return Child, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCombinator, s)
}
