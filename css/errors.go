package css

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatePart is reported when element, id or pseudo-element is added
	// to a selector which already has it.
	ErrDuplicatePart = errors.New("element, id and pseudo-element should not occur more than one time inside the selector")
	// ErrOrder is reported when a part is added after a part of a later category.
	ErrOrder = errors.New("selector parts should be arranged in the following order: element, id, class, attribute, pseudo-class, pseudo-element")
	// ErrInvalidCombinator is reported for combinator symbols outside of ' ', '+', '~', '>'.
	ErrInvalidCombinator = errors.New("invalid combinator")
	// ErrUnknownCategory is reported by SelectorBuilder.Add for a category
	// outside of the six known ones.
	ErrUnknownCategory = errors.New("unknown selector part category")
	// ErrNilSelector is reported when a combination operand or a stylesheet
	// rule has no selector.
	ErrNilSelector = errors.New("missing selector")
	// ErrSyntax is reported by Parser for selector text it cannot read.
	ErrSyntax = errors.New("unsupported selector syntax")
)

// PartError describes a rejected selector part. It wraps ErrDuplicatePart,
// ErrOrder or ErrUnknownCategory.
type PartError struct {
	Category Category // category of the rejected part
	Reached  Category // highest category present when the part was rejected
	Value    string   // rejected value
	Err      error
}

func (e *PartError) Error() string {
	switch {
	case errors.Is(e.Err, ErrOrder):
		return fmt.Sprintf("%s %q after %s: %v", e.Category, e.Value, e.Reached, e.Err)
	case errors.Is(e.Err, ErrUnknownCategory):
		return fmt.Sprintf("%v %s for %q", e.Err, e.Category, e.Value)
	}
	return fmt.Sprintf("duplicate %s %q: %v", e.Category, e.Value, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}
