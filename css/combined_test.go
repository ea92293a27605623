package css_test

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"cssb/css"
)

func TestCombine_Simple(t *testing.T) {
	sel := css.Combine(css.Element("div").ID("main"), css.Adjacent, css.Element("span"))

	got, err := sel.Stringify()
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}
	if got != "div#main + span" {
		t.Errorf("Stringify() = %q, want %q", got, "div#main + span")
	}
	if sel.Combinator() != css.Adjacent {
		t.Errorf("Combinator() = %q, want %q", sel.Combinator(), css.Adjacent)
	}
}

func TestCombine_Nested(t *testing.T) {
	a := css.Element("ul").Class("menu")
	b := css.Element("li")
	c := css.Element("a").PseudoClass("hover")

	sel := css.Combine(css.Combine(a, css.Child, b), css.General, c)
	got, err := sel.Stringify()
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}

	as, _ := a.Stringify()
	bs, _ := b.Stringify()
	cs, _ := c.Stringify()
	if want := as + " > " + bs + " ~ " + cs; got != want {
		t.Errorf("Stringify() = %q, want %q", got, want)
	}
}

func TestCombine_RightHeavy(t *testing.T) {
	sel := css.Combine(
		css.Element("div").ID("main").Class("container").Class("draggable"),
		css.Adjacent,
		css.Combine(
			css.Element("table").ID("data"),
			css.General,
			css.Combine(
				css.Element("tr").PseudoClass("nth-of-type(even)"),
				css.Descendant,
				css.Element("td").PseudoClass("nth-of-type(even)"),
			),
		),
	)

	got, err := sel.Stringify()
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}
	want := "div#main.container.draggable + table#data ~ tr:nth-of-type(even)   td:nth-of-type(even)"
	if got != want {
		t.Errorf("Stringify() = %q, want %q", got, want)
	}
}

func TestCombine_OperandErrors(t *testing.T) {
	bad1 := css.Class("a").ID("x")
	bad2 := css.Element("p").Element("q")

	sel := css.Combine(bad1, css.Child, css.Combine(css.Element("ok"), css.Descendant, bad2))
	got, err := sel.Stringify()
	if err == nil {
		t.Fatalf("Stringify() = %q, expected error", got)
	}
	if got != "" {
		t.Errorf("Stringify() text = %q, want empty on error", got)
	}
	if !errors.Is(err, css.ErrOrder) || !errors.Is(err, css.ErrDuplicatePart) {
		t.Errorf("expected both operand errors, got %v", err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected 2 combined errors, got %d", n)
	}
	if s := sel.String(); s != ".a > ok   p" {
		t.Errorf("String() = %q, want %q", s, ".a > ok   p")
	}
}

func TestCombinator(t *testing.T) {
	for _, s := range []string{" ", "+", "~", ">"} {
		c, err := css.ParseCombinator(s)
		if err != nil {
			t.Errorf("ParseCombinator(%q) error = %v", s, err)
			continue
		}
		if !c.Valid() {
			t.Errorf("ParseCombinator(%q) = %q is not valid", s, c)
		}
		if c.String() != s {
			t.Errorf("String() = %q, want %q", c.String(), s)
		}
	}

	if c, err := css.ParseCombinator(""); err != nil || c != css.Descendant {
		t.Errorf("ParseCombinator(\"\") = %q, %v; want descendant", c, err)
	}

	for _, s := range []string{"|", ">>", "++", "a"} {
		if _, err := css.ParseCombinator(s); !errors.Is(err, css.ErrInvalidCombinator) {
			t.Errorf("ParseCombinator(%q) error = %v, want ErrInvalidCombinator", s, err)
		}
	}

	if css.Combinator('|').Valid() {
		t.Error("'|' must not be valid combinator")
	}
}

// Combine does not validate combinator, it is rendered as is.
func TestCombine_UncheckedCombinator(t *testing.T) {
	got, err := css.Combine(css.Element("a"), css.Combinator('|'), css.Element("b")).Stringify()
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}
	if got != "a | b" {
		t.Errorf("Stringify() = %q, want %q", got, "a | b")
	}
}

func TestCombine_NilOperand(t *testing.T) {
	c := css.Combine(nil, css.Child, css.Element("p"))
	if text, err := c.Stringify(); text != "" || !errors.Is(err, css.ErrNilSelector) {
		t.Errorf("Stringify() = %q, %v; want ErrNilSelector", text, err)
	}
	if got := c.String(); got != " > p" {
		t.Errorf("String() = %q, want %q", got, " > p")
	}

	missing := css.Combine(css.Element("a"), css.Adjacent, nil)
	if _, err := missing.Stringify(); !errors.Is(err, css.ErrNilSelector) {
		t.Errorf("Stringify() error = %v, want ErrNilSelector", err)
	}
}
