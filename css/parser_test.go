package css_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssb/css"
)

func TestParser_RoundTrip(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	tests := []string{
		"div",
		"*",
		"#main.container.editable",
		`a[href$=".png"]:focus`,
		`a#x.c1.c2[h$=".png"]:focus::before`,
		"div#main + span",
		"ul.menu > li ~ a:hover",
		"div#main.container.draggable + table#data ~ tr:nth-of-type(even)   td:nth-of-type(even)",
		"p::first-line",
		"input[type=checkbox]:not(.hidden)",
		"li:nth-child(2n + 1)",
		"[data-x]",
		"a:is(.x, .y)",
		"li:not(.a, .b)",
		"section:has(> h2, > h3)",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			sel, err := p.Parse(text)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got, err := sel.Stringify()
			if err != nil {
				t.Fatalf("Stringify() error = %v", err)
			}
			if got != text {
				t.Errorf("Stringify() = %q, want %q", got, text)
			}
		})
	}
}

func TestParser_ReadsBuiltSelectors(t *testing.T) {
	p := css.NewParser(nil)

	built := []css.Selector{
		css.Element("a").PseudoClass("is(.x, .y)"),
		css.Class("item").PseudoClass("not(.a, .b)").PseudoElement("after"),
		css.Combine(css.Element("ul"), css.Child, css.Element("li").PseudoClass("where(.odd, .even)")),
	}
	for _, sel := range built {
		text, err := sel.Stringify()
		if err != nil {
			t.Fatalf("Stringify() error = %v", err)
		}
		read, err := p.Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", text, err)
			continue
		}
		if got, _ := read.Stringify(); got != text {
			t.Errorf("Parse(%q) = %q", text, got)
		}
	}
}

func TestParser_Normalizes(t *testing.T) {
	p := css.NewParser(nil)

	tests := []struct {
		in, want string
	}{
		{"div>span", "div > span"},
		{"a+b", "a + b"},
		{"  ul   li  ", "ul   li"},
		{"h1 ~h2", "h1 ~ h2"},
		{"[ lang ]", "[lang]"},
	}

	for _, tt := range tests {
		sel, err := p.Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if got, _ := sel.Stringify(); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParser_Structure(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sel, err := p.Parse("div > p")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	combined, ok := sel.(*css.CombinedSelector)
	if !ok {
		t.Fatalf("expected *CombinedSelector, got %T", sel)
	}
	if combined.Combinator() != css.Child {
		t.Errorf("Combinator() = %q, want %q", combined.Combinator(), css.Child)
	}

	sel, err = p.Parse("p.note")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := sel.(*css.SelectorBuilder); !ok {
		t.Errorf("expected *SelectorBuilder for compound selector, got %T", sel)
	}
}

func TestParser_Empty(t *testing.T) {
	p := css.NewParser(nil)
	for _, text := range []string{"", "   "} {
		sel, err := p.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", text, err)
		}
		if got, _ := sel.Stringify(); got != "" {
			t.Errorf("Parse(%q) = %q, want empty", text, got)
		}
	}
}

func TestParser_Errors(t *testing.T) {
	p := css.NewParser(nil)

	tests := []struct {
		text string
		want error
	}{
		{"#a.b#c", css.ErrDuplicatePart},
		{"div span p::before::after", css.ErrDuplicatePart},
		{".b#a", css.ErrOrder},
		{"[x].c", css.ErrOrder},
		{":hover[x]", css.ErrOrder},
		{"::after:hover", css.ErrOrder},
		{"a#x b.c div#y.z#w", css.ErrDuplicatePart},
		{"a, b", css.ErrSyntax},
		{"a:is(.x, .y), b", css.ErrSyntax},
		{"a[x], b[y]", css.ErrSyntax},
		{"a { color: red }", css.ErrSyntax},
		{"> a", css.ErrSyntax},
		{"a >", css.ErrSyntax},
		{"a > + b", css.ErrSyntax},
		{"a.", css.ErrSyntax},
		{"a:", css.ErrSyntax},
		{"a::", css.ErrSyntax},
		{"a[href", css.ErrSyntax},
		{"a:not(.x", css.ErrSyntax},
		{"a:is(b]", css.ErrSyntax},
		{"12", css.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			sel, err := p.Parse(tt.text)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() = %v, %v; want error %v", sel, err, tt.want)
			}
		})
	}
}
