package css

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// quoteEscaper makes attribute value safe inside double quotes.
var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteAttrValue(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

// Rule is a single CSS rule (selector + declarations). Rule without selector
// fails WriteTo with ErrNilSelector.
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property name -> value
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Rules  []Rule
	Indent string // declaration indentation, two spaces when empty
}

// WriteTo writes the stylesheet to w in rule order, implementing io.WriterTo.
// Declarations within a rule are sorted in natural order for deterministic
// output. Selector errors stop writing and are returned.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	indent := s.indent()

	var total int64
	for i, rule := range s.Rules {
		n, err := writeRule(w, rule, indent)
		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between rules (except after last)
		if i < len(s.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet, rules with broken selectors
// are rendered as far as possible.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	for i, rule := range s.Rules {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(render(rule.Selector))
		sb.WriteString(" {\n")
		writeDeclarations(&sb, rule.Declarations, s.indent()) //nolint:errcheck
		sb.WriteString("}\n")
	}
	return sb.String()
}

func (s *Stylesheet) indent() string {
	if s.Indent == "" {
		return "  "
	}
	return s.Indent
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule Rule, indent string) (int, error) {
	sel, err := stringify(rule.Selector)
	if err != nil {
		return 0, fmt.Errorf("unable to render rule selector: %w", err)
	}

	var total int
	n, err := fmt.Fprintf(w, "%s {\n", sel)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeDeclarations(w, rule.Declarations, indent)
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeDeclarations writes declarations sorted in natural order.
func writeDeclarations(w io.Writer, decls map[string]string, indent string) (int, error) {
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	var total int
	for _, name := range names {
		n, err := fmt.Fprintf(w, "%s%s: %s;\n", indent, name, decls[name])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
