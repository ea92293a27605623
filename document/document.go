// Package document loads declarative selector definitions (YAML) and builds
// them with css package.
package document

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"cssb/css"
)

var (
	// ErrUnknownReference is returned when a node refers to a selector which
	// was not defined earlier in the document.
	ErrUnknownReference = errors.New("reference to unknown selector")
	// ErrBadNode is returned for a node with none or several ways to obtain
	// a selector.
	ErrBadNode = errors.New("selector must have exactly one of: ref, text, parts, combine")
	// ErrBadPart is returned for a part with unknown or several keys.
	ErrBadPart = errors.New("selector part must have exactly one of: " + strings.Join(partKeys(), ", "))
	// ErrDuplicateName is returned when two entries share a name.
	ErrDuplicateName = errors.New("duplicate selector name")
)

type (
	// Part is a single selector part, e.g. {"class": "note"}.
	Part map[string]string

	// Node describes how to obtain a selector. Exactly one field must be set.
	Node struct {
		Ref     string   `yaml:"ref,omitempty"`     // name of previously defined selector
		Text    string   `yaml:"text,omitempty"`    // selector text, read by css.Parser
		Parts   []Part   `yaml:"parts,omitempty"`   // parts in order of application
		Combine *Combine `yaml:"combine,omitempty"` // pair of selectors
	}

	// Operand is a side of combination. Besides the full node form it could be
	// written as plain scalar, which is a reference: `left: card` is the same
	// as `left: {ref: card}`.
	Operand Node

	// Combine joins two operands with combinator ("", " ", "+", "~", ">").
	Combine struct {
		Left       Operand `yaml:"left"`
		Combinator string  `yaml:"combinator"`
		Right      Operand `yaml:"right"`
	}

	// Entry is a named selector with optional declarations used when
	// stylesheet is produced.
	Entry struct {
		Name         string `yaml:"name"`
		Node         `yaml:",inline"`
		Declarations map[string]string `yaml:"declarations,omitempty"`
	}

	// Document is a list of selector entries. Entries could refer to earlier
	// ones by name.
	Document struct {
		Title     string  `yaml:"title,omitempty"`
		Selectors []Entry `yaml:"selectors"`
	}

	// Named is a built selector.
	Named struct {
		Name         string
		Selector     css.Selector
		Declarations map[string]string
	}
)

var partCategories = map[string]css.Category{
	"element":        css.CategoryElement,
	"id":             css.CategoryID,
	"class":          css.CategoryClass,
	"attr":           css.CategoryAttribute,
	"pseudo_class":   css.CategoryPseudoClass,
	"pseudo_element": css.CategoryPseudoElement,
}

func partKeys() []string {
	keys := make([]string, 0, len(partCategories))
	for k := range partCategories {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return partCategories[keys[i]] < partCategories[keys[j]] })
	return keys
}

var (
	nodeKeys    = []string{"ref", "text", "parts", "combine"}
	combineKeys = []string{"left", "combinator", "right"}
)

// UnmarshalYAML accepts scalar reference or node mapping.
func (o *Operand) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*o = Operand{Ref: value.Value}
		return nil
	}
	if err := knownKeys(value, nodeKeys); err != nil {
		return err
	}
	return value.Decode((*Node)(o))
}

// UnmarshalYAML keeps strict decoding for nested combinations: yaml.Node.Decode
// does not inherit KnownFields from the document decoder.
func (c *Combine) UnmarshalYAML(value *yaml.Node) error {
	if err := knownKeys(value, combineKeys); err != nil {
		return err
	}
	type plain Combine
	return value.Decode((*plain)(c))
}

func knownKeys(value *yaml.Node, keys []string) error {
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k := value.Content[i]
		if !slices.Contains(keys, k.Value) {
			return fmt.Errorf("line %d: field %s is not one of: %s", k.Line, k.Value, strings.Join(keys, ", "))
		}
	}
	return nil
}

// Load decodes document. Only known fields are accepted.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to decode selector document: %w", err)
	}
	return doc, nil
}

// Build builds all selectors in document order. Selectors could refer to
// previously defined ones by name.
func (d *Document) Build(log *zap.Logger) ([]Named, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{
		log:    log.Named("document"),
		parser: css.NewParser(log),
		known:  make(map[string]css.Selector, len(d.Selectors)),
	}

	result := make([]Named, 0, len(d.Selectors))
	for i, e := range d.Selectors {
		if e.Name == "" {
			return nil, fmt.Errorf("selector #%d has no name", i+1)
		}
		if _, exists := b.known[e.Name]; exists {
			return nil, fmt.Errorf("selector %q: %w", e.Name, ErrDuplicateName)
		}
		sel, err := b.node(e.Node)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", e.Name, err)
		}
		b.known[e.Name] = sel
		result = append(result, Named{Name: e.Name, Selector: sel, Declarations: e.Declarations})
		b.log.Debug("Selector built", zap.String("name", e.Name), zap.Stringer("selector", sel.(fmt.Stringer)))
	}
	return result, nil
}

// Stylesheet collects selectors which have declarations into a stylesheet.
func Stylesheet(named []Named, indent string) *css.Stylesheet {
	sheet := &css.Stylesheet{Indent: indent}
	for _, n := range named {
		if len(n.Declarations) == 0 {
			continue
		}
		sheet.Rules = append(sheet.Rules, css.Rule{Selector: n.Selector, Declarations: n.Declarations})
	}
	return sheet
}

type builder struct {
	log    *zap.Logger
	parser *css.Parser
	known  map[string]css.Selector
}

func (b *builder) node(n Node) (css.Selector, error) {
	set := 0
	for _, present := range []bool{n.Ref != "", n.Text != "", len(n.Parts) > 0, n.Combine != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, ErrBadNode
	}

	switch {
	case n.Ref != "":
		sel, ok := b.known[n.Ref]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReference, n.Ref)
		}
		return sel, nil

	case n.Text != "":
		return b.parser.Parse(n.Text)

	case len(n.Parts) > 0:
		sel := css.NewSelector()
		for i, p := range n.Parts {
			if len(p) != 1 {
				return nil, fmt.Errorf("part #%d: %w", i+1, ErrBadPart)
			}
			for key, value := range p {
				c, ok := partCategories[key]
				if !ok {
					return nil, fmt.Errorf("part #%d (%s): %w", i+1, key, ErrBadPart)
				}
				sel.Add(c, value)
			}
			if err := sel.Err(); err != nil {
				return nil, fmt.Errorf("part #%d: %w", i+1, err)
			}
		}
		return sel, nil

	default:
		comb, err := css.ParseCombinator(n.Combine.Combinator)
		if err != nil {
			return nil, err
		}
		left, err := b.node(Node(n.Combine.Left))
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		right, err := b.node(Node(n.Combine.Right))
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		return css.Combine(left, comb, right), nil
	}
}
