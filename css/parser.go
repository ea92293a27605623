package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads selector text back into Selector. It knows only the six part
// kinds SelectorBuilder supports and the four combinators - everything else
// (selector lists, nesting, namespaces) is rejected with ErrSyntax. Parts are
// replayed onto builders so text violating part order fails exactly as
// corresponding builder calls would.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new selector parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("selector-parser")}
}

type token struct {
	tt   css.TokenType
	data string
}

// Parse reads selector text. Empty (or whitespace only) text produces empty
// selector.
func (p *Parser) Parse(text string) (Selector, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize selector %q: %w", text, err)
	}

	var (
		left     Selector
		cur      *SelectorBuilder
		comb     = Descendant
		explicit bool
	)

	// finish closes current compound selector and attaches it to the left side
	finish := func() {
		if cur == nil {
			return
		}
		if left == nil {
			left = cur
		} else {
			left = Combine(left, comb, cur)
		}
		cur, comb, explicit = nil, Descendant, false
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			finish()
			continue

		case css.DelimToken:
			if c, err := ParseCombinator(t.data); err == nil && c != Descendant {
				finish()
				if left == nil || explicit {
					return nil, fmt.Errorf("%w: unexpected combinator %q in %q", ErrSyntax, t.data, text)
				}
				comb, explicit = c, true
				continue
			}
		}

		if cur == nil {
			cur = NewSelector()
		}
		if i, err = p.part(cur, tokens, i); err != nil {
			return nil, fmt.Errorf("%w in %q", err, text)
		}
		if err := cur.Err(); err != nil {
			p.log.Debug("Selector part rejected", zap.String("selector", text), zap.Error(err))
			return nil, fmt.Errorf("bad selector %q: %w", text, err)
		}
	}
	if explicit && cur == nil {
		return nil, fmt.Errorf("%w: dangling combinator %q in %q", ErrSyntax, comb, text)
	}
	finish()

	if left == nil {
		return NewSelector(), nil
	}
	p.log.Debug("Parsed selector", zap.String("selector", text), zap.Stringer("result", left.(fmt.Stringer)))
	return left, nil
}

// part adds to b single part starting at tokens[i] and returns index of the
// last consumed token.
func (p *Parser) part(b *SelectorBuilder, tokens []token, i int) (int, error) {
	t := tokens[i]
	switch t.tt {
	case css.IdentToken:
		b.Element(t.data)
		return i, nil

	case css.HashToken:
		b.ID(strings.TrimPrefix(t.data, "#"))
		return i, nil

	case css.LeftBracketToken:
		end, raw, err := collect(tokens, i+1, css.RightBracketToken)
		if err != nil {
			return i, err
		}
		b.Attr(strings.TrimSpace(raw))
		return end, nil

	case css.ColonToken:
		if i+1 < len(tokens) && tokens[i+1].tt == css.ColonToken {
			if i+2 < len(tokens) && tokens[i+2].tt == css.IdentToken {
				b.PseudoElement(tokens[i+2].data)
				return i + 2, nil
			}
			return i, fmt.Errorf("%w: pseudo-element name expected", ErrSyntax)
		}
		if i+1 < len(tokens) {
			switch next := tokens[i+1]; next.tt {
			case css.IdentToken:
				b.PseudoClass(next.data)
				return i + 1, nil
			case css.FunctionToken:
				end, raw, err := collect(tokens, i+2, css.RightParenthesisToken)
				if err != nil {
					return i, err
				}
				b.PseudoClass(next.data + raw + ")")
				return end, nil
			}
		}
		return i, fmt.Errorf("%w: pseudo-class name expected", ErrSyntax)

	case css.DelimToken:
		switch t.data {
		case "*":
			b.Element(t.data)
			return i, nil
		case ".":
			if i+1 < len(tokens) && tokens[i+1].tt == css.IdentToken {
				b.Class(tokens[i+1].data)
				return i + 1, nil
			}
			return i, fmt.Errorf("%w: class name expected", ErrSyntax)
		}
	}
	return i, fmt.Errorf("%w: unexpected %s %q", ErrSyntax, t.tt, t.data)
}

// collect concatenates raw token text starting at tokens[from] until closing
// token on the same nesting level. It returns index of the closing token.
func collect(tokens []token, from int, closing css.TokenType) (int, string, error) {
	var (
		sb    strings.Builder
		depth int
	)
	for i := from; i < len(tokens); i++ {
		t := tokens[i]
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth == 0 {
				if t.tt != closing {
					return i, "", fmt.Errorf("%w: unbalanced %q", ErrSyntax, t.data)
				}
				return i, sb.String(), nil
			}
			depth--
		}
		sb.WriteString(t.data)
	}
	return len(tokens), "", fmt.Errorf("%w: unterminated %s", ErrSyntax, closing)
}

// tokenize splits selector text into tokens. Token data is copied as lexer
// reuses its buffer. Comma is accepted only inside parentheses or brackets,
// e.g. ":is(.a, .b)", on the top level it would start a selector list.
func tokenize(text string) ([]token, error) {
	lexer := css.NewLexer(parse.NewInputString(text))

	var (
		tokens []token
		depth  int
	)
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return tokens, nil
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth <= 0 {
				return nil, fmt.Errorf("%w: %s %q", ErrSyntax, tt, string(data))
			}
		case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken,
			css.AtKeywordToken, css.BadStringToken, css.BadURLToken, css.CDOToken, css.CDCToken:
			return nil, fmt.Errorf("%w: %s %q", ErrSyntax, tt, string(data))
		}
		tokens = append(tokens, token{tt: tt, data: string(data)})
	}
}
