// Package scss extracts mixin definitions from SCSS sources.
package scss

import (
	"bytes"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Definition is a single "@mixin" found in the source.
type Definition struct {
	Name string
	// HasParams is true when definition declares non-empty parameter list.
	HasParams bool
	// Params keeps declared parameter names ("$color", "$args"), in order.
	Params []string
	Line   int
}

// Parser finds mixin definitions in SCSS text. SCSS is not CSS, however
// tdewolff lexer is tolerant enough to tokenize everything we are interested
// in: at-keywords, identifiers, functions, parentheses and braces.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new definition parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("scss-parser")}
}

const mixinKeyword = "@mixin"

// Definitions returns all mixin definitions in data in order of appearance.
// Comments are removed before tokenizing (see StripComments). The optional
// source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Definitions(data []byte, source ...string) []Definition {
	src := ""
	if len(source) > 0 {
		src = source[0]
	}
	p.log.Debug("Parsing SCSS", zap.String("source", src), zap.Int("bytes", len(data)))

	ts := newTokenStream(StripComments(data))

	var defs []Definition
	for {
		tt, text := ts.next()
		if tt == css.ErrorToken {
			if err := ts.err(); err != nil && err != io.EOF {
				p.log.Debug("SCSS tokenizer error", zap.String("source", src), zap.Error(err))
			}
			return defs
		}
		if tt != css.AtKeywordToken || !bytes.Equal(text, []byte(mixinKeyword)) {
			continue
		}
		line := ts.line
		if def, ok := p.definition(ts); ok {
			def.Line = line
			defs = append(defs, def)
			p.log.Debug("Found mixin", zap.String("source", src), zap.String("name", def.Name),
				zap.Bool("params", def.HasParams), zap.Int("line", line))
		} else {
			p.log.Debug("Skipping malformed mixin definition", zap.String("source", src), zap.Int("line", line))
		}
	}
}

// definition parses what follows "@mixin" keyword: name, optional parameter
// list and opening brace.
func (p *Parser) definition(ts *tokenStream) (Definition, bool) {
	var def Definition

	tt, text := ts.next()
	switch tt {
	case css.IdentToken:
		def.Name = string(text)
		switch tt, _ = ts.next(); tt {
		case css.LeftBraceToken:
			return def, true
		case css.LeftParenthesisToken:
		default:
			return def, false
		}
	case css.FunctionToken:
		// "name(" - lexer keeps parenthesis with the name
		def.Name = string(bytes.TrimSuffix(text, []byte("(")))
	default:
		return def, false
	}

	params, nonEmpty, ok := parameters(ts)
	if !ok {
		return def, false
	}
	if tt, _ = ts.next(); tt != css.LeftBraceToken {
		return def, false
	}
	def.Params, def.HasParams = params, nonEmpty
	return def, true
}

// parameters consumes parameter list up to and including matching closing
// parenthesis. Opening parenthesis has been consumed already.
func parameters(ts *tokenStream) (names []string, nonEmpty, ok bool) {
	depth := 1
	dollar := false
	for depth > 0 {
		tt, text := ts.next()
		switch tt {
		case css.ErrorToken:
			return nil, false, false
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				continue
			}
		case css.DelimToken:
			if depth == 1 && len(text) == 1 && text[0] == '$' {
				dollar = true
				nonEmpty = true
				continue
			}
		case css.IdentToken:
			if dollar {
				names = append(names, "$"+string(text))
			}
		}
		dollar = false
		nonEmpty = true
	}
	return names, nonEmpty, true
}

// StripComments removes "//" line comments (comment-only and trailing ones)
// and "/* */" block comments from data. Quoted strings and unquoted url()
// arguments are kept as is, so "//" inside them is not a comment. Line breaks
// are kept so line numbers stay valid, a block comment leaves a single space
// in place of its text.
func StripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		switch c := data[i]; {
		case c == '"' || c == '\'':
			end := stringEnd(data, i)
			out = append(out, data[i:end]...)
			i = end
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			end := bytes.IndexByte(data[i:], '\n')
			if end < 0 {
				return out
			}
			// line break itself is copied on the next iteration
			i += end
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			end := len(data)
			if j := bytes.Index(data[i+2:], []byte("*/")); j >= 0 {
				end = i + 2 + j + 2
			}
			out = append(out, ' ')
			for range bytes.Count(data[i:end], []byte{'\n'}) {
				out = append(out, '\n')
			}
			i = end
		case isURL(data, i):
			end := urlEnd(data, i)
			out = append(out, data[i:end]...)
			i = end
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// stringEnd returns position right after the string starting at i. Strings
// which are not terminated end at the line break.
func stringEnd(data []byte, i int) int {
	quote := data[i]
	for j := i + 1; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case '\n':
			return j
		case quote:
			return j + 1
		}
	}
	return len(data)
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// isURL reports whether unquoted "url(" argument starts at i.
func isURL(data []byte, i int) bool {
	if i+4 > len(data) || !bytes.EqualFold(data[i:i+4], []byte("url(")) {
		return false
	}
	if i > 0 && isIdentByte(data[i-1]) {
		return false
	}
	rest := bytes.TrimLeft(data[i+4:], " \t")
	return len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'')
}

// urlEnd returns position right after closing parenthesis of url() starting
// at i, or line break when there is none.
func urlEnd(data []byte, i int) int {
	for j := i + 4; j < len(data); j++ {
		switch data[j] {
		case ')':
			return j + 1
		case '\n':
			return j
		}
	}
	return len(data)
}

// tokenStream returns significant tokens only: whitespace and comments are
// skipped, current line is tracked.
type tokenStream struct {
	lx   *css.Lexer
	line int
}

func newTokenStream(data []byte) *tokenStream {
	return &tokenStream{lx: css.NewLexer(parse.NewInputBytes(data)), line: 1}
}

func (ts *tokenStream) err() error {
	return ts.lx.Err()
}

func (ts *tokenStream) next() (css.TokenType, []byte) {
	for {
		tt, text := ts.lx.Next()
		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			ts.line += bytes.Count(text, []byte{'\n'})
			continue
		}
		return tt, text
	}
}
