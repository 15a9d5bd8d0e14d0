package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src    string
	pos    int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:    src,
		line:   1,
		column: 1,
	}
}

type runeState struct {
	pos    int
	line   int
	column int
}

func (lx *lexer) mark() runeState {
	return runeState{
		pos:    lx.pos,
		line:   lx.line,
		column: lx.column,
	}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
	lx.column = state.column
}

func (lx *lexer) position() Position {
	return Position{Offset: lx.pos, Line: lx.line, Column: lx.column}
}

func (lx *lexer) readRune() (rune, runeState, error) {
	if lx.pos >= len(lx.src) {
		return 0, lx.mark(), io.EOF
	}
	state := lx.mark()
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if r == utf8.RuneError && w == 1 {
		return 0, state, newFatalError(lx.position(), fmt.Errorf("invalid UTF-8 encoding at byte %d", lx.pos))
	}
	lx.pos += w
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r, state, nil
}

// peek returns the next rune without consuming it. ok is false at end of
// input.
func (lx *lexer) peek() (r rune, ok bool) {
	if lx.pos >= len(lx.src) {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r, true
}

func (lx *lexer) atEOF() bool {
	return lx.pos >= len(lx.src)
}

// skipWhitespace consumes whitespace and ';' line comments.
func (lx *lexer) skipWhitespace() error {
	for {
		r, state, err := lx.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == ';':
			lx.skipLine()
		default:
			lx.restore(state)
			return nil
		}
	}
}

func (lx *lexer) skipLine() {
	for {
		r, _, err := lx.readRune()
		if err != nil || r == '\n' {
			return
		}
	}
}

// isDelimiter reports whether r ends an atom.
func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanIdentifier consumes a run of characters other than whitespace and
// parentheses. Runs starting with a digit or a quote belong to number and
// string literals and are not identifiers.
func (lx *lexer) scanIdentifier() (string, bool) {
	r, ok := lx.peek()
	if !ok || isDelimiter(r) || isDigit(r) || r == '"' {
		return "", false
	}
	start := lx.pos
	for {
		r, ok := lx.peek()
		if !ok || isDelimiter(r) {
			break
		}
		if _, _, err := lx.readRune(); err != nil {
			return "", false
		}
	}
	return lx.src[start:lx.pos], true
}

// scanNumber consumes a run of digits. The run must be followed by a
// delimiter or the end of input.
func (lx *lexer) scanNumber() (int64, error) {
	startPos := lx.position()
	start := lx.pos
	for {
		r, ok := lx.peek()
		if !ok || !isDigit(r) {
			break
		}
		lx.readRune()
	}
	digits := lx.src[start:lx.pos]
	if r, ok := lx.peek(); ok && !isDelimiter(r) {
		return 0, newFatalError(lx.position(), fmt.Errorf("malformed number: %q followed by %q", digits, r))
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, newFatalError(startPos, fmt.Errorf("number out of range: %s", digits))
	}
	return n, nil
}

// scanString consumes a double-quoted literal with \n, \t, \\ and \"
// escapes.
func (lx *lexer) scanString() (string, error) {
	startPos := lx.position()
	if r, _, err := lx.readRune(); err != nil || r != '"' {
		return "", newError(startPos, fmt.Errorf("expected string literal"))
	}
	var builder strings.Builder
	for {
		r, _, err := lx.readRune()
		if err == io.EOF {
			return "", newIncompleteError(startPos, fmt.Errorf("unterminated string"))
		}
		if err != nil {
			return "", err
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, _, err := lx.readRune()
			if err == io.EOF {
				return "", newIncompleteError(startPos, fmt.Errorf("unterminated escape sequence"))
			}
			if err != nil {
				return "", err
			}
			switch esc {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			default:
				builder.WriteRune(esc)
			}
			continue
		}
		builder.WriteRune(r)
	}
	if r, ok := lx.peek(); ok && !isDelimiter(r) {
		return "", newFatalError(lx.position(), fmt.Errorf("unexpected %q after string literal", r))
	}
	return builder.String(), nil
}
