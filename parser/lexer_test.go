package parser

import (
	"testing"
)

func TestLexerScanAtoms(t *testing.T) {
	lx := newLexer("foo-bar? 42 \"s\\tq\" eq?(")

	name, ok := lx.scanIdentifier()
	if !ok || name != "foo-bar?" {
		t.Fatalf("expected identifier foo-bar?, got %q ok=%v", name, ok)
	}
	if err := lx.skipWhitespace(); err != nil {
		t.Fatalf("skipWhitespace: %v", err)
	}
	if _, ok := lx.scanIdentifier(); ok {
		t.Fatalf("digit run must not scan as identifier")
	}
	n, err := lx.scanNumber()
	if err != nil || n != 42 {
		t.Fatalf("expected 42, got %d err=%v", n, err)
	}
	lx.skipWhitespace()
	s, err := lx.scanString()
	if err != nil || s != "s\tq" {
		t.Fatalf("expected escaped string, got %q err=%v", s, err)
	}
	lx.skipWhitespace()
	name, ok = lx.scanIdentifier()
	if !ok || name != "eq?" {
		t.Fatalf("expected identifier to stop at paren, got %q", name)
	}
	if r, ok := lx.peek(); !ok || r != '(' {
		t.Fatalf("expected ( to remain, got %q ok=%v", r, ok)
	}
}

func TestLexerMarkRestore(t *testing.T) {
	lx := newLexer("ab\ncd")
	start := lx.mark()
	lx.scanIdentifier()
	lx.skipWhitespace()
	if pos := lx.position(); pos.Line != 2 || pos.Column != 1 || pos.Offset != 3 {
		t.Fatalf("expected 2:1 at offset 3, got %+v", pos)
	}
	lx.restore(start)
	if pos := lx.position(); pos.Line != 1 || pos.Column != 1 || pos.Offset != 0 {
		t.Fatalf("expected restore to rewind to 1:1, got %+v", pos)
	}
	if name, _ := lx.scanIdentifier(); name != "ab" {
		t.Fatalf("expected to rescan ab, got %q", name)
	}
}

func TestLexerInvalidUTF8(t *testing.T) {
	lx := newLexer("\xff")
	if _, _, err := lx.readRune(); err == nil || !asError(err).fatal {
		t.Fatalf("expected fatal error for invalid UTF-8, got %v", err)
	}
}
