package parser

import (
	"strings"
	"testing"
)

func TestDialectByName(t *testing.T) {
	cases := map[string]string{
		"":       "scheme",
		"scheme": "scheme",
		" JS ":   "js",
		"js":     "js",
	}
	for in, want := range cases {
		d, err := DialectByName(in)
		if err != nil || d.Name != want {
			t.Fatalf("DialectByName(%q) = %q, %v; want %q", in, d.Name, err, want)
		}
	}
	if _, err := DialectByName("cobol"); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}

func TestDialectValidate(t *testing.T) {
	if err := Scheme.Validate(); err != nil {
		t.Fatalf("Scheme should validate: %v", err)
	}
	if err := JS.Validate(); err != nil {
		t.Fatalf("JS should validate: %v", err)
	}

	cases := []struct {
		name     string
		override Keywords
		msg      string
	}{
		{"Whitespace", Keywords{Lambda: "fn x"}, "whitespace"},
		{"Paren", Keywords{If: "if("}, "parentheses"},
		{"Digit", Keywords{While: "1loop"}, "identifier"},
		{"Duplicate", Keywords{Define: "set!"}, "duplicate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Dialect{Name: "custom", Keywords: Scheme.Keywords.Merge(tc.override)}
			err := d.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected error containing %q, got %v", tc.msg, err)
			}
		})
	}

	if err := (Dialect{Name: "blank"}).Validate(); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty keyword error, got %v", err)
	}
}

func TestKeywordsMerge(t *testing.T) {
	got := Scheme.Keywords.Merge(Keywords{Lambda: "fn"})
	if got.Lambda != "fn" || got.Set != "set!" || got.While != "while" {
		t.Fatalf("unexpected merge result %+v", got)
	}
}
