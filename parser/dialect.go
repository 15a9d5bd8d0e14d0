package parser

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Keywords names the special forms of a dialect.
type Keywords struct {
	Lambda string `yaml:"lambda"`
	Set    string `yaml:"set"`
	Define string `yaml:"define"`
	If     string `yaml:"if"`
	While  string `yaml:"while"`
}

// Dialect is a keyword set for the surface syntax. Dialects differ only in
// spelling; they parse to the same expressions.
type Dialect struct {
	Name     string
	Keywords Keywords
}

// Scheme is the default dialect.
var Scheme = Dialect{
	Name: "scheme",
	Keywords: Keywords{
		Lambda: "lambda",
		Set:    "set!",
		Define: "define",
		If:     "if",
		While:  "while",
	},
}

// JS spells the special forms the way JavaScript and Clojure programmers
// expect.
var JS = Dialect{
	Name: "js",
	Keywords: Keywords{
		Lambda: "function",
		Set:    "assign",
		Define: "def",
		If:     "if",
		While:  "while",
	},
}

// DialectByName returns the built-in dialect with the given name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Scheme.Name:
		return Scheme, nil
	case JS.Name:
		return JS, nil
	default:
		return Dialect{}, fmt.Errorf("unknown dialect %q", name)
	}
}

func (k Keywords) list() []string {
	return []string{k.Lambda, k.Set, k.Define, k.If, k.While}
}

// Merge returns k with every non-empty field of override applied.
func (k Keywords) Merge(override Keywords) Keywords {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Keywords{
		Lambda: pick(k.Lambda, override.Lambda),
		Set:    pick(k.Set, override.Set),
		Define: pick(k.Define, override.Define),
		If:     pick(k.If, override.If),
		While:  pick(k.While, override.While),
	}
}

// Validate checks that every keyword would lex as a single identifier and
// that no two special forms share a keyword.
func (d Dialect) Validate() error {
	words := d.Keywords.list()
	for _, w := range words {
		if w == "" {
			return fmt.Errorf("dialect %s: empty keyword", d.Name)
		}
		if strings.IndexFunc(w, isDelimiter) >= 0 {
			return fmt.Errorf("dialect %s: keyword %q contains whitespace or parentheses", d.Name, w)
		}
		if r := []rune(w)[0]; isDigit(r) || r == '"' {
			return fmt.Errorf("dialect %s: keyword %q does not lex as an identifier", d.Name, w)
		}
	}
	if len(lo.Uniq(words)) != len(words) {
		return fmt.Errorf("dialect %s: duplicate keywords in %v", d.Name, words)
	}
	return nil
}
