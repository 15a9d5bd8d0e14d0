package parser

import (
	"io"

	"github.com/sergev/closures/lang"
)

// ParseReader consumes source from an io.Reader and parses it using the
// keywords of dialect d.
func ParseReader(r io.Reader, d Dialect) (lang.Exp, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return lang.Exp{}, err
	}
	return ParseWith(string(data), d)
}
