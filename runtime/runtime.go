package runtime

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sergev/closures/lang"
	"github.com/sergev/closures/parser"
)

// NewEvaluator constructs an evaluator rooted at a fresh initial environment.
func NewEvaluator(opts ...lang.Option) *lang.Evaluator {
	return lang.NewEvaluator(InitialEnvironment(), opts...)
}

// readFileSkippingShebang blanks a leading #! line. The newline is kept so
// that parse positions still match the file.
func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}

// EvaluateString parses src in dialect d and evaluates it in the global
// environment of ev.
func EvaluateString(ev *lang.Evaluator, src string, d parser.Dialect) (lang.Exp, error) {
	expr, err := parser.ParseWith(src, d)
	if err != nil {
		return lang.Exp{}, err
	}
	return ev.Eval(expr, nil)
}

// EvaluateReader consumes all source from the reader and evaluates it.
func EvaluateReader(ev *lang.Evaluator, r io.Reader, d parser.Dialect) (lang.Exp, error) {
	expr, err := parser.ParseReader(r, d)
	if err != nil {
		return lang.Exp{}, err
	}
	return ev.Eval(expr, nil)
}

// EvaluateFile loads and executes a source file, allowing a #! first line.
// Parse errors are prefixed with the file path.
func EvaluateFile(ev *lang.Evaluator, path string, d parser.Dialect) (lang.Exp, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return lang.Exp{}, err
	}
	expr, err := parser.ParseWith(string(data), d)
	if err != nil {
		return lang.Exp{}, fmt.Errorf("%s:%w", path, err)
	}
	return ev.Eval(expr, nil)
}
