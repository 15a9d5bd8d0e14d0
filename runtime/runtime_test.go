package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sergev/closures/lang"
	"github.com/sergev/closures/parser"
)

func examplePath(name string) string {
	return filepath.Join("..", "examples", name)
}

func numbers(ns ...int64) lang.Exp {
	items := make([]lang.Exp, len(ns))
	for i, n := range ns {
		items[i] = lang.Number(n)
	}
	return lang.ListExp(items...)
}

func TestExamplePrograms(t *testing.T) {
	cases := []struct {
		file    string
		dialect parser.Dialect
		want    lang.Exp
	}{
		{"loop_sum.clo", parser.Scheme, lang.Number(15)},
		{"loop_sum_js.clo", parser.JS, lang.Number(15)},
		{"recursive_sum.clo", parser.Scheme, lang.Number(15)},
		{"counters.clo", parser.Scheme, numbers(1, 2, 3, 1, 2)},
		{"shared_global.clo", parser.Scheme, numbers(4, 3, 1)},
		{"bank_account.clo", parser.Scheme, numbers(50, 200)},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			got, err := EvaluateFile(NewEvaluator(), examplePath(tc.file), tc.dialect)
			require.NoError(t, err)
			assert.True(t, lang.Equal(tc.want, got), "got %s, want %s", got, tc.want)
		})
	}
}

func TestExampleProgramsAreDeterministic(t *testing.T) {
	for _, file := range []string{"counters.clo", "shared_global.clo", "bank_account.clo"} {
		first, err := EvaluateFile(NewEvaluator(), examplePath(file), parser.Scheme)
		require.NoError(t, err)
		second, err := EvaluateFile(NewEvaluator(), examplePath(file), parser.Scheme)
		require.NoError(t, err)
		assert.True(t, lang.Equal(first, second), "%s: %s != %s", file, first, second)
	}
}

func TestEvaluatorStateCarriesAcrossCalls(t *testing.T) {
	ev := NewEvaluator()
	_, err := EvaluateString(ev, "(define n 40)", parser.Scheme)
	require.NoError(t, err)
	got, err := EvaluateString(ev, "(+ n 2)", parser.Scheme)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Num())

	// A fresh evaluator starts from the primitives only.
	_, err = EvaluateString(NewEvaluator(), "n", parser.Scheme)
	var unbound *lang.UnboundVariableError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, "n", unbound.Name)
}

func TestEvaluationErrors(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		target interface{}
	}{
		{"UnknownAccountTag", `(define makeAccount (lambda () (lambda (tag) (if (eq? tag "get") 1 unknown-method))))
((makeAccount) "close")`, new(*lang.UnboundVariableError)},
		{"MalformedIfIsApplication", "(if (> 1 0) 1)", new(*lang.UnboundVariableError)},
		{"CallNumber", "(1 2)", new(*lang.NotCallableError)},
		{"NonBoolCondition", "(if 1 2 3)", new(*lang.TypeError)},
		{"NonBoolLoopCondition", "(while 0 1)", new(*lang.TypeError)},
		{"PrimitiveArity", "(+ 1)", new(*lang.ArityError)},
		{"PrimitiveType", `(+ 1 "one")`, new(*lang.TypeError)},
		{"MissingArgumentStaysUnbound", "((lambda (a b) b) 1)", new(*lang.UnboundVariableError)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateString(NewEvaluator(), tc.src, parser.Scheme)
			require.Error(t, err)
			assert.ErrorAs(t, err, tc.target)
		})
	}
}

func TestSurplusArgumentsAreDropped(t *testing.T) {
	got, err := EvaluateString(NewEvaluator(), "((lambda (a) a) 1 2 3)", parser.Scheme)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Num())
}

func TestEvaluateReader(t *testing.T) {
	got, err := EvaluateReader(NewEvaluator(), strings.NewReader("(def x 2) (+ x 3)"), parser.JS)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Num())

	_, err = EvaluateReader(NewEvaluator(), strings.NewReader("(+ 1"), parser.Scheme)
	require.Error(t, err)
	assert.True(t, parser.IsIncomplete(err))
}

func TestEvaluateFileShebangAndErrors(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "script.clo")
	require.NoError(t, os.WriteFile(script, []byte("#!/usr/bin/env closures\n(list (+ 1 2) (- 5 3))\n"), 0o600))
	got, err := EvaluateFile(NewEvaluator(), script, parser.Scheme)
	require.NoError(t, err)
	assert.True(t, lang.Equal(numbers(3, 2), got), "got %s", got)

	broken := filepath.Join(dir, "broken.clo")
	require.NoError(t, os.WriteFile(broken, []byte("#!/usr/bin/env closures\n(f 12abc)\n"), 0o600))
	_, err = EvaluateFile(NewEvaluator(), broken, parser.Scheme)
	require.Error(t, err)
	assert.Equal(t, broken+":2:6: malformed number: \"12\" followed by 'a'", err.Error())
	var perr *parser.Error
	assert.ErrorAs(t, err, &perr)

	_, err = EvaluateFile(NewEvaluator(), filepath.Join(dir, "missing.clo"), parser.Scheme)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithLoggerTracesApplications(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ev := NewEvaluator(lang.WithLogger(zap.New(core)))
	_, err := EvaluateString(ev, "((lambda (x) (+ x 1)) 1)", parser.Scheme)
	require.NoError(t, err)

	entries := logs.FilterMessage("apply").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "<function (x)>", entries[0].ContextMap()["callee"])
	assert.Equal(t, "<primitive +>", entries[1].ContextMap()["callee"])
}
