package runtime

import (
	"github.com/sergev/closures/lang"
)

// InitialEnvironment returns a fresh single-frame environment holding the
// primitive bindings. Every call builds a new global frame.
func InitialEnvironment() *lang.Env {
	env := lang.NewEnv(nil)
	installPrimitives(env)
	return env
}

func installPrimitives(env *lang.Env) {
	define := func(name string, fn lang.NativeFunc) {
		env.Bind(name, lang.PrimitiveFunction(name, fn))
	}

	define("+", primAdd)
	define("-", primSub)
	define(">", primGreater)
	define("list", primList)
	define("eq?", primStringEq)
}

func primAdd(args []lang.Exp) (lang.Exp, error) {
	a, b, err := numberOperands("+", args)
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.Number(a + b), nil
}

func primSub(args []lang.Exp) (lang.Exp, error) {
	a, b, err := numberOperands("-", args)
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.Number(a - b), nil
}

func primGreater(args []lang.Exp) (lang.Exp, error) {
	a, b, err := numberOperands(">", args)
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.Bool(a > b), nil
}

func primList(args []lang.Exp) (lang.Exp, error) {
	items := make([]lang.Exp, len(args))
	copy(items, args)
	return lang.ListExp(items...), nil
}

func primStringEq(args []lang.Exp) (lang.Exp, error) {
	if err := expectOperands("eq?", lang.KindString, args); err != nil {
		return lang.Exp{}, err
	}
	return lang.Bool(args[0].Str() == args[1].Str()), nil
}

func numberOperands(op string, args []lang.Exp) (int64, int64, error) {
	if err := expectOperands(op, lang.KindNumber, args); err != nil {
		return 0, 0, err
	}
	return args[0].Num(), args[1].Num(), nil
}

// expectOperands checks for exactly two operands of the given kind.
func expectOperands(op string, kind lang.Kind, args []lang.Exp) error {
	if len(args) != 2 {
		return &lang.ArityError{Op: op, Want: 2, Got: len(args)}
	}
	for _, arg := range args {
		if arg.Kind != kind {
			return &lang.TypeError{Op: op, Want: kind, Got: arg.Kind}
		}
	}
	return nil
}
