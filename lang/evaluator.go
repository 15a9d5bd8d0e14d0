package lang

import (
	"go.uber.org/zap"
)

// Evaluator executes expression trees against an environment.
type Evaluator struct {
	Global *Env
	log    *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger routes evaluation traces to log. Applications are traced at
// debug level.
func WithLogger(log *zap.Logger) Option {
	return func(ev *Evaluator) {
		if log != nil {
			ev.log = log
		}
	}
}

// NewEvaluator constructs an evaluator rooted at global. A nil global gets
// an empty single-frame environment.
func NewEvaluator(global *Env, opts ...Option) *Evaluator {
	if global == nil {
		global = NewEnv(nil)
	}
	ev := &Evaluator{Global: global, log: zap.NewNop()}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Eval evaluates expr in env using an evaluator without tracing.
func Eval(expr Exp, env *Env) (Exp, error) {
	return NewEvaluator(env).Eval(expr, env)
}

// Eval evaluates a single expression within the provided environment. A nil
// env means the evaluator's global environment.
func (ev *Evaluator) Eval(expr Exp, env *Env) (Exp, error) {
	if env == nil {
		env = ev.Global
	}
	return ev.eval(expr, env)
}

// EvalAll evaluates a sequence of expressions and returns the last value.
func (ev *Evaluator) EvalAll(exprs []Exp, env *Env) (Exp, error) {
	return ev.Eval(Statements(exprs...), env)
}

// Apply invokes a function value with already evaluated arguments.
func (ev *Evaluator) Apply(fn Exp, args []Exp) (Exp, error) {
	return ev.apply(fn, args)
}

func (ev *Evaluator) eval(expr Exp, env *Env) (Exp, error) {
	switch expr.Kind {
	case KindNumber, KindBool, KindString, KindNull, KindFunctionObject, KindPrimitive:
		return expr, nil
	case KindSymbol:
		return env.ValueOf(expr.Name())
	case KindSetVar, KindDefine:
		return ev.evalBinding(expr.Binding(), env)
	case KindIf:
		return ev.evalIf(expr.Conditional(), env)
	case KindStatements:
		return ev.evalStatements(expr.Items(), env)
	case KindWhile:
		return ev.evalWhile(expr.Loop(), env)
	case KindCreateFunction:
		f := expr.Function()
		return FunctionObject(f.Params, f.Body, env), nil
	case KindList:
		items, err := ev.evalList(expr.Items(), env)
		if err != nil {
			return Exp{}, err
		}
		return ListExp(items...), nil
	case KindFunctionCall:
		return ev.evalCall(expr.Call(), env)
	default:
		return Exp{}, &UnknownFormError{Kind: expr.Kind}
	}
}

// evalBinding implements both set! and define. Neither introduces a
// shadowing binding: both go through Env.Bind.
func (ev *Evaluator) evalBinding(b *Binding, env *Env) (Exp, error) {
	val, err := ev.eval(b.Value, env)
	if err != nil {
		return Exp{}, err
	}
	env.Bind(b.Name, val)
	return val, nil
}

func (ev *Evaluator) evalIf(c *Conditional, env *Env) (Exp, error) {
	ok, err := ev.evalCondition("if", c.Cond, env)
	if err != nil {
		return Exp{}, err
	}
	if ok {
		return ev.eval(c.Then, env)
	}
	return ev.eval(c.Else, env)
}

func (ev *Evaluator) evalStatements(exprs []Exp, env *Env) (Exp, error) {
	result := Null
	for _, expr := range exprs {
		val, err := ev.eval(expr, env)
		if err != nil {
			return Exp{}, err
		}
		result = val
	}
	return result, nil
}

func (ev *Evaluator) evalWhile(l *Loop, env *Env) (Exp, error) {
	result := Null
	for {
		ok, err := ev.evalCondition("while", l.Cond, env)
		if err != nil {
			return Exp{}, err
		}
		if !ok {
			return result, nil
		}
		result, err = ev.eval(l.Body, env)
		if err != nil {
			return Exp{}, err
		}
	}
}

func (ev *Evaluator) evalCondition(op string, cond Exp, env *Env) (bool, error) {
	val, err := ev.eval(cond, env)
	if err != nil {
		return false, err
	}
	if val.Kind != KindBool {
		return false, &TypeError{Op: op, Want: KindBool, Got: val.Kind}
	}
	return val.Truth(), nil
}

func (ev *Evaluator) evalList(exprs []Exp, env *Env) ([]Exp, error) {
	out := make([]Exp, 0, len(exprs))
	for _, expr := range exprs {
		val, err := ev.eval(expr, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (ev *Evaluator) evalCall(c *Call, env *Env) (Exp, error) {
	fn, err := ev.eval(c.Callee, env)
	if err != nil {
		return Exp{}, err
	}
	args, err := ev.evalList(c.Args, env)
	if err != nil {
		return Exp{}, err
	}
	return ev.apply(fn, args)
}

func (ev *Evaluator) apply(fn Exp, args []Exp) (Exp, error) {
	if ce := ev.log.Check(zap.DebugLevel, "apply"); ce != nil {
		ce.Write(zap.Stringer("callee", fn), zap.Int("args", len(args)))
	}
	switch fn.Kind {
	case KindFunctionObject:
		closure := fn.Closure()
		scope := closure.Env.NewScope(bindParameters(closure.Params, args))
		return ev.eval(closure.Body, scope)
	case KindPrimitive:
		return fn.Primitive().Fn(args)
	default:
		return Exp{}, &NotCallableError{Kind: fn.Kind}
	}
}

// bindParameters pairs params with args up to the shorter of the two.
// Surplus arguments are dropped; parameters without an argument stay
// unbound.
func bindParameters(params []string, args []Exp) []Binding {
	n := len(params)
	if len(args) < n {
		n = len(args)
	}
	bindings := make([]Binding, n)
	for i := 0; i < n; i++ {
		bindings[i] = Binding{Name: params[i], Value: args[i]}
	}
	return bindings
}
