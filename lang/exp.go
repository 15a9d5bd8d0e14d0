package lang

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Kind enumerates the expression categories. The set is closed: the parser
// produces every kind except KindFunctionObject and KindPrimitive, which only
// appear as results of evaluation.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
	KindSymbol
	KindCreateFunction
	KindSetVar
	KindDefine
	KindFunctionCall
	KindIf
	KindStatements
	KindWhile
	KindList
	KindFunctionObject
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindCreateFunction:
		return "create-function"
	case KindSetVar:
		return "set-var"
	case KindDefine:
		return "define"
	case KindFunctionCall:
		return "function-call"
	case KindIf:
		return "if"
	case KindStatements:
		return "statements"
	case KindWhile:
		return "while"
	case KindList:
		return "list"
	case KindFunctionObject:
		return "function-object"
	case KindPrimitive:
		return "primitive-function"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Exp is a node of the expression tree and, at the same time, a runtime
// value: evaluation maps expressions to expressions.
type Exp struct {
	Kind    Kind
	payload interface{}
}

// Function is the payload of a CreateFunction literal.
type Function struct {
	Params []string
	Body   Exp
}

// Binding pairs a variable name with an expression. It is the payload of
// SetVar and Define, and the unit NewScope consumes.
type Binding struct {
	Name  string
	Value Exp
}

// Call is the payload of a FunctionCall.
type Call struct {
	Callee Exp
	Args   []Exp
}

// Conditional is the payload of an If.
type Conditional struct {
	Cond Exp
	Then Exp
	Else Exp
}

// Loop is the payload of a While.
type Loop struct {
	Cond Exp
	Body Exp
}

// Closure is a function value together with the environment it was
// created in. Env is shared, never copied.
type Closure struct {
	Params []string
	Body   Exp
	Env    *Env
}

// NativeFunc implements a primitive on already evaluated arguments.
type NativeFunc func(args []Exp) (Exp, error)

// Primitive is a built-in operation exposed as a callable value.
type Primitive struct {
	Name string
	Fn   NativeFunc
}

// Null is the unit value.
var Null = Exp{Kind: KindNull}

// Number constructs an integer literal.
func Number(n int64) Exp {
	return Exp{Kind: KindNumber, payload: n}
}

// Bool constructs a boolean literal.
func Bool(b bool) Exp {
	return Exp{Kind: KindBool, payload: b}
}

// String constructs a string literal.
func String(s string) Exp {
	return Exp{Kind: KindString, payload: s}
}

// Symbol constructs a variable reference.
func Symbol(name string) Exp {
	return Exp{Kind: KindSymbol, payload: name}
}

// CreateFunction constructs a closure literal.
func CreateFunction(params []string, body Exp) Exp {
	return Exp{Kind: KindCreateFunction, payload: &Function{Params: params, Body: body}}
}

// SetVar constructs an assignment.
func SetVar(name string, value Exp) Exp {
	return Exp{Kind: KindSetVar, payload: &Binding{Name: name, Value: value}}
}

// Define constructs a definition.
func Define(name string, value Exp) Exp {
	return Exp{Kind: KindDefine, payload: &Binding{Name: name, Value: value}}
}

// FunctionCall constructs an application of callee to args.
func FunctionCall(callee Exp, args ...Exp) Exp {
	return Exp{Kind: KindFunctionCall, payload: &Call{Callee: callee, Args: args}}
}

// If constructs a conditional.
func If(cond, then, els Exp) Exp {
	return Exp{Kind: KindIf, payload: &Conditional{Cond: cond, Then: then, Else: els}}
}

// Statements constructs a sequence evaluated in order.
func Statements(exps ...Exp) Exp {
	return Exp{Kind: KindStatements, payload: exps}
}

// While constructs a loop.
func While(cond, body Exp) Exp {
	return Exp{Kind: KindWhile, payload: &Loop{Cond: cond, Body: body}}
}

// ListExp constructs a list aggregate.
func ListExp(items ...Exp) Exp {
	return Exp{Kind: KindList, payload: items}
}

// FunctionObject wraps a closure over env.
func FunctionObject(params []string, body Exp, env *Env) Exp {
	return Exp{Kind: KindFunctionObject, payload: &Closure{Params: params, Body: body, Env: env}}
}

// PrimitiveFunction wraps a native operation under the given name.
func PrimitiveFunction(name string, fn NativeFunc) Exp {
	return Exp{Kind: KindPrimitive, payload: &Primitive{Name: name, Fn: fn}}
}

// Seq returns exps[0] when there is a single expression and a Statements
// node otherwise.
func Seq(exps []Exp) Exp {
	if len(exps) == 1 {
		return exps[0]
	}
	return Statements(exps...)
}

func (e Exp) Num() int64 {
	if n, ok := e.payload.(int64); ok {
		return n
	}
	return 0
}

func (e Exp) Truth() bool {
	if b, ok := e.payload.(bool); ok {
		return b
	}
	return false
}

func (e Exp) Str() string {
	if e.Kind != KindString {
		return ""
	}
	s, _ := e.payload.(string)
	return s
}

func (e Exp) Name() string {
	if e.Kind != KindSymbol {
		return ""
	}
	s, _ := e.payload.(string)
	return s
}

func (e Exp) Function() *Function {
	if f, ok := e.payload.(*Function); ok {
		return f
	}
	return nil
}

func (e Exp) Binding() *Binding {
	if b, ok := e.payload.(*Binding); ok {
		return b
	}
	return nil
}

func (e Exp) Call() *Call {
	if c, ok := e.payload.(*Call); ok {
		return c
	}
	return nil
}

func (e Exp) Conditional() *Conditional {
	if c, ok := e.payload.(*Conditional); ok {
		return c
	}
	return nil
}

func (e Exp) Loop() *Loop {
	if l, ok := e.payload.(*Loop); ok {
		return l
	}
	return nil
}

// Items returns the children of a Statements or ListExp node.
func (e Exp) Items() []Exp {
	if items, ok := e.payload.([]Exp); ok {
		return items
	}
	return nil
}

func (e Exp) Closure() *Closure {
	if c, ok := e.payload.(*Closure); ok {
		return c
	}
	return nil
}

func (e Exp) Primitive() *Primitive {
	if p, ok := e.payload.(*Primitive); ok {
		return p
	}
	return nil
}

func (e Exp) String() string {
	switch e.Kind {
	case KindNull:
		return "null"
	case KindNumber:
		return fmt.Sprintf("%d", e.Num())
	case KindBool:
		if e.Truth() {
			return "#t"
		}
		return "#f"
	case KindString:
		return fmt.Sprintf("%q", e.Str())
	case KindSymbol:
		return e.Name()
	case KindCreateFunction:
		f := e.Function()
		return fmt.Sprintf("(lambda (%s) %s)", strings.Join(f.Params, " "), f.Body)
	case KindSetVar:
		b := e.Binding()
		return fmt.Sprintf("(set! %s %s)", b.Name, b.Value)
	case KindDefine:
		b := e.Binding()
		return fmt.Sprintf("(define %s %s)", b.Name, b.Value)
	case KindFunctionCall:
		c := e.Call()
		return "(" + joinExps(append([]Exp{c.Callee}, c.Args...)) + ")"
	case KindIf:
		c := e.Conditional()
		return fmt.Sprintf("(if %s %s %s)", c.Cond, c.Then, c.Else)
	case KindStatements:
		return "(begin " + joinExps(e.Items()) + ")"
	case KindWhile:
		l := e.Loop()
		return fmt.Sprintf("(while %s %s)", l.Cond, l.Body)
	case KindList:
		return "(" + joinExps(e.Items()) + ")"
	case KindFunctionObject:
		return fmt.Sprintf("<function (%s)>", strings.Join(e.Closure().Params, " "))
	case KindPrimitive:
		return fmt.Sprintf("<primitive %s>", e.Primitive().Name)
	default:
		return "<unknown>"
	}
}

func joinExps(exps []Exp) string {
	return strings.Join(lo.Map(exps, func(e Exp, _ int) string {
		return e.String()
	}), " ")
}

// Equal reports whether a and b are structurally equal. Closures are
// compared by parameters and body only, ignoring the captured environment;
// primitives are compared by name.
func Equal(a, b Exp) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindNumber:
		return a.Num() == b.Num()
	case KindBool:
		return a.Truth() == b.Truth()
	case KindString:
		return a.Str() == b.Str()
	case KindSymbol:
		return a.Name() == b.Name()
	case KindCreateFunction:
		fa, fb := a.Function(), b.Function()
		return namesEqual(fa.Params, fb.Params) && Equal(fa.Body, fb.Body)
	case KindSetVar, KindDefine:
		ba, bb := a.Binding(), b.Binding()
		return ba.Name == bb.Name && Equal(ba.Value, bb.Value)
	case KindFunctionCall:
		ca, cb := a.Call(), b.Call()
		return Equal(ca.Callee, cb.Callee) && allEqual(ca.Args, cb.Args)
	case KindIf:
		ca, cb := a.Conditional(), b.Conditional()
		return Equal(ca.Cond, cb.Cond) && Equal(ca.Then, cb.Then) && Equal(ca.Else, cb.Else)
	case KindStatements, KindList:
		return allEqual(a.Items(), b.Items())
	case KindWhile:
		la, lb := a.Loop(), b.Loop()
		return Equal(la.Cond, lb.Cond) && Equal(la.Body, lb.Body)
	case KindFunctionObject:
		ca, cb := a.Closure(), b.Closure()
		return namesEqual(ca.Params, cb.Params) && Equal(ca.Body, cb.Body)
	case KindPrimitive:
		return a.Primitive().Name == b.Primitive().Name
	default:
		return false
	}
}

func allEqual(a, b []Exp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func namesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
