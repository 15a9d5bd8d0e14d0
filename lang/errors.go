package lang

import "fmt"

// UnboundVariableError reports a lookup of a name no frame holds.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

// TypeError reports an operand of the wrong kind given to a primitive or a
// special form.
type TypeError struct {
	Op   string
	Want Kind
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Want, e.Got)
}

// ArityError reports a primitive called with the wrong number of arguments.
// Interpreted functions never produce it: their arguments are truncated to
// the parameter list.
type ArityError struct {
	Op   string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d arguments, got %d", e.Op, e.Want, e.Got)
}

// NotCallableError reports an application whose callee is not a function.
type NotCallableError struct {
	Kind Kind
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("attempt to call non-function: %s", e.Kind)
}

// UnknownFormError reports an expression kind the evaluator has no rule for.
type UnknownFormError struct {
	Kind Kind
}

func (e *UnknownFormError) Error() string {
	return fmt.Sprintf("unknown expression kind: %s", e.Kind)
}
