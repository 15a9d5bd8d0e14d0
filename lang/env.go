package lang

import (
	"sort"

	"github.com/samber/lo"
)

// Frame is one mutable scope layer. A frame is shared by reference between
// every environment chain that includes it, so a write through one chain is
// visible through all of them.
type Frame struct {
	values map[string]Exp
}

func newFrame(bindings []Binding) *Frame {
	f := &Frame{values: make(map[string]Exp, len(bindings))}
	for _, b := range bindings {
		f.values[b.Name] = b.Value
	}
	return f
}

// Env implements a lexical environment chain.
//
// The chain itself is persistent: NewScope returns a new node pointing at
// the receiver and never modifies it. The frames it references are mutable
// and shared. Evaluating concurrently over environments that share a frame
// requires external synchronisation.
type Env struct {
	frame  *Frame
	parent *Env
}

// NewEnv creates a single-frame environment holding bindings. The frame
// becomes the global frame of every environment derived from the result.
func NewEnv(bindings []Binding) *Env {
	return &Env{frame: newFrame(bindings)}
}

// NewScope returns an environment with one fresh frame, populated from
// bindings, layered on top of e. When a name repeats, the later binding wins.
func (e *Env) NewScope(bindings []Binding) *Env {
	return &Env{frame: newFrame(bindings), parent: e}
}

// Bind overwrites name in the innermost frame that already holds it. A name
// not visible anywhere is written into the global frame, not the current
// one.
func (e *Env) Bind(name string, val Exp) {
	if f := e.lookup(name); f != nil {
		f.values[name] = val
		return
	}
	e.Global().frame.values[name] = val
}

// ValueOf retrieves a binding, searching from the innermost frame outwards.
func (e *Env) ValueOf(name string) (Exp, error) {
	if f := e.lookup(name); f != nil {
		return f.values[name], nil
	}
	return Exp{}, &UnboundVariableError{Name: name}
}

func (e *Env) lookup(name string) *Frame {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.frame.values[name]; ok {
			return cur.frame
		}
	}
	return nil
}

// Parent returns the enclosing environment, or nil for a global one.
func (e *Env) Parent() *Env {
	return e.parent
}

// Global returns the outermost environment of the chain.
func (e *Env) Global() *Env {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Depth reports the number of frames in the chain.
func (e *Env) Depth() int {
	n := 0
	for cur := e; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// Names lists the names bound in the innermost frame, sorted.
func (e *Env) Names() []string {
	names := lo.Keys(e.frame.values)
	sort.Strings(names)
	return names
}

// SharesFrame reports whether e and other both include the innermost frame
// of other.
func (e *Env) SharesFrame(other *Env) bool {
	if other == nil {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur.frame == other.frame {
			return true
		}
	}
	return false
}
