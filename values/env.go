package values

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Env is an insertion-ordered name -> Value mapping. It backs call-frame
// locals, the globals table, and object property bags (spec 3.4, 3.5),
// all of which share the same ordering requirement.
type Env struct {
	order []string
	vals  map[string]Value
}

// NewEnv constructs an empty environment.
func NewEnv() *Env {
	return &Env{vals: make(map[string]Value)}
}

// Get returns the bound value and whether name is bound at all.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vals[name]
	return v, ok
}

// Has reports whether name is bound.
func (e *Env) Has(name string) bool {
	_, ok := e.vals[name]
	return ok
}

// Set binds name to v, appending to insertion order on first bind.
func (e *Env) Set(name string, v Value) {
	if _, exists := e.vals[name]; !exists {
		e.order = append(e.order, name)
	}
	e.vals[name] = v
}

// Delete removes a binding, including from iteration order.
func (e *Env) Delete(name string) {
	if _, ok := e.vals[name]; !ok {
		return
	}
	delete(e.vals, name)
	if i := slices.Index(e.order, name); i >= 0 {
		e.order = slices.Delete(e.order, i, i+1)
	}
}

// Names returns bound names in insertion order.
func (e *Env) Names() []string {
	return e.order
}

// Len reports the number of bound names.
func (e *Env) Len() int {
	return len(e.order)
}

// Snapshot returns a plain map copy, used when a caller needs a detached
// view (e.g. closure capture) rather than a live reference into Env.
func (e *Env) Snapshot() map[string]Value {
	return maps.Clone(e.vals)
}
