package vm

import "github.com/student/scriptvm/values"

// resolve implements LOAD's name lookup order (spec 4.4.2): the current
// function's closure first, then the current frame's locals, then the
// persistent globals.
func (vm *VM) resolve(name string) (values.Value, bool) {
	if name == "this" {
		return vm.frame().This, true
	}
	f := vm.frame()
	if f.CurrentFunction != nil {
		if v, ok := f.CurrentFunction.Closure[name]; ok {
			return v, true
		}
	}
	if v, ok := f.Locals.Get(name); ok {
		return v, true
	}
	if f.Locals != vm.globals {
		if v, ok := vm.globals.Get(name); ok {
			return v, true
		}
	}
	return values.Undef(), false
}

// assign implements STORE's target selection (spec 4.4.3): if the name is
// bound in the executing function's closure, the closure itself is
// updated in place so the mutation is visible to every later call against
// that same closure. Otherwise an existing local binding is updated;
// otherwise an existing global is updated; otherwise the name is declared
// as a new global, matching the language's non-strict implicit-global
// assignment.
func (vm *VM) assign(name string, v values.Value) {
	f := vm.frame()
	if f.CurrentFunction != nil {
		if _, ok := f.CurrentFunction.Closure[name]; ok {
			f.CurrentFunction.Closure[name] = v
			return
		}
	}
	if f.Locals.Has(name) {
		f.Locals.Set(name, v)
		return
	}
	if f.Locals != vm.globals && vm.globals.Has(name) {
		vm.globals.Set(name, v)
		return
	}
	vm.globals.Set(name, v)
}

// instantiate realizes a pooled constant into the value PUSH should
// leave on the stack. For everything but UserFunction templates this is
// the identity; for a UserFunction it captures the current frame's
// bindings as a fresh closure (spec 4.4.4: capture-on-declare), starting
// from the enclosing function's own closure (so a function nested inside
// an already-closed-over function still reaches the outer captures) and
// overlaying the frame's own locals, which shadow on name collision.
func (vm *VM) instantiate(c values.Value) values.Value {
	if c.Type != values.UserFunc {
		return c
	}
	tmpl := c.AsUserFunction()
	vm.nextClosureID++
	f := vm.frame()
	closure := make(map[string]values.Value)
	if f.CurrentFunction != nil {
		for k, v := range f.CurrentFunction.Closure {
			closure[k] = v
		}
	}
	for k, v := range f.Locals.Snapshot() {
		closure[k] = v
	}
	return values.NewUserFunction(&values.UserFunction{
		Name:      tmpl.Name,
		Params:    tmpl.Params,
		EntryPC:   tmpl.EntryPC,
		Closure:   closure,
		ClosureID: vm.nextClosureID,
	})
}

// isolateReturnedClosures implements capture-on-return isolation (spec
// 4.4.4): once a closure (or an array of closures) is handed back from
// the frame that declared it, its captured composite values are cloned
// so later mutation of the now-dead frame's storage cannot reach it.
// Isolation is applied one level deep: a directly returned function, or
// a directly returned array of functions.
func (vm *VM) isolateReturnedClosures(v values.Value) values.Value {
	switch v.Type {
	case values.UserFunc:
		fn := v.AsUserFunction()
		if fn.Closure == nil {
			return v
		}
		cloned := make(map[string]values.Value, len(fn.Closure))
		for k, cv := range fn.Closure {
			cloned[k] = values.ShallowClone(cv)
		}
		return values.NewUserFunction(&values.UserFunction{
			Name: fn.Name, Params: fn.Params, EntryPC: fn.EntryPC,
			Closure: cloned, ClosureID: fn.ClosureID,
		})
	case values.Array:
		arr := v.AsArray()
		out := make([]values.Value, len(arr.Elements))
		changed := false
		for i, e := range arr.Elements {
			if e.Type == values.UserFunc {
				out[i] = vm.isolateReturnedClosures(e)
				changed = true
			} else {
				out[i] = e
			}
		}
		if !changed {
			return v
		}
		return values.NewArray(out)
	default:
		return v
	}
}
