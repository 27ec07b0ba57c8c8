package vm

import (
	"fmt"

	"github.com/student/scriptvm/values"
)

// doCall implements OP_CALL: stack holds callee then argc arguments,
// left to right (spec 4.4.5).
func (vm *VM) doCall(argc int, this values.Value, isNew bool) (int, *values.Value, error) {
	args := vm.popN(argc)
	callee := vm.pop()
	return vm.invoke(callee, this, args, isNew)
}

// doCallMethod implements OP_CALL_METHOD: stack holds the receiver, the
// resolved method, then argc arguments (the compiler DUPs the receiver
// ahead of GET_PROP so it survives for `this` binding).
func (vm *VM) doCallMethod(argc int) (int, *values.Value, error) {
	args := vm.popN(argc)
	callee := vm.pop()
	this := vm.pop()
	return vm.invoke(callee, this, args, false)
}

// doNew implements OP_NEW (spec 4.4.6): a HostFunction with a Construct
// hook runs that instead of Fn; a UserFunction runs against a fresh
// object bound as `this`, and keeps that object's value unless the
// constructor itself returns an Object.
func (vm *VM) doNew(argc int) (int, *values.Value, error) {
	args := vm.popN(argc)
	callee := vm.pop()

	switch callee.Type {
	case values.HostFunc:
		fn := callee.AsHostFunction()
		var res values.Value
		var err error
		if fn.Construct != nil {
			res, err = fn.Construct(args)
		} else {
			res, err = fn.Fn(values.Undef(), args)
		}
		if err != nil {
			return 0, nil, err
		}
		vm.push(res)
		return vm.pc + 1, nil, nil
	case values.UserFunc:
		return vm.invoke(callee, values.NewObject(), args, true)
	default:
		return 0, nil, fmt.Errorf("%s is not a constructor", callee.Debug())
	}
}

// invoke dispatches a resolved callee: a HostFunction runs synchronously
// and its result is pushed immediately; a UserFunction pushes a new
// frame and transfers control to its entry point, to be unwound by a
// later OP_RET.
func (vm *VM) invoke(callee, this values.Value, args []values.Value, isNew bool) (int, *values.Value, error) {
	switch callee.Type {
	case values.HostFunc:
		fn := callee.AsHostFunction()
		res, err := fn.Fn(this, args)
		if err != nil {
			return 0, nil, err
		}
		vm.push(res)
		return vm.pc + 1, nil, nil
	case values.UserFunc:
		fn := callee.AsUserFunction()
		name := "<anonymous>"
		if fn.Name != nil {
			name = *fn.Name
		}
		f := newFrame(name, this, vm.pc+1)
		f.IsNew = isNew
		f.CurrentFunction = fn
		for i, p := range fn.Params {
			if i < len(args) {
				f.Locals.Set(p, args[i])
			} else {
				f.Locals.Set(p, values.Undef())
			}
		}
		vm.frames = append(vm.frames, f)
		return fn.EntryPC, nil, nil
	default:
		return 0, nil, fmt.Errorf("%s is not a function", callee.Debug())
	}
}

// doReturn implements OP_RET: unwinds the current frame, substituting
// `this` for a non-Object return from a `new` invocation, and applies
// closure isolation to whatever value crosses the return boundary.
func (vm *VM) doReturn() (int, *values.Value, error) {
	retVal := vm.pop()
	frame := vm.frames[len(vm.frames)-1]
	if frame.IsNew && retVal.Type != values.Object {
		retVal = frame.This
	}
	retVal = vm.isolateReturnedClosures(retVal)

	if len(vm.frames) == 1 {
		result := retVal
		return 0, &result, nil
	}
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.push(retVal)
	return frame.ReturnPC, nil, nil
}
