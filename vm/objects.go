package vm

import (
	"fmt"

	"github.com/student/scriptvm/values"
)

// getProperty resolves a named property: own data on an Object wins,
// otherwise the receiver's intrinsic prototype fallback runs (spec
// 4.4.7), otherwise undefined.
func (vm *VM) getProperty(obj values.Value, key string) values.Value {
	if obj.Type == values.Object {
		if v, ok := obj.AsObject().Props.Get(key); ok {
			return v
		}
	}
	if v, ok := propertyFallback(obj, key); ok {
		return v
	}
	return values.Undef()
}

func (vm *VM) doGetProp() (int, *values.Value, error) {
	key := vm.pop()
	obj := vm.pop()
	vm.push(vm.getProperty(obj, key.ToString()))
	return vm.pc + 1, nil, nil
}

func (vm *VM) doSetProp() (int, *values.Value, error) {
	val := vm.pop()
	key := vm.pop()
	obj := vm.pop()
	if obj.Type != values.Object {
		return 0, nil, fmt.Errorf("cannot set property %q on a %s", key.ToString(), obj.TypeOf())
	}
	obj.AsObject().Props.Set(key.ToString(), val)
	vm.push(val)
	return vm.pc + 1, nil, nil
}

func (vm *VM) doGetElem() (int, *values.Value, error) {
	key := vm.pop()
	obj := vm.pop()
	if obj.Type == values.Array {
		idx := int(key.ToNumber())
		arr := obj.AsArray()
		if idx >= 0 && idx < len(arr.Elements) {
			vm.push(arr.Elements[idx])
		} else {
			vm.push(values.Undef())
		}
		return vm.pc + 1, nil, nil
	}
	vm.push(vm.getProperty(obj, key.ToString()))
	return vm.pc + 1, nil, nil
}

// doSetElem grows a target array to accommodate an out-of-range index,
// filling the gap with undefined (spec 4.4.8 boundary behavior).
func (vm *VM) doSetElem() (int, *values.Value, error) {
	val := vm.pop()
	key := vm.pop()
	obj := vm.pop()
	switch obj.Type {
	case values.Array:
		idx := int(key.ToNumber())
		if idx < 0 {
			return 0, nil, fmt.Errorf("negative array index %d", idx)
		}
		arr := obj.AsArray()
		for len(arr.Elements) <= idx {
			arr.Elements = append(arr.Elements, values.Undef())
		}
		arr.Elements[idx] = val
		vm.push(val)
		return vm.pc + 1, nil, nil
	case values.Object:
		obj.AsObject().Props.Set(key.ToString(), val)
		vm.push(val)
		return vm.pc + 1, nil, nil
	default:
		return 0, nil, fmt.Errorf("cannot set element %q on a %s", key.ToString(), obj.TypeOf())
	}
}

func (vm *VM) doNewObj(n int) (int, *values.Value, error) {
	kv := vm.popN(2 * n)
	obj := values.NewObject()
	props := obj.AsObject().Props
	for i := 0; i < n; i++ {
		props.Set(kv[2*i].ToString(), kv[2*i+1])
	}
	vm.push(obj)
	return vm.pc + 1, nil, nil
}
