package vm

import (
	"strings"

	"github.com/student/scriptvm/values"
)

// method is a prototype-fallback intrinsic: it receives the receiver as
// `this` the same way a host function does, so CALL_METHOD can invoke
// it without any special case (spec 4.4.7).
type method func(this values.Value, args []values.Value) (values.Value, error)

func arg(args []values.Value, i int) values.Value {
	if i < len(args) {
		return args[i]
	}
	return values.Undef()
}

var stringMethods = map[string]method{
	"charAt": func(this values.Value, args []values.Value) (values.Value, error) {
		s := this.ToString()
		i := int(arg(args, 0).ToNumber())
		if i < 0 || i >= len(s) {
			return values.NewString(""), nil
		}
		return values.NewString(string(s[i])), nil
	},
	"toUpperCase": func(this values.Value, args []values.Value) (values.Value, error) {
		return values.NewString(strings.ToUpper(this.ToString())), nil
	},
	"toLowerCase": func(this values.Value, args []values.Value) (values.Value, error) {
		return values.NewString(strings.ToLower(this.ToString())), nil
	},
	"trim": func(this values.Value, args []values.Value) (values.Value, error) {
		return values.NewString(strings.TrimSpace(this.ToString())), nil
	},
	"indexOf": func(this values.Value, args []values.Value) (values.Value, error) {
		return values.NewNumber(float64(strings.Index(this.ToString(), arg(args, 0).ToString()))), nil
	},
	"slice": func(this values.Value, args []values.Value) (values.Value, error) {
		s := this.ToString()
		start, end := sliceBounds(len(s), args)
		if start >= end {
			return values.NewString(""), nil
		}
		return values.NewString(s[start:end]), nil
	},
	"split": func(this values.Value, args []values.Value) (values.Value, error) {
		s := this.ToString()
		sep := arg(args, 0)
		var parts []string
		if sep.IsUndefined() {
			parts = []string{s}
		} else {
			parts = strings.Split(s, sep.ToString())
		}
		elems := make([]values.Value, len(parts))
		for i, p := range parts {
			elems[i] = values.NewString(p)
		}
		return values.NewArray(elems), nil
	},
	"concat": func(this values.Value, args []values.Value) (values.Value, error) {
		s := this.ToString()
		for _, a := range args {
			s += a.ToString()
		}
		return values.NewString(s), nil
	},
}

var arrayMethods = map[string]method{
	"push": func(this values.Value, args []values.Value) (values.Value, error) {
		arr := this.AsArray()
		arr.Elements = append(arr.Elements, args...)
		return values.NewNumber(float64(len(arr.Elements))), nil
	},
	"pop": func(this values.Value, args []values.Value) (values.Value, error) {
		arr := this.AsArray()
		if len(arr.Elements) == 0 {
			return values.Undef(), nil
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last, nil
	},
	"join": func(this values.Value, args []values.Value) (values.Value, error) {
		arr := this.AsArray()
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			sep = args[0].ToString()
		}
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			if e.IsNullish() {
				parts[i] = ""
			} else {
				parts[i] = e.ToString()
			}
		}
		return values.NewString(strings.Join(parts, sep)), nil
	},
	"indexOf": func(this values.Value, args []values.Value) (values.Value, error) {
		arr := this.AsArray()
		needle := arg(args, 0)
		for i, e := range arr.Elements {
			if values.Equal(e, needle) {
				return values.NewNumber(float64(i)), nil
			}
		}
		return values.NewNumber(-1), nil
	},
	"slice": func(this values.Value, args []values.Value) (values.Value, error) {
		arr := this.AsArray()
		start, end := sliceBounds(len(arr.Elements), args)
		if start >= end {
			return values.NewArray(nil), nil
		}
		cp := make([]values.Value, end-start)
		copy(cp, arr.Elements[start:end])
		return values.NewArray(cp), nil
	},
}

// sliceBounds implements Array.prototype.slice/String.prototype.slice's
// negative-index clamping rule shared by both.
func sliceBounds(length int, args []values.Value) (int, int) {
	start := 0
	if len(args) > 0 && !args[0].IsUndefined() {
		start = clampIndex(int(args[0].ToNumber()), length)
	}
	end := length
	if len(args) > 1 && !args[1].IsUndefined() {
		end = clampIndex(int(args[1].ToNumber()), length)
	}
	return start, end
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// propertyFallback resolves a property against the receiver's intrinsic
// prototype when it is not found as an own property (spec 4.4.7): own
// data always wins, then type-appropriate intrinsics, then undefined.
func propertyFallback(v values.Value, key string) (values.Value, bool) {
	switch v.Type {
	case values.String:
		if key == "length" {
			return values.NewNumber(float64(len(v.Data.(string)))), true
		}
		if m, ok := stringMethods[key]; ok {
			return values.NewHostFunction(key, func(this values.Value, args []values.Value) (values.Value, error) {
				return m(this, args)
			}), true
		}
	case values.Array:
		arr := v.AsArray()
		if key == "length" {
			return values.NewNumber(float64(len(arr.Elements))), true
		}
		if m, ok := arrayMethods[key]; ok {
			return values.NewHostFunction(key, func(this values.Value, args []values.Value) (values.Value, error) {
				return m(this, args)
			}), true
		}
	}
	return values.Undef(), false
}
