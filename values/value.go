// Package values implements the engine's runtime value model: a tagged
// union over the primitive and composite kinds the VM operates on, plus
// the constant pool and environment types built on top of it.
package values

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Type is the tag discriminating a Value's payload.
type Type byte

const (
	Undefined Type = iota
	Null
	Bool
	Number
	String
	Array
	Object
	HostFunc
	UserFunc
	HostObj
)

func (t Type) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case HostFunc, UserFunc:
		return "function"
	case HostObj:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged union every instruction operates on.
type Value struct {
	Type Type
	Data any
}

// ArrayValue backs Type == Array: a dense, ordered sequence of Values.
type ArrayValue struct {
	Elements []Value
}

// ObjectValue backs Type == Object: an insertion-ordered string->Value map.
type ObjectValue struct {
	Props *Env
}

// HostFunction is an opaque callable supplied by the host application.
type HostFunction struct {
	Name string
	Fn   func(this Value, args []Value) (Value, error)
	// Construct, when non-nil, implements the host's construct protocol
	// for `new HostFn(...)` (spec 4.4.6). When nil, NEW falls back to Fn.
	Construct func(args []Value) (Value, error)
}

// HostObject wraps any host-provided value that does not fit the other
// shapes. It is resolved purely through GET_PROP's prototype fallback.
type HostObject struct {
	Native any
}

// UserFunction is a script-defined function (spec 3.2).
type UserFunction struct {
	Name      *string
	Params    []string
	EntryPC   int
	Closure   map[string]Value
	ClosureID int64
}

// --- constructors -----------------------------------------------------

func Undef() Value { return Value{Type: Undefined} }
func Nul() Value   { return Value{Type: Null} }

func NewBool(b bool) Value   { return Value{Type: Bool, Data: b} }
func NewNumber(n float64) Value { return Value{Type: Number, Data: n} }
func NewString(s string) Value  { return Value{Type: String, Data: s} }

func NewArray(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Type: Array, Data: &ArrayValue{Elements: elems}}
}

func NewObject() Value {
	return Value{Type: Object, Data: &ObjectValue{Props: NewEnv()}}
}

func NewHostFunction(name string, fn func(this Value, args []Value) (Value, error)) Value {
	return Value{Type: HostFunc, Data: &HostFunction{Name: name, Fn: fn}}
}

func NewHostObject(native any) Value {
	return Value{Type: HostObj, Data: &HostObject{Native: native}}
}

func NewUserFunction(fn *UserFunction) Value {
	return Value{Type: UserFunc, Data: fn}
}

// --- type predicates ----------------------------------------------------

func (v Value) IsUndefined() bool { return v.Type == Undefined }
func (v Value) IsNull() bool      { return v.Type == Null }
func (v Value) IsNullish() bool   { return v.Type == Undefined || v.Type == Null }
func (v Value) IsBool() bool      { return v.Type == Bool }
func (v Value) IsNumber() bool    { return v.Type == Number }
func (v Value) IsString() bool    { return v.Type == String }
func (v Value) IsArray() bool     { return v.Type == Array }
func (v Value) IsObject() bool    { return v.Type == Object }
func (v Value) IsCallable() bool  { return v.Type == HostFunc || v.Type == UserFunc }

func (v Value) AsArray() *ArrayValue   { return v.Data.(*ArrayValue) }
func (v Value) AsObject() *ObjectValue { return v.Data.(*ObjectValue) }
func (v Value) AsHostFunction() *HostFunction { return v.Data.(*HostFunction) }
func (v Value) AsUserFunction() *UserFunction { return v.Data.(*UserFunction) }
func (v Value) AsHostObject() *HostObject     { return v.Data.(*HostObject) }

// --- coercions (spec 3.1) -----------------------------------------------

func (v Value) ToBool() bool {
	switch v.Type {
	case Undefined, Null:
		return false
	case Bool:
		return v.Data.(bool)
	case Number:
		n := v.Data.(float64)
		return n != 0 && !math.IsNaN(n)
	case String:
		return v.Data.(string) != ""
	case Array, Object, HostFunc, UserFunc, HostObj:
		return true
	default:
		return false
	}
}

func (v Value) ToNumber() float64 {
	switch v.Type {
	case Undefined:
		return math.NaN()
	case Null:
		return 0
	case Bool:
		if v.Data.(bool) {
			return 1
		}
		return 0
	case Number:
		return v.Data.(float64)
	case String:
		s := strings.TrimSpace(v.Data.(string))
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return math.NaN()
	case Array:
		arr := v.Data.(*ArrayValue)
		if len(arr.Elements) == 0 {
			return 0
		}
		if len(arr.Elements) == 1 {
			return arr.Elements[0].ToNumber()
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToInt32 implements the bitwise-operand coercion rule in spec 3.1: to
// 32-bit signed integer (NaN/Inf truncate to 0, then wrap mod 2^32).
func (v Value) ToInt32() int32 {
	n := v.ToNumber()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	u := uint32(int64(math.Trunc(n)))
	return int32(u)
}

func (v Value) ToUint32() uint32 {
	n := v.ToNumber()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(n)))
}

func (v Value) ToString() string {
	switch v.Type {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(v.Data.(float64))
	case String:
		return v.Data.(string)
	case Array:
		arr := v.Data.(*ArrayValue)
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			if e.IsNullish() {
				parts[i] = ""
			} else {
				parts[i] = e.ToString()
			}
		}
		return strings.Join(parts, ",")
	case Object:
		return "[object Object]"
	case HostFunc:
		return fmt.Sprintf("function %s() { [host code] }", v.Data.(*HostFunction).Name)
	case UserFunc:
		fn := v.Data.(*UserFunction)
		name := "anonymous"
		if fn.Name != nil {
			name = *fn.Name
		}
		return fmt.Sprintf("function %s() { [script code] }", name)
	case HostObj:
		return fmt.Sprintf("%v", v.Data.(*HostObject).Native)
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == 0 {
		if math.Signbit(n) {
			return "0"
		}
		return "0"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// TypeOf implements the TYPEOF opcode (spec 4.2).
func (v Value) TypeOf() string {
	if v.Type == Null {
		return "object"
	}
	return v.Type.String()
}

// --- equality (spec 4.2: EQ/NE are strict, tag + value) -----------------

func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Undefined, Null:
		return true
	case Bool:
		return a.Data.(bool) == b.Data.(bool)
	case Number:
		an, bn := a.Data.(float64), b.Data.(float64)
		if math.IsNaN(an) || math.IsNaN(bn) {
			return false
		}
		return an == bn
	case String:
		return a.Data.(string) == b.Data.(string)
	default:
		// Arrays, objects, and functions compare by reference identity.
		return a.Data == b.Data
	}
}

// Compare implements the relational operators (LT/LE/GT/GE). It returns
// (-1, 0, 1) or ok=false when the comparison is not well ordered (NaN).
func Compare(a, b Value) (result int, ok bool) {
	if a.Type == String && b.Type == String {
		as, bs := a.Data.(string), b.Data.(string)
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	an, bn := a.ToNumber(), b.ToNumber()
	if math.IsNaN(an) || math.IsNaN(bn) {
		return 0, false
	}
	switch {
	case an < bn:
		return -1, true
	case an > bn:
		return 1, true
	default:
		return 0, true
	}
}

// --- shallow clone, used by closure capture-on-return (spec 4.4.4) ------

// ShallowClone copies data-bearing values (arrays/objects) into new
// storage while leaving functions and primitives referenced as-is.
func ShallowClone(v Value) Value {
	switch v.Type {
	case Array:
		arr := v.Data.(*ArrayValue)
		cp := make([]Value, len(arr.Elements))
		copy(cp, arr.Elements)
		return NewArray(cp)
	case Object:
		obj := v.Data.(*ObjectValue)
		out := NewObject()
		dst := out.AsObject()
		for _, k := range obj.Props.Names() {
			val, _ := obj.Props.Get(k)
			dst.Props.Set(k, val)
		}
		return out
	default:
		return v
	}
}

// Debug renders a value the way a host REPL would print it back.
func (v Value) Debug() string {
	switch v.Type {
	case String:
		return strconv.Quote(v.Data.(string))
	case Array:
		arr := v.Data.(*ArrayValue)
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			parts[i] = e.Debug()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Object:
		obj := v.Data.(*ObjectValue)
		keys := append([]string(nil), obj.Props.Names()...)
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			val, _ := obj.Props.Get(k)
			parts = append(parts, fmt.Sprintf("%s: %s", k, val.Debug()))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return v.ToString()
	}
}
