package runtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/student/scriptvm/values"
)

// installGlobalFunctions seeds parseInt/parseFloat/isNaN/isFinite (spec
// 6.3), each tolerant of leading/trailing whitespace and a leading sign,
// returning NaN on an unparseable input rather than erroring — matching
// how these coercion helpers behave in every JS-like host.
func installGlobalFunctions(globals *values.Env) {
	globals.Set("parseInt", values.NewHostFunction("parseInt", func(_ values.Value, args []values.Value) (values.Value, error) {
		s := strings.TrimSpace(arg(args, 0).ToString())
		base := 10
		if len(args) > 1 && !args[1].IsUndefined() {
			if b := int(args[1].ToNumber()); b != 0 {
				base = b
			}
		}
		end := 0
		for end < len(s) && (isDigitInBase(s[end], base) || (end == 0 && (s[end] == '+' || s[end] == '-'))) {
			end++
		}
		if end == 0 {
			return values.NewNumber(nan()), nil
		}
		n, err := strconv.ParseInt(s[:end], base, 64)
		if err != nil {
			return values.NewNumber(nan()), nil
		}
		return values.NewNumber(float64(n)), nil
	}))

	globals.Set("parseFloat", values.NewHostFunction("parseFloat", func(_ values.Value, args []values.Value) (values.Value, error) {
		s := strings.TrimSpace(arg(args, 0).ToString())
		end := 0
		seenDot, seenDigit := false, false
		for end < len(s) {
			c := s[end]
			switch {
			case c >= '0' && c <= '9':
				seenDigit = true
			case c == '.' && !seenDot:
				seenDot = true
			case (c == '+' || c == '-') && end == 0:
			case (c == 'e' || c == 'E') && seenDigit:
			default:
				goto done
			}
			end++
		}
	done:
		if !seenDigit {
			return values.NewNumber(nan()), nil
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return values.NewNumber(nan()), nil
		}
		return values.NewNumber(f), nil
	}))

	globals.Set("isNaN", values.NewHostFunction("isNaN", func(_ values.Value, args []values.Value) (values.Value, error) {
		return values.NewBool(math.IsNaN(arg(args, 0).ToNumber())), nil
	}))
	globals.Set("isFinite", values.NewHostFunction("isFinite", func(_ values.Value, args []values.Value) (values.Value, error) {
		n := arg(args, 0).ToNumber()
		return values.NewBool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
}

func isDigitInBase(c byte, base int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < base
}

// installCoercionConstructors seeds String/Number/Boolean/Object/Array as
// callable coercion functions (spec 6.3); none support `new` beyond the
// trivial fallback already provided by OP_NEW for HostFunctions without a
// Construct hook.
func installCoercionConstructors(globals *values.Env) {
	globals.Set("String", values.NewHostFunction("String", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.NewString(""), nil
		}
		return values.NewString(args[0].ToString()), nil
	}))
	globals.Set("Number", values.NewHostFunction("Number", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.NewNumber(0), nil
		}
		return values.NewNumber(args[0].ToNumber()), nil
	}))
	globals.Set("Boolean", values.NewHostFunction("Boolean", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.NewBool(false), nil
		}
		return values.NewBool(args[0].ToBool()), nil
	}))
	globals.Set("Object", values.NewHostFunction("Object", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) > 0 && args[0].IsObject() {
			return args[0], nil
		}
		return values.NewObject(), nil
	}))
	globals.Set("Array", values.NewHostFunction("Array", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 1 && args[0].IsNumber() {
			n := int(args[0].ToNumber())
			elems := make([]values.Value, n)
			for i := range elems {
				elems[i] = values.Undef()
			}
			return values.NewArray(elems), nil
		}
		return values.NewArray(append([]values.Value{}, args...)), nil
	}))
}
