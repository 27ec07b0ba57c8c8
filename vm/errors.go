package vm

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/student/scriptvm/values"
)

// RuntimeError wraps a thrown or intrinsic failure with the call stack
// active at the point of failure (spec 7).
type RuntimeError struct {
	Value  values.Value
	Stack  []string
	cause  error
}

func (e *RuntimeError) Error() string {
	msg := e.Value.ToString()
	if len(e.Stack) == 0 {
		return fmt.Sprintf("runtime error: %s", msg)
	}
	return fmt.Sprintf("runtime error: %s\n\tat %s", msg, joinStack(e.Stack))
}

func (e *RuntimeError) Unwrap() error { return e.cause }

func joinStack(frames []string) string {
	out := frames[0]
	for _, f := range frames[1:] {
		out += "\n\tat " + f
	}
	return out
}

// BudgetError reports that a run exceeded MaxInstructions (spec 5.2).
// The message is rendered with humanize so large counts stay readable
// in REPL/CLI output.
type BudgetError struct {
	Executed int
	Limit    int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("instruction budget exceeded: executed %s of %s allowed instructions",
		humanize.Comma(int64(e.Executed)), humanize.Comma(int64(e.Limit)))
}

// CompileError mirrors compiler.CompileError so callers that only import
// vm (e.g. the host facade) can type-switch on a single error family.
type CompileError struct {
	Underlying error
}

func (e *CompileError) Error() string { return e.Underlying.Error() }
func (e *CompileError) Unwrap() error { return e.Underlying }

// ThrownValue carries a script-level `throw`'d value up through the Go
// error chain (__throw__ returns one instead of a string-only error) so
// the RuntimeError surfaced to the host keeps the exact thrown value,
// not a stringified message (throw/try/catch are accept-and-ignore per
// spec 7/9: nothing in this VM ever catches a ThrownValue).
type ThrownValue struct {
	Value values.Value
}

func (e *ThrownValue) Error() string { return e.Value.ToString() }

// asRuntimeError normalizes any error surfacing from script execution or
// a host call into a *RuntimeError, preserving the exact thrown value
// when available instead of collapsing it to a string.
func asRuntimeError(err error, stack []string) *RuntimeError {
	if re, ok := err.(*RuntimeError); ok {
		re.Stack = stack
		return re
	}
	if tv, ok := err.(*ThrownValue); ok {
		return &RuntimeError{Value: tv.Value, Stack: stack, cause: err}
	}
	return &RuntimeError{Value: values.NewString(err.Error()), Stack: stack, cause: err}
}

