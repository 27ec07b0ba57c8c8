package vm

import "github.com/student/scriptvm/values"

// CallFrame is one activation record on the vm's call stack (spec 3.4).
type CallFrame struct {
	Locals          *values.Env
	This            values.Value
	ReturnPC        int
	FuncName        string
	ClosureID       int64
	IsNew           bool // true when entered via the NEW opcode (spec 4.4.6)
	CurrentFunction *values.UserFunction // the function being executed; gives LOAD/STORE access to its closure (spec 4.4.2/4.4.3)
}

func newFrame(name string, this values.Value, returnPC int) *CallFrame {
	return &CallFrame{Locals: values.NewEnv(), This: this, ReturnPC: returnPC, FuncName: name}
}
