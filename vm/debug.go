package vm

import (
	"fmt"

	"github.com/google/uuid"
)

// DebugLevel is a tiered debug switch: basic records the start of each
// Execute and every watched name's LOAD/STORE, detail additionally
// records every instruction, and verbose records the same as detail
// (spec 6.2).
type DebugLevel int

const (
	DebugNone DebugLevel = iota
	DebugBasic
	DebugDetailed
	DebugVerbose
)

func (l DebugLevel) String() string {
	switch l {
	case DebugBasic:
		return "basic"
	case DebugDetailed:
		return "detail"
	case DebugVerbose:
		return "verbose"
	default:
		return "none"
	}
}

// traceEntry is one recorded step of execution, kept whenever a debug
// level above DebugNone is active so a host can inspect what happened
// after Execute returns.
type traceEntry struct {
	PC   int
	Op   string
	Note string
}

// newTraceID stamps a fresh execute() invocation so multiple overlapping
// debug sessions (e.g. nested host calls) can be told apart in logs.
func newTraceID() string {
	return uuid.NewString()
}

func (vm *VM) logf(level DebugLevel, format string, args ...any) {
	if vm.DebugLevel < level || vm.DebugLevel == DebugNone {
		return
	}
	vm.trace = append(vm.trace, traceEntry{PC: vm.pc, Note: fmt.Sprintf(format, args...)})
}
