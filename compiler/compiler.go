// Package compiler lowers ast.Node trees into a bytecode.Program, one
// compile<Kind> method per node kind (spec 4.3). Name resolution itself
// is left to the vm's frame chain at run time; the compiler only emits
// LOAD/STORE/DECLARE against pooled name strings.
package compiler

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/student/scriptvm/ast"
	"github.com/student/scriptvm/bytecode"
	"github.com/student/scriptvm/opcodes"
	"github.com/student/scriptvm/values"
)

// CompileError reports a node the compiler cannot lower, naming its kind
// (spec 7: "unsupported node kinds cause compile-time failure naming the
// kind").
type CompileError struct {
	Kind ast.Kind
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("compile error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("compile error at line %d: unsupported node kind %s", e.Line, e.Kind)
}

// loopCtx tracks the patch list for an enclosing loop's break/continue.
type loopCtx struct {
	breaks     []int
	continues  []int
	contTarget int // pc continues jump to directly; -1 means patch lc.continues instead
}

func newLoopCtx() *loopCtx { return &loopCtx{contTarget: -1} }

// switchCtx tracks break targets for an enclosing switch. A switch takes
// precedence over an enclosing loop for bare `break` (spec 9).
type switchCtx struct {
	breaks []int
}

// Compiler walks an ast.Program and produces a bytecode.Program.
type Compiler struct {
	b        *bytecode.Builder
	loops    []*loopCtx
	switches []*switchCtx
	scopes   [][]string // declared names per lexical level (spec 4.3), innermost last
	err      error
	tmpSeq   int
}

// pushScope/popScope/declare maintain the lexical scope stack used for
// compile-time legality checks (duplicate parameter names) independent
// of the runtime binding machinery in package vm.
func (c *Compiler) pushScope() { c.scopes = append(c.scopes, nil) }
func (c *Compiler) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Compiler) declare(n ast.Node, name string) {
	if len(c.scopes) == 0 {
		return
	}
	top := len(c.scopes) - 1
	if slices.Contains(c.scopes[top], name) {
		c.fail(n, fmt.Sprintf("duplicate declaration of %q in this scope", name))
		return
	}
	c.scopes[top] = append(c.scopes[top], name)
}

// tempName returns a fresh hidden binding name for desugaring
// multi-step member reads/writes (update and compound-assignment
// expressions) into single-evaluation sequences.
func (c *Compiler) tempName() string {
	c.tmpSeq++
	return fmt.Sprintf("__tmp%d__", c.tmpSeq)
}

// New constructs a Compiler.
func New() *Compiler {
	return &Compiler{b: bytecode.NewBuilder()}
}

// Compile lowers prog to a bytecode.Program, or the first error reached.
func Compile(prog *ast.Program) (*bytecode.Program, error) {
	c := New()
	c.compileProgram(prog)
	c.b.Emit(opcodes.OP_HALT, 0)
	if c.err != nil {
		return nil, c.err
	}
	return c.b.Program(), nil
}

func (c *Compiler) fail(n ast.Node, msg string) {
	if c.err == nil {
		c.err = &CompileError{Kind: n.Kind(), Line: n.Position().Line, Msg: msg}
	}
}

func (c *Compiler) unsupported(n ast.Node) {
	if c.err == nil {
		c.err = &CompileError{Kind: n.Kind(), Line: n.Position().Line}
	}
}

func (c *Compiler) dbg(n ast.Node) bytecode.DebugInfo {
	p := n.Position()
	return bytecode.DebugInfo{Line: p.Line, Column: p.Column}
}

// compileProgram emits every top-level statement, preserving the value
// of a final bare expression statement instead of popping it (spec 9:
// "the last top-level expression statement's value is preserved").
func (c *Compiler) compileProgram(prog *ast.Program) {
	for i, stmt := range prog.Body {
		if c.err != nil {
			return
		}
		last := i == len(prog.Body)-1
		if es, ok := stmt.(*ast.ExpressionStatement); ok && last {
			c.compileExpr(es.Expression)
			continue
		}
		c.compileStmt(stmt)
	}
}

// --- statements -----------------------------------------------------

func (c *Compiler) compileStmt(n ast.Stmt) {
	if c.err != nil {
		return
	}
	switch s := n.(type) {
	case *ast.BlockStatement:
		for _, st := range s.Body {
			c.compileStmt(st)
		}
	case *ast.ExpressionStatement:
		c.compileExpr(s.Expression)
		c.b.Emit(opcodes.OP_POP, 0)
	case *ast.VariableDeclaration:
		c.compileVariableDeclaration(s)
	case *ast.FunctionDeclaration:
		c.compileFunctionDeclaration(s)
	case *ast.IfStatement:
		c.compileIf(s)
	case *ast.WhileStatement:
		c.compileWhile(s)
	case *ast.DoWhileStatement:
		c.compileDoWhile(s)
	case *ast.ForStatement:
		c.compileFor(s)
	case *ast.ForInStatement:
		c.compileForIn(s)
	case *ast.SwitchStatement:
		c.compileSwitch(s)
	case *ast.BreakStatement:
		c.compileBreak(s)
	case *ast.ContinueStatement:
		c.compileContinue(s)
	case *ast.ReturnStatement:
		c.compileReturn(s)
	case *ast.ThrowStatement:
		c.compileThrow(s)
	case *ast.TryStatement:
		c.compileTry(s)
	default:
		c.unsupported(n)
	}
}

func (c *Compiler) compileVariableDeclaration(s *ast.VariableDeclaration) {
	for _, d := range s.Declarations {
		if d.Init != nil {
			c.compileExpr(d.Init)
		} else {
			c.b.EmitPush(values.Undef())
		}
		c.b.EmitName(opcodes.OP_DECLARE, d.Id)
	}
}

// compileFunctionDeclaration emits a JMP over the function body, then the
// body itself, recording entry_pc as the instruction right after the
// jump; the resulting UserFunction is a pooled constant bound via DECLARE
// at the point where the declaration appears (it is not hoisted).
func (c *Compiler) compileFunctionDeclaration(s *ast.FunctionDeclaration) {
	fn := c.compileFunctionBody(s.Id, s.Params, s.Body, c.dbg(s))
	c.b.EmitPush(fn)
	c.b.EmitName(opcodes.OP_DECLARE, s.Id)
}

func (c *Compiler) compileFunctionBody(name string, params []string, body *ast.BlockStatement, dbg bytecode.DebugInfo) values.Value {
	jmpOver := c.b.EmitJump(opcodes.OP_JMP)
	entry := c.b.Pos()

	c.pushScope()
	for _, p := range params {
		c.declare(body, p)
	}
	c.compileStmt(body)
	c.popScope()

	// a function whose body doesn't end in `return` falls through
	// returning undefined.
	c.b.EmitPush(values.Undef())
	c.b.Emit(opcodes.OP_RET, 0)
	c.b.PatchToHere(jmpOver)

	var namePtr *string
	if name != "" {
		n := name
		namePtr = &n
	}
	return values.NewUserFunction(&values.UserFunction{
		Name:    namePtr,
		Params:  params,
		EntryPC: entry,
	})
}

func (c *Compiler) compileIf(s *ast.IfStatement) {
	c.compileExpr(s.Test)
	jnf := c.b.EmitJump(opcodes.OP_JNF)
	c.compileStmt(s.Consequent)
	if s.Alternate != nil {
		jmp := c.b.EmitJump(opcodes.OP_JMP)
		c.b.PatchToHere(jnf)
		c.compileStmt(s.Alternate)
		c.b.PatchToHere(jmp)
	} else {
		c.b.PatchToHere(jnf)
	}
}

func (c *Compiler) compileWhile(s *ast.WhileStatement) {
	start := c.b.Pos()
	c.compileExpr(s.Test)
	jnf := c.b.EmitJump(opcodes.OP_JNF)

	lc := &loopCtx{contTarget: start}
	c.loops = append(c.loops, lc)
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]

	c.b.Emit(opcodes.OP_JMP, start)
	c.b.PatchToHere(jnf)
	for _, pc := range lc.breaks {
		c.b.PatchToHere(pc)
	}
}

func (c *Compiler) compileDoWhile(s *ast.DoWhileStatement) {
	start := c.b.Pos()

	lc := newLoopCtx()
	c.loops = append(c.loops, lc)
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]

	for _, pc := range lc.continues {
		c.b.PatchToHere(pc)
	}
	c.compileExpr(s.Test)
	c.b.Emit(opcodes.OP_JIF, start)
	for _, pc := range lc.breaks {
		c.b.PatchToHere(pc)
	}
}

func (c *Compiler) compileFor(s *ast.ForStatement) {
	if s.Init != nil {
		switch init := s.Init.(type) {
		case *ast.VariableDeclaration:
			c.compileVariableDeclaration(init)
		default:
			c.compileExpr(init.(ast.Expr))
			c.b.Emit(opcodes.OP_POP, 0)
		}
	}

	start := c.b.Pos()
	var jnf int
	hasTest := s.Test != nil
	if hasTest {
		c.compileExpr(s.Test)
		jnf = c.b.EmitJump(opcodes.OP_JNF)
	}

	lc := newLoopCtx()
	c.loops = append(c.loops, lc)
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]

	for _, pc := range lc.continues {
		c.b.PatchToHere(pc)
	}
	if s.Update != nil {
		c.compileExpr(s.Update)
		c.b.Emit(opcodes.OP_POP, 0)
	}
	c.b.Emit(opcodes.OP_JMP, start)
	if hasTest {
		c.b.PatchToHere(jnf)
	}
	for _, pc := range lc.breaks {
		c.b.PatchToHere(pc)
	}
}

// compileForIn desugars `for (k in obj) body` into an index walk over
// the object's/array's own keys (spec 4.3): the compiler has no runtime
// reflection op, so it relies on the vm's OP_CALL of a hidden host
// iterator built-in installed by the runtime package as "__keys__".
func (c *Compiler) compileForIn(s *ast.ForInStatement) {
	objTmp, keysTmp, iTmp := c.tempName(), c.tempName(), c.tempName()

	c.compileExpr(s.Right)
	c.b.EmitName(opcodes.OP_DECLARE, objTmp)
	c.b.EmitName(opcodes.OP_LOAD, "__keys__")
	c.b.EmitName(opcodes.OP_LOAD, objTmp)
	c.b.Emit(opcodes.OP_CALL, 1)
	c.b.EmitName(opcodes.OP_DECLARE, keysTmp)

	c.b.EmitPush(values.NewNumber(0))
	c.b.EmitName(opcodes.OP_DECLARE, iTmp)

	start := c.b.Pos()
	c.b.EmitName(opcodes.OP_LOAD, keysTmp)
	c.b.EmitPush(values.NewString("length"))
	c.b.Emit(opcodes.OP_GET_PROP, 0)
	c.b.EmitName(opcodes.OP_LOAD, iTmp)
	c.b.Emit(opcodes.OP_GT, 0)
	jnf := c.b.EmitJump(opcodes.OP_JNF)

	c.b.EmitName(opcodes.OP_LOAD, keysTmp)
	c.b.EmitName(opcodes.OP_LOAD, iTmp)
	c.b.Emit(opcodes.OP_GET_ELEM, 0)
	switch left := s.Left.(type) {
	case *ast.VariableDeclaration:
		c.b.EmitName(opcodes.OP_DECLARE, left.Declarations[0].Id)
	case *ast.Identifier:
		c.b.EmitName(opcodes.OP_STORE, left.Name)
		c.b.Emit(opcodes.OP_POP, 0)
	default:
		c.fail(s, "invalid for-in binding target")
	}

	lc := newLoopCtx()
	c.loops = append(c.loops, lc)
	c.compileStmt(s.Body)
	c.loops = c.loops[:len(c.loops)-1]

	for _, pc := range lc.continues {
		c.b.PatchToHere(pc)
	}
	c.b.EmitName(opcodes.OP_LOAD, iTmp)
	c.b.EmitPush(values.NewNumber(1))
	c.b.Emit(opcodes.OP_ADD, 0)
	c.b.EmitName(opcodes.OP_STORE, iTmp)
	c.b.Emit(opcodes.OP_POP, 0)
	c.b.Emit(opcodes.OP_JMP, start)
	c.b.PatchToHere(jnf)
	for _, pc := range lc.breaks {
		c.b.PatchToHere(pc)
	}
}

func (c *Compiler) compileSwitch(s *ast.SwitchStatement) {
	c.compileExpr(s.Discriminant)
	sw := &switchCtx{}
	c.switches = append(c.switches, sw)

	var caseJumps []int
	defaultIdx := -1
	for i, cs := range s.Cases {
		if cs.Test == nil {
			defaultIdx = i
			caseJumps = append(caseJumps, -1)
			continue
		}
		c.b.Emit(opcodes.OP_DUP, 0)
		c.compileExpr(cs.Test)
		c.b.Emit(opcodes.OP_EQ, 0)
		jif := c.b.EmitJump(opcodes.OP_JIF)
		caseJumps = append(caseJumps, jif)
	}

	fallthroughToDefault := c.b.EmitJump(opcodes.OP_JMP)

	bodyStarts := make([]int, len(s.Cases))
	for i, jif := range caseJumps {
		if jif >= 0 {
			c.b.PatchToHere(jif)
		}
		bodyStarts[i] = c.b.Pos()
		if i == defaultIdx {
			c.b.PatchToHere(fallthroughToDefault)
		}
		c.b.Emit(opcodes.OP_POP, 0) // discard discriminant copy
		for _, st := range s.Cases[i].Consequent {
			c.compileStmt(st)
		}
	}
	if defaultIdx == -1 {
		c.b.PatchToHere(fallthroughToDefault)
		c.b.Emit(opcodes.OP_POP, 0)
	}

	c.switches = c.switches[:len(c.switches)-1]
	for _, pc := range sw.breaks {
		c.b.PatchToHere(pc)
	}
}

// compileBreak prefers an enclosing switch over an enclosing loop (spec
// 9: switch break-context precedence).
func (c *Compiler) compileBreak(s *ast.BreakStatement) {
	pc := c.b.EmitJump(opcodes.OP_JMP)
	if len(c.switches) > 0 {
		sw := c.switches[len(c.switches)-1]
		sw.breaks = append(sw.breaks, pc)
		return
	}
	if len(c.loops) > 0 {
		lc := c.loops[len(c.loops)-1]
		lc.breaks = append(lc.breaks, pc)
		return
	}
	c.fail(s, "break outside loop or switch")
}

func (c *Compiler) compileContinue(s *ast.ContinueStatement) {
	if len(c.loops) == 0 {
		c.fail(s, "continue outside loop")
		return
	}
	lc := c.loops[len(c.loops)-1]
	if lc.contTarget >= 0 {
		c.b.Emit(opcodes.OP_JMP, lc.contTarget)
		return
	}
	pc := c.b.EmitJump(opcodes.OP_JMP)
	lc.continues = append(lc.continues, pc)
}

func (c *Compiler) compileReturn(s *ast.ReturnStatement) {
	if s.Argument != nil {
		c.compileExpr(s.Argument)
	} else {
		c.b.EmitPush(values.Undef())
	}
	c.b.Emit(opcodes.OP_RET, 0)
}

func (c *Compiler) compileThrow(s *ast.ThrowStatement) {
	c.b.EmitName(opcodes.OP_LOAD, "__throw__")
	c.compileExpr(s.Argument)
	c.b.Emit(opcodes.OP_CALL, 1)
	c.b.Emit(opcodes.OP_POP, 0)
}

// compileTry accepts try/catch/finally syntactically but, per spec 7/9's
// documented parity requirement, treats the handler and finalizer as
// no-ops: only the block runs. An uncaught throw inside it surfaces as
// a RuntimeError exactly as it would without the surrounding try.
func (c *Compiler) compileTry(s *ast.TryStatement) {
	for _, st := range s.Block.Body {
		c.compileStmt(st)
	}
}

// --- expressions -----------------------------------------------------

func (c *Compiler) compileExpr(n ast.Expr) {
	if c.err != nil {
		return
	}
	switch e := n.(type) {
	case *ast.NumericLiteral:
		c.b.EmitPush(values.NewNumber(e.Value))
	case *ast.StringLiteral:
		c.b.EmitPush(values.NewString(e.Value))
	case *ast.BooleanLiteral:
		c.b.EmitPush(values.NewBool(e.Value))
	case *ast.NullLiteral:
		c.b.EmitPush(values.Nul())
	case *ast.TemplateLiteral:
		c.compileTemplateLiteral(e)
	case *ast.RegExpLiteral:
		c.b.EmitPush(values.NewHostObject(&values.HostObject{Native: e}))
	case *ast.Identifier:
		c.b.EmitName(opcodes.OP_LOAD, e.Name)
	case *ast.ThisExpression:
		c.b.EmitName(opcodes.OP_LOAD, "this")
	case *ast.BinaryExpression:
		c.compileBinary(e)
	case *ast.LogicalExpression:
		c.compileLogical(e)
	case *ast.UnaryExpression:
		c.compileUnary(e)
	case *ast.UpdateExpression:
		c.compileUpdate(e)
	case *ast.AssignmentExpression:
		c.compileAssignment(e)
	case *ast.ConditionalExpression:
		c.compileConditional(e)
	case *ast.SequenceExpression:
		c.compileSequence(e)
	case *ast.CallExpression:
		c.compileCall(e)
	case *ast.NewExpression:
		c.compileNew(e)
	case *ast.MemberExpression:
		c.compileMember(e)
	case *ast.ArrayExpression:
		c.compileArray(e)
	case *ast.ObjectExpression:
		c.compileObject(e)
	case *ast.FunctionExpression:
		var name string
		if e.Id != nil {
			name = *e.Id
		}
		c.b.EmitPush(c.compileFunctionBody(name, e.Params, e.Body, c.dbg(e)))
	default:
		c.unsupported(n)
	}
}

func (c *Compiler) compileTemplateLiteral(e *ast.TemplateLiteral) {
	c.b.EmitPush(values.NewString(e.Quasis[0]))
	for i, expr := range e.Expressions {
		c.b.EmitName(opcodes.OP_LOAD, "String")
		c.compileExpr(expr)
		c.b.Emit(opcodes.OP_CALL, 1)
		c.b.Emit(opcodes.OP_ADD, 0)
		c.b.EmitPush(values.NewString(e.Quasis[i+1]))
		c.b.Emit(opcodes.OP_ADD, 0)
	}
}

var binOpcodes = map[string]opcodes.Opcode{
	"+": opcodes.OP_ADD, "-": opcodes.OP_SUB, "*": opcodes.OP_MUL, "/": opcodes.OP_DIV, "%": opcodes.OP_MOD,
	"|": opcodes.OP_BIT_OR, "^": opcodes.OP_BIT_XOR, "&": opcodes.OP_BIT_AND,
	"<<": opcodes.OP_SHL, ">>": opcodes.OP_SHR, ">>>": opcodes.OP_USHR,
	"==": opcodes.OP_EQ, "!=": opcodes.OP_NE, "===": opcodes.OP_EQ, "!==": opcodes.OP_NE,
	"<": opcodes.OP_LT, "<=": opcodes.OP_LE, ">": opcodes.OP_GT, ">=": opcodes.OP_GE,
}

func (c *Compiler) compileBinary(e *ast.BinaryExpression) {
	c.compileExpr(e.Left)
	c.compileExpr(e.Right)
	op, ok := binOpcodes[e.Operator]
	if !ok {
		c.fail(e, "unsupported binary operator "+e.Operator)
		return
	}
	c.b.Emit(op, 0)
}

// compileLogical short-circuits via DUP+JIF/JNF so the unevaluated side
// never runs (spec 4.3).
func (c *Compiler) compileLogical(e *ast.LogicalExpression) {
	c.compileExpr(e.Left)
	c.b.Emit(opcodes.OP_DUP, 0)
	var jump int
	if e.Operator == "&&" {
		jump = c.b.EmitJump(opcodes.OP_JNF)
	} else {
		jump = c.b.EmitJump(opcodes.OP_JIF)
	}
	c.b.Emit(opcodes.OP_POP, 0)
	c.compileExpr(e.Right)
	c.b.PatchToHere(jump)
}

func (c *Compiler) compileUnary(e *ast.UnaryExpression) {
	c.compileExpr(e.Argument)
	switch e.Operator {
	case "-":
		c.b.Emit(opcodes.OP_NEG, 0)
	case "+":
		// unary plus is numeric coercion with no dedicated opcode;
		// negating twice coerces to a number and preserves NaN/sign.
		c.b.Emit(opcodes.OP_NEG, 0)
		c.b.Emit(opcodes.OP_NEG, 0)
	case "!":
		c.b.Emit(opcodes.OP_NOT, 0)
	case "~":
		c.b.Emit(opcodes.OP_BIT_NOT, 0)
	case "typeof":
		c.b.Emit(opcodes.OP_TYPEOF, 0)
	default:
		c.fail(e, "unsupported unary operator "+e.Operator)
	}
}

// compileUpdate desugars ++/-- into a load/store pair around ADD/SUB so
// it reuses the same assignment-target machinery as compound assignment.
func (c *Compiler) compileUpdate(e *ast.UpdateExpression) {
	delta := 1.0
	if e.Operator == "--" {
		delta = -1.0
	}
	switch target := e.Argument.(type) {
	case *ast.Identifier:
		c.b.EmitName(opcodes.OP_LOAD, target.Name)
		if !e.Prefix {
			c.b.Emit(opcodes.OP_DUP, 0)
		}
		c.b.EmitPush(values.NewNumber(delta))
		c.b.Emit(opcodes.OP_ADD, 0)
		if e.Prefix {
			c.b.EmitName(opcodes.OP_STORE, target.Name)
		} else {
			c.b.EmitName(opcodes.OP_STORE, target.Name)
			c.b.Emit(opcodes.OP_POP, 0)
		}
	case *ast.MemberExpression:
		c.compileMemberUpdate(target, delta, e.Prefix)
	default:
		c.fail(e, "invalid update target")
	}
}

// compileMemberUpdate binds the object and key into hidden locals so
// each is evaluated exactly once, then reads, computes, and writes back
// through those locals. The expression's value is the old value for a
// postfix update and the new value for a prefix update.
func (c *Compiler) compileMemberUpdate(m *ast.MemberExpression, delta float64, prefix bool) {
	getOp, setOp := opcodes.OP_GET_PROP, opcodes.OP_SET_PROP
	if m.Computed {
		getOp, setOp = opcodes.OP_GET_ELEM, opcodes.OP_SET_ELEM
	}
	objTmp, keyTmp, oldTmp, newTmp := c.tempName(), c.tempName(), c.tempName(), c.tempName()

	c.compileExpr(m.Object)
	c.b.EmitName(opcodes.OP_DECLARE, objTmp)
	c.compileMemberKey(m)
	c.b.EmitName(opcodes.OP_DECLARE, keyTmp)

	c.b.EmitName(opcodes.OP_LOAD, objTmp)
	c.b.EmitName(opcodes.OP_LOAD, keyTmp)
	c.b.Emit(getOp, 0)
	c.b.EmitName(opcodes.OP_DECLARE, oldTmp)

	c.b.EmitName(opcodes.OP_LOAD, oldTmp)
	c.b.EmitPush(values.NewNumber(delta))
	c.b.Emit(opcodes.OP_ADD, 0)
	c.b.EmitName(opcodes.OP_DECLARE, newTmp)

	c.b.EmitName(opcodes.OP_LOAD, objTmp)
	c.b.EmitName(opcodes.OP_LOAD, keyTmp)
	c.b.EmitName(opcodes.OP_LOAD, newTmp)
	c.b.Emit(setOp, 0)
	c.b.Emit(opcodes.OP_POP, 0)

	if prefix {
		c.b.EmitName(opcodes.OP_LOAD, newTmp)
	} else {
		c.b.EmitName(opcodes.OP_LOAD, oldTmp)
	}
}

func (c *Compiler) compileMemberKey(m *ast.MemberExpression) {
	if m.Computed {
		c.compileExpr(m.Property)
	} else {
		id := m.Property.(*ast.Identifier)
		c.b.EmitPush(values.NewString(id.Name))
	}
}

func (c *Compiler) compileAssignment(e *ast.AssignmentExpression) {
	if e.Operator != "=" {
		base := e.Operator[:len(e.Operator)-1]
		binOp, ok := binOpcodes[base]
		if !ok {
			c.fail(e, "unsupported compound assignment "+e.Operator)
			return
		}
		c.compileCompoundAssign(e, binOp)
		return
	}
	switch target := e.Left.(type) {
	case *ast.Identifier:
		c.compileExpr(e.Right)
		c.b.EmitName(opcodes.OP_STORE, target.Name)
	case *ast.MemberExpression:
		c.compileExpr(target.Object)
		c.compileMemberKey(target)
		c.compileExpr(e.Right)
		if target.Computed {
			c.b.Emit(opcodes.OP_SET_ELEM, 0)
		} else {
			c.b.Emit(opcodes.OP_SET_PROP, 0)
		}
	default:
		c.fail(e, "invalid assignment target")
	}
}

// compileCompoundAssign handles `a op= b` for both identifier and member
// targets. Member targets bind object/key into hidden locals so each is
// evaluated once; the expression's value is the combined result.
func (c *Compiler) compileCompoundAssign(e *ast.AssignmentExpression, op opcodes.Opcode) {
	switch target := e.Left.(type) {
	case *ast.Identifier:
		c.b.EmitName(opcodes.OP_LOAD, target.Name)
		c.compileExpr(e.Right)
		c.b.Emit(op, 0)
		c.b.EmitName(opcodes.OP_STORE, target.Name)
	case *ast.MemberExpression:
		getOp, setOp := opcodes.OP_GET_PROP, opcodes.OP_SET_PROP
		if target.Computed {
			getOp, setOp = opcodes.OP_GET_ELEM, opcodes.OP_SET_ELEM
		}
		objTmp, keyTmp, resultTmp := c.tempName(), c.tempName(), c.tempName()

		c.compileExpr(target.Object)
		c.b.EmitName(opcodes.OP_DECLARE, objTmp)
		c.compileMemberKey(target)
		c.b.EmitName(opcodes.OP_DECLARE, keyTmp)

		c.b.EmitName(opcodes.OP_LOAD, objTmp)
		c.b.EmitName(opcodes.OP_LOAD, keyTmp)
		c.b.Emit(getOp, 0)
		c.compileExpr(e.Right)
		c.b.Emit(op, 0)
		c.b.EmitName(opcodes.OP_DECLARE, resultTmp)

		c.b.EmitName(opcodes.OP_LOAD, objTmp)
		c.b.EmitName(opcodes.OP_LOAD, keyTmp)
		c.b.EmitName(opcodes.OP_LOAD, resultTmp)
		c.b.Emit(setOp, 0)
		c.b.Emit(opcodes.OP_POP, 0)
		c.b.EmitName(opcodes.OP_LOAD, resultTmp)
	default:
		c.fail(e, "invalid assignment target")
	}
}

func (c *Compiler) compileConditional(e *ast.ConditionalExpression) {
	c.compileExpr(e.Test)
	jnf := c.b.EmitJump(opcodes.OP_JNF)
	c.compileExpr(e.Consequent)
	jmp := c.b.EmitJump(opcodes.OP_JMP)
	c.b.PatchToHere(jnf)
	c.compileExpr(e.Alternate)
	c.b.PatchToHere(jmp)
}

func (c *Compiler) compileSequence(e *ast.SequenceExpression) {
	for i, expr := range e.Expressions {
		c.compileExpr(expr)
		if i < len(e.Expressions)-1 {
			c.b.Emit(opcodes.OP_POP, 0)
		}
	}
}

// compileCall emits callee then arguments left-to-right; method calls
// additionally carry the receiver for `this` binding (spec 4.4.5).
func (c *Compiler) compileCall(e *ast.CallExpression) {
	if m, ok := e.Callee.(*ast.MemberExpression); ok {
		c.compileExpr(m.Object)
		c.b.Emit(opcodes.OP_DUP, 0)
		c.compileMemberKey(m)
		if m.Computed {
			c.b.Emit(opcodes.OP_GET_ELEM, 0)
		} else {
			c.b.Emit(opcodes.OP_GET_PROP, 0)
		}
		for _, arg := range e.Arguments {
			c.compileExpr(arg)
		}
		c.b.Emit(opcodes.OP_CALL_METHOD, len(e.Arguments))
		return
	}
	c.compileExpr(e.Callee)
	for _, arg := range e.Arguments {
		c.compileExpr(arg)
	}
	c.b.Emit(opcodes.OP_CALL, len(e.Arguments))
}

func (c *Compiler) compileNew(e *ast.NewExpression) {
	c.compileExpr(e.Callee)
	for _, arg := range e.Arguments {
		c.compileExpr(arg)
	}
	c.b.Emit(opcodes.OP_NEW, len(e.Arguments))
}

func (c *Compiler) compileMember(e *ast.MemberExpression) {
	c.compileExpr(e.Object)
	c.compileMemberKey(e)
	if e.Computed {
		c.b.Emit(opcodes.OP_GET_ELEM, 0)
	} else {
		c.b.Emit(opcodes.OP_GET_PROP, 0)
	}
}

func (c *Compiler) compileArray(e *ast.ArrayExpression) {
	for _, el := range e.Elements {
		c.compileExpr(el)
	}
	c.b.Emit(opcodes.OP_NEW_ARR, len(e.Elements))
}

func (c *Compiler) compileObject(e *ast.ObjectExpression) {
	for _, prop := range e.Properties {
		if prop.Computed {
			c.compileExpr(prop.Key)
		} else {
			if sl, ok := prop.Key.(*ast.StringLiteral); ok {
				c.b.EmitPush(values.NewString(sl.Value))
			} else if id, ok := prop.Key.(*ast.Identifier); ok {
				c.b.EmitPush(values.NewString(id.Name))
			} else {
				c.compileExpr(prop.Key)
			}
		}
		c.compileExpr(prop.Value)
	}
	c.b.Emit(opcodes.OP_NEW_OBJ, len(e.Properties))
}
