// Package ast defines the node shapes the compiler consumes (spec 6.1).
// The parser package is one producer of this shape; any parser producing
// it is an acceptable substitute (spec 1).
package ast

// Kind identifies a node's concrete shape.
type Kind string

const (
	KProgram             Kind = "Program"
	KBlockStatement       Kind = "BlockStatement"
	KExpressionStatement  Kind = "ExpressionStatement"
	KVariableDeclaration  Kind = "VariableDeclaration"
	KFunctionDeclaration  Kind = "FunctionDeclaration"
	KNumericLiteral       Kind = "NumericLiteral"
	KStringLiteral        Kind = "StringLiteral"
	KBooleanLiteral       Kind = "BooleanLiteral"
	KNullLiteral          Kind = "NullLiteral"
	KTemplateLiteral      Kind = "TemplateLiteral"
	KRegExpLiteral        Kind = "RegExpLiteral"
	KIdentifier           Kind = "Identifier"
	KThisExpression       Kind = "ThisExpression"
	KBinaryExpression     Kind = "BinaryExpression"
	KLogicalExpression    Kind = "LogicalExpression"
	KUnaryExpression      Kind = "UnaryExpression"
	KUpdateExpression     Kind = "UpdateExpression"
	KAssignmentExpression Kind = "AssignmentExpression"
	KConditionalExpression Kind = "ConditionalExpression"
	KSequenceExpression   Kind = "SequenceExpression"
	KCallExpression       Kind = "CallExpression"
	KNewExpression        Kind = "NewExpression"
	KMemberExpression     Kind = "MemberExpression"
	KArrayExpression      Kind = "ArrayExpression"
	KObjectExpression     Kind = "ObjectExpression"
	KFunctionExpression   Kind = "FunctionExpression"
	KIfStatement          Kind = "IfStatement"
	KWhileStatement       Kind = "WhileStatement"
	KDoWhileStatement     Kind = "DoWhileStatement"
	KForStatement         Kind = "ForStatement"
	KForInStatement       Kind = "ForInStatement"
	KSwitchStatement      Kind = "SwitchStatement"
	KBreakStatement       Kind = "BreakStatement"
	KContinueStatement    Kind = "ContinueStatement"
	KReturnStatement      Kind = "ReturnStatement"
	KThrowStatement       Kind = "ThrowStatement"
	KTryStatement         Kind = "TryStatement"
)

// Pos locates a node in the original source text.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every AST node. Expr and Stmt below are aliases
// used purely for documentation at call sites; the compiler dispatches on
// Kind() regardless of which alias a field declares.
type Node interface {
	Kind() Kind
	Position() Pos
}

type Expr = Node
type Stmt = Node

// Base carries the fields common to every node.
type Base struct {
	Pos Pos
}

func (b Base) Position() Pos { return b.Pos }

// --- structural -----------------------------------------------------

type Program struct {
	Base
	Body []Stmt
}

func (*Program) Kind() Kind { return KProgram }

type BlockStatement struct {
	Base
	Body []Stmt
}

func (*BlockStatement) Kind() Kind { return KBlockStatement }

type ExpressionStatement struct {
	Base
	Expression Expr
}

func (*ExpressionStatement) Kind() Kind { return KExpressionStatement }

// --- declarations -----------------------------------------------------

// VariableDeclarator is a single `id = init` entry in a declaration list.
type VariableDeclarator struct {
	Id   string
	Init Expr // may be nil
}

type VariableDeclaration struct {
	Base
	Declarations []VariableDeclarator
	DeclKind     string // "var" | "let" | "const" — all compile identically (spec 6.1)
}

func (*VariableDeclaration) Kind() Kind { return KVariableDeclaration }

type FunctionDeclaration struct {
	Base
	Id     string
	Params []string
	Body   *BlockStatement
}

func (*FunctionDeclaration) Kind() Kind { return KFunctionDeclaration }

// --- literals -----------------------------------------------------

type NumericLiteral struct {
	Base
	Value float64
}

func (*NumericLiteral) Kind() Kind { return KNumericLiteral }

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) Kind() Kind { return KStringLiteral }

type BooleanLiteral struct {
	Base
	Value bool
}

func (*BooleanLiteral) Kind() Kind { return KBooleanLiteral }

type NullLiteral struct {
	Base
}

func (*NullLiteral) Kind() Kind { return KNullLiteral }

// TemplateLiteral is `a${b}c` : quasis has len(expressions)+1 entries.
type TemplateLiteral struct {
	Base
	Quasis      []string
	Expressions []Expr
}

func (*TemplateLiteral) Kind() Kind { return KTemplateLiteral }

// RegExpLiteral is accepted for compile-time construction only (spec
// Non-goals: no regex engine) — it lowers to an opaque host object
// carrying Pattern/Flags, never evaluated as a matcher.
type RegExpLiteral struct {
	Base
	Pattern string
	Flags   string
}

func (*RegExpLiteral) Kind() Kind { return KRegExpLiteral }

// --- expressions -----------------------------------------------------

type Identifier struct {
	Base
	Name string
}

func (*Identifier) Kind() Kind { return KIdentifier }

type ThisExpression struct {
	Base
}

func (*ThisExpression) Kind() Kind { return KThisExpression }

type BinaryExpression struct {
	Base
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpression) Kind() Kind { return KBinaryExpression }

// LogicalExpression is && / || — compiled with short-circuit jumps
// (spec 4.3).
type LogicalExpression struct {
	Base
	Operator string
	Left     Expr
	Right    Expr
}

func (*LogicalExpression) Kind() Kind { return KLogicalExpression }

type UnaryExpression struct {
	Base
	Operator string
	Argument Expr
}

func (*UnaryExpression) Kind() Kind { return KUnaryExpression }

type UpdateExpression struct {
	Base
	Operator string // "++" | "--"
	Argument Expr
	Prefix   bool
}

func (*UpdateExpression) Kind() Kind { return KUpdateExpression }

type AssignmentExpression struct {
	Base
	Operator string // "=" | "+=" | "-=" | ...
	Left     Expr
	Right    Expr
}

func (*AssignmentExpression) Kind() Kind { return KAssignmentExpression }

type ConditionalExpression struct {
	Base
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (*ConditionalExpression) Kind() Kind { return KConditionalExpression }

type SequenceExpression struct {
	Base
	Expressions []Expr
}

func (*SequenceExpression) Kind() Kind { return KSequenceExpression }

type CallExpression struct {
	Base
	Callee    Expr
	Arguments []Expr
}

func (*CallExpression) Kind() Kind { return KCallExpression }

type NewExpression struct {
	Base
	Callee    Expr
	Arguments []Expr
}

func (*NewExpression) Kind() Kind { return KNewExpression }

type MemberExpression struct {
	Base
	Object   Expr
	Property Expr
	Computed bool // true for obj[expr], false for obj.ident
}

func (*MemberExpression) Kind() Kind { return KMemberExpression }

type ArrayExpression struct {
	Base
	Elements []Expr
}

func (*ArrayExpression) Kind() Kind { return KArrayExpression }

type ObjectProperty struct {
	Key      Expr
	Value    Expr
	Computed bool
}

type ObjectExpression struct {
	Base
	Properties []ObjectProperty
}

func (*ObjectExpression) Kind() Kind { return KObjectExpression }

type FunctionExpression struct {
	Base
	Id     *string // nil for anonymous
	Params []string
	Body   *BlockStatement
}

func (*FunctionExpression) Kind() Kind { return KFunctionExpression }

// --- control flow -----------------------------------------------------

type IfStatement struct {
	Base
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // nil when no else
}

func (*IfStatement) Kind() Kind { return KIfStatement }

type WhileStatement struct {
	Base
	Test Expr
	Body Stmt
}

func (*WhileStatement) Kind() Kind { return KWhileStatement }

type DoWhileStatement struct {
	Base
	Test Expr
	Body Stmt
}

func (*DoWhileStatement) Kind() Kind { return KDoWhileStatement }

type ForStatement struct {
	Base
	Init   Node // VariableDeclaration, Expr, or nil
	Test   Expr // nil means always-true
	Update Expr // nil means no update
	Body   Stmt
}

func (*ForStatement) Kind() Kind { return KForStatement }

type ForInStatement struct {
	Base
	Left  Node // Identifier or VariableDeclaration with one declarator
	Right Expr
	Body  Stmt
}

func (*ForInStatement) Kind() Kind { return KForInStatement }

type SwitchCase struct {
	Test       Expr // nil for `default`
	Consequent []Stmt
}

type SwitchStatement struct {
	Base
	Discriminant Expr
	Cases        []SwitchCase
}

func (*SwitchStatement) Kind() Kind { return KSwitchStatement }

type BreakStatement struct {
	Base
	Label *string
}

func (*BreakStatement) Kind() Kind { return KBreakStatement }

type ContinueStatement struct {
	Base
	Label *string
}

func (*ContinueStatement) Kind() Kind { return KContinueStatement }

type ReturnStatement struct {
	Base
	Argument Expr // nil for bare `return;`
}

func (*ReturnStatement) Kind() Kind { return KReturnStatement }

type ThrowStatement struct {
	Base
	Argument Expr
}

func (*ThrowStatement) Kind() Kind { return KThrowStatement }

type CatchClause struct {
	Param string // may be empty for parameterless catch
	Body  *BlockStatement
}

type TryStatement struct {
	Base
	Block     *BlockStatement
	Handler   *CatchClause // nil when no catch
	Finalizer *BlockStatement // nil when no finally
}

func (*TryStatement) Kind() Kind { return KTryStatement }
