// Package parser is a reference producer of the spec 6.1 AST shape. It
// is an external collaborator to the compiler (spec 1): the compiler
// never imports it, only the ast types it produces.
package parser

import (
	"fmt"

	"github.com/student/scriptvm/ast"
	"github.com/student/scriptvm/lexer"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	precLowest
	precAssign
	precConditional
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precCall
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: precAssign, lexer.PLUS_ASSIGN: precAssign, lexer.MINUS_ASSIGN: precAssign,
	lexer.STAR_ASSIGN: precAssign, lexer.SLASH_ASSIGN: precAssign, lexer.PERCENT_ASSIGN: precAssign,
	lexer.AND_ASSIGN: precAssign, lexer.OR_ASSIGN: precAssign, lexer.XOR_ASSIGN: precAssign,
	lexer.SHL_ASSIGN: precAssign, lexer.SHR_ASSIGN: precAssign, lexer.USHR_ASSIGN: precAssign,
	lexer.QUESTION:   precConditional,
	lexer.OR_OR:      precLogicalOr,
	lexer.AND_AND:    precLogicalAnd,
	lexer.PIPE:       precBitOr,
	lexer.CARET:      precBitXor,
	lexer.AMP:        precBitAnd,
	lexer.EQ:         precEquality, lexer.NOT_EQ: precEquality,
	lexer.STRICT_EQ:  precEquality, lexer.STRICT_NOT_EQ: precEquality,
	lexer.LT: precRelational, lexer.LE: precRelational, lexer.GT: precRelational, lexer.GE: precRelational,
	lexer.SHL: precShift, lexer.SHR: precShift, lexer.USHR: precShift,
	lexer.PLUS: precAdditive, lexer.MINUS: precAdditive,
	lexer.STAR: precMultiplicative, lexer.SLASH: precMultiplicative, lexer.PERCENT: precMultiplicative,
	lexer.LPAREN: precCall, lexer.DOT: precCall, lexer.LBRACKET: precCall,
	lexer.INC: precPostfix, lexer.DEC: precPostfix,
}

var assignOps = map[lexer.TokenType]string{
	lexer.ASSIGN: "=", lexer.PLUS_ASSIGN: "+=", lexer.MINUS_ASSIGN: "-=",
	lexer.STAR_ASSIGN: "*=", lexer.SLASH_ASSIGN: "/=", lexer.PERCENT_ASSIGN: "%=",
	lexer.AND_ASSIGN: "&=", lexer.OR_ASSIGN: "|=", lexer.XOR_ASSIGN: "^=",
	lexer.SHL_ASSIGN: "<<=", lexer.SHR_ASSIGN: ">>=", lexer.USHR_ASSIGN: ">>>=",
}

var binaryOps = map[lexer.TokenType]string{
	lexer.PLUS: "+", lexer.MINUS: "-", lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%",
	lexer.PIPE: "|", lexer.CARET: "^", lexer.AMP: "&",
	lexer.SHL: "<<", lexer.SHR: ">>", lexer.USHR: ">>>",
	lexer.EQ: "==", lexer.NOT_EQ: "!=", lexer.STRICT_EQ: "===", lexer.STRICT_NOT_EQ: "!==",
	lexer.LT: "<", lexer.LE: "<=", lexer.GT: ">", lexer.GE: ">=",
}

// ParseError reports a syntax error with its source position.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser turns a token stream into an ast.Program.
type Parser struct {
	l         *lexer.Lexer
	cur, peek lexer.Token
	errs      []error
}

// New constructs a Parser over l, priming the first two tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Parse lexes and parses src in one call.
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	return p.ParseProgram()
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Pos { return ast.Pos{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Message: fmt.Sprintf(format, args...), Line: p.cur.Line, Column: p.cur.Column})
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.cur.Type != t {
		p.errorf("unexpected token %q", p.cur.Lit)
		return false
	}
	p.next()
	return true
}

func (p *Parser) skipSemi() {
	if p.cur.Type == lexer.SEMI {
		p.next()
	}
}

// ParseProgram parses the whole token stream as a top-level program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{Base: ast.Base{Pos: p.pos()}}
	for p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		if len(p.errs) > 0 {
			break
		}
	}
	if len(p.errs) > 0 {
		return prog, p.errs[0]
	}
	return prog, nil
}

// --- statements -----------------------------------------------------

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case lexer.VAR, lexer.LET, lexer.CONST:
		return p.parseVariableDeclaration()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.BREAK:
		pos := p.pos()
		p.next()
		p.skipSemi()
		return &ast.BreakStatement{Base: ast.Base{Pos: pos}}
	case lexer.CONTINUE:
		pos := p.pos()
		p.next()
		p.skipSemi()
		return &ast.ContinueStatement{Base: ast.Base{Pos: pos}}
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.SEMI:
		p.next()
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() ast.Stmt {
	pos := p.pos()
	kind := p.cur.Lit
	p.next()
	decl := &ast.VariableDeclaration{Base: ast.Base{Pos: pos}, DeclKind: kind}
	for {
		if p.cur.Type != lexer.IDENT {
			p.errorf("expected identifier in declaration, got %q", p.cur.Lit)
			return decl
		}
		name := p.cur.Lit
		p.next()
		var init ast.Expr
		if p.cur.Type == lexer.ASSIGN {
			p.next()
			init = p.parseAssignExpr()
		}
		decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Id: name, Init: init})
		if p.cur.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	p.skipSemi()
	return decl
}

func (p *Parser) parseFunctionDeclaration() ast.Stmt {
	pos := p.pos()
	p.next() // 'function'
	name := p.cur.Lit
	p.expect(lexer.IDENT)
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionDeclaration{Base: ast.Base{Pos: pos}, Id: name, Params: params, Body: body}
}

func (p *Parser) parseParamList() []string {
	p.expect(lexer.LPAREN)
	var params []string
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		params = append(params, p.cur.Lit)
		p.expect(lexer.IDENT)
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	block := &ast.BlockStatement{Base: ast.Base{Pos: pos}}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		if len(p.errs) > 0 {
			return block
		}
	}
	p.expect(lexer.RBRACE)
	return block
}

func (p *Parser) parseIfStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	p.expect(lexer.LPAREN)
	test := p.parseExpression()
	p.expect(lexer.RPAREN)
	cons := p.parseStatement()
	var alt ast.Stmt
	if p.cur.Type == lexer.ELSE {
		p.next()
		alt = p.parseStatement()
	}
	return &ast.IfStatement{Base: ast.Base{Pos: pos}, Test: test, Consequent: cons, Alternate: alt}
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	p.expect(lexer.LPAREN)
	test := p.parseExpression()
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStatement{Base: ast.Base{Pos: pos}, Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	body := p.parseStatement()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	test := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.skipSemi()
	return &ast.DoWhileStatement{Base: ast.Base{Pos: pos}, Test: test, Body: body}
}

func (p *Parser) parseForStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	p.expect(lexer.LPAREN)

	var init ast.Node
	if p.cur.Type == lexer.VAR || p.cur.Type == lexer.LET || p.cur.Type == lexer.CONST {
		kind := p.cur.Lit
		declPos := p.pos()
		p.next()
		name := p.cur.Lit
		p.expect(lexer.IDENT)
		if p.cur.Type == lexer.IN {
			p.next()
			right := p.parseExpression()
			p.expect(lexer.RPAREN)
			body := p.parseStatement()
			left := &ast.VariableDeclaration{Base: ast.Base{Pos: declPos}, DeclKind: kind,
				Declarations: []ast.VariableDeclarator{{Id: name}}}
			return &ast.ForInStatement{Base: ast.Base{Pos: pos}, Left: left, Right: right, Body: body}
		}
		decl := &ast.VariableDeclaration{Base: ast.Base{Pos: declPos}, DeclKind: kind}
		var initExpr ast.Expr
		if p.cur.Type == lexer.ASSIGN {
			p.next()
			initExpr = p.parseAssignExpr()
		}
		decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Id: name, Init: initExpr})
		for p.cur.Type == lexer.COMMA {
			p.next()
			name := p.cur.Lit
			p.expect(lexer.IDENT)
			var ie ast.Expr
			if p.cur.Type == lexer.ASSIGN {
				p.next()
				ie = p.parseAssignExpr()
			}
			decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Id: name, Init: ie})
		}
		init = decl
	} else if p.cur.Type != lexer.SEMI {
		first := p.parseExpression()
		if id, ok := first.(*ast.Identifier); ok && p.cur.Type == lexer.IN {
			p.next()
			right := p.parseExpression()
			p.expect(lexer.RPAREN)
			body := p.parseStatement()
			return &ast.ForInStatement{Base: ast.Base{Pos: pos}, Left: id, Right: right, Body: body}
		}
		init = first
	}
	p.expect(lexer.SEMI)

	var test ast.Expr
	if p.cur.Type != lexer.SEMI {
		test = p.parseExpression()
	}
	p.expect(lexer.SEMI)

	var update ast.Expr
	if p.cur.Type != lexer.RPAREN {
		update = p.parseExpression()
	}
	p.expect(lexer.RPAREN)

	body := p.parseStatement()
	return &ast.ForStatement{Base: ast.Base{Pos: pos}, Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseSwitchStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	p.expect(lexer.LPAREN)
	disc := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)
	stmt := &ast.SwitchStatement{Base: ast.Base{Pos: pos}, Discriminant: disc}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		var c ast.SwitchCase
		if p.cur.Type == lexer.CASE {
			p.next()
			c.Test = p.parseExpression()
			p.expect(lexer.COLON)
		} else if p.cur.Type == lexer.DEFAULT {
			p.next()
			p.expect(lexer.COLON)
		} else {
			p.errorf("expected case or default, got %q", p.cur.Lit)
			return stmt
		}
		for p.cur.Type != lexer.CASE && p.cur.Type != lexer.DEFAULT && p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			s := p.parseStatement()
			if s != nil {
				c.Consequent = append(c.Consequent, s)
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(lexer.RBRACE)
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	var arg ast.Expr
	if p.cur.Type != lexer.SEMI && p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		arg = p.parseExpression()
	}
	p.skipSemi()
	return &ast.ReturnStatement{Base: ast.Base{Pos: pos}, Argument: arg}
}

func (p *Parser) parseThrowStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	arg := p.parseExpression()
	p.skipSemi()
	return &ast.ThrowStatement{Base: ast.Base{Pos: pos}, Argument: arg}
}

func (p *Parser) parseTryStatement() ast.Stmt {
	pos := p.pos()
	p.next()
	block := p.parseBlockStatement()
	stmt := &ast.TryStatement{Base: ast.Base{Pos: pos}, Block: block}
	if p.cur.Type == lexer.CATCH {
		p.next()
		var param string
		if p.cur.Type == lexer.LPAREN {
			p.next()
			param = p.cur.Lit
			p.expect(lexer.IDENT)
			p.expect(lexer.RPAREN)
		}
		body := p.parseBlockStatement()
		stmt.Handler = &ast.CatchClause{Param: param, Body: body}
	}
	if p.cur.Type == lexer.FINALLY {
		p.next()
		stmt.Finalizer = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	pos := p.pos()
	expr := p.parseExpression()
	p.skipSemi()
	return &ast.ExpressionStatement{Base: ast.Base{Pos: pos}, Expression: expr}
}

// --- expressions -----------------------------------------------------

// parseExpression parses a full expression, including the comma operator.
func (p *Parser) parseExpression() ast.Expr {
	first := p.parseAssignExpr()
	if p.cur.Type != lexer.COMMA {
		return first
	}
	pos := first.Position()
	seq := &ast.SequenceExpression{Base: ast.Base{Pos: pos}, Expressions: []ast.Expr{first}}
	for p.cur.Type == lexer.COMMA {
		p.next()
		seq.Expressions = append(seq.Expressions, p.parseAssignExpr())
	}
	return seq
}

func (p *Parser) parseAssignExpr() ast.Expr {
	left := p.parseConditional()
	if op, ok := assignOps[p.cur.Type]; ok {
		pos := left.Position()
		p.next()
		right := p.parseAssignExpr()
		return &ast.AssignmentExpression{Base: ast.Base{Pos: pos}, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseConditional() ast.Expr {
	test := p.parseBinary(precConditional)
	if p.cur.Type == lexer.QUESTION {
		pos := test.Position()
		p.next()
		cons := p.parseAssignExpr()
		p.expect(lexer.COLON)
		alt := p.parseAssignExpr()
		return &ast.ConditionalExpression{Base: ast.Base{Pos: pos}, Test: test, Consequent: cons, Alternate: alt}
	}
	return test
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec <= minPrec || prec >= precUnary {
			break
		}
		opTok := p.cur.Type
		pos := left.Position()
		p.next()
		right := p.parseBinary(prec)
		if opTok == lexer.AND_AND {
			left = &ast.LogicalExpression{Base: ast.Base{Pos: pos}, Operator: "&&", Left: left, Right: right}
		} else if opTok == lexer.OR_OR {
			left = &ast.LogicalExpression{Base: ast.Base{Pos: pos}, Operator: "||", Left: left, Right: right}
		} else {
			left = &ast.BinaryExpression{Base: ast.Base{Pos: pos}, Operator: binaryOps[opTok], Left: left, Right: right}
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.BANG:
		p.next()
		return &ast.UnaryExpression{Base: ast.Base{Pos: pos}, Operator: "!", Argument: p.parseUnary()}
	case lexer.MINUS:
		p.next()
		return &ast.UnaryExpression{Base: ast.Base{Pos: pos}, Operator: "-", Argument: p.parseUnary()}
	case lexer.PLUS:
		p.next()
		return &ast.UnaryExpression{Base: ast.Base{Pos: pos}, Operator: "+", Argument: p.parseUnary()}
	case lexer.TILDE:
		p.next()
		return &ast.UnaryExpression{Base: ast.Base{Pos: pos}, Operator: "~", Argument: p.parseUnary()}
	case lexer.TYPEOF:
		p.next()
		return &ast.UnaryExpression{Base: ast.Base{Pos: pos}, Operator: "typeof", Argument: p.parseUnary()}
	case lexer.INC:
		p.next()
		return &ast.UpdateExpression{Base: ast.Base{Pos: pos}, Operator: "++", Prefix: true, Argument: p.parseUnary()}
	case lexer.DEC:
		p.next()
		return &ast.UpdateExpression{Base: ast.Base{Pos: pos}, Operator: "--", Prefix: true, Argument: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parseCallOrMember()
	if p.cur.Type == lexer.INC {
		pos := expr.Position()
		p.next()
		return &ast.UpdateExpression{Base: ast.Base{Pos: pos}, Operator: "++", Prefix: false, Argument: expr}
	}
	if p.cur.Type == lexer.DEC {
		pos := expr.Position()
		p.next()
		return &ast.UpdateExpression{Base: ast.Base{Pos: pos}, Operator: "--", Prefix: false, Argument: expr}
	}
	return expr
}

func (p *Parser) parseCallOrMember() ast.Expr {
	var expr ast.Expr
	if p.cur.Type == lexer.NEW {
		expr = p.parseNewExpression()
	} else {
		expr = p.parsePrimary()
	}
	for {
		switch p.cur.Type {
		case lexer.DOT:
			pos := expr.Position()
			p.next()
			name := p.cur.Lit
			p.expect(lexer.IDENT)
			prop := &ast.Identifier{Base: ast.Base{Pos: pos}, Name: name}
			expr = &ast.MemberExpression{Base: ast.Base{Pos: pos}, Object: expr, Property: prop, Computed: false}
		case lexer.LBRACKET:
			pos := expr.Position()
			p.next()
			key := p.parseExpression()
			p.expect(lexer.RBRACKET)
			expr = &ast.MemberExpression{Base: ast.Base{Pos: pos}, Object: expr, Property: key, Computed: true}
		case lexer.LPAREN:
			pos := expr.Position()
			args := p.parseArgumentList()
			expr = &ast.CallExpression{Base: ast.Base{Pos: pos}, Callee: expr, Arguments: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parseNewExpression() ast.Expr {
	pos := p.pos()
	p.next() // 'new'
	var callee ast.Expr
	if p.cur.Type == lexer.NEW {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimary()
		for p.cur.Type == lexer.DOT {
			p.next()
			name := p.cur.Lit
			p.expect(lexer.IDENT)
			callee = &ast.MemberExpression{Base: ast.Base{Pos: pos}, Object: callee, Property: &ast.Identifier{Name: name}, Computed: false}
		}
	}
	var args []ast.Expr
	if p.cur.Type == lexer.LPAREN {
		args = p.parseArgumentList()
	}
	return &ast.NewExpression{Base: ast.Base{Pos: pos}, Callee: callee, Arguments: args}
}

func (p *Parser) parseArgumentList() []ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseAssignExpr())
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.NUMBER:
		lit := p.cur.Lit
		p.next()
		return &ast.NumericLiteral{Base: ast.Base{Pos: pos}, Value: parseNumber(lit)}
	case lexer.STRING:
		lit := p.cur.Lit
		p.next()
		return &ast.StringLiteral{Base: ast.Base{Pos: pos}, Value: lit}
	case lexer.TEMPLATE_STRING:
		raw := p.cur.Lit
		p.next()
		return p.parseTemplateLiteral(pos, raw)
	case lexer.TRUE:
		p.next()
		return &ast.BooleanLiteral{Base: ast.Base{Pos: pos}, Value: true}
	case lexer.FALSE:
		p.next()
		return &ast.BooleanLiteral{Base: ast.Base{Pos: pos}, Value: false}
	case lexer.NULL:
		p.next()
		return &ast.NullLiteral{Base: ast.Base{Pos: pos}}
	case lexer.UNDEFINED:
		p.next()
		return &ast.Identifier{Base: ast.Base{Pos: pos}, Name: "undefined"}
	case lexer.THIS:
		p.next()
		return &ast.ThisExpression{Base: ast.Base{Pos: pos}}
	case lexer.IDENT:
		name := p.cur.Lit
		p.next()
		return &ast.Identifier{Base: ast.Base{Pos: pos}, Name: name}
	case lexer.FUNCTION:
		return p.parseFunctionExpression()
	case lexer.LPAREN:
		p.next()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACKET:
		return p.parseArrayExpression()
	case lexer.LBRACE:
		return p.parseObjectExpression()
	case lexer.SLASH:
		return p.parseRegExpLiteral()
	default:
		p.errorf("unexpected token %q", p.cur.Lit)
		p.next()
		return &ast.NullLiteral{Base: ast.Base{Pos: pos}}
	}
}

func (p *Parser) parseFunctionExpression() ast.Expr {
	pos := p.pos()
	p.next() // 'function'
	var id *string
	if p.cur.Type == lexer.IDENT {
		name := p.cur.Lit
		id = &name
		p.next()
	}
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionExpression{Base: ast.Base{Pos: pos}, Id: id, Params: params, Body: body}
}

func (p *Parser) parseArrayExpression() ast.Expr {
	pos := p.pos()
	p.expect(lexer.LBRACKET)
	arr := &ast.ArrayExpression{Base: ast.Base{Pos: pos}}
	for p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.EOF {
		arr.Elements = append(arr.Elements, p.parseAssignExpr())
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return arr
}

func (p *Parser) parseObjectExpression() ast.Expr {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	obj := &ast.ObjectExpression{Base: ast.Base{Pos: pos}}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		var key ast.Expr
		computed := false
		switch p.cur.Type {
		case lexer.LBRACKET:
			p.next()
			key = p.parseAssignExpr()
			p.expect(lexer.RBRACKET)
			computed = true
		case lexer.STRING:
			key = &ast.StringLiteral{Base: ast.Base{Pos: p.pos()}, Value: p.cur.Lit}
			p.next()
		case lexer.NUMBER:
			key = &ast.StringLiteral{Base: ast.Base{Pos: p.pos()}, Value: p.cur.Lit}
			p.next()
		default:
			key = &ast.StringLiteral{Base: ast.Base{Pos: p.pos()}, Value: p.cur.Lit}
			p.next()
		}
		p.expect(lexer.COLON)
		val := p.parseAssignExpr()
		obj.Properties = append(obj.Properties, ast.ObjectProperty{Key: key, Value: val, Computed: computed})
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return obj
}

// parseRegExpLiteral handles a '/' in primary position: the lexer has no
// regular-expression mode, so this records a parse error and returns an
// empty RegExpLiteral placeholder; regex literals are not accepted.
func (p *Parser) parseRegExpLiteral() ast.Expr {
	pos := p.pos()
	p.errorf("regular expression literals are not supported by this parser")
	p.next()
	return &ast.RegExpLiteral{Base: ast.Base{Pos: pos}, Pattern: "", Flags: ""}
}

func (p *Parser) parseTemplateLiteral(pos ast.Pos, raw string) ast.Expr {
	lit := &ast.TemplateLiteral{Base: ast.Base{Pos: pos}}
	var quasi []byte
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			lit.Quasis = append(lit.Quasis, string(quasi))
			quasi = nil
			depth := 1
			j := i + 2
			start := j
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			exprSrc := raw[start:j]
			sub, _ := Parse(exprSrc + ";")
			var e ast.Expr
			if len(sub.Body) > 0 {
				if es, ok := sub.Body[0].(*ast.ExpressionStatement); ok {
					e = es.Expression
				}
			}
			if e == nil {
				e = &ast.Identifier{Name: "undefined"}
			}
			lit.Expressions = append(lit.Expressions, e)
			i = j + 1
			continue
		}
		quasi = append(quasi, raw[i])
		i++
	}
	lit.Quasis = append(lit.Quasis, string(quasi))
	return lit
}

func parseNumber(lit string) float64 {
	var f float64
	_, err := fmt.Sscanf(lit, "%g", &f)
	if err != nil {
		return 0
	}
	return f
}
