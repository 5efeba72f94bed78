package parse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/ohadk123/kc/lex"
)

const DefaultMaxErrors = 10

type parser struct {
	toks []lex.Token
	idx  int
	curt *lex.Token

	log       *slog.Logger
	debug     bool
	maxErrors int
}

type parseErrorBreakOut struct {
	err error
}

// Option configures a parse.
type Option func(*parser)

// WithLogger sets the logger used to report empty input and, at debug
// level, each syntax error as it is recorded.
func WithLogger(l *slog.Logger) Option {
	return func(p *parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithDebug appends the parser's stack to every syntax error. It is also
// enabled by KCDEBUG=true.
func WithDebug(on bool) Option {
	return func(p *parser) {
		p.debug = p.debug || on
	}
}

// WithMaxErrors bounds how many syntax errors ParseProgram collects before
// giving up. Zero means no limit.
func WithMaxErrors(n int) Option {
	return func(p *parser) {
		p.maxErrors = n
	}
}

func newParser(toks []lex.Token, opts []Option) *parser {
	p := &parser{
		log:       slog.Default(),
		debug:     os.Getenv("KCDEBUG") == "true",
		maxErrors: DefaultMaxErrors,
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != lex.EOF {
		pos := lex.FilePos{Line: 1, Col: 1}
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			pos = last.Pos
			pos.Col += len(last.Val)
		}
		// Full slice expression so the caller's backing array is never written.
		toks = append(toks[:len(toks):len(toks)], lex.Token{Kind: lex.EOF, Pos: pos})
	}
	p.toks = toks
	p.curt = &p.toks[0]
	return p
}

// ParseExpression parses tokens as a single expression. Every token up
// to EOF must be part of it.
func ParseExpression(toks []lex.Token, opts ...Option) (e Expr, err error) {
	p := newParser(toks, opts)
	defer p.recoverError(&err)
	e = p.parseExpression()
	if p.curt.Kind != lex.EOF {
		p.errorPos("unexpected %s after expression", p.curt.Pos, describe(p.curt))
	}
	return e, nil
}

// ParseStatement parses tokens as exactly one statement.
func ParseStatement(toks []lex.Token, opts ...Option) (s Stmt, err error) {
	p := newParser(toks, opts)
	defer p.recoverError(&err)
	s = p.parseStatement()
	if p.curt.Kind != lex.EOF {
		p.errorPos("unexpected %s after statement", p.curt.Pos, describe(p.curt))
	}
	return s, nil
}

// ParseProgram parses a translation unit. After a syntax error the parser
// skips past the next ';' and carries on, so one call can report several
// errors. The statements that did parse are returned alongside an
// ErrorList.
func ParseProgram(toks []lex.Token, opts ...Option) ([]Stmt, error) {
	p := newParser(toks, opts)
	if p.curt.Kind == lex.EOF {
		p.log.Warn("no tokens to parse", "pos", p.curt.Pos.String())
		return nil, nil
	}
	var stmts []Stmt
	var errs ErrorList
	for p.curt.Kind != lex.EOF {
		s, err := p.tryStatement()
		if err != nil {
			p.log.Debug("syntax error", "err", err)
			errs = append(errs, err)
			if p.maxErrors > 0 && len(errs) >= p.maxErrors {
				break
			}
			p.synchronize()
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts, errs.Err()
}

func (p *parser) tryStatement() (s Stmt, err error) {
	defer p.recoverError(&err)
	return p.parseStatement(), nil
}

func (p *parser) recoverError(err *error) {
	if e := recover(); e != nil {
		peb, ok := e.(parseErrorBreakOut)
		if !ok {
			panic(e)
		}
		*err = peb.err
	}
}

// synchronize skips to just after the next ';'.
func (p *parser) synchronize() {
	for p.curt.Kind != lex.EOF {
		k := p.curt.Kind
		p.next()
		if k == ';' {
			return
		}
	}
}

func (p *parser) errorPos(m string, pos lex.FilePos, vals ...interface{}) {
	err := errors.New("syntax error: " + fmt.Sprintf(m, vals...))
	if p.debug {
		err = fmt.Errorf("%w\n%s", err, debug.Stack())
	}
	panic(parseErrorBreakOut{lex.ErrWithLoc(err, pos)})
}

func (p *parser) expect(k lex.TokenKind) {
	if p.curt.Kind != k {
		p.errorPos("expected %s got %s", p.curt.Pos, k, describe(p.curt))
	}
	p.next()
}

func (p *parser) accept(k lex.TokenKind) bool {
	if p.curt.Kind != k {
		return false
	}
	p.next()
	return true
}

func (p *parser) next() {
	if p.curt.Kind == lex.EOF {
		return
	}
	p.idx++
	p.curt = &p.toks[p.idx]
}

func describe(t *lex.Token) string {
	switch t.Kind {
	case lex.EOF:
		return "end of input"
	case lex.IDENT, lex.INT_CONSTANT, lex.FLOAT_CONSTANT, lex.CHAR_CONSTANT, lex.STRING:
		return fmt.Sprintf("%s %s", t.Kind, t.Val)
	}
	return t.Kind.String()
}

func (p *parser) parseStatement() Stmt {
	switch k := p.curt.Kind; {
	case k == lex.EXTERN, k == lex.STATIC, k == lex.CONST, k == lex.IDENT, k.IsPrimitive():
		return p.parseVarDecl()
	}
	p.errorPos("expected statement got %s", p.curt.Pos, describe(p.curt))
	panic("unreachable")
}

// varDecl := ('extern' | 'static')? 'const'? type ('*' 'const'?)* ident ('[' expr? ']')? ('=' expr)? ';'
func (p *parser) parseVarDecl() Stmt {
	sc := SC_NONE
	switch p.curt.Kind {
	case lex.EXTERN:
		sc = SC_EXTERN
		p.next()
	case lex.STATIC:
		sc = SC_STATIC
		p.next()
	}
	isConst := p.accept(lex.CONST)
	if !p.curt.Kind.IsPrimitive() && p.curt.Kind != lex.IDENT {
		p.errorPos("expected type got %s", p.curt.Pos, describe(p.curt))
	}
	var ty Type = NewSimple(*p.curt, isConst)
	p.next()
	for p.curt.Kind == '*' {
		pos := p.curt.Pos
		p.next()
		ty = NewPtr(pos, ty, p.accept(lex.CONST))
	}
	if p.curt.Kind != lex.IDENT {
		p.errorPos("expected variable name got %s", p.curt.Pos, describe(p.curt))
	}
	name := *p.curt
	p.next()
	if p.curt.Kind == '[' {
		pos := p.curt.Pos
		p.next()
		var dim Expr
		if p.curt.Kind != ']' {
			dim = p.parseExpression()
		}
		p.expect(']')
		ty = NewArray(pos, ty, dim, false)
	}
	var init Expr
	if p.accept('=') {
		init = p.parseExpression()
	}
	if p.curt.Kind != ';' {
		p.errorPos("expected ';' at the end of variable declaration got %s", p.curt.Pos, describe(p.curt))
	}
	p.next()
	return NewVarDecl(ty, sc, name, init)
}

var compoundOps = map[lex.TokenKind]lex.TokenKind{
	lex.ADD_ASSIGN: lex.ADD,
	lex.SUB_ASSIGN: lex.SUB,
	lex.MUL_ASSIGN: lex.MUL,
	lex.QUO_ASSIGN: lex.QUO,
	lex.REM_ASSIGN: lex.REM,
	lex.AND_ASSIGN: lex.AND,
	lex.XOR_ASSIGN: lex.XOR,
	lex.OR_ASSIGN:  lex.OR,
	lex.SHL_ASSIGN: lex.SHL,
	lex.SHR_ASSIGN: lex.SHR,
}

func isAssignmentOperator(k lex.TokenKind) bool {
	if k == '=' {
		return true
	}
	_, ok := compoundOps[k]
	return ok
}

func assignTok(pos lex.FilePos) lex.Token {
	return lex.Token{Kind: lex.ASSIGN, Val: "=", Pos: pos}
}

// desugarCompound turns a op= b into a = a op b.
func desugarCompound(op lex.Token, l, r Expr) Expr {
	binop := lex.Token{
		Kind: compoundOps[op.Kind],
		Val:  strings.TrimSuffix(op.Val, "="),
		Pos:  op.Pos,
	}
	return NewBinop(assignTok(op.Pos), l, NewBinop(binop, CloneExpr(l), r))
}

// desugarIncDec turns ++a into a = a + 1 and --a into a = a - 1.
func desugarIncDec(op lex.Token, operand Expr) Expr {
	binop := lex.Token{Kind: lex.ADD, Val: "+", Pos: op.Pos}
	if op.Kind == lex.DEC {
		binop = lex.Token{Kind: lex.SUB, Val: "-", Pos: op.Pos}
	}
	one := NewLiteral(lex.Token{Kind: lex.INT_CONSTANT, Val: "1", Pos: op.Pos})
	return NewBinop(assignTok(op.Pos), operand, NewBinop(binop, CloneExpr(operand), one))
}

// expression := assignment (',' assignment)*
func (p *parser) parseExpression() Expr {
	l := p.parseAssignmentExpression()
	for p.curt.Kind == ',' {
		op := *p.curt
		p.next()
		r := p.parseAssignmentExpression()
		l = NewBinop(op, l, r)
	}
	return l
}

// assignment := conditional (('=' | '+=' | ... | '>>=') assignment)?
func (p *parser) parseAssignmentExpression() Expr {
	l := p.parseConditionalExpression()
	if !isAssignmentOperator(p.curt.Kind) {
		return l
	}
	op := *p.curt
	p.next()
	r := p.parseAssignmentExpression()
	if op.Kind == '=' {
		return NewBinop(op, l, r)
	}
	return desugarCompound(op, l, r)
}

// Aka Ternary operator.
func (p *parser) parseConditionalExpression() Expr {
	cond := p.parseLogicalOrExpression()
	if p.curt.Kind != '?' {
		return cond
	}
	p.next()
	then := p.parseExpression()
	p.expect(':')
	els := p.parseConditionalExpression()
	return NewCond(cond, then, els)
}

func (p *parser) parseLogicalOrExpression() Expr {
	l := p.parseLogicalAndExpression()
	for p.curt.Kind == lex.LOR {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseLogicalAndExpression())
	}
	return l
}

func (p *parser) parseLogicalAndExpression() Expr {
	l := p.parseInclusiveOrExpression()
	for p.curt.Kind == lex.LAND {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseInclusiveOrExpression())
	}
	return l
}

func (p *parser) parseInclusiveOrExpression() Expr {
	l := p.parseExclusiveOrExpression()
	for p.curt.Kind == '|' {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseExclusiveOrExpression())
	}
	return l
}

func (p *parser) parseExclusiveOrExpression() Expr {
	l := p.parseAndExpression()
	for p.curt.Kind == '^' {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseAndExpression())
	}
	return l
}

func (p *parser) parseAndExpression() Expr {
	l := p.parseEqualityExpression()
	for p.curt.Kind == '&' {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseEqualityExpression())
	}
	return l
}

func (p *parser) parseEqualityExpression() Expr {
	l := p.parseRelationalExpression()
	for p.curt.Kind == lex.EQL || p.curt.Kind == lex.NEQ {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseRelationalExpression())
	}
	return l
}

func (p *parser) parseRelationalExpression() Expr {
	l := p.parseShiftExpression()
	for p.curt.Kind == '>' || p.curt.Kind == '<' || p.curt.Kind == lex.LEQ || p.curt.Kind == lex.GEQ {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseShiftExpression())
	}
	return l
}

func (p *parser) parseShiftExpression() Expr {
	l := p.parseAdditiveExpression()
	for p.curt.Kind == lex.SHL || p.curt.Kind == lex.SHR {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseAdditiveExpression())
	}
	return l
}

func (p *parser) parseAdditiveExpression() Expr {
	l := p.parseMultiplicativeExpression()
	for p.curt.Kind == '+' || p.curt.Kind == '-' {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseMultiplicativeExpression())
	}
	return l
}

func (p *parser) parseMultiplicativeExpression() Expr {
	l := p.parseUnaryExpression()
	for p.curt.Kind == '*' || p.curt.Kind == '/' || p.curt.Kind == '%' {
		op := *p.curt
		p.next()
		l = NewBinop(op, l, p.parseUnaryExpression())
	}
	return l
}

func (p *parser) parseUnaryExpression() Expr {
	switch p.curt.Kind {
	case lex.INC, lex.DEC:
		op := *p.curt
		p.next()
		return desugarIncDec(op, p.parseUnaryExpression())
	case '*', '+', '-', '!', '~', '&':
		op := *p.curt
		p.next()
		return NewUnop(op, p.parseUnaryExpression())
	default:
		return p.parsePostfixExpression()
	}
}

func (p *parser) parsePostfixExpression() Expr {
	l := p.parsePrimaryExpression()
	for {
		switch p.curt.Kind {
		case '[':
			pos := p.curt.Pos
			p.next()
			idx := p.parseExpression()
			p.expect(']')
			l = NewIndex(pos, l, idx)
		case '.', lex.ARROW:
			op := *p.curt
			p.next()
			if p.curt.Kind != lex.IDENT {
				p.errorPos("expected member name after %s got %s", p.curt.Pos, op.Kind, describe(p.curt))
			}
			name := *p.curt
			p.next()
			l = NewMember(op, l, name)
		case '(':
			pos := p.curt.Pos
			p.next()
			var args []Expr
			if p.curt.Kind != ')' {
				for {
					args = append(args, p.parseAssignmentExpression())
					if !p.accept(',') {
						break
					}
				}
			}
			p.expect(')')
			l = NewCall(pos, l, args)
		case lex.INC, lex.DEC:
			op := *p.curt
			p.next()
			l = NewPostfixUnop(op, l)
		default:
			return l
		}
	}
}

func (p *parser) parsePrimaryExpression() Expr {
	switch {
	case p.curt.Kind.IsLiteral():
		t := *p.curt
		p.next()
		return NewLiteral(t)
	case p.curt.Kind == '(':
		pos := p.curt.Pos
		p.next()
		inner := p.parseExpression()
		p.expect(')')
		return NewGrouping(pos, inner)
	}
	p.errorPos("expected an identifier, constant, string or expression got %s", p.curt.Pos, describe(p.curt))
	panic("unreachable")
}
