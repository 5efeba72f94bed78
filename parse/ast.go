package parse

import "github.com/ohadk123/kc/lex"

// Node is anything that can appear in a tree produced by the parser.
// Every node owns its children exclusively; no node is ever reachable
// from two parents. Use CloneExpr, CloneType or CloneStmt when a subtree
// needs to appear twice.
type Node interface {
	GetPos() lex.FilePos
}

type Expr interface {
	Node
	exprNode()
}

// Literal is an integer, float, char or string constant, or an identifier.
type Literal struct {
	Tok lex.Token
}

// Grouping is a parenthesized expression. It has no meaning of its own.
type Grouping struct {
	Pos   lex.FilePos
	Inner Expr
}

type Binop struct {
	Op lex.Token
	L  Expr
	R  Expr
}

// Unop is a prefix or postfix operator applied to one operand. Prefix
// increments and decrements are rewritten as assignments while parsing,
// so a Unop with INC or DEC is always postfix.
type Unop struct {
	Op      lex.Token
	Operand Expr
	Postfix bool
}

// Cond is the ternary operator.
type Cond struct {
	Cond Expr
	Then Expr
	Else Expr
}

type Index struct {
	Pos   lex.FilePos
	Base  Expr
	Index Expr
}

type Call struct {
	Pos  lex.FilePos
	Func Expr
	Args []Expr
}

// Member is a field access with '.' or '->'. Name is the field identifier.
type Member struct {
	Op     lex.Token
	Object Expr
	Name   lex.Token
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Binop) exprNode()    {}
func (*Unop) exprNode()     {}
func (*Cond) exprNode()     {}
func (*Index) exprNode()    {}
func (*Call) exprNode()     {}
func (*Member) exprNode()   {}

func (e *Literal) GetPos() lex.FilePos  { return e.Tok.Pos }
func (e *Grouping) GetPos() lex.FilePos { return e.Pos }
func (e *Binop) GetPos() lex.FilePos    { return e.Op.Pos }
func (e *Unop) GetPos() lex.FilePos     { return e.Op.Pos }
func (e *Cond) GetPos() lex.FilePos     { return e.Cond.GetPos() }
func (e *Index) GetPos() lex.FilePos    { return e.Pos }
func (e *Call) GetPos() lex.FilePos     { return e.Pos }
func (e *Member) GetPos() lex.FilePos   { return e.Op.Pos }

func NewLiteral(tok lex.Token) *Literal {
	return &Literal{Tok: tok}
}

func NewGrouping(pos lex.FilePos, inner Expr) *Grouping {
	return &Grouping{Pos: pos, Inner: inner}
}

func NewBinop(op lex.Token, l, r Expr) *Binop {
	return &Binop{Op: op, L: l, R: r}
}

func NewUnop(op lex.Token, operand Expr) *Unop {
	return &Unop{Op: op, Operand: operand}
}

func NewPostfixUnop(op lex.Token, operand Expr) *Unop {
	return &Unop{Op: op, Operand: operand, Postfix: true}
}

func NewCond(cond, then, els Expr) *Cond {
	return &Cond{Cond: cond, Then: then, Else: els}
}

func NewIndex(pos lex.FilePos, base, index Expr) *Index {
	return &Index{Pos: pos, Base: base, Index: index}
}

func NewCall(pos lex.FilePos, fn Expr, args []Expr) *Call {
	return &Call{Pos: pos, Func: fn, Args: args}
}

func NewMember(op lex.Token, object Expr, name lex.Token) *Member {
	return &Member{Op: op, Object: object, Name: name}
}
