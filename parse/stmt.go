package parse

import "github.com/ohadk123/kc/lex"

// Storage class
type SClass int

const (
	SC_NONE SClass = iota
	SC_EXTERN
	SC_STATIC
)

func (sc SClass) String() string {
	switch sc {
	case SC_NONE:
		return "none"
	case SC_EXTERN:
		return "extern"
	case SC_STATIC:
		return "static"
	}
	return "Unknown"
}

type Stmt interface {
	Node
	stmtNode()
}

// VarDecl declares a single variable. Init is nil when there is no
// initializer.
type VarDecl struct {
	Type    Type
	Storage SClass
	Name    lex.Token
	Init    Expr
}

// EnumDecl is an enumeration. No grammar rule produces one yet; it is
// built directly with NewEnum.
type EnumDecl struct {
	Name    lex.Token
	Entries []lex.Token
}

func (*VarDecl) stmtNode()  {}
func (*EnumDecl) stmtNode() {}

func (s *VarDecl) GetPos() lex.FilePos  { return s.Name.Pos }
func (s *EnumDecl) GetPos() lex.FilePos { return s.Name.Pos }

func NewVarDecl(ty Type, storage SClass, name lex.Token, init Expr) *VarDecl {
	return &VarDecl{Type: ty, Storage: storage, Name: name, Init: init}
}

func NewEnum(name lex.Token, entries []lex.Token) *EnumDecl {
	return &EnumDecl{Name: name, Entries: entries}
}
