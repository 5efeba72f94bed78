package parse

import "github.com/ohadk123/kc/lex"

// Type is the declared type of a variable, as written in the source.
type Type interface {
	Node
	IsConst() bool
	typeNode()
}

// Simple is a primitive type keyword or a type name.
type Simple struct {
	Name  lex.Token
	Const bool
}

type Ptr struct {
	Pos      lex.FilePos
	PointsTo Type
	Const    bool
}

// Array with a nil Dim is unsized, e.g. x[].
type Array struct {
	Pos        lex.FilePos
	MemberType Type
	Dim        Expr
	Const      bool
}

func (*Simple) typeNode() {}
func (*Ptr) typeNode()    {}
func (*Array) typeNode()  {}

func (t *Simple) GetPos() lex.FilePos { return t.Name.Pos }
func (t *Ptr) GetPos() lex.FilePos    { return t.Pos }
func (t *Array) GetPos() lex.FilePos  { return t.Pos }

func (t *Simple) IsConst() bool { return t.Const }
func (t *Ptr) IsConst() bool    { return t.Const }
func (t *Array) IsConst() bool  { return t.Const }

func NewSimple(name lex.Token, isConst bool) *Simple {
	return &Simple{Name: name, Const: isConst}
}

func NewPtr(pos lex.FilePos, pointsTo Type, isConst bool) *Ptr {
	return &Ptr{Pos: pos, PointsTo: pointsTo, Const: isConst}
}

func NewArray(pos lex.FilePos, memberType Type, dim Expr, isConst bool) *Array {
	return &Array{Pos: pos, MemberType: memberType, Dim: dim, Const: isConst}
}

func IsPtrType(t Type) bool {
	_, ok := t.(*Ptr)
	return ok
}

func IsArrayType(t Type) bool {
	_, ok := t.(*Array)
	return ok
}

// IsIntType reports whether t is one of the built-in integer types.
func IsIntType(t Type) bool {
	s, ok := t.(*Simple)
	if !ok {
		return false
	}
	switch s.Name.Kind {
	case lex.BOOL, lex.U8, lex.U16, lex.U32, lex.U64, lex.I8, lex.I16, lex.I32, lex.I64:
		return true
	default:
		return false
	}
}

// BaseType strips pointer and array layers off t.
func BaseType(t Type) *Simple {
	for {
		switch tt := t.(type) {
		case *Simple:
			return tt
		case *Ptr:
			t = tt.PointsTo
		case *Array:
			t = tt.MemberType
		default:
			panic("internal error")
		}
	}
}
