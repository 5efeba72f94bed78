package parse

import "github.com/ohadk123/kc/lex"

// CloneExpr returns a deep copy of e that shares no nodes with it.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *Literal:
		return NewLiteral(e.Tok)
	case *Grouping:
		return NewGrouping(e.Pos, CloneExpr(e.Inner))
	case *Binop:
		return NewBinop(e.Op, CloneExpr(e.L), CloneExpr(e.R))
	case *Unop:
		return &Unop{Op: e.Op, Operand: CloneExpr(e.Operand), Postfix: e.Postfix}
	case *Cond:
		return NewCond(CloneExpr(e.Cond), CloneExpr(e.Then), CloneExpr(e.Else))
	case *Index:
		return NewIndex(e.Pos, CloneExpr(e.Base), CloneExpr(e.Index))
	case *Call:
		var args []Expr
		if e.Args != nil {
			args = make([]Expr, len(e.Args))
			for i, arg := range e.Args {
				args[i] = CloneExpr(arg)
			}
		}
		return NewCall(e.Pos, CloneExpr(e.Func), args)
	case *Member:
		return NewMember(e.Op, CloneExpr(e.Object), e.Name)
	}
	panic(internalError("clone", e))
}

func CloneType(t Type) Type {
	switch t := t.(type) {
	case nil:
		return nil
	case *Simple:
		return NewSimple(t.Name, t.Const)
	case *Ptr:
		return NewPtr(t.Pos, CloneType(t.PointsTo), t.Const)
	case *Array:
		return NewArray(t.Pos, CloneType(t.MemberType), CloneExpr(t.Dim), t.Const)
	}
	panic(internalError("clone", t))
}

func CloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *VarDecl:
		return NewVarDecl(CloneType(s.Type), s.Storage, s.Name, CloneExpr(s.Init))
	case *EnumDecl:
		var entries []lex.Token
		if s.Entries != nil {
			entries = make([]lex.Token, len(s.Entries))
			copy(entries, s.Entries)
		}
		return NewEnum(s.Name, entries)
	}
	panic(internalError("clone", s))
}
