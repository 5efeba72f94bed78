package parse

import "fmt"

// Walk calls fn for every node owned by n and then for n itself, so
// children are always visited before their parent.
func Walk(n Node, fn func(Node)) {
	switch n := n.(type) {
	case nil:
		return
	case *Literal:
	case *Grouping:
		walkExpr(n.Inner, fn)
	case *Binop:
		walkExpr(n.L, fn)
		walkExpr(n.R, fn)
	case *Unop:
		walkExpr(n.Operand, fn)
	case *Cond:
		walkExpr(n.Cond, fn)
		walkExpr(n.Then, fn)
		walkExpr(n.Else, fn)
	case *Index:
		walkExpr(n.Base, fn)
		walkExpr(n.Index, fn)
	case *Call:
		walkExpr(n.Func, fn)
		for _, arg := range n.Args {
			walkExpr(arg, fn)
		}
	case *Member:
		walkExpr(n.Object, fn)
	case *Simple:
	case *Ptr:
		walkType(n.PointsTo, fn)
	case *Array:
		walkType(n.MemberType, fn)
		walkExpr(n.Dim, fn)
	case *VarDecl:
		walkType(n.Type, fn)
		walkExpr(n.Init, fn)
	case *EnumDecl:
	default:
		panic(internalError("walk", n))
	}
	fn(n)
}

// A nil Expr or Type must not reach Walk as a non-nil Node.

func walkExpr(e Expr, fn func(Node)) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkType(t Type, fn func(Node)) {
	if t != nil {
		Walk(t, fn)
	}
}

// Free releases n and everything it owns. Children are released before
// their parent and every owned reference is cleared, so a freed tree no
// longer reaches any of its former subtrees.
func Free(n Node) {
	Walk(n, release)
}

func release(n Node) {
	switch n := n.(type) {
	case *Literal:
	case *Grouping:
		n.Inner = nil
	case *Binop:
		n.L, n.R = nil, nil
	case *Unop:
		n.Operand = nil
	case *Cond:
		n.Cond, n.Then, n.Else = nil, nil, nil
	case *Index:
		n.Base, n.Index = nil, nil
	case *Call:
		n.Func, n.Args = nil, nil
	case *Member:
		n.Object = nil
	case *Simple:
	case *Ptr:
		n.PointsTo = nil
	case *Array:
		n.MemberType, n.Dim = nil, nil
	case *VarDecl:
		n.Type, n.Init = nil, nil
	case *EnumDecl:
		n.Entries = nil
	default:
		panic(internalError("free", n))
	}
}

// internalError describes a node that op does not handle. Always panicked.
func internalError(op string, n interface{}) string {
	return fmt.Sprintf("internal error - %s: unexpected node %T", op, n)
}
