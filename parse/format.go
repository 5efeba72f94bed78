package parse

import "strings"

// Format renders n on one line as an s-expression, e.g. a + b * c is
// (+ a (* b c)). Groupings are kept as (group e).
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	list := func(head string, kids ...Node) {
		sb.WriteString("(")
		sb.WriteString(head)
		for _, k := range kids {
			sb.WriteString(" ")
			format(sb, k)
		}
		sb.WriteString(")")
	}
	switch n := n.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Literal:
		sb.WriteString(n.Tok.Val)
	case *Grouping:
		list("group", nodeOrNil(n.Inner))
	case *Binop:
		list(n.Op.Val, nodeOrNil(n.L), nodeOrNil(n.R))
	case *Unop:
		head := n.Op.Val
		if n.Postfix {
			head = "post" + head
		}
		list(head, nodeOrNil(n.Operand))
	case *Cond:
		list("?:", nodeOrNil(n.Cond), nodeOrNil(n.Then), nodeOrNil(n.Else))
	case *Index:
		list("index", nodeOrNil(n.Base), nodeOrNil(n.Index))
	case *Call:
		kids := []Node{nodeOrNil(n.Func)}
		for _, arg := range n.Args {
			kids = append(kids, nodeOrNil(arg))
		}
		list("call", kids...)
	case *Member:
		list(n.Op.Val, nodeOrNil(n.Object), NewLiteral(n.Name))
	case *Simple:
		if n.Const {
			sb.WriteString("const ")
		}
		sb.WriteString(n.Name.Val)
	case *Ptr:
		head := "ptr"
		if n.Const {
			head = "const ptr"
		}
		list(head, typeOrNil(n.PointsTo))
	case *Array:
		head := "array"
		if n.Const {
			head = "const array"
		}
		if n.Dim == nil {
			list(head, typeOrNil(n.MemberType))
		} else {
			list(head, typeOrNil(n.MemberType), n.Dim)
		}
	case *VarDecl:
		head := "decl"
		if n.Storage != SC_NONE {
			head += " " + n.Storage.String()
		}
		kids := []Node{NewLiteral(n.Name), typeOrNil(n.Type)}
		if n.Init != nil {
			kids = append(kids, n.Init)
		}
		list(head, kids...)
	case *EnumDecl:
		kids := []Node{NewLiteral(n.Name)}
		for _, e := range n.Entries {
			kids = append(kids, NewLiteral(e))
		}
		list("enum", kids...)
	default:
		panic(internalError("format", n))
	}
}

func nodeOrNil(e Expr) Node {
	if e == nil {
		return nil
	}
	return e
}

func typeOrNil(t Type) Node {
	if t == nil {
		return nil
	}
	return t
}
