package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ohadk123/kc/lex"
)

// Fprint writes n to w as indented JSON. Expressions are tagged with a
// "type" key, types and statements with a "kind" key.
func Fprint(w io.Writer, n Node) error {
	p := &printer{w: w}
	p.value(n)
	p.printf("\n")
	return p.err
}

func Sprint(n Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n)
	return sb.String()
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

type field struct {
	key string
	val interface{}
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) indent() {
	p.printf("%s", strings.Repeat("  ", p.depth))
}

func (p *printer) value(v interface{}) {
	switch v := v.(type) {
	case nil:
		p.printf("null")
	case string:
		p.printf("%s", quote(v))
	case bool:
		p.printf("%t", v)
	case []Expr:
		items := make([]interface{}, len(v))
		for i := range v {
			items[i] = v[i]
		}
		p.list(items)
	case []lex.Token:
		items := make([]interface{}, len(v))
		for i := range v {
			items[i] = v[i].Val
		}
		p.list(items)
	case Node:
		p.node(v)
	default:
		panic(fmt.Sprintf("internal error - print: unexpected value %T", v))
	}
}

func (p *printer) object(fields ...field) {
	p.printf("{\n")
	p.depth++
	for i, f := range fields {
		p.indent()
		p.printf("%s: ", quote(f.key))
		p.value(f.val)
		if i != len(fields)-1 {
			p.printf(",")
		}
		p.printf("\n")
	}
	p.depth--
	p.indent()
	p.printf("}")
}

func (p *printer) list(items []interface{}) {
	if len(items) == 0 {
		p.printf("[]")
		return
	}
	p.printf("[\n")
	p.depth++
	for i, item := range items {
		p.indent()
		p.value(item)
		if i != len(items)-1 {
			p.printf(",")
		}
		p.printf("\n")
	}
	p.depth--
	p.indent()
	p.printf("]")
}

// opt and optType print a nil child as null.

func opt(e Expr) interface{} {
	if e == nil {
		return nil
	}
	return e
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Literal:
		p.object(
			field{"type", "literal"},
			field{"kind", n.Tok.Kind.String()},
			field{"value", n.Tok.Val},
		)
	case *Grouping:
		p.object(field{"type", "grouping"}, field{"inner", opt(n.Inner)})
	case *Binop:
		p.object(
			field{"type", "binary"},
			field{"op", n.Op.Val},
			field{"lhs", opt(n.L)},
			field{"rhs", opt(n.R)},
		)
	case *Unop:
		p.object(
			field{"type", "unary"},
			field{"op", n.Op.Val},
			field{"postfix", n.Postfix},
			field{"inner", opt(n.Operand)},
		)
	case *Cond:
		p.object(
			field{"type", "conditional"},
			field{"condition", opt(n.Cond)},
			field{"then", opt(n.Then)},
			field{"else", opt(n.Else)},
		)
	case *Index:
		p.object(field{"type", "index"}, field{"base", opt(n.Base)}, field{"index", opt(n.Index)})
	case *Call:
		p.object(field{"type", "call"}, field{"callee", opt(n.Func)}, field{"args", n.Args})
	case *Member:
		p.object(
			field{"type", "member"},
			field{"op", n.Op.Val},
			field{"object", opt(n.Object)},
			field{"name", n.Name.Val},
		)
	case *Simple:
		p.object(field{"kind", "simple"}, field{"const", n.Const}, field{"name", n.Name.Val})
	case *Ptr:
		p.object(field{"kind", "pointer"}, field{"const", n.Const}, field{"inner", optType(n.PointsTo)})
	case *Array:
		p.object(
			field{"kind", "array"},
			field{"const", n.Const},
			field{"inner", optType(n.MemberType)},
			field{"size", opt(n.Dim)},
		)
	case *VarDecl:
		p.object(
			field{"kind", "var_decl"},
			field{"storage", n.Storage.String()},
			field{"type", optType(n.Type)},
			field{"identifier", n.Name.Val},
			field{"initializer", opt(n.Init)},
		)
	case *EnumDecl:
		p.object(field{"kind", "enum"}, field{"name", n.Name.Val}, field{"entries", n.Entries})
	default:
		panic(internalError("print", n))
	}
}

func optType(t Type) interface{} {
	if t == nil {
		return nil
	}
	return t
}

func quote(s string) string {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
