package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohadk123/kc/lex"
)

// Eval folds e to a constant. There are no variables: '=' yields its right
// operand, and both operands of every other binary operator are evaluated,
// '&&' and '||' included.
func Eval(e Expr) (int64, error) {
	switch e := e.(type) {
	case *Literal:
		return evalLiteral(e.Tok)
	case *Grouping:
		return Eval(e.Inner)
	case *Binop:
		if e.Op.Kind == lex.ASSIGN {
			return Eval(e.R)
		}
		l, err := Eval(e.L)
		if err != nil {
			return 0, err
		}
		r, err := Eval(e.R)
		if err != nil {
			return 0, err
		}
		v, err := evalBinop(e.Op.Kind, l, r)
		if err != nil {
			return 0, lex.ErrWithLoc(err, e.Op.Pos)
		}
		return v, nil
	case *Unop:
		return evalUnop(e)
	case *Cond:
		c, err := Eval(e.Cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return Eval(e.Then)
		}
		return Eval(e.Else)
	case *Index:
		return 0, notImplemented(e.Pos, "index expression")
	case *Call:
		return 0, notImplemented(e.Pos, "function call")
	case *Member:
		return 0, notImplemented(e.Op.Pos, "member access")
	}
	panic(internalError("eval", e))
}

func evalUnop(e *Unop) (int64, error) {
	switch e.Op.Kind {
	case '&':
		return 0, notImplemented(e.Op.Pos, "address of")
	case '*':
		return 0, notImplemented(e.Op.Pos, "dereference")
	}
	v, err := Eval(e.Operand)
	if err != nil {
		return 0, err
	}
	switch e.Op.Kind {
	case '+':
		return v, nil
	case '-':
		return -v, nil
	case '~':
		return ^v, nil
	case '!':
		return boolToInt(v == 0), nil
	case lex.INC:
		if e.Postfix {
			return v, nil
		}
		return v + 1, nil
	case lex.DEC:
		if e.Postfix {
			return v, nil
		}
		return v - 1, nil
	}
	panic(fmt.Sprintf("internal error - eval: unexpected unary operator %s", e.Op.Kind))
}

func evalLiteral(t lex.Token) (int64, error) {
	switch t.Kind {
	case lex.INT_CONSTANT:
		return parseIntConstant(t)
	case lex.CHAR_CONSTANT:
		return parseCharConstant(t)
	case lex.IDENT:
		return 0, notImplemented(t.Pos, "identifier "+t.Val)
	case lex.FLOAT_CONSTANT:
		return 0, notImplemented(t.Pos, "float constant")
	case lex.STRING:
		return 0, notImplemented(t.Pos, "string constant")
	}
	panic(fmt.Sprintf("internal error - eval: unexpected literal %s", t.Kind))
}

func parseIntConstant(t lex.Token) (int64, error) {
	s := strings.TrimRight(t.Val, "uUlL")
	v, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return v, nil
	}
	// 0xffffffffffffffff and friends wrap like a C cast would.
	u, uerr := strconv.ParseUint(s, 0, 64)
	if uerr == nil {
		return int64(u), nil
	}
	return 0, lex.ErrWithLoc(fmt.Errorf("invalid integer constant %s", t.Val), t.Pos)
}

func parseCharConstant(t lex.Token) (int64, error) {
	bad := lex.ErrWithLoc(fmt.Errorf("invalid character constant %s", t.Val), t.Pos)
	if len(t.Val) < 3 || t.Val[0] != '\'' || t.Val[len(t.Val)-1] != '\'' {
		return 0, bad
	}
	r, _, tail, err := strconv.UnquoteChar(t.Val[1:len(t.Val)-1], '\'')
	if err != nil || tail != "" {
		return 0, bad
	}
	return int64(r), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func evalBinop(k lex.TokenKind, l int64, r int64) (int64, error) {
	switch k {
	case lex.LOR:
		return boolToInt(l != 0 || r != 0), nil
	case lex.LAND:
		return boolToInt(l != 0 && r != 0), nil
	case lex.OR:
		return l | r, nil
	case lex.XOR:
		return l ^ r, nil
	case lex.AND:
		return l & r, nil
	case lex.ADD:
		return l + r, nil
	case lex.SUB:
		return l - r, nil
	case lex.MUL:
		return l * r, nil
	case lex.SHR, lex.SHL:
		if r < 0 || r > 63 {
			return 0, fmt.Errorf("shift count %d out of range", r)
		}
		if k == lex.SHR {
			return l >> uint64(r), nil
		}
		return l << uint64(r), nil
	case lex.QUO:
		if r == 0 {
			return 0, fmt.Errorf("divide by zero in expression")
		}
		return l / r, nil
	case lex.REM:
		if r == 0 {
			return 0, fmt.Errorf("divide by zero in expression")
		}
		return l % r, nil
	case lex.EQL:
		return boolToInt(l == r), nil
	case lex.NEQ:
		return boolToInt(l != r), nil
	case lex.LSS:
		return boolToInt(l < r), nil
	case lex.GTR:
		return boolToInt(l > r), nil
	case lex.LEQ:
		return boolToInt(l <= r), nil
	case lex.GEQ:
		return boolToInt(l >= r), nil
	case lex.COMMA:
		return r, nil
	}
	panic(fmt.Sprintf("internal error - eval: unexpected binary operator %s", k))
}
