package parse

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohadk123/kc/lex"
)

func tokens(t *testing.T, src string) []lex.Token {
	t.Helper()
	toks, err := lex.TokenizeString("", src)
	if err != nil {
		t.Fatalf("tokenizing %q: %s", src, err)
	}
	return toks
}

func mustExpr(t *testing.T, src string) Expr {
	t.Helper()
	e, err := ParseExpression(tokens(t, src))
	if err != nil {
		t.Fatalf("parsing %q: %s", src, err)
	}
	return e
}

func mustProgram(t *testing.T, src string) []Stmt {
	t.Helper()
	stmts, err := ParseProgram(tokens(t, src))
	if err != nil {
		t.Fatalf("parsing %q: %s", src, err)
	}
	return stmts
}

// nodeSet collects every node reachable from n, failing on any node seen
// twice.
func nodeSet(t *testing.T, n Node) map[Node]bool {
	t.Helper()
	seen := make(map[Node]bool)
	Walk(n, func(n Node) {
		if seen[n] {
			t.Fatalf("node %s reachable twice", Format(n))
		}
		seen[n] = true
	})
	return seen
}

func parseTestCase(t *testing.T, path string) {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	toks, err := lex.Tokenize(path, f)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ParseProgram(toks, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	if err != nil {
		t.Fatal(err)
	}
}

func TestParser(t *testing.T) {
	info, err := os.ReadDir("parsetests")
	if err != nil {
		t.Fatal(err)
	}
	for i := range info {
		filename := info[i].Name()
		if !strings.HasSuffix(filename, ".kc") {
			continue
		}
		t.Run(filename, func(t *testing.T) {
			parseTestCase(t, filepath.Join("parsetests", filename))
		})
	}
}

func TestExpressionShape(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"a ? b : c ? d : e", "(?: a b (?: c d e))"},
		{"a ? b, c : d", "(?: a (, b c) d)"},
		{"a, b = c", "(, a (= b c))"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a | b ^ c & d", "(| a (^ b (& c d)))"},
		{"a == b < c", "(== a (< b c))"},
		{"a != b >= c", "(!= a (>= b c))"},
		{"a << b + c", "(<< a (+ b c))"},
		{"a >> b - c % d", "(>> a (- b (% c d)))"},
		{"-a * !b", "(* (- a) (! b))"},
		{"~+a", "(~ (+ a))"},
		{"&x", "(& x)"},
		{"*p++", "(* (post++ p))"},
		{"x--", "(post-- x)"},
		{"a[i](x, y).f->g", "(-> (. (call (index a i) x y) f) g)"},
		{"f()", "(call f)"},
		{"f(a = 1, (b, c))", "(call f (= a 1) (group (, b c)))"},
		{"(a + b) * c", "(* (group (+ a b)) c)"},
		{"'c' + \"s\" + 1.5", "(+ (+ 'c' \"s\") 1.5)"},
		{"x += 1", "(= x (+ x 1))"},
		{"x <<= y + 1", "(= x (<< x (+ y 1)))"},
		{"a = b -= c", "(= a (= b (- b c)))"},
		{"++x", "(= x (+ x 1))"},
		{"--a[i]", "(= (index a i) (- (index a i) 1))"},
		{"- ++x", "(- (= x (+ x 1)))"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			got := Format(mustExpr(t, tc.src))
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCompoundAssignments(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "%", "&", "^", "|", "<<", ">>"} {
		sugared := mustExpr(t, "x "+op+"= y")
		plain := mustExpr(t, "x = x "+op+" y")
		if Sprint(sugared) != Sprint(plain) {
			t.Errorf("x %s= y:\n%s\nwant\n%s", op, Sprint(sugared), Sprint(plain))
		}
		nodeSet(t, sugared)
	}
}

func TestDesugarDoesNotAlias(t *testing.T) {
	e := mustExpr(t, "x += 1")
	assign := e.(*Binop)
	sum := assign.R.(*Binop)
	if assign.L == sum.L {
		t.Fatal("both occurrences of x are the same node")
	}
	sum.L.(*Literal).Tok.Val = "y"
	if got := assign.L.(*Literal).Tok.Val; got != "x" {
		t.Fatalf("assignment target changed to %s", got)
	}
	if got := Format(e); got != "(= x (+ y 1))" {
		t.Fatalf("got %s", got)
	}

	nodeSet(t, mustExpr(t, "a[f(i)].m -= b ? c : d"))
	nodeSet(t, mustExpr(t, "--*p"))
}

func TestDesugarPositions(t *testing.T) {
	e := mustExpr(t, "x  += 2")
	assign := e.(*Binop)
	want := lex.FilePos{Line: 1, Col: 4}
	if assign.Op.Pos != want || assign.Op.Kind != lex.ASSIGN {
		t.Fatalf("assignment op %v at %s", assign.Op.Kind, assign.Op.Pos)
	}
	sum := assign.R.(*Binop)
	if sum.Op.Pos != want || sum.Op.Kind != lex.ADD || sum.Op.Val != "+" {
		t.Fatalf("binary op %v %q at %s", sum.Op.Kind, sum.Op.Val, sum.Op.Pos)
	}

	e = mustExpr(t, "\n --y")
	sub := e.(*Binop).R.(*Binop)
	one := sub.R.(*Literal)
	want = lex.FilePos{Line: 2, Col: 2}
	if sub.Op.Kind != lex.SUB || one.Tok.Val != "1" || one.Tok.Kind != lex.INT_CONSTANT || one.Tok.Pos != want {
		t.Fatalf("got %s with literal %v", Format(e), one.Tok)
	}
}

func TestCloneExpr(t *testing.T) {
	for _, src := range []string{
		"a + b * c",
		"x += y",
		"f(a, b[1], s.g, p->h)",
		"f()",
		"c ? -d++ : (e, 'x')",
		"\"str\" , 1.5e3",
	} {
		orig := mustExpr(t, src)
		clone := CloneExpr(orig)
		if Sprint(clone) != Sprint(orig) {
			t.Errorf("%s: clone prints differently:\n%s\nwant\n%s", src, Sprint(clone), Sprint(orig))
		}
		origNodes := nodeSet(t, orig)
		for n := range nodeSet(t, clone) {
			if origNodes[n] {
				t.Errorf("%s: clone shares node %s", src, Format(n))
			}
		}
	}
	if CloneExpr(nil) != nil || CloneType(nil) != nil || CloneStmt(nil) != nil {
		t.Fatal("cloning nil should give nil")
	}
}

func TestCloneStmt(t *testing.T) {
	stmts := mustProgram(t, "static const u32 *x[4] = 1 + 2;")
	orig := stmts[0]
	clone := CloneStmt(orig)
	if Sprint(clone) != Sprint(orig) {
		t.Fatalf("clone prints differently:\n%s\nwant\n%s", Sprint(clone), Sprint(orig))
	}
	origNodes := nodeSet(t, orig)
	for n := range nodeSet(t, clone) {
		if origNodes[n] {
			t.Fatalf("clone shares node %s", Format(n))
		}
	}

	entries := []lex.Token{{Kind: lex.IDENT, Val: "RED"}, {Kind: lex.IDENT, Val: "GREEN"}}
	enum := NewEnum(lex.Token{Kind: lex.IDENT, Val: "Color"}, entries)
	enumClone := CloneStmt(enum).(*EnumDecl)
	enumClone.Entries[0].Val = "BLUE"
	if enum.Entries[0].Val != "RED" {
		t.Fatal("enum clone shares its entries")
	}
	if got := Format(enumClone); got != "(enum Color BLUE GREEN)" {
		t.Fatalf("got %s", got)
	}
}

func TestFree(t *testing.T) {
	e := mustExpr(t, "f(a + b, c[0])")
	var order []string
	Walk(e, func(n Node) { order = append(order, Format(n)) })
	if order[0] != "f" || order[len(order)-1] != Format(e) {
		t.Fatalf("walk is not post-order: %v", order)
	}

	call := e.(*Call)
	sum := call.Args[0].(*Binop)
	Free(e)
	if call.Func != nil || call.Args != nil {
		t.Fatal("call still owns its children")
	}
	if sum.L != nil || sum.R != nil {
		t.Fatal("argument was not released")
	}

	stmts := mustProgram(t, "u8 *p[2] = q;")
	decl := stmts[0].(*VarDecl)
	arr := decl.Type.(*Array)
	Free(decl)
	if decl.Type != nil || decl.Init != nil || arr.MemberType != nil || arr.Dim != nil {
		t.Fatal("declaration still owns its children")
	}
}

func TestDeclaration(t *testing.T) {
	stmts := mustProgram(t, "static const u32 *x[] = 0;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements", len(stmts))
	}
	decl, ok := stmts[0].(*VarDecl)
	if !ok {
		t.Fatalf("got %T", stmts[0])
	}
	if decl.Storage != SC_STATIC || decl.Name.Val != "x" {
		t.Fatalf("storage %s name %s", decl.Storage, decl.Name.Val)
	}
	arr, ok := decl.Type.(*Array)
	if !ok || arr.Dim != nil || arr.Const {
		t.Fatalf("type %s", Format(decl.Type))
	}
	ptr, ok := arr.MemberType.(*Ptr)
	if !ok || ptr.Const {
		t.Fatalf("member type %s", Format(arr.MemberType))
	}
	base, ok := ptr.PointsTo.(*Simple)
	if !ok || base.Name.Kind != lex.U32 || !base.Const {
		t.Fatalf("base type %s", Format(ptr.PointsTo))
	}
	lit, ok := decl.Init.(*Literal)
	if !ok || lit.Tok.Val != "0" {
		t.Fatalf("initializer %s", Format(decl.Init))
	}
	if BaseType(decl.Type) != base || !IsArrayType(decl.Type) || !IsPtrType(arr.MemberType) || !IsIntType(base) {
		t.Fatal("type predicates disagree with the tree")
	}
}

func TestDeclarationShapes(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"u32 a;", "(decl a u32)"},
		{"extern i64 b = 10;", "(decl extern b i64 10)"},
		{"static const u32 *x[] = 0;", "(decl static x (array (ptr const u32)) 0)"},
		{"u8 *const *pp;", "(decl pp (ptr (const ptr u8)))"},
		{"bool flags[8];", "(decl flags (array bool 8))"},
		{"bool grid[N * 2];", "(decl grid (array bool (* N 2)))"},
		{"T v = a, b;", "(decl v T (, a b))"},
		{"const f64 d = -1.5;", "(decl d const f64 (- 1.5))"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			stmts := mustProgram(t, tc.src)
			if len(stmts) != 1 {
				t.Fatalf("got %d statements", len(stmts))
			}
			if got := Format(stmts[0]); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestProgramOrder(t *testing.T) {
	stmts := mustProgram(t, "u8 a; u16 b; u32 c;")
	var names []string
	for _, s := range stmts {
		names = append(names, s.(*VarDecl).Name.Val)
	}
	if strings.Join(names, ",") != "a,b,c" {
		t.Fatalf("got %v", names)
	}
}

func TestParseStatement(t *testing.T) {
	s, err := ParseStatement(tokens(t, "extern u8 c;"))
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(s); got != "(decl extern c u8)" {
		t.Fatalf("got %s", got)
	}
	t.Setenv("KCDEBUG", "")
	_, err = ParseStatement(tokens(t, "u32 a; u32 b;"))
	if err == nil || err.Error() != "1:8: syntax error: unexpected u32 after statement" {
		t.Fatalf("got %v", err)
	}
}

func TestSyntaxErrors(t *testing.T) {
	t.Setenv("KCDEBUG", "")
	for _, tc := range []struct {
		src     string
		program bool
		want    string
	}{
		{"1 +", false, "1:4: syntax error: expected an identifier, constant, string or expression got end of input"},
		{"(1 + 2", false, "1:7: syntax error: expected ')' got end of input"},
		{"(1 + 2 ;", false, "1:8: syntax error: expected ')' got ';'"},
		{"a b", false, "1:3: syntax error: unexpected ident b after expression"},
		{"a ? b", false, "1:6: syntax error: expected ':' got end of input"},
		{"s.", false, "1:3: syntax error: expected member name after '.' got end of input"},
		{"f(a,", false, "1:5: syntax error: expected an identifier, constant, string or expression got end of input"},
		{"a[1", false, "1:4: syntax error: expected ']' got end of input"},
		{"\n  *", false, "2:4: syntax error: expected an identifier, constant, string or expression got end of input"},
		{"", false, "1:1: syntax error: expected an identifier, constant, string or expression got end of input"},
		{"u32;", true, "1:4: syntax error: expected variable name got ';'"},
		{"x = 1;", true, "1:3: syntax error: expected variable name got '='"},
		{"u32 x = 1", true, "1:10: syntax error: expected ';' at the end of variable declaration got end of input"},
		{"1;", true, "1:1: syntax error: expected statement got intconst 1"},
		{"const;", true, "1:6: syntax error: expected type got ';'"},
		{"u32 a[;", true, "1:7: syntax error: expected an identifier, constant, string or expression got ';'"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			var err error
			if tc.program {
				_, err = ParseProgram(tokens(t, tc.src))
			} else {
				_, err = ParseExpression(tokens(t, tc.src))
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Error() != tc.want {
				t.Errorf("got %q, want %q", err, tc.want)
			}
			var loc *lex.ErrorLoc
			if !errors.As(err, &loc) {
				t.Errorf("%T does not carry a position", err)
			}
		})
	}
}

func TestMissingEOF(t *testing.T) {
	t.Setenv("KCDEBUG", "")
	toks := tokens(t, "a +")
	_, err := ParseExpression(toks[:len(toks)-1])
	if err == nil || !strings.HasPrefix(err.Error(), "1:4: ") {
		t.Fatalf("got %v", err)
	}
	toks = tokens(t, "a + b")
	e, err := ParseExpression(toks[:len(toks)-1])
	if err != nil {
		t.Fatal(err)
	}
	if Format(e) != "(+ a b)" {
		t.Fatalf("got %s", Format(e))
	}
}

func TestErrorRecovery(t *testing.T) {
	t.Setenv("KCDEBUG", "")
	stmts, err := ParseProgram(tokens(t, "u32 ; i32 b = 1; 1; u8 c;"))
	if len(stmts) != 2 {
		t.Fatalf("got %d statements", len(stmts))
	}
	if Format(stmts[0]) != "(decl b i32 1)" || Format(stmts[1]) != "(decl c u8)" {
		t.Fatalf("got %s and %s", Format(stmts[0]), Format(stmts[1]))
	}
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("got %T", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d errors: %v", len(list), list)
	}
	if list[0].Error() != "1:5: syntax error: expected variable name got ';'" {
		t.Errorf("first error %s", list[0])
	}
	if list[1].Error() != "1:18: syntax error: expected statement got intconst 1" {
		t.Errorf("second error %s", list[1])
	}
	if !strings.HasSuffix(err.Error(), "(and 1 more errors)") {
		t.Errorf("got %s", err)
	}
}

func TestMaxErrors(t *testing.T) {
	toks := tokens(t, "1; 2; 3; 4;")
	_, err := ParseProgram(toks, WithMaxErrors(2))
	var list ErrorList
	if !errors.As(err, &list) || len(list) != 2 {
		t.Fatalf("got %v", err)
	}
	_, err = ParseProgram(toks, WithMaxErrors(0))
	if !errors.As(err, &list) || len(list) != 4 {
		t.Fatalf("got %v", err)
	}
}

func TestEmptyProgram(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	stmts, err := ParseProgram(tokens(t, "// nothing\n"), WithLogger(logger))
	if err != nil || len(stmts) != 0 {
		t.Fatalf("got %v, %v", stmts, err)
	}
	if !strings.Contains(buf.String(), "no tokens to parse") {
		t.Fatalf("empty input was not reported, log: %q", buf.String())
	}
}

func TestDebugStack(t *testing.T) {
	_, err := ParseExpression(tokens(t, "1 +"), WithDebug(true))
	if err == nil || !strings.Contains(err.Error(), "goroutine") {
		t.Fatalf("expected a stack trace in %v", err)
	}
}

func TestInternalErrorsPanic(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		if s, ok := r.(string); !ok || !strings.HasPrefix(s, "internal error") {
			t.Fatalf("unexpected panic %v", r)
		}
	}()
	CloneExpr(struct{ *Literal }{NewLiteral(lex.Token{})})
}
