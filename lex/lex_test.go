package lex

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func sourceToExpectFile(s string) string {
	return strings.TrimSuffix(s, ".kc") + ".exp"
}

func lexTestCase(t *testing.T, srcfile string, expectfile string) {
	f, err := os.Open(srcfile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ef, err := os.Open(expectfile)
	if err != nil {
		t.Fatal(err)
	}
	defer ef.Close()
	scanner := bufio.NewScanner(ef)
	errorReported := false
	lexer := Lex(srcfile, f)
	for {
		expectedTokS := ""
		if scanner.Scan() {
			expectedTokS = scanner.Text()
		}
		tok, err := lexer.Next()
		if err != nil {
			t.Errorf("Testfile %s failed because %s", srcfile, err)
			return
		}
		tokS := fmt.Sprintf("%s:%s:%d:%d", tok.Kind, tok.Val, tok.Pos.Line, tok.Pos.Col)
		if tokS != expectedTokS && !errorReported {
			if expectedTokS == "" {
				t.Errorf("Test failed %s - extra token %s", srcfile, tokS)
			} else {
				t.Errorf("Test failed %s: got %s expected %s ", srcfile, tokS, expectedTokS)
			}
			errorReported = true
		}
		if tok.Kind == EOF {
			break
		}
	}
}

func TestLexer(t *testing.T) {
	info, err := os.ReadDir("lextests")
	if err != nil {
		t.Fatal(err)
	}
	for i := range info {
		filename := info[i].Name()
		if !strings.HasSuffix(filename, ".kc") {
			continue
		}
		expectPath := sourceToExpectFile(filename)
		lexTestCase(t, "lextests/"+filename, "lextests/"+expectPath)
	}
}

func TestOperators(t *testing.T) {
	src := "<<= >>= <= >= << >> < > -> -- -= ++ += && &= || |= == != ^= /= %= *= ! ~ ? :"
	expected := []TokenKind{
		SHL_ASSIGN, SHR_ASSIGN, LEQ, GEQ, SHL, SHR, LSS, GTR, ARROW, DEC, SUB_ASSIGN,
		INC, ADD_ASSIGN, LAND, AND_ASSIGN, LOR, OR_ASSIGN, EQL, NEQ, XOR_ASSIGN,
		QUO_ASSIGN, REM_ASSIGN, MUL_ASSIGN, NOT, BNOT, QUESTION, COLON, EOF,
	}
	toks, err := TokenizeString("ops.kc", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens expected %d", len(toks), len(expected))
	}
	fields := strings.Fields(src)
	for i, k := range expected {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s expected %s", i, toks[i].Kind, k)
		}
		if k != EOF && toks[i].Val != fields[i] {
			t.Errorf("token %d: got val %q expected %q", i, toks[i].Val, fields[i])
		}
	}
}

func TestOperatorsAtEOF(t *testing.T) {
	for _, src := range []string{"<", "<<", "+", "-", "&", "|", "=", "!", "/", "."} {
		toks, err := TokenizeString("", src)
		if err != nil {
			t.Errorf("%q: %s", src, err)
			continue
		}
		if len(toks) != 2 || toks[0].Val != src || toks[1].Kind != EOF {
			t.Errorf("%q: got %v", src, toks)
		}
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	toks, err := TokenizeString("", "extern u64 i8 bool void f32 u8x _tmp enum")
	if err != nil {
		t.Fatal(err)
	}
	expected := []TokenKind{EXTERN, U64, I8, BOOL, VOID, F32, IDENT, IDENT, ENUM, EOF}
	for i, k := range expected {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s expected %s", i, toks[i].Kind, k)
		}
	}
	if !toks[1].Kind.IsPrimitive() || toks[0].Kind.IsPrimitive() {
		t.Error("IsPrimitive misclassified extern/u64")
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		msg  string
		line int
		col  int
	}{
		{"a @", "unexpected character '@'", 1, 3},
		{"\"abc", "eof in string literal", 1, 5},
		{"'a\n'", "newline in char literal", 2, 1},
		{"x = 1abc", "invalid constant int", 1, 7},
		{"/* never closed", "unclosed comment.", 1, 16},
		{"1e", "invalid float constant - expected number or sign after e", 1, 3},
		{"\\x", "misplaced '\\'.", 1, 3},
	}
	for _, tc := range cases {
		_, err := TokenizeString("err.kc", tc.src)
		if err == nil {
			t.Errorf("%q: expected an error", tc.src)
			continue
		}
		var loc *ErrorLoc
		if !errors.As(err, &loc) {
			t.Errorf("%q: expected an *ErrorLoc, got %T", tc.src, err)
			continue
		}
		if loc.Err.Error() != tc.msg {
			t.Errorf("%q: got message %q expected %q", tc.src, loc.Err, tc.msg)
		}
		if loc.Pos.Line != tc.line || loc.Pos.Col != tc.col {
			t.Errorf("%q: got position %d:%d expected %d:%d", tc.src, loc.Pos.Line, loc.Pos.Col, tc.line, tc.col)
		}
	}
}

func TestErrorsAreSticky(t *testing.T) {
	lx := Lex("", strings.NewReader("@ x"))
	_, err1 := lx.Next()
	tok, err2 := lx.Next()
	if err1 == nil || err2 == nil {
		t.Fatal("expected both calls to fail")
	}
	if tok.Kind != ERROR {
		t.Errorf("got %s expected error token", tok.Kind)
	}
}

func TestEOFRepeats(t *testing.T) {
	lx := Lex("", strings.NewReader("x"))
	for i := 0; i < 3; i++ {
		if _, err := lx.Next(); err != nil {
			t.Fatal(err)
		}
	}
	tok, _ := lx.Next()
	if tok.Kind != EOF {
		t.Errorf("got %s expected EOF", tok.Kind)
	}
}

func TestErrorLocString(t *testing.T) {
	err := ErrWithLoc(errors.New("boom"), FilePos{File: "a.kc", Line: 3, Col: 7})
	if err.Error() != "a.kc:3:7: boom" {
		t.Errorf("got %q", err.Error())
	}
	err = ErrWithLoc(errors.New("boom"), FilePos{Line: 3, Col: 7})
	if err.Error() != "3:7: boom" {
		t.Errorf("got %q", err.Error())
	}
}
