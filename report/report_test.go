package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohadk123/kc/lex"
	"github.com/ohadk123/kc/parse"
)

func TestReportSyntaxError(t *testing.T) {
	t.Setenv("KCDEBUG", "")
	src := "u32 a;\nu32;\n"
	toks, err := lex.TokenizeString("t.kc", src)
	if err != nil {
		t.Fatal(err)
	}
	_, err = parse.ParseProgram(toks)
	if err == nil {
		t.Fatal("expected an error")
	}
	var buf bytes.Buffer
	r := New(&buf, "never")
	r.AddSource("t.kc", []byte(src))
	r.Report(err)
	want := "t.kc:2:4: syntax error: expected variable name got ';'\n" +
		"u32;\n" +
		"   ^\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReportErrorList(t *testing.T) {
	t.Setenv("KCDEBUG", "")
	src := "1;\nu8 x;\n2;"
	toks, err := lex.TokenizeString("m.kc", src)
	if err != nil {
		t.Fatal(err)
	}
	_, err = parse.ParseProgram(toks)
	var buf bytes.Buffer
	r := New(&buf, "never")
	r.AddSource("m.kc", []byte(src))
	r.Report(err)
	want := "m.kc:1:1: syntax error: expected statement got intconst 1\n" +
		"1;\n" +
		"^\n" +
		"m.kc:3:1: syntax error: expected statement got intconst 2\n" +
		"2;\n" +
		"^\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReportReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.kc")
	if err := os.WriteFile(path, []byte("\tx @\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	_, err = lex.Tokenize(path, f)
	if err == nil {
		t.Fatal("expected a lex error")
	}
	var buf bytes.Buffer
	New(&buf, "never").Report(err)
	want := path + ":1:7: unexpected character '@'\n" +
		"    x @\n" +
		"      ^\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCaretOffset(t *testing.T) {
	for _, tc := range []struct {
		line string
		col  int
		want int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"abc", 4, 3},
		{"\tx", 5, 4},
		{"名x@", 3, 3},
		{"ｘｙ!", 3, 4},
		{"", 1, 0},
		{"ab", 6, 5},
	} {
		if got := caretOffset(tc.line, tc.col); got != tc.want {
			t.Errorf("caretOffset(%q, %d) = %d, want %d", tc.line, tc.col, got, tc.want)
		}
	}
}

func TestReportPlainAndMissingSource(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, "never")
	r.Report(errors.New("open x.kc: no such file"))
	r.Report(lex.ErrWithLoc(errors.New("boom"), lex.FilePos{File: "gone.kc", Line: 1, Col: 1}))
	r.Report(nil)
	want := "open x.kc: no such file\ngone.kc:1:1: boom\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestReportColor(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "always").Report(errors.New("bad"))
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected escape sequences in %q", buf.String())
	}
}
