package driver

import (
	"fmt"
	"os"

	"github.com/ohadk123/kc/lex"
	"github.com/ohadk123/kc/parse"
)

// EvalSource evaluates every ';' separated expression in src and returns
// the values in order. It stops at the first error.
func EvalSource(name string, src []byte, o Options) ([]int64, error) {
	toks, err := lex.TokenizeString(name, string(src))
	if err != nil {
		return nil, err
	}
	var vals []int64
	for _, exprToks := range splitExprs(toks) {
		e, err := parse.ParseExpression(exprToks, o.ParseOptions()...)
		if err != nil {
			return vals, err
		}
		v, err := parse.Eval(e)
		if err != nil {
			return vals, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func EvalFile(path string, o Options) ([]int64, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	return EvalSource(path, src, o)
}

// splitExprs cuts toks at each ';'. Every piece ends with an EOF placed
// where the ';' was. Empty pieces are dropped.
func splitExprs(toks []lex.Token) [][]lex.Token {
	var out [][]lex.Token
	start := 0
	for i, t := range toks {
		if t.Kind != lex.SEMICOLON && t.Kind != lex.EOF {
			continue
		}
		if i > start {
			piece := make([]lex.Token, 0, i-start+1)
			piece = append(piece, toks[start:i]...)
			out = append(out, append(piece, lex.Token{Kind: lex.EOF, Pos: t.Pos}))
		}
		start = i + 1
	}
	return out
}
