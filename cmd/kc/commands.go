package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ohadk123/kc/driver"
	"github.com/ohadk123/kc/lex"
	"github.com/ohadk123/kc/parse"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print tokens after lexing (for debugging)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fail(tokenizeFile(args[0], a.out))
		},
	}
}

func tokenizeFile(sourceFile string, out io.Writer) error {
	f, err := os.Open(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s for tokenizing: %w", sourceFile, err)
	}
	defer f.Close()
	lexer := lex.Lex(sourceFile, f)
	for {
		tok, err := lexer.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:%s:%d:%d\n", tok.Kind, tok.Val, tok.Pos.Line, tok.Pos.Col)
		if tok.Kind == lex.EOF {
			return nil
		}
	}
}

// printer renders one node in the selected --format.
type printer func(w io.Writer, n parse.Node) error

func newPrinter(format string) (printer, error) {
	switch format {
	case "json":
		return parse.Fprint, nil
	case "sexpr":
		return func(w io.Writer, n parse.Node) error {
			_, err := fmt.Fprintln(w, parse.Format(n))
			return err
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q, want json or sexpr", format)
}

func (a *app) parseCmd() *cobra.Command {
	var format string
	var watch bool
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse declarations and print their syntax trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show, err := newPrinter(format)
			if err != nil {
				return err
			}
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return driver.Watch(ctx, args, a.options(), func(r driver.Result) {
					a.printResult(r, show)
				})
			}
			results, err := driver.ParseFiles(cmd.Context(), args, a.options())
			for _, r := range results {
				a.printResult(r, show)
			}
			if err != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format, json or sexpr")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "parse again whenever a file changes")
	return cmd
}

func (a *app) printResult(r driver.Result, show printer) {
	for _, s := range r.Stmts {
		if err := show(a.out, s); err != nil {
			a.reporter.Report(err)
			return
		}
	}
	a.reporter.Report(r.Err)
}

func (a *app) exprCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "expr EXPRESSION",
		Short: "Parse one expression and print its syntax tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show, err := newPrinter(format)
			if err != nil {
				return err
			}
			src := strings.Join(args, " ")
			a.reporter.AddSource("<expr>", []byte(src))
			toks, err := lex.TokenizeString("<expr>", src)
			if err != nil {
				return a.fail(err)
			}
			e, err := parse.ParseExpression(toks, a.options().ParseOptions()...)
			if err != nil {
				return a.fail(err)
			}
			return show(a.out, e)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format, json or sexpr")
	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var exprs []string
	cmd := &cobra.Command{
		Use:   "eval [FILE]",
		Short: "Evaluate ';' separated constant expressions",
		Long: `Evaluate constant expressions from FILE or from -e flags and print one
value per line. Assignments yield their right hand side and both sides of
&& and || are always evaluated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(exprs) == 0 {
				return fmt.Errorf("eval needs a FILE or at least one -e expression")
			}
			var vals []int64
			var err error
			if len(args) == 1 {
				vals, err = driver.EvalFile(args[0], a.options())
			} else {
				src := strings.Join(exprs, ";")
				a.reporter.AddSource("<expr>", []byte(src))
				vals, err = driver.EvalSource("<expr>", []byte(src), a.options())
			}
			for _, v := range vals {
				fmt.Fprintln(a.out, v)
			}
			return a.fail(err)
		},
	}
	cmd.Flags().StringArrayVarP(&exprs, "expr", "e", nil, "expression to evaluate, may be repeated")
	return cmd
}
