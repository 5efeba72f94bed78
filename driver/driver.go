// Package driver runs the front end over files: tokenizing, parsing and
// evaluating them, several at a time or whenever they change.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ohadk123/kc/lex"
	"github.com/ohadk123/kc/parse"
)

type Options struct {
	Logger *slog.Logger
	// MaxErrors of zero means no limit.
	MaxErrors int
	Debug     bool
	// Jobs bounds how many files ParseFiles works on at once. Zero means
	// one per CPU.
	Jobs int
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// ParseOptions converts o for the parse package.
func (o Options) ParseOptions() []parse.Option {
	return []parse.Option{
		parse.WithLogger(o.logger()),
		parse.WithMaxErrors(o.MaxErrors),
		parse.WithDebug(o.Debug),
	}
}

func TokenizeFile(path string) ([]lex.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer f.Close()
	return lex.Tokenize(path, f)
}

// ParseFile parses the declarations in path. On a syntax error the
// statements that did parse are returned with a parse.ErrorList.
func ParseFile(path string, o Options) ([]parse.Stmt, error) {
	start := time.Now()
	toks, err := TokenizeFile(path)
	if err != nil {
		return nil, err
	}
	stmts, err := parse.ParseProgram(toks, o.ParseOptions()...)
	o.logger().Debug("parsed file",
		"path", path,
		"statements", len(stmts),
		"elapsed", time.Since(start),
		"ok", err == nil)
	return stmts, err
}

// Result is the outcome of parsing one file.
type Result struct {
	Path  string
	Stmts []parse.Stmt
	Err   error
}

// ParseFiles parses paths concurrently, at most o.Jobs at a time. Results
// are in the order of paths. A file that fails does not stop the others;
// the returned error joins every file's error, or is ctx's error when ctx
// is cancelled first.
func ParseFiles(ctx context.Context, paths []string, o Options) ([]Result, error) {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([]Result, len(paths))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stmts, err := ParseFile(path, o)
			results[i] = Result{Path: path, Stmts: stmts, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
