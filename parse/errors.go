package parse

import (
	"errors"
	"fmt"

	"github.com/ohadk123/kc/lex"
)

// ErrNotImplemented is wrapped by Eval errors for constructs the parser
// accepts but that have no constant value.
var ErrNotImplemented = errors.New("not implemented")

func notImplemented(pos lex.FilePos, what string) error {
	return lex.ErrWithLoc(fmt.Errorf("%s: %w", what, ErrNotImplemented), pos)
}

// ErrorList is the set of syntax errors from one ParseProgram call, in
// source order.
type ErrorList []error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

func (l ErrorList) Unwrap() []error { return l }

// Err returns nil for an empty list so that callers can compare with nil.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
