package lex

import "fmt"

type ErrorLoc struct {
	Err error
	Pos FilePos
}

func ErrWithLoc(e error, pos FilePos) error {
	return &ErrorLoc{
		Err: e,
		Pos: pos,
	}
}

func (e *ErrorLoc) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Err)
}

func (e *ErrorLoc) Unwrap() error {
	return e.Err
}
