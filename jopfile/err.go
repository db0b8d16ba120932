package jopfile

import (
	"errors"

	"github.com/peteryates1/jop-spinalhdl/translate"
)

var f = translate.From

var ErrEmpty = errors.New(f("image has no words"))

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
