package script

import (
	"errors"

	"github.com/ezrec/risc5/translate"
)

var f = translate.From

var (
	ErrAssert   = errors.New(f("assertion failed"))
	ErrArgument = errors.New(f("argument out of range"))
)

// ErrScript is a failure while executing a script file.
type ErrScript struct {
	File string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.File, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
