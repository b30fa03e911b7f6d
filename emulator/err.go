package emulator

import (
	"errors"

	"github.com/ezrec/risc5/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrUnknownKey   = errors.New(f("unknown key"))
	ErrInvalidValue = errors.New(f("invalid value"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc    uint32
	Label string
	Err   error
}

func (err *ErrRuntime) Error() string {
	if len(err.Label) != 0 {
		return f("pc %#x (%v) %v", err.Pc, err.Label, err.Err)
	}
	return f("pc %#x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfig is an invalid configuration setting.
type ErrConfig struct {
	Key string
	Err error
}

func (err *ErrConfig) Error() string {
	return f("config %v: %v", err.Key, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
