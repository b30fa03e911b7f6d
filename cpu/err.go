package cpu

import (
	"errors"

	"github.com/ezrec/risc5/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted   = errors.New(f("cpu halted"))
	ErrRegister = errors.New(f("register index invalid"))

	// Instruction decode errors
	ErrMalformedInstruction = errors.New(f("malformed instruction"))
	ErrUnknownInstruction   = errors.New(f("unknown instruction"))

	// Execution errors
	ErrUnknownRegisterOpcode = errors.New(f("unknown register opcode"))
	ErrDivisionByZero        = errors.New(f("division by zero"))
)

// ErrOpcode tags an execution failure with the offending instruction word.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x", uint32(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
