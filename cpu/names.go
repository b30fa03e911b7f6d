package cpu

import (
	"strings"
)

// Name returns the upper case mnemonic of the operation.
func (op CodeRegOp) Name() string {
	return strings.ToUpper(op.String())
}

// Name returns the upper case mnemonic of the operation.
func (op CodeMemOp) Name() string {
	return strings.ToUpper(op.String())
}

// Name returns the upper case mnemonic of the condition.
func (cond CodeCond) Name() string {
	return strings.ToUpper(cond.String())
}
