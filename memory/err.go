package memory

import (
	"errors"

	"github.com/ezrec/risc5/translate"
)

var f = translate.From

var (
	ErrOutOfBounds = errors.New(f("address out of bounds"))
	ErrMisaligned  = errors.New(f("address misaligned"))
	ErrCapacity    = errors.New(f("capacity must be a non-zero multiple of 4"))
)

// ErrAccess records the address and width of a failed memory access.
type ErrAccess struct {
	Address uint32
	Size    int
	Err     error
}

func (err *ErrAccess) Error() string {
	return f("%d-byte access at %#x: %v", err.Size, err.Address, err.Err)
}

func (err *ErrAccess) Unwrap() error {
	return err.Err
}
