package bytecode

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrTruncated       = errors.New(f("instruction truncated"))
	ErrSeekInvalid     = errors.New(f("seek invalid"))
)

// ErrDecode locates a decode failure in a byte stream.
type ErrDecode struct {
	Offset int
	Err    error
}

func (err *ErrDecode) Error() string {
	return f("offset %d: %v", err.Offset, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}
