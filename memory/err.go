package memory

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	ErrBankSize     = errors.New(f("bank size invalid"))
	ErrBankAlloc    = errors.New(f("bank allocation failed"))
	ErrBankMissing  = errors.New(f("bank missing"))
	ErrAddressRange = errors.New(f("address out of range"))
)

// ErrAddress reports the address of a failed access.
type ErrAddress struct {
	Address int
	Size    int
	Err     error
}

func (err *ErrAddress) Error() string {
	return f("address %d (size %d): %v", err.Address, err.Size, err.Err)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}
