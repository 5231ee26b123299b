package emulator

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrConfigBanks   = errors.New(f("no memory banks configured"))
	ErrConfigLatency = errors.New(f("latency invalid"))
	ErrConfigKey     = errors.New(f("unknown configuration key"))
)

// ErrRuntime indicates the program offset of a runtime error.
type ErrRuntime struct {
	Offset int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("offset %d %v", err.Offset, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
