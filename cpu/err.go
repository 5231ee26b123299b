package cpu

import (
	"errors"

	"github.com/ezrec/stackvm/bytecode"
	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Cpu state errors
	ErrCpuOff     = errors.New(f("cpu is off"))
	ErrCpuWait    = errors.New(f("cpu is waiting for reset"))
	ErrProgramEnd = errors.New(f("end of program"))

	// Execution faults
	ErrStackEmpty     = errors.New(f("stack empty"))
	ErrCallsEmpty     = errors.New(f("call stack empty"))
	ErrDivideZero     = errors.New(f("division by zero"))
	ErrSqrtNegative   = errors.New(f("square root of negative value"))
	ErrTargetRange    = errors.New(f("target out of range"))
	ErrAddressInvalid = errors.New(f("address invalid"))
	ErrMemoryMissing  = errors.New(f("memory not connected"))
	ErrConsoleMissing = errors.New(f("console not connected"))
)

// ErrFault is a fault raised while executing the instruction at Ip.
// The CPU is in WAIT after a fault.
type ErrFault struct {
	Ip     int
	Opcode bytecode.Opcode
	Err    error
}

func (err *ErrFault) Error() string {
	return f("fault at ip %d (%v): %v", err.Ip, err.Opcode, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
