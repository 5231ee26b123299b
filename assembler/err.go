package assembler

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Syntax errors
	ErrInstructionInvalid = errors.New(f("unrecognized command"))

	// Operand errors
	ErrOperand         = errors.New(f("operand"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrRegisterMissing = errors.New(f("register missing"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrBracketOpen     = errors.New(f("'[' expected"))
	ErrBracketClose    = errors.New(f("']' expected"))
	ErrTargetMissing   = errors.New(f("target missing"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrProgramSize     = errors.New(f("program too large"))

	// Output errors
	ErrOutput = errors.New(f("output"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembly error in the source text.
type ErrSyntax struct {
	LineNo int
	Token  string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Token, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// operandError tags err as an operand error.
func operandError(err ...error) error {
	return errors.Join(append([]error{ErrOperand}, err...)...)
}
