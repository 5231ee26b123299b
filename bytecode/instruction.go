package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Instruction is a decoded opcode with its operands.
//
// Register operands are stored in encoding order. Address holds either the
// code target of a branch, or the memory address of WRITE_ADDR/READ_ADDR.
type Instruction struct {
	Opcode   Opcode
	Register [2]Register
	Value    float64
	Address  int32
}

// Size returns the number of bytes the instruction occupies in a stream.
func (inst Instruction) Size() int {
	return inst.Opcode.Size()
}

// Append appends the encoded instruction to buf.
func (inst Instruction) Append(buf []byte) []byte {
	buf = append(buf, byte(inst.Opcode))

	regs := inst.Register[:]
	for _, kind := range inst.Opcode.Operands() {
		switch kind {
		case OPERAND_REGISTER:
			buf = append(buf, byte(regs[0]))
			regs = regs[1:]
		case OPERAND_VALUE:
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(inst.Value))
		case OPERAND_TARGET, OPERAND_ADDRESS:
			buf = binary.LittleEndian.AppendUint32(buf, uint32(inst.Address))
		}
	}

	return buf
}

// Encode returns the encoded instruction.
func (inst Instruction) Encode() []byte {
	return inst.Append(make([]byte, 0, inst.Size()))
}

// Decode decodes the instruction at offset in code.
func Decode(code []byte, offset int) (inst Instruction, err error) {
	defer func() {
		if err != nil {
			err = &ErrDecode{Offset: offset, Err: err}
		}
	}()

	if offset < 0 || offset >= len(code) {
		err = ErrTruncated
		return
	}

	inst.Opcode = Opcode(code[offset])
	if !inst.Opcode.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	if offset+inst.Size() > len(code) {
		err = ErrTruncated
		return
	}

	pos := offset + 1
	nreg := 0
	for _, kind := range inst.Opcode.Operands() {
		switch kind {
		case OPERAND_REGISTER:
			reg := Register(code[pos])
			if !reg.Valid() {
				err = ErrRegisterInvalid
				return
			}
			inst.Register[nreg] = reg
			nreg++
		case OPERAND_VALUE:
			inst.Value = math.Float64frombits(binary.LittleEndian.Uint64(code[pos:]))
		case OPERAND_TARGET, OPERAND_ADDRESS:
			inst.Address = int32(binary.LittleEndian.Uint32(code[pos:]))
		}
		pos += kind.Size()
	}

	return
}

// FormatValue formats a double immediate so that it parses back to
// the identical value.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// String returns the assembly language form of the instruction.
// Branch targets are rendered as '$' literals.
func (inst Instruction) String() string {
	op := inst.Opcode
	reg := inst.Register

	words := []string{op.Mnemonic()}
	switch op {
	case PUSH_REG, POP_REG, IN_REG, OUT_REG:
		words = append(words, reg[0].String())
	case PUSH_VAL:
		words = append(words, FormatValue(inst.Value))
	case WRITE_REG:
		words = append(words, reg[0].String(), "["+reg[1].String()+"]")
	case WRITE_ADDR:
		words = append(words, reg[0].String(), fmt.Sprintf("[%d]", inst.Address))
	case READ_REG:
		words = append(words, "["+reg[0].String()+"]", reg[1].String())
	case READ_ADDR:
		words = append(words, fmt.Sprintf("[%d]", inst.Address), reg[0].String())
	case JMP, JMPL, JMPG, CALL:
		words = append(words, fmt.Sprintf("$%d", inst.Address))
	default:
		if !op.Valid() {
			return op.String()
		}
	}

	return strings.Join(words, " ")
}
