package bytecode

import (
	"fmt"
)

// Opcode is a one-byte instruction identifier.
type Opcode byte

// Opcode values. These must never change, as they are persisted.
const (
	HLT  = Opcode(0) // hlt
	ADD  = Opcode(1) // add
	SUB  = Opcode(2) // sub
	MUL  = Opcode(3) // mul
	DIV  = Opcode(4) // div
	SQRT = Opcode(5) // sqrt

	PUSH_REG = Opcode(30) // push
	PUSH_VAL = Opcode(31) // push
	POP_REG  = Opcode(32) // pop
	POP_VAL  = Opcode(33) // pop

	WRITE_REG  = Opcode(40) // write
	WRITE_ADDR = Opcode(41) // write
	READ_REG   = Opcode(42) // read
	READ_ADDR  = Opcode(43) // read

	IN      = Opcode(60) // in
	IN_REG  = Opcode(61) // in
	OUT     = Opcode(62) // out
	OUT_REG = Opcode(63) // out

	JMP  = Opcode(70) // jmp
	JMPL = Opcode(71) // jmpl
	JMPG = Opcode(72) // jmpg
	CALL = Opcode(73) // call
	RET  = Opcode(74) // ret
)

// Register is a one-byte register id.
type Register byte

const (
	REG_RAX = Register(100) // rax
	REG_RBX = Register(101) // rbx
	REG_RCX = Register(102) // rcx
)

// REG_COUNT is the size of the register file.
const REG_COUNT = 3

// Registers lists the register ids in register file order.
var Registers = [REG_COUNT]Register{REG_RAX, REG_RBX, REG_RCX}

var registerNames = map[Register]string{
	REG_RAX: "rax",
	REG_RBX: "rbx",
	REG_RCX: "rcx",
}

// RegisterOf returns the register named by word.
func RegisterOf(word string) (reg Register, ok bool) {
	for reg, name := range registerNames {
		if name == word {
			return reg, true
		}
	}
	return
}

// Valid returns true if reg names a register.
func (reg Register) Valid() bool {
	_, ok := registerNames[reg]
	return ok
}

// Index returns the register file slot of reg.
func (reg Register) Index() int {
	return int(reg - REG_RAX)
}

func (reg Register) String() string {
	name, ok := registerNames[reg]
	if !ok {
		return fmt.Sprintf("Register(%d)", byte(reg))
	}
	return name
}

// OperandKind is the kind of an operand field.
type OperandKind int

const (
	OPERAND_REGISTER = OperandKind(iota) // register id, 1 byte
	OPERAND_VALUE                        // IEEE754 double, 8 bytes
	OPERAND_TARGET                       // code offset, 4 bytes
	OPERAND_ADDRESS                      // memory address, 4 bytes
)

// Size returns the encoded size of the operand kind.
func (kind OperandKind) Size() int {
	switch kind {
	case OPERAND_REGISTER:
		return 1
	case OPERAND_VALUE:
		return 8
	case OPERAND_TARGET, OPERAND_ADDRESS:
		return 4
	}
	panic("unknown operand kind")
}

type opcodeInfo struct {
	mnemonic string
	operands []OperandKind
}

var opcodeTable = map[Opcode]opcodeInfo{
	HLT:  {"hlt", nil},
	ADD:  {"add", nil},
	SUB:  {"sub", nil},
	MUL:  {"mul", nil},
	DIV:  {"div", nil},
	SQRT: {"sqrt", nil},

	PUSH_REG: {"push", []OperandKind{OPERAND_REGISTER}},
	PUSH_VAL: {"push", []OperandKind{OPERAND_VALUE}},
	POP_REG:  {"pop", []OperandKind{OPERAND_REGISTER}},
	POP_VAL:  {"pop", nil},

	// value register, address register
	WRITE_REG: {"write", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
	// value register, address
	WRITE_ADDR: {"write", []OperandKind{OPERAND_REGISTER, OPERAND_ADDRESS}},
	// address register, destination register
	READ_REG: {"read", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
	// destination register, address
	READ_ADDR: {"read", []OperandKind{OPERAND_REGISTER, OPERAND_ADDRESS}},

	IN:      {"in", nil},
	IN_REG:  {"in", []OperandKind{OPERAND_REGISTER}},
	OUT:     {"out", nil},
	OUT_REG: {"out", []OperandKind{OPERAND_REGISTER}},

	JMP:  {"jmp", []OperandKind{OPERAND_TARGET}},
	JMPL: {"jmpl", []OperandKind{OPERAND_TARGET}},
	JMPG: {"jmpg", []OperandKind{OPERAND_TARGET}},
	CALL: {"call", []OperandKind{OPERAND_TARGET}},
	RET:  {"ret", nil},
}

// Opcodes returns all defined opcodes, in no particular order.
func Opcodes() (ops []Opcode) {
	for op := range opcodeTable {
		ops = append(ops, op)
	}
	return
}

// Valid returns true if op is a defined opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Mnemonic returns the assembly mnemonic of op.
func (op Opcode) Mnemonic() string {
	return opcodeTable[op].mnemonic
}

// Operands returns the operand kinds that follow op, in encoding order.
func (op Opcode) Operands() []OperandKind {
	return opcodeTable[op].operands
}

// Size returns the total encoded size of an instruction with opcode op.
func (op Opcode) Size() (size int) {
	size = 1
	for _, kind := range op.Operands() {
		size += kind.Size()
	}
	return
}

// IsBranch returns true if the opcode transfers control to an embedded target.
func (op Opcode) IsBranch() bool {
	switch op {
	case JMP, JMPL, JMPG, CALL:
		return true
	}
	return false
}

func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("Opcode(%d)", byte(op))
	}
	return info.mnemonic
}
