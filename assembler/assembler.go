// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package assembler

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/ezrec/stackvm/bytecode"
	"github.com/ezrec/stackvm/internal"
)

// Assembler is a single pass assembler for the stackvm instruction set.
//
// Forward references to labels are emitted as placeholders, and patched
// in place once the whole source has been scanned.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Symbol []Symbol              // Symbol table of the last translation.
	Fixup  internal.Stack[Fixup] // Pending forward references.

	index  map[string]int32
	scan   *scanner
	out    io.WriteSeeker
	base   int64 // Sink position of offset 0.
	offset int64 // Current output offset.
}

// zeroMap maps the mnemonics without operands.
var zeroMap = map[string]bytecode.Opcode{
	"mul":  bytecode.MUL,
	"div":  bytecode.DIV,
	"add":  bytecode.ADD,
	"sub":  bytecode.SUB,
	"sqrt": bytecode.SQRT,
	"hlt":  bytecode.HLT,
	"ret":  bytecode.RET,
}

// regMap maps the mnemonics with an optional register operand to their
// register and plain opcodes.
var regMap = map[string][2]bytecode.Opcode{
	"in":   {bytecode.IN_REG, bytecode.IN},
	"out":  {bytecode.OUT_REG, bytecode.OUT},
	"push": {bytecode.PUSH_REG, bytecode.PUSH_VAL},
	"pop":  {bytecode.POP_REG, bytecode.POP_VAL},
}

// branchMap maps the control flow mnemonics.
var branchMap = map[string]bytecode.Opcode{
	"jmp":  bytecode.JMP,
	"jmpl": bytecode.JMPL,
	"jmpg": bytecode.JMPG,
	"call": bytecode.CALL,
}

// Assemble translates source into a new byte slice.
func (asm *Assembler) Assemble(source []byte) (code []byte, err error) {
	buf := &bytecode.Buffer{}
	err = asm.Translate(source, buf)
	if err != nil {
		return
	}

	code = buf.Bytes()
	return
}

// Translate translates source, writing the bytecode to out starting at its
// current position. Forward references are patched by seeking back into out.
func (asm *Assembler) Translate(source []byte, out io.WriteSeeker) (err error) {
	var word string

	asm.Symbol = nil
	asm.index = make(map[string]int32)
	asm.Fixup.Reset()
	asm.scan = newScanner(source)
	asm.out = out
	asm.offset = 0

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: asm.scan.lineno, Token: word, Err: err}
		}
	}()

	asm.base, err = out.Seek(0, io.SeekCurrent)
	if err != nil {
		err = errors.Join(ErrOutput, err)
		return
	}

	for word = asm.scan.next(); len(word) != 0; word = asm.scan.next() {
		err = asm.parseWord(word)
		if err != nil {
			return
		}
	}

	word = ""
	err = asm.link()

	return
}

// emit writes an instruction at the current offset.
func (asm *Assembler) emit(inst bytecode.Instruction) (err error) {
	if asm.Verbose {
		log.Printf("assembler: %04x: %v", asm.offset, inst)
	}

	if asm.offset+int64(inst.Size()) > math.MaxInt32 {
		return operandError(ErrProgramSize)
	}

	n, err := asm.out.Write(inst.Encode())
	asm.offset += int64(n)
	if err != nil {
		err = errors.Join(ErrOutput, err)
	}

	return
}

// link backpatches all forward references, most recent first.
func (asm *Assembler) link() (err error) {
	for {
		fixup, ok := asm.Fixup.Pop()
		if !ok {
			break
		}

		sym := asm.Symbol[fixup.Index]
		if !sym.Resolved() {
			return operandError(ErrLabelMissing(sym.Name))
		}

		if asm.Verbose {
			log.Printf("assembler: %04x: link %v = %04x", fixup.Offset, sym.Name, sym.Address)
		}

		var patch [4]byte
		binary.LittleEndian.PutUint32(patch[:], uint32(sym.Address))
		_, err = asm.out.Seek(asm.base+fixup.Offset, io.SeekStart)
		if err == nil {
			_, err = asm.out.Write(patch[:])
		}
		if err != nil {
			return errors.Join(ErrOutput, err)
		}
	}

	_, err = asm.out.Seek(asm.base+asm.offset, io.SeekStart)
	if err != nil {
		err = errors.Join(ErrOutput, err)
	}

	return
}

// register scans a mandatory register operand.
func (asm *Assembler) register() (reg bytecode.Register, err error) {
	if asm.scan.atEnd() {
		err = operandError(ErrRegisterMissing)
		return
	}

	word := asm.scan.next()
	reg, ok := bytecode.RegisterOf(word)
	if !ok {
		err = operandError(ErrRegisterInvalid)
	}

	return
}

// address parses a memory address or code target literal.
func (asm *Assembler) address(word string) (value int32, err error) {
	if strings.HasPrefix(word, "$(") {
		value, err = asm.evaluateInt(word)
		if err != nil {
			err = operandError(err)
		}
		return
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = operandError(ErrParseNumber(word))
		return
	}

	value = int32(v64)
	return
}

// value parses a double immediate.
func (asm *Assembler) value(word string) (value float64, err error) {
	if strings.HasPrefix(word, "$(") {
		value, err = asm.evaluateFloat(word)
		if err != nil {
			err = operandError(err)
		}
		return
	}

	value, err = strconv.ParseFloat(word, 64)
	if err != nil {
		err = operandError(ErrParseNumber(word))
	}

	return
}

// memory scans a bracketed memory operand, which is either an address
// register or a literal address.
func (asm *Assembler) memory() (reg bytecode.Register, address int32, isReg bool, err error) {
	inner, err := asm.scan.bracket()
	if err != nil {
		err = operandError(err)
		return
	}

	reg, isReg = bytecode.RegisterOf(inner)
	if isReg {
		return
	}

	address, err = asm.address(inner)
	return
}

// target scans a control flow target, which is either a '$' literal or
// a label. Unresolved labels are recorded for linking.
func (asm *Assembler) target(op bytecode.Opcode) (inst bytecode.Instruction, err error) {
	inst.Opcode = op

	if asm.scan.atEnd() {
		err = operandError(ErrTargetMissing)
		return
	}

	word := asm.scan.next()
	if strings.HasPrefix(word, "$") {
		if strings.HasPrefix(word, "$(") {
			inst.Address, err = asm.address(word)
		} else {
			inst.Address, err = asm.address(word[1:])
		}
		return
	}

	if strings.HasSuffix(word, ":") {
		err = operandError(ErrLabelInvalid)
		return
	}

	index := asm.symbolOf(word)
	sym := asm.Symbol[index]
	if sym.Resolved() {
		inst.Address = sym.Address
		return
	}

	inst.Address = index
	asm.Fixup.Push(Fixup{Offset: asm.offset + 1, Index: index})

	return
}

// define sets the address of a label to the current offset.
func (asm *Assembler) define(name string) (err error) {
	if len(name) == 0 || strings.HasPrefix(name, "$") {
		return operandError(ErrLabelInvalid)
	}
	if _, ok := bytecode.RegisterOf(name); ok {
		return operandError(ErrLabelInvalid)
	}

	index := asm.symbolOf(name)
	sym := &asm.Symbol[index]
	if sym.Resolved() {
		return operandError(ErrLabelDuplicate)
	}

	sym.Address = int32(asm.offset)

	if asm.Verbose {
		log.Printf("assembler: %04x: %v:", asm.offset, name)
	}

	return
}

// parseWord assembles the instruction or label starting with word.
func (asm *Assembler) parseWord(word string) (err error) {
	if op, ok := zeroMap[word]; ok {
		return asm.emit(bytecode.Instruction{Opcode: op})
	}

	if ops, ok := regMap[word]; ok {
		var inst bytecode.Instruction

		mark := asm.scan.mark()
		if reg, ok := bytecode.RegisterOf(asm.scan.next()); ok {
			inst.Opcode = ops[0]
			inst.Register[0] = reg
			return asm.emit(inst)
		}
		asm.scan.reset(mark)

		inst.Opcode = ops[1]
		if inst.Opcode == bytecode.PUSH_VAL {
			if asm.scan.atEnd() {
				return operandError(ErrOperandMissing)
			}
			inst.Value, err = asm.value(asm.scan.next())
			if err != nil {
				return
			}
		}

		return asm.emit(inst)
	}

	if op, ok := branchMap[word]; ok {
		var inst bytecode.Instruction
		inst, err = asm.target(op)
		if err != nil {
			return
		}
		return asm.emit(inst)
	}

	switch word {
	case "write":
		// write <reg> [<reg>|<addr>]
		var inst bytecode.Instruction
		inst.Register[0], err = asm.register()
		if err != nil {
			return
		}
		var isReg bool
		inst.Register[1], inst.Address, isReg, err = asm.memory()
		if err != nil {
			return
		}
		if isReg {
			inst.Opcode = bytecode.WRITE_REG
		} else {
			inst.Opcode = bytecode.WRITE_ADDR
		}
		return asm.emit(inst)
	case "read":
		// read [<reg>|<addr>] <reg>
		var inst bytecode.Instruction
		reg, address, isReg, err := asm.memory()
		if err != nil {
			return err
		}
		dst, err := asm.register()
		if err != nil {
			return err
		}
		if isReg {
			inst.Opcode = bytecode.READ_REG
			inst.Register = [2]bytecode.Register{reg, dst}
		} else {
			inst.Opcode = bytecode.READ_ADDR
			inst.Register[0] = dst
			inst.Address = address
		}
		return asm.emit(inst)
	}

	if len(word) > 1 && strings.HasSuffix(word, ":") {
		return asm.define(word[:len(word)-1])
	}

	return ErrInstructionInvalid
}
