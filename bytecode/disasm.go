package bytecode

import (
	"fmt"
	"io"

	"github.com/ezrec/stackvm/internal"
)

// Disassemble writes the instruction at pc to w, and returns the offset of
// the next instruction.
func Disassemble(code []byte, pc int, w io.Writer) (next int, err error) {
	inst, err := Decode(code, pc)
	if err != nil {
		return pc, err
	}

	_, err = io.WriteString(w, inst.String())
	if err != nil {
		return
	}

	return pc + inst.Size(), nil
}

// DisassembleAll writes one line per instruction of code to w.
// If offsets is set, each line is prefixed with its byte offset as an
// assembler comment.
func DisassembleAll(code []byte, w io.Writer, offsets bool) (err error) {
	ew := internal.NewErrWriter(w)
	for pc := 0; pc < len(code); {
		if offsets {
			fmt.Fprintf(ew, "#%6d# ", pc)
		}
		pc, err = Disassemble(code, pc, ew)
		if err != nil {
			return
		}
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
