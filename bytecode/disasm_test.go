package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassembleAll(t *testing.T) {
	assert := assert.New(t)

	var code []byte
	for _, inst := range []Instruction{
		{Opcode: PUSH_VAL, Value: 3},
		{Opcode: PUSH_VAL, Value: 4},
		{Opcode: ADD},
		{Opcode: OUT},
		{Opcode: JMP, Address: 21},
		{Opcode: HLT},
	} {
		code = inst.Append(code)
	}

	out := &bytes.Buffer{}
	err := DisassembleAll(code, out, false)
	assert.NoError(err)
	assert.Equal(strings.Join([]string{
		"push 3",
		"push 4",
		"add",
		"out",
		"jmp $21",
		"hlt",
		"",
	}, "\n"), out.String())

	out.Reset()
	err = DisassembleAll(code[:3], out, true)
	assert.ErrorIs(err, ErrTruncated)
	assert.Equal("#     0# ", out.String())
}
