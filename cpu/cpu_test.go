package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/stackvm/assembler"
	"github.com/ezrec/stackvm/bytecode"
	"github.com/ezrec/stackvm/io"
	"github.com/ezrec/stackvm/memory"
)

func assemble(t *testing.T, source string) []byte {
	asm := &assembler.Assembler{}
	code, err := asm.Assemble([]byte(source))
	assert.NoError(t, err, source)
	return code
}

func newMemory(t *testing.T, sizes ...int) *memory.Controller {
	mc, err := memory.NewController()
	assert.NoError(t, err)
	mc.Latency = 0
	for _, size := range sizes {
		bank, err := memory.NewBank(size)
		assert.NoError(t, err)
		assert.NoError(t, mc.Add(bank))
	}
	return mc
}

func TestCpuExecute(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name   string
		source string
		input  string
		output string
		state  State
	}{
		{"add", "push 3 push 4 add out hlt", "", "7.000000\n", STATE_OFF},
		{"sub", "push 10 push 4 sub out hlt", "", "6.000000\n", STATE_OFF},
		{"mul", "push 3 push 4 mul out hlt", "", "12.000000\n", STATE_OFF},
		{"div", "push 10 push 4 div out", "", "2.500000\n", STATE_ON},
		{"sqrt", "push 16 sqrt out", "", "4.000000\n", STATE_ON},
		{"empty", "", "", "", STATE_ON},
		{"in_out", "in in add out", "1.5 2.25", "3.750000\n", STATE_ON},
		{"in_reg", "in rax out rax push rax out", "5", "5.000000\n5.000000\n", STATE_ON},
		{"pop_reg", "push 2 pop rbx push rbx push rbx mul out", "", "4.000000\n", STATE_ON},
		{"pop_val", "push 1 push 2 pop out", "", "1.000000\n", STATE_ON},
		{"jmp", "jmp skip push 1 out skip: push 2 out", "", "2.000000\n", STATE_ON},
		{"jmpl_taken", "push 1 push 2 jmpl less push 0 out hlt less: push 9 out hlt", "", "9.000000\n", STATE_OFF},
		{"jmpl_not_taken", "push 2 push 1 jmpl less push 0 out hlt less: push 9 out hlt", "", "0.000000\n", STATE_OFF},
		{"jmpl_equal", "push 1 push 1 jmpl less push 0 out hlt less: push 9 out hlt", "", "0.000000\n", STATE_OFF},
		{"jmpg_taken", "push 2 push 1 jmpg more push 0 out hlt more: push 9 out hlt", "", "9.000000\n", STATE_OFF},
		{"jmpg_not_taken", "push 1 push 2 jmpg more push 0 out hlt more: push 9 out hlt", "", "0.000000\n", STATE_OFF},
		{"call_ret", "call f push 2 out hlt f: push 1 out ret", "", "1.000000\n2.000000\n", STATE_OFF},
		{"nested_call", `
			call a out hlt
			a: push 1 call b ret
			b: push 2 add ret
		`, "", "3.000000\n", STATE_OFF},
		{"loop", `
			push 3 pop rax
			loop:
				out rax
				push rax push 1 sub pop rax
				push rax push 0 jmpg loop
		`, "", "3.000000\n2.000000\n1.000000\n", STATE_ON},
	}

	for _, entry := range table {
		output := &bytes.Buffer{}
		cpu := NewCpu()
		cpu.Console = &io.Tape{
			Input:  strings.NewReader(entry.input),
			Output: output,
		}

		err := cpu.Execute(assemble(t, entry.source))
		assert.NoError(err, entry.name)
		assert.Equal(entry.output, output.String(), entry.name)
		assert.Equal(entry.state, cpu.State, entry.name)
		if entry.state == STATE_OFF {
			assert.Nil(cpu.Stack, entry.name)
			assert.Nil(cpu.Calls, entry.name)
		}
	}
}

func TestCpuFaults(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name  string
		code  []byte
		input string
		err   error
		ip    int
		depth int
	}{
		{"add_empty", assemble(t, "add"), "", ErrStackEmpty, 0, 0},
		{"add_short", assemble(t, "push 1 add"), "", ErrStackEmpty, 9, 1},
		{"sub_short", assemble(t, "push 1 sub"), "", ErrStackEmpty, 9, 1},
		{"div_zero", assemble(t, "push 1 push 0 div"), "", ErrDivideZero, 18, 2},
		{"div_epsilon", assemble(t, "push 1 push -1e-7 div"), "", ErrDivideZero, 18, 2},
		{"sqrt_negative", assemble(t, "push -1 sqrt"), "", ErrSqrtNegative, 9, 1},
		{"sqrt_empty", assemble(t, "sqrt"), "", ErrStackEmpty, 0, 0},
		{"pop_empty", assemble(t, "pop"), "", ErrStackEmpty, 0, 0},
		{"pop_reg_empty", assemble(t, "pop rax"), "", ErrStackEmpty, 0, 0},
		{"out_empty", assemble(t, "out"), "", ErrStackEmpty, 0, 0},
		{"jmpl_short", assemble(t, "push 1 l: jmpl l"), "", ErrStackEmpty, 9, 1},
		{"ret_empty", assemble(t, "push 1 ret"), "", ErrCallsEmpty, 9, 1},
		{"jmp_end", assemble(t, "jmp $5"), "", ErrTargetRange, 0, 0},
		{"jmp_negative", assemble(t, "jmp $-1"), "", ErrTargetRange, 0, 0},
		{"call_far", assemble(t, "push 1 call $1000"), "", ErrTargetRange, 9, 1},
		{"jmpg_untaken_range", assemble(t, "push 1 push 2 jmpg $1000"), "", ErrTargetRange, 18, 2},
		{"in_empty", assemble(t, "in"), "", io.ErrChannelInput, 0, 0},
		{"in_garbage", assemble(t, "in rax"), "xyzzy", io.ErrChannelInput, 0, 0},
		{"memory_missing", assemble(t, "write rax [0]"), "", ErrMemoryMissing, 0, 0},
		{"opcode", []byte{byte(bytecode.PUSH_REG), byte(bytecode.REG_RAX), 200}, "", bytecode.ErrOpcodeInvalid, 2, 1},
		{"truncated", []byte{byte(bytecode.PUSH_VAL), 0, 0}, "", bytecode.ErrTruncated, 0, 0},
		{"truncated_target", []byte{byte(bytecode.JMP), 0}, "", bytecode.ErrTruncated, 0, 0},
		{"register", []byte{byte(bytecode.PUSH_REG), 7}, "", bytecode.ErrRegisterInvalid, 0, 0},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Console = &io.Tape{
			Input:  strings.NewReader(entry.input),
			Output: &bytes.Buffer{},
		}

		err := cpu.Execute(entry.code)
		assert.ErrorIs(err, entry.err, entry.name)

		var fault *ErrFault
		if assert.ErrorAs(err, &fault, entry.name) {
			assert.Equal(entry.ip, fault.Ip, entry.name)
			assert.Equal(bytecode.Opcode(entry.code[entry.ip]), fault.Opcode, entry.name)
		}

		assert.Equal(STATE_WAIT, cpu.State, entry.name)
		assert.Equal(entry.ip, cpu.Ip, entry.name)
		if assert.NotNil(cpu.Stack, entry.name) {
			assert.Equal(entry.depth, cpu.Stack.Len(), entry.name)
		}

		// A faulted CPU does not run again until reset.
		err = cpu.Execute(assemble(t, "push 1 out"))
		assert.ErrorIs(err, ErrCpuWait, entry.name)
		assert.Equal(STATE_WAIT, cpu.State, entry.name)

		cpu.Reset()
		assert.Equal(STATE_ON, cpu.State, entry.name)
		assert.Equal(0, cpu.Stack.Len(), entry.name)
		assert.NoError(cpu.Execute(assemble(t, "push 1 pop hlt")), entry.name)
		assert.Equal(STATE_OFF, cpu.State, entry.name)
	}
}

func TestCpuMemory(t *testing.T) {
	assert := assert.New(t)

	mc := newMemory(t, 10, 5)

	cpu := NewCpu()
	cpu.Memory = mc

	err := cpu.Execute(assemble(t, `
		push 7 pop rax
		push 12 pop rbx
		write rax [rbx]      # bank 1, offset 2 #
		read [12] rcx
		write rcx [3]
		push 3 pop rbx
		read [rbx] rax
		push 14 pop rbx
		read [rbx] rbx       # last cell, never written #
	`))
	assert.NoError(err)

	assert.Equal(7.0, mc.Banks[1].Data[2])
	assert.Equal(7.0, mc.Banks[0].Data[3])
	assert.Equal([bytecode.REG_COUNT]float64{7, 0, 7}, cpu.Register)

	table := []struct {
		name   string
		source string
		err    error
	}{
		{"range_literal", "read [15] rax", memory.ErrAddressRange},
		{"range_write", "write rax [100]", memory.ErrAddressRange},
		{"range_negative", "read [-1] rax", memory.ErrAddressRange},
		{"range_register", "push 15 pop rbx read [rbx] rax", memory.ErrAddressRange},
		{"negative_register", "push -1 pop rbx write rax [rbx]", ErrAddressInvalid},
		{"fraction_register", "push 1.5 pop rbx read [rbx] rax", ErrAddressInvalid},
	}

	for _, entry := range table {
		cpu.Reset()
		err := cpu.Execute(assemble(t, entry.source))
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(STATE_WAIT, cpu.State, entry.name)
	}
}

func TestCpuPowerOn(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(STATE_OFF, cpu.State)
	assert.Nil(cpu.Stack)
	assert.Nil(cpu.Calls)

	cpu.PowerOn()
	assert.Equal(STATE_ON, cpu.State)
	assert.Equal(0, cpu.Stack.Len())
	assert.Equal(0, cpu.Calls.Len())

	// Powering on again keeps stale contents.
	cpu.Stack.Push(42)
	cpu.Calls.Push(3)
	cpu.PowerOn()
	assert.Equal(STATE_ON, cpu.State)
	assert.Equal([]float64{42}, cpu.Stack.Data)
	assert.Equal([]int{3}, cpu.Calls.Data)

	cpu.State = STATE_WAIT
	cpu.PowerOn()
	assert.Equal(STATE_WAIT, cpu.State)
	assert.Equal([]float64{42}, cpu.Stack.Data)

	// Execute on an ON CPU keeps the stack it already has.
	cpu.State = STATE_ON
	assert.NoError(cpu.Execute(assemble(t, "pop rax")))
	assert.Equal(42.0, cpu.Register[0])
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Reset()
	assert.Equal(STATE_ON, cpu.State)

	err := cpu.Execute(assemble(t, "push 1 pop rax push 2 pop rbx call f f: push 3 ret"))
	assert.ErrorIs(err, ErrCallsEmpty)
	assert.Equal(STATE_WAIT, cpu.State)
	assert.Equal([]float64{3, 3}, cpu.Stack.Data)
	assert.NotZero(cpu.Ticks)

	cpu.Reset()
	assert.Equal(STATE_ON, cpu.State)
	assert.Equal([bytecode.REG_COUNT]float64{}, cpu.Register)
	assert.Equal(0, cpu.Stack.Len())
	assert.Equal(0, cpu.Calls.Len())
	assert.Equal(0, cpu.Ip)
	assert.Equal(0, cpu.Ticks)
}

func TestCpuTick(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.ErrorIs(cpu.Tick(), ErrCpuOff)

	cpu.PowerOn()
	cpu.Load(assemble(t, "push 1 push 2 add"))

	assert.NoError(cpu.Tick())
	assert.Equal(9, cpu.Ip)
	assert.NoError(cpu.Tick())
	assert.Equal(18, cpu.Ip)
	assert.NoError(cpu.Tick())
	assert.Equal(19, cpu.Ip)
	assert.Equal([]float64{3}, cpu.Stack.Data)
	assert.Equal(3, cpu.Ticks)

	assert.ErrorIs(cpu.Tick(), ErrProgramEnd)
	assert.Equal(STATE_ON, cpu.State)

	cpu.Load(assemble(t, "hlt"))
	assert.NoError(cpu.Tick())
	assert.Equal(STATE_OFF, cpu.State)
	assert.ErrorIs(cpu.Tick(), ErrCpuOff)
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	text := cpu.String()
	assert.Contains(text, "state: off\n")
	assert.Contains(text, "stack: -\n")

	assert.NoError(cpu.Execute(assemble(t, "push 2.5 pop rbx push 2.5 call f f: pop rax push rax")))

	text = cpu.String()
	assert.Contains(text, "state: on\n")
	assert.Contains(text, "  rbx: 2.5\n")
	assert.Contains(text, "stack: 1: 2.5\n")
	assert.Contains(text, "calls: 1: 0019\n")
}
