// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ezrec/stackvm/bytecode"
	"github.com/ezrec/stackvm/internal"
	"github.com/ezrec/stackvm/io"
)

// DIV_EPSILON is the magnitude below which a divisor is taken as zero.
const DIV_EPSILON = 1e-6

// State is the power state of the CPU.
type State int

const (
	STATE_OFF  = State(iota) // No stacks, not executing.
	STATE_ON                 // Stacks allocated, executing.
	STATE_WAIT               // Faulted, waiting for a reset.
)

func (state State) String() string {
	switch state {
	case STATE_OFF:
		return "off"
	case STATE_ON:
		return "on"
	case STATE_WAIT:
		return "wait"
	}
	return fmt.Sprintf("State(%d)", int(state))
}

// Memory is the external memory attached to the CPU.
type Memory interface {
	Read(address int) (value float64, err error)
	Write(address int, value float64) (err error)
}

// Cpu is the simulation context for the stackvm processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State    State                       // Power state.
	Ip       int                         // Offset of the next instruction.
	Register [bytecode.REG_COUNT]float64 // Register file: rax, rbx, rcx.
	Stack    *internal.Stack[float64]    // Operand stack, nil while OFF.
	Calls    *internal.Stack[int]        // Call-return stack, nil while OFF.

	Program []byte     // Bytecode being executed.
	Memory  Memory     // Attached memory, if any.
	Console io.Channel // Console channel for in and out.

	Ticks int // Instructions executed since the last reset.
}

// NewCpu creates a new CPU, powered off.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	stackText := func(depth int, top string) string {
		if depth == 0 {
			return "-"
		}
		return fmt.Sprintf("%d: %v", depth, top)
	}

	regs := []string{"state", "ip", "rax", "rbx", "rcx", "stack", "calls"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "state":
			strval = cpu.State.String()
		case "ip":
			strval = fmt.Sprintf("%04x", cpu.Ip)
		case "rax", "rbx", "rcx":
			r, _ := bytecode.RegisterOf(reg)
			strval = bytecode.FormatValue(cpu.Register[r.Index()])
		case "stack":
			strval = "-"
			if cpu.Stack != nil {
				top, _ := cpu.Stack.Peek()
				strval = stackText(cpu.Stack.Len(), bytecode.FormatValue(top))
			}
		case "calls":
			strval = "-"
			if cpu.Calls != nil {
				top, _ := cpu.Calls.Peek()
				strval = stackText(cpu.Calls.Len(), fmt.Sprintf("%04x", top))
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// PowerOn moves an OFF CPU to ON, with empty stacks.
// A CPU that is ON or in WAIT is left as-is, stack contents included.
func (cpu *Cpu) PowerOn() {
	if cpu.State != STATE_OFF {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: power on")
	}

	cpu.Stack = internal.NewStack[float64]()
	cpu.Calls = internal.NewStack[int]()
	cpu.State = STATE_ON
}

// PowerOff moves the CPU to OFF, releasing both stacks.
func (cpu *Cpu) PowerOff() {
	if cpu.Verbose {
		log.Printf("cpu: power off")
	}

	cpu.Stack = nil
	cpu.Calls = nil
	cpu.State = STATE_OFF
}

// Reset the CPU state.
// - Clears the registers and both stacks.
// - Zeros the instruction pointer and tick counter.
// - Sets the CPU state to ON.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	if cpu.Stack == nil {
		cpu.Stack = internal.NewStack[float64]()
	}
	cpu.Stack.Reset()
	if cpu.Calls == nil {
		cpu.Calls = internal.NewStack[int]()
	}
	cpu.Calls.Reset()

	cpu.Ip = 0
	cpu.Ticks = 0
	cpu.State = STATE_ON
}

// Load sets the program to execute, starting at offset 0.
func (cpu *Cpu) Load(program []byte) {
	cpu.Program = program
	cpu.Ip = 0
}

// Execute runs program from offset 0 until it halts, faults, or runs off
// the end of the byte stream. An OFF CPU is powered on first. A CPU in
// WAIT does not run, and returns ErrCpuWait.
func (cpu *Cpu) Execute(program []byte) (err error) {
	switch cpu.State {
	case STATE_OFF:
		cpu.PowerOn()
	case STATE_WAIT:
		return ErrCpuWait
	}

	cpu.Load(program)

	for cpu.State == STATE_ON && cpu.Ip != len(cpu.Program) {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single instruction of the loaded program.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_OFF:
		return ErrCpuOff
	case STATE_WAIT:
		return ErrCpuWait
	}

	if cpu.Ip == len(cpu.Program) {
		return ErrProgramEnd
	}

	inst, err := bytecode.Decode(cpu.Program, cpu.Ip)
	if err == nil {
		err = cpu.checkTarget(inst)
	}
	if err == nil {
		err = cpu.execute(inst)
	}
	if err != nil {
		op := inst.Opcode
		if cpu.Ip >= 0 && cpu.Ip < len(cpu.Program) {
			op = bytecode.Opcode(cpu.Program[cpu.Ip])
		}
		err = &ErrFault{Ip: cpu.Ip, Opcode: op, Err: err}
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
		cpu.State = STATE_WAIT
	}

	return
}

// checkTarget verifies that a branch target lies within the program.
func (cpu *Cpu) checkTarget(inst bytecode.Instruction) (err error) {
	if !inst.Opcode.IsBranch() {
		return
	}

	if inst.Address < 0 || int(inst.Address) >= len(cpu.Program) {
		err = errors.Join(ErrTargetRange, fmt.Errorf("$%d", inst.Address))
	}

	return
}

// pop pops count values, top of stack first.
// The stack is untouched if it holds fewer than count values.
func (cpu *Cpu) pop(count int) (values []float64, err error) {
	if cpu.Stack.Len() < count {
		err = ErrStackEmpty
		return
	}

	values = make([]float64, count)
	for n := range values {
		values[n], _ = cpu.Stack.Pop()
	}

	return
}

// address converts a register value to a memory address.
func address(value float64) (addr int, err error) {
	if value < 0 || value > math.MaxInt32 || value != math.Trunc(value) {
		err = errors.Join(ErrAddressInvalid, fmt.Errorf("%v", value))
		return
	}

	addr = int(value)
	return
}

func (cpu *Cpu) register(reg bytecode.Register) *float64 {
	return &cpu.Register[reg.Index()]
}

// execute executes a single decoded instruction.
func (cpu *Cpu) execute(inst bytecode.Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Ip, inst)
	}

	next_ip := cpu.Ip + inst.Size()
	reg := inst.Register

	switch inst.Opcode {
	case bytecode.HLT:
		cpu.PowerOff()
	case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV:
		var ab []float64
		ab, err = cpu.pop(2)
		if err != nil {
			return
		}
		a, b := ab[0], ab[1]
		var result float64
		switch inst.Opcode {
		case bytecode.ADD:
			result = a + b
		case bytecode.SUB:
			result = b - a
		case bytecode.MUL:
			result = a * b
		case bytecode.DIV:
			if math.Abs(a) < DIV_EPSILON {
				// Restore the operands.
				cpu.Stack.Push(b)
				cpu.Stack.Push(a)
				err = ErrDivideZero
				return
			}
			result = b / a
		}
		cpu.Stack.Push(result)
	case bytecode.SQRT:
		a, ok := cpu.Stack.Peek()
		if !ok {
			err = ErrStackEmpty
			return
		}
		if a < 0 {
			err = ErrSqrtNegative
			return
		}
		cpu.Stack.Pop()
		cpu.Stack.Push(math.Sqrt(a))
	case bytecode.PUSH_REG:
		cpu.Stack.Push(*cpu.register(reg[0]))
	case bytecode.PUSH_VAL:
		cpu.Stack.Push(inst.Value)
	case bytecode.POP_REG, bytecode.POP_VAL:
		value, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		if inst.Opcode == bytecode.POP_REG {
			*cpu.register(reg[0]) = value
		}
	case bytecode.WRITE_REG, bytecode.WRITE_ADDR, bytecode.READ_REG, bytecode.READ_ADDR:
		err = cpu.memory(inst)
	case bytecode.IN, bytecode.IN_REG:
		if cpu.Console == nil {
			err = ErrConsoleMissing
			return
		}
		var value float64
		value, err = cpu.Console.Receive()
		if err != nil {
			return
		}
		if inst.Opcode == bytecode.IN_REG {
			*cpu.register(reg[0]) = value
		} else {
			cpu.Stack.Push(value)
		}
	case bytecode.OUT, bytecode.OUT_REG:
		if cpu.Console == nil {
			err = ErrConsoleMissing
			return
		}
		var value float64
		if inst.Opcode == bytecode.OUT_REG {
			value = *cpu.register(reg[0])
		} else {
			var ok bool
			value, ok = cpu.Stack.Pop()
			if !ok {
				err = ErrStackEmpty
				return
			}
		}
		err = cpu.Console.Send(value)
	case bytecode.JMP:
		next_ip = int(inst.Address)
	case bytecode.JMPL, bytecode.JMPG:
		var ab []float64
		ab, err = cpu.pop(2)
		if err != nil {
			return
		}
		a, b := ab[0], ab[1]
		if (inst.Opcode == bytecode.JMPL && b < a) || (inst.Opcode == bytecode.JMPG && b > a) {
			next_ip = int(inst.Address)
		}
	case bytecode.CALL:
		cpu.Calls.Push(next_ip)
		next_ip = int(inst.Address)
	case bytecode.RET:
		var ok bool
		next_ip, ok = cpu.Calls.Pop()
		if !ok {
			err = ErrCallsEmpty
			return
		}
	default:
		err = bytecode.ErrOpcodeInvalid
		return
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// memory performs a memory read or write instruction.
func (cpu *Cpu) memory(inst bytecode.Instruction) (err error) {
	if cpu.Memory == nil {
		return ErrMemoryMissing
	}

	reg := inst.Register

	switch inst.Opcode {
	case bytecode.WRITE_REG, bytecode.WRITE_ADDR:
		addr := int(inst.Address)
		if inst.Opcode == bytecode.WRITE_REG {
			addr, err = address(*cpu.register(reg[1]))
			if err != nil {
				return
			}
		}
		err = cpu.Memory.Write(addr, *cpu.register(reg[0]))
	case bytecode.READ_REG:
		var addr int
		addr, err = address(*cpu.register(reg[0]))
		if err != nil {
			return
		}
		var value float64
		value, err = cpu.Memory.Read(addr)
		if err != nil {
			return
		}
		*cpu.register(reg[1]) = value
	case bytecode.READ_ADDR:
		var value float64
		value, err = cpu.Memory.Read(int(inst.Address))
		if err != nil {
			return
		}
		*cpu.register(reg[0]) = value
	}

	return
}
