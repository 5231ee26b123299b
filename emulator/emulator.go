// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/stackvm/bytecode"
	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/io"
	"github.com/ezrec/stackvm/memory"
)

// Emulator state. CPU + memory + console.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Controller *memory.Controller // Memory attached to the CPU.
	Tape       io.Tape            // Console channel.
}

// NewEmulator creates a new emulator for the machine described by cfg.
func NewEmulator(cfg *Config) (emu *Emulator, err error) {
	mc, err := cfg.Controller()
	if err != nil {
		return
	}

	emu = &Emulator{
		Verbose:    cfg.Verbose,
		Cpu:        cpu.NewCpu(),
		Controller: mc,
	}

	emu.Cpu.Memory = emu.Controller
	emu.Cpu.Console = &emu.Tape

	return
}

// Load installs a program, and resets the emulator to run it.
func (emu *Emulator) Load(program []byte) {
	emu.Cpu.Load(program)
	emu.Reset()
}

// Reset the emulator state. Memory contents are kept.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Controller.Verbose = emu.Verbose

	if emu.Cpu.Console != nil {
		emu.Cpu.Console.Rewind()
	}
	emu.Cpu.Reset()
}

// Code returns the instruction at the current instruction pointer.
func (emu *Emulator) Code() (inst bytecode.Instruction, err error) {
	return bytecode.Decode(emu.Cpu.Program, emu.Cpu.Ip)
}

// Tick performs a single tick of the emulator.
// done is set once the program has halted or run off its end.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	offset := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{Offset: offset, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrProgramEnd) || errors.Is(err, cpu.ErrCpuOff) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.State == cpu.STATE_OFF || emu.Cpu.Ip == len(emu.Cpu.Program)

	return
}

// Run ticks the emulator until the program is done, or faults.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
