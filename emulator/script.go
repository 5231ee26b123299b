// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/stackvm/io"
)

// script is a console that reads a fixed list of values, and writes to
// the emulator tape.
type script struct {
	values []float64
	input  *io.Temporary
	output *io.Tape
}

var _ io.Channel = (*script)(nil)

// Rewind restores the full list of input values.
func (sc *script) Rewind() {
	sc.input = io.NewTemporary(len(sc.values), sc.values...)
	sc.output.Rewind()
}

func (sc *script) Receive() (value float64, err error) {
	return sc.input.Receive()
}

func (sc *script) Send(value float64) (err error) {
	return sc.output.Send(value)
}

// Script replaces the console input with values. Each reset replays
// them from the first. Console output still goes to Tape.
func (emu *Emulator) Script(values ...float64) {
	sc := &script{
		values: values,
		output: &emu.Tape,
	}
	sc.Rewind()

	emu.Cpu.Console = sc
}
