package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Tape provides text I/O of values over byte streams.
// Input values are whitespace delimited floating point numbers, output
// values are written one per line with six decimal places.
//
// Input is buffered on first use. A replaced Input is read after the
// next Rewind.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input. Rewinding the underlying stream
// is not possible on a tape.
func (tc *Tape) Rewind() {
	tc.reader = nil
}

// Receive reads the next value from the input stream.
func (tc *Tape) Receive() (value float64, err error) {
	if tc.Input == nil {
		err = ErrChannelClosed
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	_, err = fmt.Fscan(tc.reader, &value)
	if err != nil {
		err = errors.Join(ErrChannelInput, err)
	}

	return
}

// Send writes a value, followed by a newline, to the output stream.
func (tc *Tape) Send(value float64) (err error) {
	if tc.Output == nil {
		return ErrChannelClosed
	}

	_, err = fmt.Fprintf(tc.Output, "%f\n", value)
	return
}
