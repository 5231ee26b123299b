// Package io provides the console channels of the stackvm CPU.
// A channel moves one double at a time: Tape converts to and from text
// streams, Temporary is an in-memory FIFO for scripted input and output.
package io

// Channel defines the interface for all console channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive blocks until one value is available, and returns it.
	Receive() (value float64, err error)
	// Send writes a single value to the channel.
	Send(value float64) error
}
