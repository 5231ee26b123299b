// Package cpu implements the processor of the stackvm system.
//
// The CPU executes a bytecode stream from offset 0, using an operand stack
// of doubles, three double registers (rax, rbx, rcx) and a call-return
// stack of code offsets. Memory and console accesses are delegated to the
// attached Memory and Console.
//
// The CPU is a three state machine. It starts OFF, is ON while running,
// goes to WAIT on a fault, and back to OFF when it halts. A CPU in WAIT
// only runs again after a Reset.
package cpu
