// Package bytecode defines the binary contract shared by the stackvm assembler,
// CPU and disassembler.
//
// A program is a flat byte stream without header. Each instruction is a
// one-byte opcode followed by its operands, whose kinds are fixed per opcode:
// register ids (1 byte), double immediates (8-byte little-endian IEEE754),
// and code targets or memory addresses (4-byte little-endian signed integers).
// Code targets are absolute byte offsets into the stream.
package bytecode
