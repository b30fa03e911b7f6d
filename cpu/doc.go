// Package cpu implements the processor core of the RISC5 simulator.
//
// The CPU consists of sixteen 32-bit registers (r0-r15, with r15 as the
// link register), a word addressed program counter, the H register holding
// the remainder of the last division, and the N, Z, C and V flags. It owns
// a flat, little-endian byte memory from which instructions are fetched.
//
// Instruction words come in four formats, selected by the top nibble:
// register operand, 16-bit immediate operand, load/store with a 20-bit
// offset, and branches to a register or by a 24-bit word offset.
//
// There is no halt instruction. A taken branch to its own address halts the
// cpu, which the emulator uses to end a run.
package cpu
