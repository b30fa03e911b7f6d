// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat, byte addressable store of the RISC5
// simulator.
//
// Capacity is fixed at construction and is always a whole number of 32-bit
// words. Words are little-endian and must be 4-byte aligned.
package memory

import (
	"encoding/binary"
)

const (
	WORD_SIZE        = 4         // Bytes per word.
	DEFAULT_CAPACITY = 64 * 1024 // Default capacity in bytes.
)

// Memory is a fixed capacity byte store.
type Memory struct {
	data []byte
}

// New allocates a zeroed memory of capacity bytes.
func New(capacity uint32) (mem *Memory, err error) {
	if capacity == 0 || capacity%WORD_SIZE != 0 {
		err = ErrCapacity
		return
	}

	mem = &Memory{
		data: make([]byte, capacity),
	}

	return
}

// Capacity in bytes.
func (mem *Memory) Capacity() uint32 {
	return uint32(len(mem.data))
}

// Words returns the capacity in words.
func (mem *Memory) Words() uint32 {
	return uint32(len(mem.data) / WORD_SIZE)
}

// Reset zeros the contents.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// check verifies that every byte of an access of size bytes at addr lies
// inside the store, and that word accesses are aligned.
func (mem *Memory) check(addr uint32, size int) (err error) {
	if uint64(addr)+uint64(size) > uint64(len(mem.data)) {
		err = &ErrAccess{Address: addr, Size: size, Err: ErrOutOfBounds}
		return
	}

	if size > 1 && addr%uint32(size) != 0 {
		err = &ErrAccess{Address: addr, Size: size, Err: ErrMisaligned}
		return
	}

	return
}

// FetchByte reads the byte at addr.
func (mem *Memory) FetchByte(addr uint32) (value uint8, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// StoreByte writes the byte at addr.
func (mem *Memory) StoreByte(addr uint32, value uint8) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// FetchWord reads the little-endian word at addr.
func (mem *Memory) FetchWord(addr uint32) (value uint32, err error) {
	err = mem.check(addr, WORD_SIZE)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(mem.data[addr:])
	return
}

// StoreWord writes value as a little-endian word at addr.
func (mem *Memory) StoreWord(addr uint32, value uint32) (err error) {
	err = mem.check(addr, WORD_SIZE)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(mem.data[addr:], value)
	return
}

// Load copies data into memory starting at addr.
// Nothing is written unless the whole range fits.
func (mem *Memory) Load(addr uint32, data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	if uint64(addr)+uint64(len(data)) > uint64(len(mem.data)) {
		err = &ErrAccess{Address: addr, Size: len(data), Err: ErrOutOfBounds}
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Dump returns a copy of size bytes starting at addr.
func (mem *Memory) Dump(addr uint32, size int) (data []byte, err error) {
	if uint64(addr)+uint64(size) > uint64(len(mem.data)) {
		err = &ErrAccess{Address: addr, Size: size, Err: ErrOutOfBounds}
		return
	}

	data = make([]byte, size)
	copy(data, mem.data[addr:])
	return
}
