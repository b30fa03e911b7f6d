// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"encoding/binary"
	"errors"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/risc5/cpu"
	"github.com/ezrec/risc5/internal"
	"github.com/ezrec/risc5/memory"
)

// Emulator state. CPU + memory + the program image loaded into it.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program image.

	Entry    uint32 // Initial pc (word address) after a reset.
	MaxSteps int    // Default step limit for Run. Zero runs until halt.
}

// NewEmulator creates a new emulator with capacity bytes of memory.
func NewEmulator(capacity uint32) (emu *Emulator, err error) {
	core, err := cpu.NewCpu(capacity)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:     core,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, uint32] {
	defines := map[string]uint32{
		"MEMORY_SIZE": emu.Cpu.Memory.Capacity(),
		"WORD_SIZE":   memory.WORD_SIZE,
	}

	return internal.IterSeq2Concat(maps.All(defines), emu.Cpu.Defines())
}

// Reset clears the machine, and stores every program word into memory.
func (emu *Emulator) Reset() (err error) {
	if emu.Verbose {
		log.Printf("emulator: reset, entry %#x", emu.Entry)
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Memory.Reset()

	for pc, code := range emu.Program.Codes() {
		err = emu.Cpu.Memory.StoreWord(pc*memory.WORD_SIZE, uint32(code))
		if err != nil {
			return
		}
	}

	emu.Cpu.Pc = emu.Entry

	return
}

// Load places raw bytes into memory. The bytes are not part of the
// program, and are cleared by the next Reset.
func (emu *Emulator) Load(addr uint32, data []byte) (err error) {
	if emu.Verbose {
		log.Printf("emulator: load %d bytes at %#x", len(data), addr)
	}

	err = emu.Cpu.Memory.Load(addr, data)
	return
}

// LoadImage reads a raw little-endian image of instruction words, appends
// it to the program at the byte address addr, and stores it into memory.
// A trailing partial word is zero padded.
func (emu *Emulator) LoadImage(r io.Reader, addr uint32) (err error) {
	if addr%memory.WORD_SIZE != 0 {
		err = &memory.ErrAccess{Address: addr, Size: memory.WORD_SIZE, Err: memory.ErrMisaligned}
		return
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	for len(data)%memory.WORD_SIZE != 0 {
		data = append(data, 0)
	}

	err = emu.Load(addr, data)
	if err != nil {
		return
	}

	codes := make([]cpu.Code, 0, len(data)/memory.WORD_SIZE)
	for n := 0; n < len(data); n += memory.WORD_SIZE {
		codes = append(codes, cpu.Code(binary.LittleEndian.Uint32(data[n:])))
	}

	emu.Program.Append("image", addr, codes...)

	return
}

// Label returns the program segment label for the current pc.
func (emu *Emulator) Label() string {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Segment == nil {
		return ""
	}

	return dbg.Label
}

// Code returns the current instruction code.
func (emu *Emulator) Code() (code cpu.Code, err error) {
	code, err = emu.Cpu.FetchCode()
	return
}

// Tick performs a single step of the emulator.
// done is set once the cpu has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	label := emu.Label()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Label: label, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	if done && emu.Verbose {
		log.Printf("emulator: halted at %#x after %d ticks", pc, emu.Cpu.Ticks)
	}

	return
}

// Run steps the emulator until it halts, faults, or has executed
// maxSteps instructions. When maxSteps is zero or negative, MaxSteps
// is used instead; if that is also zero, Run continues until halt.
func (emu *Emulator) Run(maxSteps int) (steps int, err error) {
	limit := maxSteps
	if limit <= 0 {
		limit = emu.MaxSteps
	}

	for limit <= 0 || steps < limit {
		if emu.Cpu.Halted {
			break
		}

		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		steps++
		if done {
			break
		}
	}

	return
}
