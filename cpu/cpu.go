// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/risc5/memory"
)

const (
	REGISTER_COUNT = 16 // Size of the register file.
	REGISTER_LINK  = 15 // Return address register for linking branches.
)

var _cpu_defines = map[string]uint32{
	"LINK": REGISTER_LINK,

	"FLAG_N": uint32(FLAG_N),
	"FLAG_Z": uint32(FLAG_Z),
	"FLAG_C": uint32(FLAG_C),
	"FLAG_V": uint32(FLAG_V),
}

func init() {
	for op := REG_OP_MOV; op <= REG_OP_DIV; op++ {
		_cpu_defines[op.Name()] = uint32(op)
	}
	for op := MEM_OP_LDW; op <= MEM_OP_STB; op++ {
		_cpu_defines[op.Name()] = uint32(op)
	}
	for cond := COND_MI; cond <= COND_NV; cond++ {
		_cpu_defines[cond.Name()] = uint32(cond)
	}
}

// Cpu is the simulation context of a single RISC5 processor and its memory.
// A Cpu must not be stepped from more than one goroutine at a time.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	// Select the architectural Z flag (set on a zero result) instead of
	// the reference interpreter's inverted polarity.
	ConventionalZero bool

	Register [REGISTER_COUNT]uint32 // Register file. R15 is the link register.
	Pc       uint32                 // Program counter, in words.
	H        uint32                 // Remainder of the last division.
	Flags    Flags                  // Condition flags of the last ALU operation.
	Halted   bool                   // Set once a branch to itself is taken.

	Memory *memory.Memory // Memory, owned by the cpu.

	Ticks int // Instructions executed.
}

// NewCpu creates a new CPU with a zeroed memory of capacity bytes.
func NewCpu(capacity uint32) (cpu *Cpu, err error) {
	mem, err := memory.New(capacity)
	if err != nil {
		return
	}

	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Defines returns the names of the opcodes, conditions and registers.
func (cpu *Cpu) Defines() iter.Seq2[string, uint32] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state. Memory contents are left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.H = 0
	cpu.Flags = Flags{}
	cpu.Halted = false
	cpu.Ticks = 0
}

// Reg returns the value of register index.
func (cpu *Cpu) Reg(index int) (value uint32, err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrRegister
		return
	}

	value = cpu.Register[index]
	return
}

// SetReg sets the value of register index.
func (cpu *Cpu) SetReg(index int, value uint32) (err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrRegister
		return
	}

	cpu.Register[index] = value
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %08x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.Flags)
	text += fmt.Sprintf("% 5s: %04X_%04X\n", "h", cpu.H>>16, cpu.H&0xffff)
	for n, val := range cpu.Register {
		reg := fmt.Sprintf("r%d", n)
		text += fmt.Sprintf("% 5s: %04X_%04X\n", reg, val>>16, val&0xffff)
	}

	return
}

// FetchCode fetches the instruction word at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Pc >= cpu.Memory.Words() {
		err = &memory.ErrAccess{Address: cpu.Pc * memory.WORD_SIZE, Size: memory.WORD_SIZE, Err: memory.ErrOutOfBounds}
		return
	}

	word, err := cpu.Memory.FetchWord(cpu.Pc * memory.WORD_SIZE)
	if err != nil {
		return
	}

	code = Code(word)
	return
}

// Step executes a single instruction.
//
// Either the whole instruction takes effect, or the returned error
// leaves registers, flags, H, pc and memory as they were.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// Execute executes a single instruction word as if fetched from pc.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", cpu.Pc, code)
	}

	ins, err := code.Decode()
	if err != nil {
		return
	}

	next_pc := cpu.Pc + 1

	switch ins.Class {
	case OP_REGISTER, OP_IMMEDIATE:
		n := ins.Imm
		if ins.Class == OP_REGISTER {
			n = cpu.Register[ins.C]
		}
		var out aluResult
		out, err = cpu.doAlu(ins.RegOp, ins.Q, ins.U, ins.V, cpu.Register[ins.B], n)
		if err != nil {
			return
		}
		cpu.Register[ins.A] = out.Value
		cpu.Flags = out.Flags
		cpu.H = out.H
	case OP_MEMORY:
		addr := cpu.Register[ins.B] + ins.Imm
		switch ins.MemOp {
		case MEM_OP_LDW:
			var value uint32
			value, err = cpu.Memory.FetchWord(addr)
			if err != nil {
				return
			}
			cpu.Register[ins.A] = value
		case MEM_OP_LDB:
			var value uint8
			value, err = cpu.Memory.FetchByte(addr)
			if err != nil {
				return
			}
			cpu.Register[ins.A] = uint32(value)
		case MEM_OP_STW:
			err = cpu.Memory.StoreWord(addr, cpu.Register[ins.A])
			if err != nil {
				return
			}
		case MEM_OP_STB:
			err = cpu.Memory.StoreByte(addr, uint8(cpu.Register[ins.A]))
			if err != nil {
				return
			}
		}
	case OP_BRANCH_REG, OP_BRANCH_IMM:
		target, taken := cpu.branchTarget(ins, next_pc)
		if taken {
			// Target is read before the link is written, so BL R15 returns.
			if ins.Link() {
				cpu.Register[REGISTER_LINK] = next_pc
			}
			if target == cpu.Pc {
				if cpu.Verbose {
					log.Printf("cpu: %08x: halt", cpu.Pc)
				}
				cpu.Halted = true
			}
		}
		next_pc = target
	default:
		err = ErrUnknownInstruction
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}
