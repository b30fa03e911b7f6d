package cpu

import (
	"fmt"
)

// CodeClass is the instruction class, selected by the top nibble.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	OP_UNKNOWN    = CodeClass(0) // unknown
	OP_REGISTER   = CodeClass(1) // reg
	OP_IMMEDIATE  = CodeClass(2) // imm
	OP_MEMORY     = CodeClass(3) // mem
	OP_BRANCH_REG = CodeClass(4) // br
	OP_BRANCH_IMM = CodeClass(5) // bri
)

// CodeRegOp is a register (ALU) operation.
type CodeRegOp int

//go:generate go tool stringer -linecomment -type=CodeRegOp
const (
	REG_OP_MOV = CodeRegOp(0)  // mov
	REG_OP_LSL = CodeRegOp(1)  // lsl
	REG_OP_ASR = CodeRegOp(2)  // asr
	REG_OP_ROR = CodeRegOp(3)  // ror
	REG_OP_AND = CodeRegOp(4)  // and
	REG_OP_ANN = CodeRegOp(5)  // ann
	REG_OP_IOR = CodeRegOp(6)  // ior
	REG_OP_XOR = CodeRegOp(7)  // xor
	REG_OP_ADD = CodeRegOp(8)  // add
	REG_OP_SUB = CodeRegOp(9)  // sub
	REG_OP_MUL = CodeRegOp(10) // mul
	REG_OP_DIV = CodeRegOp(11) // div
)

// CodeMemOp is a load/store operation. Its value is the top nibble.
type CodeMemOp int

//go:generate go tool stringer -linecomment -type=CodeMemOp
const (
	MEM_OP_LDW = CodeMemOp(8)  // ldw
	MEM_OP_LDB = CodeMemOp(9)  // ldb
	MEM_OP_STW = CodeMemOp(10) // stw
	MEM_OP_STB = CodeMemOp(11) // stb
)

// CodeCond is a branch condition code.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_MI = CodeCond(0)  // mi
	COND_EQ = CodeCond(1)  // eq
	COND_CS = CodeCond(2)  // cs
	COND_VS = CodeCond(3)  // vs
	COND_LS = CodeCond(4)  // ls
	COND_LT = CodeCond(5)  // lt
	COND_LE = CodeCond(6)  // le
	COND_AL = CodeCond(7)  // al
	COND_PL = CodeCond(8)  // pl
	COND_NE = CodeCond(9)  // ne
	COND_CC = CodeCond(10) // cc
	COND_VC = CodeCond(11) // vc
	COND_HI = CodeCond(12) // hi
	COND_GE = CodeCond(13) // ge
	COND_GT = CodeCond(14) // gt
	COND_NV = CodeCond(15) // nv
)

// Instruction word field positions.
const (
	FIELD_CLASS_OFFSET = 28
	FIELD_CLASS_WIDTH  = 4
	FIELD_Q_OFFSET     = 30
	FIELD_U_OFFSET     = 29
	FIELD_V_OFFSET     = 28
	FIELD_A_OFFSET     = 24
	FIELD_B_OFFSET     = 20
	FIELD_OP_OFFSET    = 16
	FIELD_C_OFFSET     = 0
	FIELD_REG_WIDTH    = 4
	FIELD_OP_WIDTH     = 4
	FIELD_COND_OFFSET  = 24
	FIELD_COND_WIDTH   = 4

	FIELD_REG_PAD_OFFSET = 4
	FIELD_REG_PAD_WIDTH  = 12
	FIELD_BR_PAD_OFFSET  = 4
	FIELD_BR_PAD_WIDTH   = 20

	FIELD_IMM_WIDTH = 16
	FIELD_OFF_WIDTH = 20
	FIELD_BR_WIDTH  = 24
)

// Code is a single 32-bit instruction word.
type Code uint32

// Field extracts width bits of value starting at bit offset.
func Field(value uint32, offset uint, width uint) uint32 {
	return (value >> offset) & ((1 << width) - 1)
}

// SignExtend widens the low width bits of value to 32 bits, preserving sign.
func SignExtend(value uint32, width uint) uint32 {
	shift := 32 - width
	return uint32(int32(value<<shift) >> shift)
}

func boolBit(b bool, offset uint) uint32 {
	if b {
		return 1 << offset
	}
	return 0
}

func regField(reg int, offset uint) uint32 {
	return (uint32(reg) & ((1 << FIELD_REG_WIDTH) - 1)) << offset
}

// MakeCodeRegister creates a register operand instruction: R[a] := R[b] op R[c].
func MakeCodeRegister(op CodeRegOp, a, b, c int, u, v bool) Code {
	word := boolBit(u, FIELD_U_OFFSET) | boolBit(v, FIELD_V_OFFSET) |
		regField(a, FIELD_A_OFFSET) | regField(b, FIELD_B_OFFSET) |
		(uint32(op)&0xf)<<FIELD_OP_OFFSET | regField(c, FIELD_C_OFFSET)
	return Code(word)
}

// MakeCodeImmediate creates an immediate operand instruction: R[a] := R[b] op imm.
// Setting v extends the 16-bit immediate with ones.
func MakeCodeImmediate(op CodeRegOp, a, b int, imm uint16, u, v bool) Code {
	word := boolBit(true, FIELD_Q_OFFSET) |
		boolBit(u, FIELD_U_OFFSET) | boolBit(v, FIELD_V_OFFSET) |
		regField(a, FIELD_A_OFFSET) | regField(b, FIELD_B_OFFSET) |
		(uint32(op)&0xf)<<FIELD_OP_OFFSET | uint32(imm)
	return Code(word)
}

// MakeCodeMemory creates a load/store instruction addressing R[b] + off.
func MakeCodeMemory(op CodeMemOp, a, b int, off int32) Code {
	word := (uint32(op)&0xf)<<FIELD_CLASS_OFFSET |
		regField(a, FIELD_A_OFFSET) | regField(b, FIELD_B_OFFSET) |
		Field(uint32(off), 0, FIELD_OFF_WIDTH)
	return Code(word)
}

// MakeCodeBranchReg creates a branch to the word address held in R[c].
func MakeCodeBranchReg(cond CodeCond, c int, link bool) Code {
	word := 0xc<<FIELD_CLASS_OFFSET | boolBit(link, FIELD_V_OFFSET) |
		(uint32(cond)&0xf)<<FIELD_COND_OFFSET | regField(c, FIELD_C_OFFSET)
	return Code(word)
}

// MakeCodeBranchImm creates a pc relative branch of off words.
func MakeCodeBranchImm(cond CodeCond, off int32, link bool) Code {
	word := 0xe<<FIELD_CLASS_OFFSET | boolBit(link, FIELD_V_OFFSET) |
		(uint32(cond)&0xf)<<FIELD_COND_OFFSET | Field(uint32(off), 0, FIELD_BR_WIDTH)
	return Code(word)
}

// MakeCodeHalt creates the halt idiom, an unconditional branch to itself.
func MakeCodeHalt() Code {
	return MakeCodeBranchImm(COND_AL, -1, false)
}

// Nibble returns the top four bits of the instruction word.
func (code Code) Nibble() uint32 {
	return Field(uint32(code), FIELD_CLASS_OFFSET, FIELD_CLASS_WIDTH)
}

// Class returns the instruction class of the word.
func (code Code) Class() CodeClass {
	switch code.Nibble() {
	case 0x0, 0x2:
		return OP_REGISTER
	case 0x4, 0x5, 0x6, 0x7:
		return OP_IMMEDIATE
	case 0x8, 0x9, 0xa, 0xb:
		return OP_MEMORY
	case 0xc, 0xd:
		return OP_BRANCH_REG
	case 0xe, 0xf:
		return OP_BRANCH_IMM
	}

	return OP_UNKNOWN
}

// Mode returns the q (F01), u and v modifier bits.
func (code Code) Mode() (q, u, v bool) {
	word := uint32(code)
	q = Field(word, FIELD_Q_OFFSET, 1) != 0
	u = Field(word, FIELD_U_OFFSET, 1) != 0
	v = Field(word, FIELD_V_OFFSET, 1) != 0
	return
}

// RegisterDecode decodes the register format fields.
func (code Code) RegisterDecode() (op CodeRegOp, a, b, c int) {
	word := uint32(code)
	op = CodeRegOp(Field(word, FIELD_OP_OFFSET, FIELD_OP_WIDTH))
	a = int(Field(word, FIELD_A_OFFSET, FIELD_REG_WIDTH))
	b = int(Field(word, FIELD_B_OFFSET, FIELD_REG_WIDTH))
	c = int(Field(word, FIELD_C_OFFSET, FIELD_REG_WIDTH))
	return
}

// ImmediateDecode decodes the immediate format fields, with the
// immediate extended per the v bit.
func (code Code) ImmediateDecode() (op CodeRegOp, a, b int, imm uint32) {
	word := uint32(code)
	op = CodeRegOp(Field(word, FIELD_OP_OFFSET, FIELD_OP_WIDTH))
	a = int(Field(word, FIELD_A_OFFSET, FIELD_REG_WIDTH))
	b = int(Field(word, FIELD_B_OFFSET, FIELD_REG_WIDTH))
	imm = Field(word, 0, FIELD_IMM_WIDTH)
	if _, _, v := code.Mode(); v {
		imm |= 0xffff0000
	}
	return
}

// MemoryDecode decodes the load/store format fields.
func (code Code) MemoryDecode() (op CodeMemOp, a, b int, off uint32) {
	word := uint32(code)
	op = CodeMemOp(code.Nibble())
	a = int(Field(word, FIELD_A_OFFSET, FIELD_REG_WIDTH))
	b = int(Field(word, FIELD_B_OFFSET, FIELD_REG_WIDTH))
	off = SignExtend(Field(word, 0, FIELD_OFF_WIDTH), FIELD_OFF_WIDTH)
	return
}

// BranchDecode decodes the branch condition and link flag.
func (code Code) BranchDecode() (cond CodeCond, link bool) {
	word := uint32(code)
	cond = CodeCond(Field(word, FIELD_COND_OFFSET, FIELD_COND_WIDTH))
	_, _, link = code.Mode()
	return
}

// String returns a compact debug rendering of the instruction.
func (code Code) String() (out string) {
	ins, err := code.Decode()
	if err != nil {
		return fmt.Sprintf("%08x (%v)", uint32(code), err)
	}

	return ins.String()
}
