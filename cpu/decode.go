package cpu

import (
	"fmt"
)

// Instruction is a decoded instruction word. Class selects which of the
// remaining fields are meaningful.
type Instruction struct {
	Class CodeClass

	Q, U, V bool // Format modifier bits.

	RegOp CodeRegOp // OP_REGISTER, OP_IMMEDIATE
	MemOp CodeMemOp // OP_MEMORY
	Cond  CodeCond  // OP_BRANCH_REG, OP_BRANCH_IMM

	A, B, C int // Register indices.

	// Immediate operand (OP_IMMEDIATE), sign extended offset in bytes
	// (OP_MEMORY) or in words (OP_BRANCH_IMM).
	Imm uint32
}

// Link reports whether a branch saves its return address in R15.
func (ins Instruction) Link() bool {
	return ins.V
}

// Relative reports whether a branch adds an offset to pc.
func (ins Instruction) Relative() bool {
	return ins.U
}

// Decode decodes the instruction word, validating the zero padding.
func (code Code) Decode() (ins Instruction, err error) {
	word := uint32(code)

	ins.Class = code.Class()
	ins.Q, ins.U, ins.V = code.Mode()

	switch ins.Class {
	case OP_REGISTER:
		if Field(word, FIELD_REG_PAD_OFFSET, FIELD_REG_PAD_WIDTH) != 0 {
			err = ErrMalformedInstruction
			return
		}
		ins.RegOp, ins.A, ins.B, ins.C = code.RegisterDecode()
	case OP_IMMEDIATE:
		ins.RegOp, ins.A, ins.B, ins.Imm = code.ImmediateDecode()
	case OP_MEMORY:
		ins.MemOp, ins.A, ins.B, ins.Imm = code.MemoryDecode()
	case OP_BRANCH_REG:
		if Field(word, FIELD_BR_PAD_OFFSET, FIELD_BR_PAD_WIDTH) != 0 {
			err = ErrMalformedInstruction
			return
		}
		ins.Cond, _ = code.BranchDecode()
		ins.C = int(Field(word, FIELD_C_OFFSET, FIELD_REG_WIDTH))
	case OP_BRANCH_IMM:
		ins.Cond, _ = code.BranchDecode()
		ins.Imm = SignExtend(Field(word, 0, FIELD_BR_WIDTH), FIELD_BR_WIDTH)
	default:
		err = ErrUnknownInstruction
		return
	}

	return
}

func modeString(q, u, v bool) (str string) {
	for _, bit := range []struct {
		set  bool
		name string
	}{{q, "q"}, {u, "u"}, {v, "v"}} {
		if bit.set {
			str += "." + bit.name
		}
	}
	return
}

// String renders the decoded instruction for logs.
func (ins Instruction) String() (out string) {
	switch ins.Class {
	case OP_REGISTER:
		out = fmt.Sprintf("%v.%v%v r%d r%d r%d", ins.Class, ins.RegOp, modeString(false, ins.U, ins.V), ins.A, ins.B, ins.C)
	case OP_IMMEDIATE:
		out = fmt.Sprintf("%v.%v%v r%d r%d %#x", ins.Class, ins.RegOp, modeString(false, ins.U, ins.V), ins.A, ins.B, ins.Imm)
	case OP_MEMORY:
		out = fmt.Sprintf("%v.%v r%d r%d %d", ins.Class, ins.MemOp, ins.A, ins.B, int32(ins.Imm))
	case OP_BRANCH_REG:
		out = fmt.Sprintf("%v.%v%v r%d", ins.Class, ins.Cond, modeString(false, false, ins.V), ins.C)
	case OP_BRANCH_IMM:
		out = fmt.Sprintf("%v.%v%v %d", ins.Class, ins.Cond, modeString(false, false, ins.V), int32(ins.Imm))
	default:
		out = ins.Class.String()
	}

	return
}
