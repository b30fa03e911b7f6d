package cpu

import (
	"math"
	"math/bits"
)

// aluResult is the uncommitted outcome of a register operation.
type aluResult struct {
	Value uint32
	Flags Flags
	H     uint32
}

// doAlu performs the register operation op on input b and operand n.
// The cpu state is read (flags, H) but never written.
func (cpu *Cpu) doAlu(op CodeRegOp, q, u, v bool, b uint32, n uint32) (out aluResult, err error) {
	out.H = cpu.H

	var carry, overflow bool

	switch op {
	case REG_OP_MOV:
		switch {
		case !u:
			out.Value = n
		case q:
			out.Value = n << 16
		case v:
			out.Value = uint32(cpu.Flags.Byte())
		default:
			out.Value = cpu.H
		}
	case REG_OP_LSL:
		out.Value = b << (n & 0x1f)
	case REG_OP_ASR:
		out.Value = uint32(int32(b) >> (n & 0x1f))
	case REG_OP_ROR:
		out.Value = bits.RotateLeft32(b, -int(n&0x1f))
	case REG_OP_AND:
		out.Value = b & n
	case REG_OP_ANN:
		out.Value = b & ^n
	case REG_OP_IOR:
		out.Value = b | n
	case REG_OP_XOR:
		out.Value = b ^ n
	case REG_OP_ADD:
		var cin uint32
		if u && cpu.Flags.C {
			cin = 1
		}
		sum, cout := bits.Add32(b, n, cin)
		out.Value = sum
		carry = cout != 0
		overflow = ((b^sum)&(n^sum))>>31 != 0
	case REG_OP_SUB:
		var bin uint32
		if u && cpu.Flags.C {
			bin = 1
		}
		diff, bout := bits.Sub32(b, n, bin)
		out.Value = diff
		carry = bout != 0
		overflow = ((b^n)&(b^diff))>>31 != 0
	case REG_OP_MUL:
		if u {
			_, lo := bits.Mul32(b, n)
			out.Value = lo
		} else {
			out.Value = uint32(int64(int32(b)) * int64(int32(n)))
		}
	case REG_OP_DIV:
		if n == 0 {
			err = ErrDivisionByZero
			return
		}
		if u {
			out.Value = b / n
			out.H = b % n
		} else {
			sb, sn := int32(b), int32(n)
			if sb == math.MinInt32 && sn == -1 {
				overflow = true
			}
			out.Value = uint32(sb / sn)
			out.H = uint32(sb % sn)
		}
	default:
		err = ErrUnknownRegisterOpcode
		return
	}

	out.Flags = Flags{
		N: (out.Value >> 31) != 0,
		Z: cpu.zero(out.Value),
		C: carry,
		V: overflow,
	}

	return
}

// zero computes the Z flag for an ALU result.
//
// NOTE: unless ConventionalZero is set, Z is set for a *non-zero* result.
// This is the polarity of the reference interpreter this simulator tracks;
// the RISC5 architecture sets Z for a zero result.
func (cpu *Cpu) zero(value uint32) bool {
	if cpu.ConventionalZero {
		return value == 0
	}
	return value != 0
}
