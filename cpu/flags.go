package cpu

// Packed flag bit positions, as read back by MOV.
const (
	FLAG_V = uint8(1 << 0) // Overflow
	FLAG_C = uint8(1 << 1) // Carry
	FLAG_Z = uint8(1 << 2) // Zero
	FLAG_N = uint8(1 << 3) // Negative
)

// Flags are the condition outputs of the last ALU operation.
type Flags struct {
	N bool // Negative
	Z bool // Zero
	C bool // Carry
	V bool // Overflow
}

// Byte packs the flags.
func (fl Flags) Byte() (value uint8) {
	if fl.N {
		value |= FLAG_N
	}
	if fl.Z {
		value |= FLAG_Z
	}
	if fl.C {
		value |= FLAG_C
	}
	if fl.V {
		value |= FLAG_V
	}
	return
}

// FlagsFromByte unpacks flags.
func FlagsFromByte(value uint8) Flags {
	return Flags{
		N: (value & FLAG_N) != 0,
		Z: (value & FLAG_Z) != 0,
		C: (value & FLAG_C) != 0,
		V: (value & FLAG_V) != 0,
	}
}

// String renders set flags as upper case letters, clear flags as dashes.
func (fl Flags) String() string {
	out := []byte("----")
	for n, set := range []bool{fl.N, fl.Z, fl.C, fl.V} {
		if set {
			out[n] = "NZCV"[n]
		}
	}
	return string(out)
}
