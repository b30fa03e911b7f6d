package cpu

import (
	"encoding/binary"
	"iter"
)

// Segment is a run of instruction (or data) words placed at a byte address.
type Segment struct {
	Label   string
	Address uint32 // Byte address, word aligned.
	Codes   []Code
}

// Pc returns the word address of the first word of the segment.
func (seg *Segment) Pc() uint32 {
	return seg.Address / 4
}

// Program is a memory image made of segments.
type Program struct {
	Segments []Segment
}

// Debug locates the segment and word index that pc falls in.
type Debug struct {
	*Segment
	Index int
}

// Append adds a labelled segment at a byte address.
func (prog *Program) Append(label string, address uint32, codes ...Code) {
	prog.Segments = append(prog.Segments, Segment{
		Label:   label,
		Address: address,
		Codes:   codes,
	})
}

// Debug finds the segment holding the word at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, seg := range prog.Segments {
		if pc >= seg.Pc() && pc < seg.Pc()+uint32(len(seg.Codes)) {
			dbg = Debug{
				Segment: &prog.Segments[n],
				Index:   int(pc - seg.Pc()),
			}
			break
		}
	}

	return
}

// Codes iterates over every word of the program, with its word address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, seg := range prog.Segments {
			pc := seg.Pc()
			for n, code := range seg.Codes {
				if !yield(pc+uint32(n), code) {
					return
				}
			}
		}
	}
}

// Binary renders a segment as raw little-endian bytes.
func (seg *Segment) Binary() (bin []byte) {
	bin = make([]byte, 0, 4*len(seg.Codes))
	for _, code := range seg.Codes {
		bin = binary.LittleEndian.AppendUint32(bin, uint32(code))
	}

	return
}
