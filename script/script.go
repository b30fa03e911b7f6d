// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script runs Starlark conformance scripts against an emulator.
//
// Scripts see every emulator define (opcode, condition and memory-op names,
// LINK, MEMORY_SIZE) as a predeclared integer, plus builtins to encode
// instructions, poke at the machine, and step it.
package script

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/risc5/cpu"
	"github.com/ezrec/risc5/emulator"
	"github.com/ezrec/risc5/internal"
	"github.com/ezrec/risc5/memory"
)

var _fault_names = [](struct {
	err  error
	name string
}){
	{memory.ErrOutOfBounds, "out_of_bounds"},
	{memory.ErrMisaligned, "misaligned"},
	{cpu.ErrMalformedInstruction, "malformed_instruction"},
	{cpu.ErrUnknownInstruction, "unknown_instruction"},
	{cpu.ErrUnknownRegisterOpcode, "unknown_register_opcode"},
	{cpu.ErrDivisionByZero, "division_by_zero"},
	{cpu.ErrHalted, "halted"},
}

// FaultName returns the script name of a machine fault, or "" if err is
// not one.
func FaultName(err error) string {
	for _, fault := range _fault_names {
		if errors.Is(err, fault.err) {
			return fault.name
		}
	}

	return ""
}

type builtinFunc func(h *Harness, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var _builtins = map[string]builtinFunc{
	"reg_op":      (*Harness).regOp,
	"imm_op":      (*Harness).immOp,
	"mem_op":      (*Harness).memOp,
	"br_reg":      (*Harness).brReg,
	"br_imm":      (*Harness).brImm,
	"halt":        (*Harness).halt,
	"write_words": (*Harness).writeWords,
	"write_byte":  (*Harness).writeByte,
	"read_word":   (*Harness).readWord,
	"read_byte":   (*Harness).readByte,
	"reg":         (*Harness).reg,
	"set_reg":     (*Harness).setReg,
	"pc":          (*Harness).pc,
	"set_pc":      (*Harness).setPc,
	"h":           (*Harness).remainder,
	"flags":       (*Harness).flags,
	"set_flags":   (*Harness).setFlags,
	"halted":      (*Harness).halted,
	"reset":       (*Harness).reset,
	"step":        (*Harness).step,
	"try_step":    (*Harness).tryStep,
	"run":         (*Harness).run,
	"assert_eq":   (*Harness).assertEq,
}

// Harness binds scripts to an emulator.
type Harness struct {
	Verbose  bool               // If set, enables verbose logging.
	Emulator *emulator.Emulator // Machine the scripts drive.
	Output   io.Writer          // Destination of print(). If nil, output is logged.
}

// NewHarness creates a harness around an emulator.
func NewHarness(emu *emulator.Emulator) *Harness {
	return &Harness{
		Emulator: emu,
	}
}

// Predeclared returns the constants and builtins visible to scripts.
func (h *Harness) Predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{}

	for key, value := range internal.IterSeq2Sorted(h.Emulator.Defines()) {
		pred[key] = starlark.MakeUint64(uint64(value))
	}

	for name, fn := range _builtins {
		pred[name] = starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return fn(h, b.Name(), args, kwargs)
		})
	}

	return
}

// Exec runs a script. If src is nil, filename is read.
func (h *Harness) Exec(filename string, src any) (globals starlark.StringDict, err error) {
	defer func() {
		if err != nil {
			err = &ErrScript{File: filename, Err: err}
		}
	}()

	if h.Verbose {
		log.Printf("script: %v", filename)
	}

	thread := &starlark.Thread{
		Name:  filename,
		Print: h.print,
	}

	opts := syntax.FileOptions{}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, h.Predeclared())
	return
}

func (h *Harness) print(thread *starlark.Thread, msg string) {
	if h.Output == nil {
		log.Printf("%v: %v", thread.Name, msg)
		return
	}

	fmt.Fprintln(h.Output, msg)
}

func checkRange(name string, value, lo, hi int64) (err error) {
	if value < lo || value > hi {
		err = errors.Join(ErrArgument, errors.New(f("%v: %v not in [%v, %v]", name, value, lo, hi)))
	}
	return
}

func checkReg(name string, regs ...int) (err error) {
	for _, reg := range regs {
		err = checkRange(name, int64(reg), 0, cpu.REGISTER_COUNT-1)
		if err != nil {
			return
		}
	}
	return
}

// checkWord accepts both signed and unsigned spellings of a 32-bit value.
func checkWord(name string, value int64) (word uint32, err error) {
	err = checkRange(name, value, math.MinInt32, math.MaxUint32)
	word = uint32(value)
	return
}

func codeValue(code cpu.Code) starlark.Value {
	return starlark.MakeUint64(uint64(code))
}

func wordValue(word uint32) starlark.Value {
	return starlark.MakeUint64(uint64(word))
}

func (h *Harness) regOp(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var op, a, b, c int
	var u, v bool
	err = starlark.UnpackArgs(name, args, kwargs, "op", &op, "a", &a, "b", &b, "c", &c, "u?", &u, "v?", &v)
	if err != nil {
		return
	}
	if err = checkRange(name, int64(op), 0, 15); err != nil {
		return
	}
	if err = checkReg(name, a, b, c); err != nil {
		return
	}

	rc = codeValue(cpu.MakeCodeRegister(cpu.CodeRegOp(op), a, b, c, u, v))
	return
}

func (h *Harness) immOp(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var op, a, b, imm int
	var u, v bool
	err = starlark.UnpackArgs(name, args, kwargs, "op", &op, "a", &a, "b", &b, "imm", &imm, "u?", &u, "v?", &v)
	if err != nil {
		return
	}
	if err = checkRange(name, int64(op), 0, 15); err != nil {
		return
	}
	if err = checkReg(name, a, b); err != nil {
		return
	}
	if err = checkRange(name, int64(imm), math.MinInt16, math.MaxUint16); err != nil {
		return
	}

	rc = codeValue(cpu.MakeCodeImmediate(cpu.CodeRegOp(op), a, b, uint16(imm), u, v))
	return
}

func (h *Harness) memOp(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var op, a, b, off int
	err = starlark.UnpackArgs(name, args, kwargs, "op", &op, "a", &a, "b", &b, "off", &off)
	if err != nil {
		return
	}
	if err = checkRange(name, int64(op), int64(cpu.MEM_OP_LDW), int64(cpu.MEM_OP_STB)); err != nil {
		return
	}
	if err = checkReg(name, a, b); err != nil {
		return
	}
	if err = checkRange(name, int64(off), -(1 << 19), (1<<19)-1); err != nil {
		return
	}

	rc = codeValue(cpu.MakeCodeMemory(cpu.CodeMemOp(op), a, b, int32(off)))
	return
}

func (h *Harness) brReg(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var cond, c int
	var link bool
	err = starlark.UnpackArgs(name, args, kwargs, "cond", &cond, "c", &c, "link?", &link)
	if err != nil {
		return
	}
	if err = checkRange(name, int64(cond), 0, 15); err != nil {
		return
	}
	if err = checkReg(name, c); err != nil {
		return
	}

	rc = codeValue(cpu.MakeCodeBranchReg(cpu.CodeCond(cond), c, link))
	return
}

func (h *Harness) brImm(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var cond, off int
	var link bool
	err = starlark.UnpackArgs(name, args, kwargs, "cond", &cond, "off", &off, "link?", &link)
	if err != nil {
		return
	}
	if err = checkRange(name, int64(cond), 0, 15); err != nil {
		return
	}
	if err = checkRange(name, int64(off), -(1 << 23), (1<<23)-1); err != nil {
		return
	}

	rc = codeValue(cpu.MakeCodeBranchImm(cpu.CodeCond(cond), int32(off), link))
	return
}

func (h *Harness) halt(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	rc = codeValue(cpu.MakeCodeHalt())
	return
}

func (h *Harness) writeWords(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var addr int64
	var list *starlark.List
	err = starlark.UnpackArgs(name, args, kwargs, "addr", &addr, "words", &list)
	if err != nil {
		return
	}
	base, err := checkWord(name, addr)
	if err != nil {
		return
	}
	if base%memory.WORD_SIZE != 0 {
		err = &memory.ErrAccess{Address: base, Size: memory.WORD_SIZE, Err: memory.ErrMisaligned}
		return
	}

	seg := cpu.Segment{Address: base}
	for n := range list.Len() {
		var value int64
		err = starlark.AsInt(list.Index(n), &value)
		if err != nil {
			return
		}
		var word uint32
		word, err = checkWord(name, value)
		if err != nil {
			return
		}
		seg.Codes = append(seg.Codes, cpu.Code(word))
	}

	err = h.Emulator.Load(seg.Address, seg.Binary())
	if err != nil {
		return
	}

	rc = starlark.None
	return
}

func (h *Harness) writeByte(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var addr int64
	var value int
	err = starlark.UnpackArgs(name, args, kwargs, "addr", &addr, "value", &value)
	if err != nil {
		return
	}
	where, err := checkWord(name, addr)
	if err != nil {
		return
	}
	if err = checkRange(name, int64(value), math.MinInt8, math.MaxUint8); err != nil {
		return
	}

	err = h.Emulator.Memory.StoreByte(where, uint8(value))
	if err != nil {
		return
	}

	rc = starlark.None
	return
}

func (h *Harness) readWord(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var addr int64
	err = starlark.UnpackArgs(name, args, kwargs, "addr", &addr)
	if err != nil {
		return
	}
	where, err := checkWord(name, addr)
	if err != nil {
		return
	}

	word, err := h.Emulator.Memory.FetchWord(where)
	if err != nil {
		return
	}

	rc = wordValue(word)
	return
}

func (h *Harness) readByte(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var addr int64
	err = starlark.UnpackArgs(name, args, kwargs, "addr", &addr)
	if err != nil {
		return
	}
	where, err := checkWord(name, addr)
	if err != nil {
		return
	}

	value, err := h.Emulator.Memory.FetchByte(where)
	if err != nil {
		return
	}

	rc = starlark.MakeInt(int(value))
	return
}

func (h *Harness) reg(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var index int
	err = starlark.UnpackArgs(name, args, kwargs, "index", &index)
	if err != nil {
		return
	}

	value, err := h.Emulator.Cpu.Reg(index)
	if err != nil {
		return
	}

	rc = wordValue(value)
	return
}

func (h *Harness) setReg(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var index int
	var value int64
	err = starlark.UnpackArgs(name, args, kwargs, "index", &index, "value", &value)
	if err != nil {
		return
	}
	word, err := checkWord(name, value)
	if err != nil {
		return
	}

	err = h.Emulator.Cpu.SetReg(index, word)
	if err != nil {
		return
	}

	rc = starlark.None
	return
}

func (h *Harness) pc(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	rc = wordValue(h.Emulator.Cpu.Pc)
	return
}

func (h *Harness) setPc(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var value int64
	err = starlark.UnpackArgs(name, args, kwargs, "value", &value)
	if err != nil {
		return
	}
	if err = checkRange(name, value, 0, math.MaxUint32); err != nil {
		return
	}

	h.Emulator.Cpu.Pc = uint32(value)
	rc = starlark.None
	return
}

func (h *Harness) remainder(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	rc = wordValue(h.Emulator.Cpu.H)
	return
}

func (h *Harness) flags(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	fl := h.Emulator.Cpu.Flags
	dict := starlark.NewDict(4)
	for _, entry := range [](struct {
		key string
		set bool
	}){{"n", fl.N}, {"z", fl.Z}, {"c", fl.C}, {"v", fl.V}} {
		err = dict.SetKey(starlark.String(entry.key), starlark.Bool(entry.set))
		if err != nil {
			return
		}
	}

	rc = dict
	return
}

func (h *Harness) setFlags(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var fl cpu.Flags
	err = starlark.UnpackArgs(name, args, kwargs, "n?", &fl.N, "z?", &fl.Z, "c?", &fl.C, "v?", &fl.V)
	if err != nil {
		return
	}

	h.Emulator.Cpu.Flags = fl
	rc = starlark.None
	return
}

func (h *Harness) halted(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	rc = starlark.Bool(h.Emulator.Cpu.Halted)
	return
}

func (h *Harness) reset(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	// Registers only: memory written by the script stays in place.
	h.Emulator.Cpu.Reset()
	rc = starlark.None
	return
}

func (h *Harness) step(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	done, err := h.Emulator.Tick()
	if err != nil {
		return
	}

	rc = starlark.Bool(done)
	return
}

func (h *Harness) tryStep(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	err = starlark.UnpackArgs(name, args, kwargs)
	if err != nil {
		return
	}

	rc = starlark.None

	if h.Emulator.Cpu.Halted {
		rc = starlark.String(FaultName(cpu.ErrHalted))
		return
	}

	_, err = h.Emulator.Tick()
	if err != nil {
		fault := FaultName(err)
		if len(fault) == 0 {
			return
		}
		err = nil
		rc = starlark.String(fault)
	}

	return
}

func (h *Harness) run(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var maxSteps int
	err = starlark.UnpackArgs(name, args, kwargs, "max_steps?", &maxSteps)
	if err != nil {
		return
	}

	steps, err := h.Emulator.Run(maxSteps)
	if err != nil {
		return
	}

	rc = starlark.MakeInt(steps)
	return
}

func (h *Harness) assertEq(name string, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var got, want starlark.Value
	var msg string
	err = starlark.UnpackArgs(name, args, kwargs, "got", &got, "want", &want, "msg?", &msg)
	if err != nil {
		return
	}

	same, err := starlark.Equal(got, want)
	if err != nil {
		return
	}
	if !same {
		err = errors.Join(ErrAssert, errors.New(f("%v: got %v, want %v", msg, got, want)))
		return
	}

	rc = starlark.None
	return
}
