package script

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/ezrec/risc5/cpu"
	"github.com/ezrec/risc5/emulator"
	"github.com/ezrec/risc5/memory"
)

func newHarness(t *testing.T) *Harness {
	emu, err := emulator.NewEmulator(1024)
	require.NoError(t, err)
	return NewHarness(emu)
}

func TestHarness_Scripts(t *testing.T) {
	files, err := filepath.Glob("testdata/*.star")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			h := newHarness(t)
			_, err := h.Exec(file, nil)
			assert.NoError(t, err)
		})
	}
}

func TestHarness_Predeclared(t *testing.T) {
	assert := assert.New(t)

	h := newHarness(t)
	globals, err := h.Exec("defines.star", `
add = ADD
eq = EQ
stb = STB
link = LINK
size = MEMORY_SIZE
word = reg_op(ADD, 2, 0, 1)
`)
	require.NoError(t, err)

	table := [](struct {
		name  string
		value uint64
	}){
		{"add", uint64(cpu.REG_OP_ADD)},
		{"eq", uint64(cpu.COND_EQ)},
		{"stb", uint64(cpu.MEM_OP_STB)},
		{"link", cpu.REGISTER_LINK},
		{"size", 1024},
		{"word", 0x0208_0001},
	}

	for _, entry := range table {
		value, ok := globals[entry.name].(starlark.Int)
		if assert.True(ok, entry.name) {
			got, ok := value.Uint64()
			assert.True(ok, entry.name)
			assert.Equal(entry.value, got, entry.name)
		}
	}
}

func TestHarness_Encoders(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		expr string
		code cpu.Code
	}){
		{"imm_op(MOV, 3, 0, 0x1234, u = True)", cpu.MakeCodeImmediate(cpu.REG_OP_MOV, 3, 0, 0x1234, true, false)},
		{"imm_op(SUB, 4, 5, -1, v = True)", cpu.MakeCodeImmediate(cpu.REG_OP_SUB, 4, 5, 0xffff, false, true)},
		{"mem_op(STB, 3, 4, -1)", cpu.MakeCodeMemory(cpu.MEM_OP_STB, 3, 4, -1)},
		{"br_reg(NE, 3, link = True)", cpu.MakeCodeBranchReg(cpu.COND_NE, 3, true)},
		{"br_imm(EQ, 5, True)", cpu.MakeCodeBranchImm(cpu.COND_EQ, 5, true)},
		{"halt()", cpu.MakeCodeHalt()},
	}

	for _, entry := range table {
		h := newHarness(t)
		globals, err := h.Exec("encode.star", "code = "+entry.expr+"\n")
		if !assert.NoError(err, entry.expr) {
			continue
		}
		value, ok := globals["code"].(starlark.Int)
		if assert.True(ok, entry.expr) {
			got, _ := value.Uint64()
			assert.Equal(uint64(entry.code), got, entry.expr)
		}
	}
}

func TestHarness_Arguments(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"reg_op(ADD, 16, 0, 0)",
		"reg_op(16, 0, 0, 0)",
		"imm_op(MOV, 0, 0, 0x10000)",
		"mem_op(MOV, 0, 0, 0)",
		"mem_op(LDW, 0, 0, 0x80000)",
		"br_imm(AL, 0x800000)",
		"set_reg(0, 0x100000000)",
		"write_byte(0, 256)",
	}

	for _, expr := range table {
		h := newHarness(t)
		_, err := h.Exec("args.star", expr+"\n")
		assert.ErrorIs(err, ErrArgument, expr)
	}

	h := newHarness(t)
	_, err := h.Exec("args.star", "reg(16)\n")
	assert.ErrorIs(err, cpu.ErrRegister)

	_, err = h.Exec("args.star", "write_words(2, [0])\n")
	assert.ErrorIs(err, memory.ErrMisaligned)
}

func TestHarness_Fault(t *testing.T) {
	assert := assert.New(t)

	h := newHarness(t)
	_, err := h.Exec("fault.star", `
write_words(0, [reg_op(DIV, 1, 2, 3)])
step()
`)
	assert.ErrorIs(err, cpu.ErrDivisionByZero)

	var serr *ErrScript
	if assert.True(errors.As(err, &serr)) {
		assert.Equal("fault.star", serr.File)
	}

	var runtime *emulator.ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(uint32(0), runtime.Pc)
	}
}

func TestHarness_Assert(t *testing.T) {
	assert := assert.New(t)

	h := newHarness(t)
	_, err := h.Exec("assert.star", "assert_eq(1, 1)\nassert_eq(reg(0), 2, \"r0\")\n")
	assert.ErrorIs(err, ErrAssert)
	assert.Contains(err.Error(), "r0")

	_, err = h.Exec("syntax.star", "def (\n")
	assert.Error(err)
}

func TestHarness_Print(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	h := newHarness(t)
	h.Output = out

	_, err := h.Exec("print.star", `print("pc", pc())`)
	assert.NoError(err)
	assert.Equal("pc 0\n", out.String())

	out.Reset()
	_, err = h.Exec("flags.star", `
set_flags(n = True, c = True)
print(flags())
print(list(flags().keys()))
`)
	assert.NoError(err)
	assert.Equal(`{"n": True, "z": False, "c": True, "v": False}`+"\n"+
		`["n", "z", "c", "v"]`+"\n", out.String())
}

func TestFaultName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("division_by_zero", FaultName(errors.Join(cpu.ErrOpcode(0), cpu.ErrDivisionByZero)))
	assert.Equal("out_of_bounds", FaultName(&memory.ErrAccess{Err: memory.ErrOutOfBounds}))
	assert.Equal("misaligned", FaultName(&emulator.ErrRuntime{Err: memory.ErrMisaligned}))
	assert.Equal("halted", FaultName(cpu.ErrHalted))
	assert.Equal("", FaultName(ErrAssert))
	assert.Equal("", FaultName(nil))
}
