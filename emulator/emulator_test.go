package emulator

import (
	"bytes"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/risc5/cpu"
	"github.com/ezrec/risc5/memory"
)

// countdown adds 1 to r0 five times, then halts.
func countdown() *cpu.Program {
	prog := &cpu.Program{}
	prog.Append("main", 0,
		cpu.MakeCodeImmediate(cpu.REG_OP_MOV, 0, 0, 0, false, false),
		cpu.MakeCodeImmediate(cpu.REG_OP_MOV, 1, 0, 5, false, false),
	)
	prog.Append("loop", 8,
		cpu.MakeCodeImmediate(cpu.REG_OP_ADD, 0, 0, 1, false, false),
		cpu.MakeCodeImmediate(cpu.REG_OP_SUB, 1, 1, 1, false, false),
		cpu.MakeCodeBranchImm(cpu.COND_NE, -3, false),
		cpu.MakeCodeHalt(),
	)
	return prog
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(1024)
	require.NoError(t, err)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(uint32(1024), emu.Memory.Capacity())

	_, err = NewEmulator(1023)
	assert.ErrorIs(err, memory.ErrCapacity)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(1024)
	require.NoError(t, err)

	defines := maps.Collect(emu.Defines())
	assert.Equal(uint32(1024), defines["MEMORY_SIZE"])
	assert.Equal(uint32(4), defines["WORD_SIZE"])
	assert.Equal(uint32(cpu.REG_OP_MUL), defines["MUL"])
	assert.Equal(uint32(cpu.COND_GE), defines["GE"])
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(256)
	require.NoError(t, err)

	emu.Program = countdown()
	emu.Cpu.ConventionalZero = true
	require.NoError(t, emu.Reset())

	steps, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal(18, steps)
	assert.True(emu.Halted)
	assert.Equal(uint32(5), emu.Cpu.Pc)
	assert.Equal(uint32(5), emu.Register[0])
	assert.Equal(uint32(0), emu.Register[1])
	assert.Equal("loop", emu.Label())

	// Halted: nothing further executes.
	steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(0, steps)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(18, emu.Cpu.Ticks)
}

func TestEmulator_Run_Limit(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(256)
	require.NoError(t, err)

	emu.Program = countdown()
	emu.Cpu.ConventionalZero = true
	require.NoError(t, emu.Reset())

	steps, err := emu.Run(4)
	assert.NoError(err)
	assert.Equal(4, steps)
	assert.False(emu.Halted)
	assert.Equal(uint32(4), emu.Cpu.Pc)

	emu.MaxSteps = 10
	steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(10, steps)
	assert.False(emu.Halted)

	steps, err = emu.Run(-1)
	assert.NoError(err)
	assert.Equal(4, steps)
	assert.True(emu.Halted)

	// Reset restores the program and clears the machine.
	require.NoError(t, emu.Reset())
	assert.False(emu.Halted)
	assert.Equal(uint32(0), emu.Cpu.Pc)
	assert.Equal(uint32(0), emu.Register[0])
	code, err := emu.Code()
	assert.NoError(err)
	assert.Equal(cpu.MakeCodeImmediate(cpu.REG_OP_MOV, 0, 0, 0, false, false), code)
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(256)
	require.NoError(t, err)

	emu.Program.Append("main", 0,
		cpu.MakeCodeImmediate(cpu.REG_OP_MOV, 1, 0, 1, false, false),
		cpu.MakeCodeRegister(cpu.REG_OP_DIV, 2, 1, 0, false, false),
		cpu.MakeCodeHalt(),
	)
	require.NoError(t, emu.Reset())

	steps, err := emu.Run(0)
	assert.Equal(1, steps)
	assert.ErrorIs(err, cpu.ErrDivisionByZero)
	assert.False(emu.Halted)
	assert.Equal(uint32(1), emu.Cpu.Pc)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(uint32(1), runtime.Pc)
		assert.Equal("main", runtime.Label)
	}

	// Running off the end of memory is a fault too.
	emu.Cpu.Pc = emu.Memory.Words()
	_, err = emu.Tick()
	assert.ErrorIs(err, memory.ErrOutOfBounds)
}

func TestEmulator_Entry(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(256)
	require.NoError(t, err)

	emu.Program = countdown()
	emu.Entry = 2
	require.NoError(t, emu.Reset())
	assert.Equal(uint32(2), emu.Cpu.Pc)

	emu.Register[1] = 1
	steps, err := emu.Run(0)
	assert.NoError(err)
	// The literal Z flag is clear on a zero result, so NE loops once more.
	assert.Equal(7, steps)
	assert.Equal(uint32(2), emu.Register[0])
	assert.Equal(uint32(0xffff_ffff), emu.Register[1])
}

func TestEmulator_LoadImage(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(64)
	require.NoError(t, err)

	image := []byte{
		0x05, 0x00, 0x00, 0x40, // mov r0 5
		0xff, 0xff, 0xff, 0xe7, // halt
		0x12, 0x34, // partial word
	}

	err = emu.LoadImage(bytes.NewReader(image), 16)
	assert.NoError(err)
	if assert.Len(emu.Program.Segments, 1) {
		seg := emu.Program.Segments[0]
		assert.Equal(uint32(16), seg.Address)
		assert.Equal([]cpu.Code{0x4000_0005, 0xe7ff_ffff, 0x0000_3412}, seg.Codes)
	}

	word, err := emu.Memory.FetchWord(24)
	assert.NoError(err)
	assert.Equal(uint32(0x3412), word)

	emu.Entry = 4
	require.NoError(t, emu.Reset())
	steps, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal(2, steps)
	assert.Equal(uint32(5), emu.Register[0])

	err = emu.LoadImage(bytes.NewReader(image), 2)
	assert.ErrorIs(err, memory.ErrMisaligned)

	err = emu.LoadImage(bytes.NewReader(image), 60)
	assert.ErrorIs(err, memory.ErrOutOfBounds)
	assert.Len(emu.Program.Segments, 1)

	// Raw loads are not part of the program.
	assert.NoError(emu.Load(40, []byte{1, 2, 3, 4}))
	require.NoError(t, emu.Reset())
	word, err = emu.Memory.FetchWord(40)
	assert.NoError(err)
	assert.Equal(uint32(0), word)
}

func TestConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig("")
	assert.NoError(err)
	assert.Equal(DefaultConfig(), cfg)

	cfg, err = ParseConfig(`
memory_size = 4096
max_steps = 100
conventional_zero = true
verbose = false
image = "prog.bin"
load_address = 256
entry = 64
`)
	assert.NoError(err)
	assert.Equal(Config{
		MemorySize:       4096,
		MaxSteps:         100,
		ConventionalZero: true,
		Image:            "prog.bin",
		LoadAddress:      256,
		Entry:            64,
	}, cfg)

	table := [](struct {
		text string
		key  string
		err  error
	}){
		{"memory_size = 10", "memory_size", ErrInvalidValue},
		{"memory_size = 0", "memory_size", ErrInvalidValue},
		{"max_steps = -1", "max_steps", ErrInvalidValue},
		{"load_address = 3", "load_address", ErrInvalidValue},
		{"memory_size = 64\nload_address = 64", "load_address", ErrInvalidValue},
		{"memory_size = 64\nentry = 16", "entry", ErrInvalidValue},
		{"bogus = 1", "bogus", ErrUnknownKey},
	}

	for _, entry := range table {
		_, err := ParseConfig(entry.text)
		assert.ErrorIs(err, entry.err, entry.text)
		var cerr *ErrConfig
		if assert.True(errors.As(err, &cerr), entry.text) {
			assert.Equal(entry.key, cerr.Key, entry.text)
		}
	}

	_, err = ParseConfig("memory_size = ")
	assert.Error(err)
}

func TestConfig_Emulator(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	seg := cpu.Segment{Codes: []cpu.Code{
		cpu.MakeCodeImmediate(cpu.REG_OP_MOV, 3, 0, 0x1234, true, false),
		cpu.MakeCodeHalt(),
	}}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prog.bin"), seg.Binary(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "risc5.toml"), []byte(`
memory_size = 1024
image = "prog.bin"
load_address = 128
entry = 32
conventional_zero = true
`), 0o644))

	cfg, err := LoadConfig(filepath.Join(dir, "risc5.toml"))
	require.NoError(t, err)
	assert.Equal(filepath.Join(dir, "prog.bin"), cfg.Image)

	emu, err := NewEmulatorConfig(cfg)
	require.NoError(t, err)
	assert.True(emu.Cpu.ConventionalZero)
	assert.Equal(1_000_000, emu.MaxSteps)
	assert.Equal(uint32(32), emu.Cpu.Pc)

	steps, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal(2, steps)
	assert.Equal(uint32(0x1234_0000), emu.Register[3])

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(err, os.ErrNotExist)

	cfg.Image = filepath.Join(dir, "missing.bin")
	_, err = NewEmulatorConfig(cfg)
	assert.ErrorIs(err, os.ErrNotExist)
}
