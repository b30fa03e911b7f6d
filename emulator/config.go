package emulator

import (
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/risc5/memory"
)

// Config describes an emulator and the image it runs.
type Config struct {
	MemorySize       uint32 `toml:"memory_size"`       // Bytes, a multiple of 4.
	MaxSteps         int    `toml:"max_steps"`         // Zero runs until halt.
	ConventionalZero bool   `toml:"conventional_zero"` // Z set on a zero result.
	Verbose          bool   `toml:"verbose"`
	Image            string `toml:"image"`        // Raw little-endian image file.
	LoadAddress      uint32 `toml:"load_address"` // Byte address of the image.
	Entry            uint32 `toml:"entry"`        // Initial pc, in words.
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		MemorySize: memory.DEFAULT_CAPACITY,
		MaxSteps:   1_000_000,
	}
}

// ParseConfig decodes TOML text over the defaults.
func ParseConfig(text string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = &ErrConfig{Key: undecoded[0].String(), Err: ErrUnknownKey}
		return
	}

	err = cfg.Validate()
	return
}

// LoadConfig reads a TOML configuration file. A relative image path is
// taken relative to the directory of the file.
func LoadConfig(path string) (cfg Config, err error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return
	}

	cfg, err = ParseConfig(string(text))
	if err != nil {
		return
	}

	if len(cfg.Image) != 0 && !filepath.IsAbs(cfg.Image) {
		cfg.Image = filepath.Join(filepath.Dir(path), cfg.Image)
	}

	return
}

// Validate checks the settings against the machine's constraints.
func (cfg *Config) Validate() (err error) {
	switch {
	case cfg.MemorySize == 0 || cfg.MemorySize%memory.WORD_SIZE != 0:
		err = &ErrConfig{Key: "memory_size", Err: ErrInvalidValue}
	case cfg.MaxSteps < 0:
		err = &ErrConfig{Key: "max_steps", Err: ErrInvalidValue}
	case cfg.LoadAddress%memory.WORD_SIZE != 0 || cfg.LoadAddress >= cfg.MemorySize:
		err = &ErrConfig{Key: "load_address", Err: ErrInvalidValue}
	case uint64(cfg.Entry)*memory.WORD_SIZE >= uint64(cfg.MemorySize):
		err = &ErrConfig{Key: "entry", Err: ErrInvalidValue}
	}

	return
}

// NewEmulatorConfig creates an emulator from a configuration, loads its
// image (if any), and resets it ready to run.
func NewEmulatorConfig(cfg Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	emu, err = NewEmulator(cfg.MemorySize)
	if err != nil {
		return
	}

	emu.Verbose = cfg.Verbose
	emu.Cpu.ConventionalZero = cfg.ConventionalZero
	emu.MaxSteps = cfg.MaxSteps
	emu.Entry = cfg.Entry

	if len(cfg.Image) != 0 {
		var inf *os.File
		inf, err = os.Open(cfg.Image)
		if err != nil {
			return
		}
		defer inf.Close()

		if emu.Verbose {
			log.Printf("emulator: image %v", cfg.Image)
		}

		err = emu.LoadImage(inf, cfg.LoadAddress)
		if err != nil {
			return
		}
	}

	err = emu.Reset()
	return
}
