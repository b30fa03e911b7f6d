// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/risc5/emulator"
	"github.com/ezrec/risc5/internal"
	"github.com/ezrec/risc5/script"
)

func main() {
	var configFile string
	var verbose bool
	var conventionalZero bool
	var memorySize uint32

	loadConfig := func(cmd *cobra.Command) (cfg emulator.Config) {
		cfg = emulator.DefaultConfig()
		if len(configFile) != 0 {
			var err error
			cfg, err = emulator.LoadConfig(configFile)
			if err != nil {
				log.Fatalf("%v: %v", configFile, err)
			}
		}

		flags := cmd.Flags()
		if flags.Changed("verbose") {
			cfg.Verbose = verbose
		}
		if flags.Changed("conventional-z") {
			cfg.ConventionalZero = conventionalZero
		}
		if flags.Changed("memory") {
			cfg.MemorySize = memorySize
		}

		return
	}

	var rootCmd = &cobra.Command{
		Use:   "risc5",
		Short: "RISC5 instruction set simulator",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	rootCmd.PersistentFlags().BoolVar(&conventionalZero, "conventional-z", false, "Set Z on a zero result")
	rootCmd.PersistentFlags().Uint32Var(&memorySize, "memory", emulator.DefaultConfig().MemorySize, "Memory size in bytes")

	var steps int
	var base uint32
	var entry uint32

	var runCmd = &cobra.Command{
		Use:   "run IMAGE",
		Short: "Run a raw little-endian image until it halts",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)
			cfg.Image = args[0]

			flags := cmd.Flags()
			if flags.Changed("steps") {
				cfg.MaxSteps = steps
			}
			if flags.Changed("base") {
				cfg.LoadAddress = base
			}
			if flags.Changed("entry") {
				cfg.Entry = entry
			}

			emu, err := emulator.NewEmulatorConfig(cfg)
			if err != nil {
				log.Fatalf("%v: %v", cfg.Image, err)
			}

			ran, err := emu.Run(0)
			fmt.Print(emu.Cpu.String())
			if err != nil {
				log.Fatalf("%v: %v", cfg.Image, err)
			}
			if !emu.Halted {
				log.Fatalf("%v: no halt after %d steps", cfg.Image, ran)
			}
		},
	}
	runCmd.Flags().IntVarP(&steps, "steps", "n", 0, "Maximum steps (0 = until halt)")
	runCmd.Flags().Uint32Var(&base, "base", 0, "Load address of the image, in bytes")
	runCmd.Flags().Uint32Var(&entry, "entry", 0, "Initial pc, in words")

	var scriptCmd = &cobra.Command{
		Use:   "script FILE...",
		Short: "Run Starlark conformance scripts",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)

			for _, file := range args {
				emu, err := emulator.NewEmulatorConfig(cfg)
				if err != nil {
					log.Fatalf("%v: %v", file, err)
				}

				h := script.NewHarness(emu)
				h.Verbose = cfg.Verbose
				h.Output = os.Stdout

				_, err = h.Exec(file, nil)
				if err != nil {
					log.Fatal(err)
				}
				fmt.Printf("%v: ok\n", file)
			}
		},
	}

	var definesCmd = &cobra.Command{
		Use:   "defines",
		Short: "List the names predeclared for scripts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)
			cfg.Image = ""

			emu, err := emulator.NewEmulatorConfig(cfg)
			if err != nil {
				log.Fatal(err)
			}

			for name, value := range internal.IterSeq2Sorted(emu.Defines()) {
				fmt.Printf("%-12s %#x\n", name, value)
			}
		},
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(definesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
