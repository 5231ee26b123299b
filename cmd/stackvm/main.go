// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/stackvm/assembler"
	"github.com/ezrec/stackvm/bytecode"
	"github.com/ezrec/stackvm/emulator"
	"github.com/ezrec/stackvm/internal"
)

const usage = `usage:
  %[1]v assemble [-v] <source.s> <output.bin>
  %[1]v run [-c machine.toml] [-i input | -e values] [-o output] [-v] <program.bin>
  %[1]v disassemble [-n] <program.bin> <listing.s>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	args := os.Args[2:]

	switch os.Args[1] {
	case "assemble":
		doAssemble(args)
	case "run":
		doRun(args)
	case "disassemble":
		doDisassemble(args)
	default:
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		log.Fatalf("%v: unknown command %v", os.Args[0], os.Args[1])
	}
}

// create opens an output file, or stdout for "-".
func create(path string) (file *os.File) {
	if path == "-" {
		return os.Stdout
	}

	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	return
}

func doAssemble(args []string) {
	var verbose bool

	fs := flag.NewFlagSet("assemble", flag.ExitOnError)
	fs.BoolVar(&verbose, "v", false, "Verbose mode")
	fs.Parse(args)

	if fs.NArg() != 2 {
		log.Fatalf("assemble: expected <source> <output>, got %v", fs.Args())
	}
	input, output := fs.Arg(0), fs.Arg(1)

	source, err := internal.MapFile(input)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ouf := create(output)

	asm := &assembler.Assembler{Verbose: verbose}
	err = asm.Translate(source, ouf)
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		if ouf != os.Stdout {
			os.Remove(output)
		}
		log.Fatalf("%v: %v", input, err)
	}
}

func doRun(args []string) {
	var config string
	var input string
	var values string
	var output string
	var verbose bool

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.StringVar(&config, "c", "", "Machine configuration (.toml)")
	fs.StringVar(&input, "i", "-", "Console input")
	fs.StringVar(&values, "e", "", "Console input values, in place of -i")
	fs.StringVar(&output, "o", "-", "Console output")
	fs.BoolVar(&verbose, "v", false, "Verbose mode")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatalf("run: expected <program>, got %v", fs.Args())
	}
	program := fs.Arg(0)

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}
	cfg.Verbose = cfg.Verbose || verbose

	code, err := internal.MapFile(program)
	if err != nil {
		log.Fatalf("%v", err)
	}

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatalf("%v: %v", config, err)
	}

	if len(values) != 0 {
		script := []float64{}
		for _, word := range strings.Fields(values) {
			value, err := strconv.ParseFloat(word, 64)
			if err != nil {
				log.Fatalf("-e: %v", err)
			}
			script = append(script, value)
		}
		emu.Script(script...)
	} else if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	ouf := create(output)
	defer ouf.Close()
	emu.Tape.Output = ouf

	emu.Load(code)
	err = emu.Run()
	if err != nil {
		if verbose {
			log.Printf("cpu:\n%v", emu.Cpu)
		}
		ouf.Close()
		log.Fatalf("%v: %v", program, err)
	}
}

func doDisassemble(args []string) {
	var bare bool

	fs := flag.NewFlagSet("disassemble", flag.ExitOnError)
	fs.BoolVar(&bare, "n", false, "Omit offset comments")
	fs.Parse(args)

	if fs.NArg() != 2 {
		log.Fatalf("disassemble: expected <program> <listing>, got %v", fs.Args())
	}
	input, output := fs.Arg(0), fs.Arg(1)

	code, err := internal.MapFile(input)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ouf := create(output)

	err = bytecode.DisassembleAll(code, ouf, !bare)
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
}
