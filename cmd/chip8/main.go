// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/frontend"
	chipio "github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/translate"
)

// assemble parses a source file, with the emulator's predefines.
func assemble(path string, emu *emulator.Emulator, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return asm.Parse(inf)
}

// output writes to the named file, or stdout if there is no name.
func output(path string, fill func(w io.Writer) error) error {
	if len(path) == 0 {
		return fill(os.Stdout)
	}
	return chipio.WriteFile(path, fill)
}

// run runs the emulator until it halts, fails, or is interrupted. Unless
// headless, the emulator runs in the background while the window runs on
// the main goroutine; closing the window stops the emulator.
func run(emu *emulator.Emulator, title string, scale int, headless bool) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if headless {
		err = emu.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return
	}

	done := make(chan error, 1)
	go func() {
		done <- emu.Run(ctx)
		emu.Video.Close()
	}()

	window := frontend.NewWindow(&emu.Keypad, emu.Video)
	werr := window.Run(title, scale)
	cancel()

	err = <-done
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if werr != nil {
		err = werr
	}

	return
}

func main() {
	var disassemble bool
	var source string
	var outfile string
	var dump string
	var verbose bool
	var ipf int
	var scale int
	var headless bool
	var screenshot string

	flag.BoolVar(&disassemble, "d", false, "Disassemble the ROM, do not execute")
	flag.StringVar(&source, "a", "", "Assembly source file to assemble")
	flag.StringVar(&outfile, "o", "", "Output file for -d listing or -a ROM")
	flag.StringVar(&dump, "m", "", "Memory dump file, written after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&ipf, "ipf", emulator.INSTRUCTIONS_PER_FRAME, "Instructions per frame")
	flag.IntVar(&scale, "scale", 10, "Window scale")
	flag.BoolVar(&headless, "headless", false, "Run without a window")
	flag.StringVar(&screenshot, "png", "", "PNG file of the display, written after the run")

	flag.Parse()

	if disassemble && len(dump) != 0 {
		log.Fatalf("%v: %v", os.Args[0], ErrDumpWithDisassemble)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.InstructionsPerFrame = ipf

	var title string
	var rom []byte

	if len(source) != 0 {
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		prog, err := assemble(source, emu, verbose)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}

		rom = prog.Binary()
		if len(outfile) != 0 && !disassemble {
			err = chipio.WriteFile(outfile, func(w io.Writer) (err error) {
				_, err = io.Copy(w, bytes.NewReader(rom))
				return
			})
			if err != nil {
				log.Fatalf("%v: %v", outfile, err)
			}
			return
		}

		emu.LoadProgram(prog)
		title = filepath.Base(source)
	} else {
		if flag.NArg() != 1 {
			log.Fatalf("%v: %v", os.Args[0], ErrUsage)
		}

		var err error
		rom, err = chipio.ReadRomFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}

		emu.Load(rom)
		title = filepath.Base(flag.Arg(0))
	}

	if disassemble {
		err := output(outfile, func(w io.Writer) error {
			return cpu.Disassemble(rom, w)
		})
		if err != nil {
			log.Fatalf("%v: %v", outfile, err)
		}
		return
	}

	err := run(emu, "chip8: "+title, scale, headless)

	// The dump is written even when the run failed.
	if len(dump) != 0 {
		derr := chipio.WriteFile(dump, emu.Dump)
		if derr != nil {
			log.Printf("%v: %v", dump, derr)
		}
	}

	if len(screenshot) != 0 {
		frame := chipio.NewFrame(emu.Cpu.Display, cpu.SIGNAL_NONE)
		serr := chipio.WriteFile(screenshot, func(w io.Writer) error {
			return chipio.EncodePNG(w, &frame, scale)
		})
		if serr != nil {
			log.Printf("%v: %v", screenshot, serr)
		}
	}

	if verbose {
		translate.Fprint(os.Stderr, "%v: %d instructions executed\n", title, emu.Cpu.Ticks)
	}

	if err != nil {
		log.Fatalf("%v: %v", title, err)
	}
}
