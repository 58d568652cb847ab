// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	chipio "github.com/ezrec/chip8/io"
)

const (
	FRAME_RATE             = 60 // Frames (timer ticks) per second.
	INSTRUCTIONS_PER_FRAME = 10 // Default instructions executed per frame.
)

var _emulator_defines = map[string]string{
	"FRAME_RATE":             fmt.Sprintf("%v", FRAME_RATE),
	"INSTRUCTIONS_PER_FRAME": fmt.Sprintf("%v", INSTRUCTIONS_PER_FRAME),
}

// Emulator state. CPU + display + keypad + video hand-off.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the running program, if assembled.

	Keypad chipio.Keypad // Hex keypad, read by the CPU.
	Video  *chipio.Video // Display frames, to the renderer.

	InstructionsPerFrame int // Instructions executed per frame.
	FrameRate            int // Frames per second.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:                  cpu.NewCpu(cpu.NewDisplay(cpu.DISPLAY_WIDTH, cpu.DISPLAY_HEIGHT)),
		Program:              &cpu.Program{},
		Video:                chipio.NewVideo(),
		InstructionsPerFrame: INSTRUCTIONS_PER_FRAME,
		FrameRate:            FRAME_RATE,
	}

	emu.Cpu.Keypad = &emu.Keypad

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the machine state, and blank the display.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Display.Clear()
}

// Load resets the machine and loads a ROM image.
func (emu *Emulator) Load(rom []byte) (n int) {
	emu.Reset()
	n = emu.Cpu.LoadRom(rom)
	if n < len(rom) {
		log.Printf("emulator: rom truncated to %d of %d bytes", n, len(rom))
	}

	return
}

// LoadProgram resets the machine and loads an assembled program.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (n int) {
	emu.Program = prog
	return emu.Load(prog.Binary())
}

// Dump writes the raw memory image.
func (emu *Emulator) Dump(w io.Writer) (err error) {
	_, err = emu.Cpu.Dump(w)
	return
}

// LineNo returns the source line number of the instruction at PC, if known.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// publish hands any pending display change to the renderer.
func (emu *Emulator) publish() (err error) {
	display := emu.Cpu.Display

	signal := display.Take()
	if signal == cpu.SIGNAL_NONE {
		return
	}

	err = emu.Video.Publish(chipio.NewFrame(display, signal))
	if errors.Is(err, chipio.ErrVideoClosed) {
		// Nobody is watching.
		err = nil
	}

	return
}

// Tick performs a single instruction step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running() {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	word, _ := emu.Cpu.Fetch()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Word: word, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	err = emu.publish()
	if err != nil {
		return
	}

	done = !emu.Cpu.Running()

	return
}

// Frame runs one frame worth of instructions, then ticks the timers.
func (emu *Emulator) Frame() (done bool, err error) {
	count := emu.InstructionsPerFrame
	if count <= 0 {
		count = INSTRUCTIONS_PER_FRAME
	}

	for range count {
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	emu.Cpu.TickTimers()

	return
}

// Run runs frames at the frame rate until the program halts, fails with
// an ErrRuntime, or the context is cancelled.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	rate := emu.FrameRate
	if rate <= 0 {
		rate = FRAME_RATE
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-ticker.C:
		}

		var done bool
		done, err = emu.Frame()
		if err != nil || done {
			if emu.Verbose {
				log.Printf("emulator: stopped after %d instructions: %v", emu.Cpu.Ticks, err)
			}
			return
		}
	}
}
