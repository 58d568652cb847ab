package io

import (
	"io"
	"os"

	"github.com/ezrec/chip8/cpu"
)

// ReadRom reads a raw ROM image. Input beyond the program area is not read.
func ReadRom(r io.Reader) (rom []byte, err error) {
	return io.ReadAll(io.LimitReader(r, cpu.PROGRAM_SIZE))
}

// ReadRomFile reads a raw ROM image from a file.
func ReadRomFile(path string) (rom []byte, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return ReadRom(file)
}
