package main

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrDumpWithDisassemble = errors.New(f("-m is not valid with -d"))
	ErrUsage               = errors.New(f("usage: chip8 [flags] ROM | chip8 [flags] -a SOURCE"))
)
