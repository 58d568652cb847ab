package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Video errors
	ErrVideoClosed = errors.New(f("video closed"))

	// Keypad errors
	ErrKeyInvalid = errors.New(f("key invalid"))
)
