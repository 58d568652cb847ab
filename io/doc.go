// Package io provides the devices around the CHIP-8 core: the hex keypad,
// the display frame hand-off to a renderer, and ROM and dump files.
package io
