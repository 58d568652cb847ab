package io

import (
	"io"
	"os"
)

// WriteFile creates a file, and fills it with the fill function.
// The file is closed before returning; a close error is reported
// if fill succeeded.
func WriteFile(path string, fill func(w io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := file.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = fill(file)
	return
}
