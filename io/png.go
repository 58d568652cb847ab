package io

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Image returns the frame as a grayscale image, scaled up by scale.
func (fr *Frame) Image(scale int) *image.Gray {
	src := image.NewGray(image.Rect(0, 0, fr.Width, fr.Height))
	for n, lit := range fr.Pixels {
		if lit {
			src.Pix[n] = 0xFF
		}
	}

	if scale <= 1 {
		return src
	}

	dst := image.NewGray(image.Rect(0, 0, fr.Width*scale, fr.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}

// EncodePNG writes the frame as a PNG image, scaled up by scale.
func EncodePNG(w io.Writer, frame *Frame, scale int) error {
	return png.Encode(w, frame.Image(scale))
}
