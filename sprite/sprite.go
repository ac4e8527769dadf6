/*
Package sprite implements the object image decoder and encoder.

An object image uses the same 4 byte header as a photo followed by one byte
per pixel, again stored bottom row first. Each pixel is either an index into
the 64 colour system palette, coded as 2 bits each of red, green and blue, or
the Transparent value.
*/
package sprite

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/modex/vga"
)

const (
	// MaxWidth is the widest object image supported
	MaxWidth = 160
	// MaxHeight is the tallest object image supported
	MaxHeight = 100

	// Transparent marks a pixel that is not drawn
	Transparent = 0x40

	headerSize = 4
)

var (
	// ErrNotEnough is returned when the header or pixel data is truncated
	ErrNotEnough = errors.New("sprite: not enough image data")
	// ErrTooLarge is returned when the header exceeds MaxWidth or MaxHeight
	ErrTooLarge = errors.New("sprite: image too large")

	errBadPixel = errors.New("sprite: invalid pixel value")
)

func makePalette() color.Palette {
	p := make(color.Palette, 0, vga.SystemColors+1)
	for _, c := range vga.System {
		p = append(p, c)
	}
	return append(p, color.RGBA{})
}

// Palette is the system palette with an extra fully transparent entry at
// index Transparent.
var Palette = makePalette()

// Image is an object image. It is never modified once loaded so it can be
// shared between any number of objects.
type Image struct {
	Width, Height int

	// Pix holds one byte per pixel starting at the top left
	Pix []byte
}

// Bounds returns the image bounds.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// PixelAt returns the pixel at (x, y), or Transparent if the point is outside
// the image.
func (m *Image) PixelAt(x, y int) uint8 {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return Transparent
	}
	return m.Pix[y*m.Width+x]
}

// ColorModel returns Palette.
func (m *Image) ColorModel() color.Model {
	return Palette
}

// At returns the colour of the pixel at (x, y).
func (m *Image) At(x, y int) color.Color {
	return Palette[m.PixelAt(x, y)]
}
