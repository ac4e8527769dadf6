/*
Package photo implements the room photo decoder and encoder.

A photo file is a 4 byte header holding the width and height as little-endian
16-bit values, followed by one little-endian 16-bit 5:6:5 pixel for every
position in the image. Rows are stored bottom row first and each row is
stored left to right. There is no padding or compression.

When a photo is decoded an optimised palette of 192 colours is chosen for it
and every pixel is replaced by a one byte index into the 256 colour DAC,
always in the range 64-255 as the first 64 entries are the system palette.
*/
package photo

import (
	"errors"
	"image"

	"github.com/bodgit/modex/octree"
	"github.com/bodgit/modex/rgb565"
	"github.com/bodgit/modex/vga"
)

const (
	// MaxWidth is the widest photo supported
	MaxWidth = 1024
	// MaxHeight is the tallest photo supported
	MaxHeight = 1024

	headerSize = 4
)

var (
	// ErrNotEnough is returned when the header or pixel data is truncated
	ErrNotEnough = errors.New("photo: not enough image data")
	// ErrTooLarge is returned when the header exceeds MaxWidth or MaxHeight
	ErrTooLarge = errors.New("photo: image too large")
)

// Photo is a quantized room photo.
type Photo struct {
	Width, Height int

	// Palette holds the colours for DAC entries 64-255
	Palette octree.Palette

	// Pix holds one DAC entry per pixel starting at the top left
	Pix []byte
}

// Bounds returns the photo bounds.
func (p *Photo) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// ColorIndexAt returns the DAC entry of the pixel at (x, y), or 0 if the
// point is outside the photo.
func (p *Photo) ColorIndexAt(x, y int) uint8 {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return 0
	}
	return p.Pix[y*p.Width+x]
}

// HardwarePalette returns the complete DAC contents needed to display the
// photo; the system palette followed by the photo palette.
func (p *Photo) HardwarePalette() *vga.Palette {
	var hw vga.Palette
	copy(hw[:vga.PhotoBase], vga.System[:])
	copy(hw[vga.PhotoBase:], p.Palette[:])
	return &hw
}

// Image returns the photo as an *image.Paletted sharing the same pixels.
func (p *Photo) Image() *image.Paletted {
	return &image.Paletted{
		Pix:     p.Pix,
		Stride:  p.Width,
		Rect:    p.Bounds(),
		Palette: p.HardwarePalette().ColorPalette(),
	}
}

// Source is a finite sequence of pixels that can be walked more than once,
// once to choose the palette and again to remap every pixel.
type Source interface {
	// Size returns the dimensions of the image
	Size() (width, height int)
	// Pixels calls fn for every pixel; y is counted from the top row
	Pixels(fn func(x, y int, c rgb565.Color)) error
}

type imageSource struct {
	m *rgb565.Image
}

// FromImage returns a Source reading from m.
func FromImage(m *rgb565.Image) Source {
	return imageSource{m}
}

func (s imageSource) Size() (int, int) {
	return s.m.Rect.Dx(), s.m.Rect.Dy()
}

func (s imageSource) Pixels(fn func(int, int, rgb565.Color)) error {
	b := s.m.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(x-b.Min.X, y-b.Min.Y, s.m.RGB565At(x, y))
		}
	}
	return nil
}

// Load quantizes the pixels from src into a new Photo. A fresh set of
// buckets is used for every call so Load is safe to call concurrently.
func Load(src Source) (*Photo, error) {
	width, height := src.Size()
	if width > MaxWidth || height > MaxHeight {
		return nil, ErrTooLarge
	}

	q := octree.New()
	if err := src.Pixels(func(_, _ int, c rgb565.Color) {
		q.Add(c)
	}); err != nil {
		return nil, err
	}

	t := q.Build()

	p := &Photo{
		Width:   width,
		Height:  height,
		Palette: t.Palette,
		Pix:     make([]byte, width*height),
	}

	if err := src.Pixels(func(x, y int, c rgb565.Color) {
		p.Pix[y*width+x] = t.Index(c)
	}); err != nil {
		return nil, err
	}

	return p, nil
}
