package sprite

import (
	"bufio"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/bodgit/modex/vga"
	"github.com/ericpauley/go-quantize/quantize"
)

// Pixels with less than half opacity are treated as transparent
const opaque = 0x8000

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) encode(m *Image) error {
	var tmp [headerSize]byte
	binary.LittleEndian.PutUint16(tmp[0:], uint16(m.Width))
	binary.LittleEndian.PutUint16(tmp[2:], uint16(m.Height))
	if _, err := e.w.Write(tmp[:]); err != nil {
		return err
	}

	for y := m.Height - 1; y >= 0; y-- {
		if _, err := e.w.Write(m.Pix[y*m.Width : (y+1)*m.Width]); err != nil {
			return err
		}
	}

	return e.w.Flush()
}

// Convert maps m onto the system palette. Images with more colours than
// the system palette are first reduced using a median cut so that nearby
// shades collapse together before being truncated to 2:2:2.
func Convert(m image.Image) (*Image, error) {
	b := m.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		return nil, ErrTooLarge
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > vga.SystemColors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, vga.SystemColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Map each palette entry once
	lookup := make([]uint8, len(pm.Palette))
	for i, c := range pm.Palette {
		lookup[i] = vga.SystemIndex(c)
	}

	s := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()),
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := (y-b.Min.Y)*s.Width + x - b.Min.X
			if _, _, _, a := m.At(x, y).RGBA(); a < opaque {
				s.Pix[i] = Transparent
				continue
			}
			s.Pix[i] = lookup[pm.ColorIndexAt(x, y)]
		}
	}

	return s, nil
}

// Encode writes the Image m to w in object image format.
func Encode(w io.Writer, m image.Image) error {
	s, ok := m.(*Image)
	if !ok {
		var err error
		if s, err = Convert(m); err != nil {
			return err
		}
	}

	if s.Width > MaxWidth || s.Height > MaxHeight {
		return ErrTooLarge
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(s)
}
