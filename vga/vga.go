/*
Package vga models the 256-colour palette of a VGA display running in an
unchained 320x200 (mode X) configuration.

The DAC holds 256 entries of 6-bit red, green and blue. The first 64 entries
are a fixed system palette, coded as 2 bits each of red, green and blue, and
are used by sprites and text. The remaining 192 entries are reserved for the
palette of the photo currently being shown.
*/
package vga

import (
	"image/color"
)

const (
	// SystemColors is the number of fixed palette entries
	SystemColors = 64
	// PhotoColors is the number of entries available to a photo
	PhotoColors = 192
	// Colors is the total number of DAC entries
	Colors = SystemColors + PhotoColors
	// PhotoBase is the first DAC entry used by a photo
	PhotoBase = SystemColors
)

// Color is a DAC entry. Only the lower 6 bits of each component are used.
type Color struct {
	R, G, B uint8
}

func expand6(v uint8) uint32 {
	x := uint32(v & 0x3f)
	return x<<10 | x<<4 | x>>2
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return expand6(c.R), expand6(c.G), expand6(c.B), 0xffff
}

func toColor(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 10), uint8(g >> 10), uint8(b >> 10)}
}

// Model converts colours to Color by truncating each channel to 6 bits.
var Model = color.ModelFunc(toColor)

func level(v int) uint8 {
	// 0x00, 0x15, 0x2a, 0x3f
	return uint8(v * 0x15)
}

func makeSystem() (p [SystemColors]Color) {
	for i := range p {
		p[i] = Color{level(i >> 4 & 3), level(i >> 2 & 3), level(i & 3)}
	}
	return
}

// System is the fixed 2:2:2 palette occupying DAC entries 0-63.
var System = makeSystem()

// SystemIndex returns the system palette entry closest to c, found by keeping
// the top 2 bits of each channel.
func SystemIndex(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return uint8(r>>14<<4 | g>>14<<2 | b>>14)
}

// Palette is the complete contents of the DAC.
type Palette [Colors]Color

// MarshalBinary returns the palette as consecutive red, green and blue
// bytes in DAC order.
func (p *Palette) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, Colors*3)
	for _, c := range p {
		b = append(b, c.R&0x3f, c.G&0x3f, c.B&0x3f)
	}
	return b, nil
}

// ColorPalette returns the palette as a color.Palette.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, Colors)
	for i, c := range p {
		cp[i] = c
	}
	return cp
}
