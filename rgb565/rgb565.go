/*
Package rgb565 implements the packed 16-bit colour used by source photos.

Each pixel is stored as RRRRRGGGGGGBBBBB with 5 bits of red, 6 bits of green
and 5 bits of blue.
*/
package rgb565

import (
	"image"
	"image/color"
)

// Color is a packed 5:6:5 colour.
type Color uint16

// R returns the 5-bit red component.
func (c Color) R() uint8 {
	return uint8(c>>11) & 0x1f
}

// G returns the 6-bit green component.
func (c Color) G() uint8 {
	return uint8(c>>5) & 0x3f
}

// B returns the 5-bit blue component.
func (c Color) B() uint8 {
	return uint8(c) & 0x1f
}

// New packs the given components, any excess bits are masked off.
func New(r, g, b uint8) Color {
	return Color(r&0x1f)<<11 | Color(g&0x3f)<<5 | Color(b&0x1f)
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	r = r<<11 | r<<6 | r<<1 | r>>4
	g = uint32(c.G())
	g = g<<10 | g<<4 | g>>2
	b = uint32(c.B())
	b = b<<11 | b<<6 | b<<1 | b>>4
	return r, g, b, 0xffff
}

func convert(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return New(uint8(r>>11), uint8(g>>10), uint8(b>>11))
}

// Model converts colours to Color by truncating each channel.
var Model = color.ModelFunc(convert)

// Image is an in-memory image of Color values.
type Image struct {
	Pix    []Color
	Stride int
	Rect   image.Rectangle
}

// NewImage returns a new Image with the given bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]Color, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns Model.
func (p *Image) ColorModel() color.Model { return Model }

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle { return p.Rect }

// At returns the colour of the pixel at (x, y).
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the Color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return p.Pix[p.PixOffset(x, y)]
}

// Set sets the colour of the pixel at (x, y).
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the Color of the pixel at (x, y).
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}
