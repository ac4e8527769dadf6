package modex

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/bodgit/modex/photo"
	"github.com/bodgit/modex/scanline"
	"golang.org/x/image/draw"
)

// Viewport is the part of a room to render.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Draw renders the viewport of r one row at a time, exactly as the display
// would receive it.
func Draw(r scanline.Room, v Viewport) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, v.Width, v.Height), r.Photo().HardwarePalette().ColorPalette())
	for y := 0; y < v.Height; y++ {
		scanline.FillHorizontal(r, v.X, v.Y+y, m.Pix[y*m.Stride:y*m.Stride+v.Width])
	}
	return m
}

func scale(m image.Image, factor int) image.Image {
	if factor <= 1 {
		return m
	}
	b := m.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

// Render writes the viewport of the named room to w as a PNG, each pixel
// enlarged by factor.
func (m *ModeX) Render(name string, v Viewport, factor int, w io.Writer) error {
	if v.Width <= 0 || v.Height <= 0 {
		return errors.New("viewport is empty")
	}

	r, err := m.Room(name)
	if err != nil {
		return err
	}

	return png.Encode(w, scale(Draw(r, v), factor))
}

// WritePreview writes p to w as a PNG, each pixel enlarged by factor.
func WritePreview(w io.Writer, p *photo.Photo, factor int) error {
	return png.Encode(w, scale(p.Image(), factor))
}
