package photo

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/modex/rgb565"
)

// Encode writes the Image m to w in photo format. Colours are truncated to
// 5:6:5.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		return ErrTooLarge
	}

	bw := bufio.NewWriter(w)

	var tmp [headerSize]byte
	binary.LittleEndian.PutUint16(tmp[0:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(tmp[2:], uint16(b.Dy()))
	if _, err := bw.Write(tmp[:]); err != nil {
		return err
	}

	src, _ := m.(*rgb565.Image)

	row := make([]byte, b.Dx()*2)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			var c rgb565.Color
			if src != nil {
				c = src.RGB565At(x, y)
			} else {
				c = rgb565.Model.Convert(m.At(x, y)).(rgb565.Color)
			}
			binary.LittleEndian.PutUint16(row[(x-b.Min.X)*2:], uint16(c))
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}
