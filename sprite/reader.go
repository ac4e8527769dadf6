package sprite

import (
	"encoding/binary"
	"io"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	image *Image
}

func (d *decoder) readHeader() error {
	var tmp [headerSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}

	width := int(binary.LittleEndian.Uint16(tmp[0:]))
	height := int(binary.LittleEndian.Uint16(tmp[2:]))

	if width > MaxWidth || height > MaxHeight {
		return ErrTooLarge
	}

	d.image = &Image{
		Width:  width,
		Height: height,
	}

	return nil
}

func (d *decoder) readPixels() error {
	m := d.image
	m.Pix = make([]byte, m.Width*m.Height)

	// Stored bottom row first
	for y := m.Height - 1; y >= 0; y-- {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		if err := readFull(d.r, row); err != nil {
			return err
		}
		for _, b := range row {
			if b > Transparent {
				return errBadPixel
			}
		}
	}

	return nil
}

func (d *decoder) decode(r io.Reader) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if err := d.readPixels(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	return nil
}

// Decode reads an object image from r.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return d.image, nil
}
