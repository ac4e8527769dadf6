package photo

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"image"
	"io"
	"io/ioutil"

	"github.com/bodgit/modex/rgb565"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func readHeader(r io.Reader) (int, int, error) {
	var tmp [headerSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return 0, 0, err
		}
		return 0, 0, ErrNotEnough
	}

	width := int(binary.LittleEndian.Uint16(tmp[0:]))
	height := int(binary.LittleEndian.Uint16(tmp[2:]))

	if width > MaxWidth || height > MaxHeight {
		return 0, 0, ErrTooLarge
	}

	return width, height, nil
}

// streamSource re-reads the pixel data from the file on every walk
type streamSource struct {
	r             io.ReadSeeker
	offset        int64
	width, height int
}

func (s *streamSource) Size() (int, int) {
	return s.width, s.height
}

func (s *streamSource) Pixels(fn func(int, int, rgb565.Color)) error {
	if _, err := s.r.Seek(s.offset, io.SeekStart); err != nil {
		return err
	}

	br := bufio.NewReader(s.r)
	row := make([]byte, s.width*2)

	// Stored bottom row first
	for y := s.height - 1; y >= 0; y-- {
		if err := readFull(br, row); err != nil {
			if err != io.ErrUnexpectedEOF {
				return err
			}
			return ErrNotEnough
		}
		for x := 0; x < s.width; x++ {
			fn(x, y, rgb565.Color(binary.LittleEndian.Uint16(row[x*2:])))
		}
	}

	return nil
}

func newStreamSource(r io.Reader) (*streamSource, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		rs = bytes.NewReader(b)
	}

	width, height, err := readHeader(rs)
	if err != nil {
		return nil, err
	}

	offset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	return &streamSource{
		r:      rs,
		offset: offset,
		width:  width,
		height: height,
	}, nil
}

// Decode reads a photo from r, chooses its palette and returns it. The pixel
// data is read twice so if r is an io.ReadSeeker it is seeked back to the
// start of the pixel data, otherwise r is read into memory first.
func Decode(r io.Reader) (*Photo, error) {
	src, err := newStreamSource(r)
	if err != nil {
		return nil, err
	}
	return Load(src)
}

// DecodeRGB565 reads a photo from r without quantizing it.
func DecodeRGB565(r io.Reader) (*rgb565.Image, error) {
	width, height, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	m := rgb565.NewImage(image.Rect(0, 0, width, height))
	src := &streamSource{
		r:      &seekless{r},
		width:  width,
		height: height,
	}
	if err := src.Pixels(func(x, y int, c rgb565.Color) {
		m.SetRGB565(x, y, c)
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// DecodeConfig returns the color model and dimensions of a photo without
// decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	width, height, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: rgb565.Model,
		Width:      width,
		Height:     height,
	}, nil
}

// seekless allows a single walk over a plain io.Reader
type seekless struct {
	io.Reader
}

func (s *seekless) Seek(int64, int) (int64, error) {
	return 0, nil
}
