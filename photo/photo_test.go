package photo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/bodgit/modex/rgb565"
	"github.com/bodgit/modex/vga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// file builds a photo file, pixels are given in file order (bottom row
// first)
func file(width, height uint16, pixels ...uint16) []byte {
	b := new(bytes.Buffer)
	_ = binary.Write(b, binary.LittleEndian, width)
	_ = binary.Write(b, binary.LittleEndian, height)
	_ = binary.Write(b, binary.LittleEndian, pixels)
	return b.Bytes()
}

// gradient returns a test image with plenty of distinct colours
func gradient(width, height int) *rgb565.Image {
	m := rgb565.NewImage(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetRGB565(x, y, rgb565.New(uint8(x), uint8(y*2+x), uint8(31-y)))
		}
	}
	return m
}

type onlyReader struct {
	io.Reader
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("read error")
}

func TestDecodeTwoColors(t *testing.T) {
	p, err := Decode(bytes.NewReader(file(2, 2, 0x0000, 0xffff, 0x0000, 0xffff)))
	require.Nil(t, err)

	assert.Equal(t, 2, p.Width)
	assert.Equal(t, 2, p.Height)
	require.Len(t, p.Pix, 4)

	distinct := make(map[byte]bool)
	for _, i := range p.Pix {
		assert.GreaterOrEqual(t, int(i), vga.PhotoBase)
		distinct[i] = true
	}
	assert.Len(t, distinct, 2)

	// Both colours are promoted, black has the lower bucket id
	assert.Equal(t, []byte{128, 129, 128, 129}, p.Pix)
	assert.Equal(t, vga.Color{}, p.Palette[64])
	assert.Equal(t, vga.Color{R: 0x3e, G: 0x3f, B: 0x3e}, p.Palette[65])
}

func TestDecodeBottomRowFirst(t *testing.T) {
	// Bottom row is white, top row is black
	p, err := Decode(bytes.NewReader(file(1, 2, 0xffff, 0x0000)))
	require.Nil(t, err)

	top, bottom := p.ColorIndexAt(0, 0), p.ColorIndexAt(0, 1)
	assert.Equal(t, vga.Color{}, p.Palette[top-vga.PhotoBase])
	assert.Equal(t, vga.Color{R: 0x3e, G: 0x3f, B: 0x3e}, p.Palette[bottom-vga.PhotoBase])
}

func TestDecodeWithoutSeeker(t *testing.T) {
	b := file(2, 2, 0x0000, 0xffff, 0x0000, 0xffff)

	p1, err := Decode(onlyReader{bytes.NewReader(b)})
	require.Nil(t, err)
	p2, err := Decode(bytes.NewReader(b))
	require.Nil(t, err)

	assert.Equal(t, p1, p2)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		r    io.Reader
		err  error
	}{
		{"empty", bytes.NewReader(nil), ErrNotEnough},
		{"short header", bytes.NewReader([]byte{0x02, 0x00, 0x02}), ErrNotEnough},
		{"short pixels", bytes.NewReader(file(2, 2, 0x0000, 0xffff, 0x0000)), ErrNotEnough},
		{"too wide", bytes.NewReader(file(MaxWidth+1, 1)), ErrTooLarge},
		{"too tall", bytes.NewReader(file(1, MaxHeight+1)), ErrTooLarge},
		{"unreadable", errReader{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.r)
			assert.Nil(t, p)
			require.Error(t, err)
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
			}
		})
	}
}

func TestDecodeDeterministic(t *testing.T) {
	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, gradient(64, 48)))

	p1, err := Decode(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	p2, err := Decode(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)

	assert.Equal(t, p1.Palette, p2.Palette)
	assert.Equal(t, p1.Pix, p2.Pix)

	for _, i := range p1.Pix {
		require.GreaterOrEqual(t, int(i), vga.PhotoBase)
	}
}

func TestEncode(t *testing.T) {
	m := gradient(5, 3)

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, m))
	assert.Equal(t, 4+5*3*2, b.Len())

	// First pixel in the file is the bottom left
	assert.Equal(t, uint16(m.RGB565At(0, 2)), binary.LittleEndian.Uint16(b.Bytes()[4:]))

	c, err := DecodeConfig(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	assert.Equal(t, 5, c.Width)
	assert.Equal(t, 3, c.Height)

	dup, err := DecodeRGB565(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	assert.Equal(t, m.Pix, dup.Pix)

	// Non-native images are converted
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.White)
	b.Reset()
	require.Nil(t, Encode(b, rgba))
	assert.Equal(t, file(1, 1, 0xffff), b.Bytes())

	assert.Equal(t, ErrTooLarge, Encode(b, rgb565.NewImage(image.Rect(0, 0, MaxWidth+1, 1))))
}

func TestLoadMatchesDecode(t *testing.T) {
	m := gradient(32, 32)

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, m))

	p1, err := Decode(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	p2, err := Load(FromImage(m))
	require.Nil(t, err)

	assert.Equal(t, p1, p2)
}

func TestPhotoImage(t *testing.T) {
	p, err := Decode(bytes.NewReader(file(2, 1, 0x0000, 0xffff)))
	require.Nil(t, err)

	hw := p.HardwarePalette()
	assert.Equal(t, vga.System[:], hw[:vga.PhotoBase])
	assert.Equal(t, p.Palette[:], hw[vga.PhotoBase:])

	m := p.Image()
	assert.Equal(t, image.Rect(0, 0, 2, 1), m.Bounds())
	assert.Equal(t, p.Pix[1], m.ColorIndexAt(1, 0))
	assert.Equal(t, hw[p.Pix[1]], m.At(1, 0))

	assert.Equal(t, uint8(0), p.ColorIndexAt(-1, 0))
	assert.Equal(t, uint8(0), p.ColorIndexAt(2, 0))
	assert.Equal(t, uint8(0), p.ColorIndexAt(0, 1))
}

func TestMeanError(t *testing.T) {
	m := rgb565.NewImage(image.Rect(0, 0, 2, 2))
	m.SetRGB565(0, 0, 0x0000)
	m.SetRGB565(1, 0, 0xf800)
	m.SetRGB565(0, 1, 0x001f)
	m.SetRGB565(1, 1, 0xffff)

	p, err := Load(FromImage(m))
	require.Nil(t, err)

	e, err := MeanError(p, FromImage(m))
	require.Nil(t, err)
	assert.GreaterOrEqual(t, e, 0.0)
	assert.Less(t, e, 0.05)

	e, err = MeanError(&Photo{}, FromImage(rgb565.NewImage(image.Rectangle{})))
	require.Nil(t, err)
	assert.Equal(t, 0.0, e)
}
