package scanline

import (
	"testing"

	"github.com/bodgit/modex/photo"
	"github.com/bodgit/modex/sprite"
	"github.com/stretchr/testify/assert"
)

type room struct {
	photo   *photo.Photo
	objects []Object
}

func (r *room) Photo() *photo.Photo { return r.photo }

func (r *room) Objects() []Object { return r.objects }

const tp = sprite.Transparent

// newPhoto returns a photo where every pixel is distinct and never the
// transparent value
func newPhoto(width, height int) *photo.Photo {
	p := &photo.Photo{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
	for i := range p.Pix {
		p.Pix[i] = byte(0x41 + i%(256-0x41))
	}
	return p
}

func newRoom() *room {
	return &room{
		photo: newPhoto(10, 8),
		objects: []Object{
			{
				X: 2, Y: 1,
				Image: &sprite.Image{
					Width:  3,
					Height: 2,
					Pix: []byte{
						0x01, tp, 0x03,
						tp, 0x05, tp,
					},
				},
			},
			{
				X: 3, Y: 2,
				Image: &sprite.Image{
					Width:  2,
					Height: 2,
					Pix: []byte{
						0x11, 0x12,
						tp, 0x14,
					},
				},
			},
			{
				// Hangs off the top left corner
				X: -1, Y: -1,
				Image: &sprite.Image{
					Width:  2,
					Height: 2,
					Pix: []byte{
						0x21, 0x22,
						0x23, tp,
					},
				},
			},
		},
	}
}

func TestFillHorizontalPhotoOnly(t *testing.T) {
	r := &room{photo: newPhoto(4, 3)}
	p := r.photo

	tests := []struct {
		name string
		x, y int
		want []byte
	}{
		{"inside", 0, 1, p.Pix[4:8]},
		{"partial", 1, 1, append(append([]byte{}, p.Pix[5:8]...), 0)},
		{"padded both sides", -2, 2, append(append([]byte{0, 0}, p.Pix[8:12]...), 0)},
		{"left of photo", -10, 0, []byte{0, 0, 0, 0}},
		{"right of photo", 4, 0, []byte{0, 0, 0, 0}},
		{"above photo", 0, -1, []byte{0, 0, 0, 0}},
		{"below photo", 0, 3, []byte{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, len(tt.want))
			for i := range buf {
				buf[i] = 0xff
			}
			FillHorizontal(r, tt.x, tt.y, buf)
			assert.Equal(t, tt.want, buf)
		})
	}
}

func TestFillVerticalPhotoOnly(t *testing.T) {
	r := &room{photo: newPhoto(4, 3)}
	p := r.photo

	buf := make([]byte, 5)
	FillVertical(r, 1, -1, buf)
	assert.Equal(t, []byte{0, p.Pix[1], p.Pix[5], p.Pix[9], 0}, buf)

	FillVertical(r, 4, 0, buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)

	FillVertical(r, 0, 10, buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestFillHorizontalObjects(t *testing.T) {
	r := newRoom()
	p := r.photo

	buf := make([]byte, 6)

	// Row 1: first object only, transparent pixel shows the photo
	FillHorizontal(r, 1, 1, buf)
	assert.Equal(t, []byte{p.Pix[11], 0x01, p.Pix[13], 0x03, p.Pix[15], p.Pix[16]}, buf)

	// Row 2: second object drawn over the first
	FillHorizontal(r, 1, 2, buf)
	assert.Equal(t, []byte{p.Pix[21], p.Pix[22], 0x11, 0x12, p.Pix[25], p.Pix[26]}, buf)

	// Row 3: only the second object
	FillHorizontal(r, 1, 3, buf)
	assert.Equal(t, []byte{p.Pix[31], p.Pix[32], p.Pix[33], 0x14, p.Pix[35], p.Pix[36]}, buf)

	// Row 0: object hanging off the corner, clipped to the window
	FillHorizontal(r, -1, 0, buf)
	assert.Equal(t, []byte{0x23, p.Pix[0], p.Pix[1], p.Pix[2], p.Pix[3], p.Pix[4]}, buf)

	// Window starting inside an object
	buf = buf[:2]
	FillHorizontal(r, 4, 1, buf)
	assert.Equal(t, []byte{0x03, p.Pix[15]}, buf)
}

func TestFillVerticalObjects(t *testing.T) {
	r := newRoom()
	p := r.photo

	buf := make([]byte, 4)

	FillVertical(r, 3, 0, buf)
	assert.Equal(t, []byte{p.Pix[3], p.Pix[13], 0x11, p.Pix[33]}, buf)

	FillVertical(r, -1, -1, buf)
	assert.Equal(t, []byte{0x21, 0x23, 0, 0}, buf)
}

func TestRowsAndColumnsAgree(t *testing.T) {
	r := newRoom()

	const (
		x0, y0        = -3, -2
		width, height = 16, 13
	)

	rows := make([][]byte, height)
	for y := range rows {
		rows[y] = make([]byte, width)
		FillHorizontal(r, x0, y0+y, rows[y])
	}

	col := make([]byte, height)
	for x := 0; x < width; x++ {
		FillVertical(r, x0+x, y0, col)
		for y := 0; y < height; y++ {
			assert.Equal(t, rows[y][x], col[y], "pixel (%d, %d)", x0+x, y0+y)
		}
	}
}

func TestTransparentNeverDrawn(t *testing.T) {
	r := newRoom()

	buf := make([]byte, 12)
	for y := -2; y < 10; y++ {
		FillHorizontal(r, -1, y, buf)
		assert.NotContains(t, buf, byte(sprite.Transparent))
	}
	for x := -2; x < 12; x++ {
		FillVertical(r, x, -1, buf)
		assert.NotContains(t, buf, byte(sprite.Transparent))
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		origin, length, size int
		start, end           int
	}{
		{0, 4, 10, 0, 4},
		{-2, 4, 10, 0, 2},
		{8, 4, 10, 8, 10},
		{12, 4, 10, 10, 10},
		{-6, 4, 10, -2, -2},
	}

	for _, tt := range tests {
		start, end := clip(tt.origin, tt.length, tt.size)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
