/*
Package scanline builds the rows and columns of pixels that a scrolling
renderer copies to the display as the viewport moves.

Each line is produced from scratch by reading the room photo and then drawing
every object in the room over it. No state is kept between calls so lines
may be requested in any order, by any number of readers, provided the room is
not changed while a line is being built.
*/
package scanline

import (
	"github.com/bodgit/modex/photo"
	"github.com/bodgit/modex/sprite"
)

// Background is written wherever the line falls outside the photo.
const Background = 0

// Object is an image placed in a room with its top left corner at (X, Y).
type Object struct {
	X, Y  int
	Image *sprite.Image
}

// Room is the state the renderer draws from.
type Room interface {
	// Photo returns the room photo
	Photo() *photo.Photo
	// Objects returns the objects in the room in drawing order; later
	// objects are drawn over earlier ones
	Objects() []Object
}

// FillHorizontal fills buf with the row of pixels starting at (x, y) and
// extending right for len(buf) pixels.
func FillHorizontal(r Room, x, y int, buf []byte) {
	p := r.Photo()

	for i := range buf {
		buf[i] = Background
	}
	if y >= 0 && y < p.Height {
		// Columns inside the photo
		if start, end := clip(x, len(buf), p.Width); start < end {
			copy(buf[start-x:end-x], p.Pix[y*p.Width+start:y*p.Width+end])
		}
	}

	for _, obj := range r.Objects() {
		m := obj.Image

		// Does the object cover this row and overlap the window?
		if y < obj.Y || y >= obj.Y+m.Height {
			continue
		}
		start, end := clip(x-obj.X, len(buf), m.Width)
		if start >= end {
			continue
		}

		row := m.Pix[(y-obj.Y)*m.Width:]
		for ix := start; ix < end; ix++ {
			if pixel := row[ix]; pixel != sprite.Transparent {
				buf[ix+obj.X-x] = pixel
			}
		}
	}
}

// FillVertical fills buf with the column of pixels starting at (x, y) and
// extending down for len(buf) pixels.
func FillVertical(r Room, x, y int, buf []byte) {
	p := r.Photo()

	for i := range buf {
		buf[i] = Background
	}
	if x >= 0 && x < p.Width {
		start, end := clip(y, len(buf), p.Height)
		for iy := start; iy < end; iy++ {
			buf[iy-y] = p.Pix[iy*p.Width+x]
		}
	}

	for _, obj := range r.Objects() {
		m := obj.Image

		if x < obj.X || x >= obj.X+m.Width {
			continue
		}
		start, end := clip(y-obj.Y, len(buf), m.Height)
		if start >= end {
			continue
		}

		for iy := start; iy < end; iy++ {
			if pixel := m.Pix[iy*m.Width+x-obj.X]; pixel != sprite.Transparent {
				buf[iy+obj.Y-y] = pixel
			}
		}
	}
}

// clip returns the part of the span [origin, origin+length) that lies
// within [0, size). The result is empty when start >= end.
func clip(origin, length, size int) (start, end int) {
	start, end = origin, origin+length
	if start < 0 {
		start = 0
	}
	if end > size {
		end = size
	}
	if start > end {
		start = end
	}
	return
}
