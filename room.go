package modex

import (
	"github.com/bodgit/modex/photo"
	"github.com/bodgit/modex/scanline"
)

// Room is a photo with zero or more objects placed on it. It implements the
// scanline.Room interface.
type Room struct {
	Name string

	photo   *photo.Photo
	objects []scanline.Object
}

// NewRoom returns a room showing p with the given objects, drawn in order.
func NewRoom(name string, p *photo.Photo, objects ...scanline.Object) *Room {
	return &Room{
		Name:    name,
		photo:   p,
		objects: objects,
	}
}

// Photo returns the room photo.
func (r *Room) Photo() *photo.Photo {
	return r.photo
}

// Objects returns the objects in drawing order.
func (r *Room) Objects() []scanline.Object {
	return r.objects
}
