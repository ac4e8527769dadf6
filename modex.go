/*
Package modex is a library for preparing and displaying scrolling room
photos on a 256 colour VGA display.

Photos are stored as 16-bit colour and reduced to an optimised palette of 192
colours when loaded, leaving the first 64 DAC entries free for the fixed
palette used by object images. Rooms, their photos and objects are kept in a
small sqlite database populated from an XML description.
*/
package modex

import (
	"errors"
	"fmt"
	"log"

	"github.com/bodgit/modex/vga"
)

// ErrNoRoom is returned when a named room does not exist.
var ErrNoRoom = errors.New("no such room")

type ModeX struct {
	db     *RoomDB
	logger *log.Logger
}

// New opens the room database in file.
func New(file string, logger *log.Logger) (*ModeX, error) {
	db, err := NewRoomDB(file)
	if err != nil {
		return nil, err
	}
	return &ModeX{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the room database.
func (m *ModeX) Close() error {
	return m.db.Close()
}

// ImportXML replaces every room with those described in file.
func (m *ModeX) ImportXML(file string) error {
	if err := m.db.ImportXML(file); err != nil {
		return err
	}

	rooms, err := m.db.Rooms()
	if err != nil {
		return err
	}
	m.logger.Printf("Imported %d rooms from \"%s\"\n", len(rooms), file)

	return nil
}

// Rooms returns the name of every room.
func (m *ModeX) Rooms() ([]string, error) {
	return m.db.Rooms()
}

// Room loads the named room.
func (m *ModeX) Room(name string) (*Room, error) {
	r, err := m.db.FindRoom(name)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: \"%s\"", ErrNoRoom, name)
	}
	m.logger.Printf("Loaded room \"%s\" (%dx%d, %d objects)\n", name, r.photo.Width, r.photo.Height, len(r.objects))
	return r, nil
}

// Upload sends the palette needed to display the named room to d.
func (m *ModeX) Upload(name string, d *vga.DAC) error {
	r, err := m.Room(name)
	if err != nil {
		return err
	}
	return d.Upload(r.Photo().HardwarePalette())
}
