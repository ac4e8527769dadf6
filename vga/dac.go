package vga

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3"
)

// DAC uploads palettes to the display. Writing an entry number to the index
// port selects the starting entry, after which every three bytes written to
// the data port set one entry and auto-increment the index.
type DAC struct {
	index conn.Conn // 0x3c8
	data  conn.Conn // 0x3c9
}

// NewDAC returns a DAC using the given index and data ports.
func NewDAC(index, data conn.Conn) (*DAC, error) {
	if index == nil || data == nil {
		return nil, errors.New("vga: missing DAC port")
	}
	return &DAC{
		index: index,
		data:  data,
	}, nil
}

// Upload writes all 256 entries of p starting at entry 0. The transfer is
// one-way, nothing is read back.
func (d *DAC) Upload(p *Palette) error {
	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	if err := d.index.Tx([]byte{0x00}, nil); err != nil {
		return fmt.Errorf("vga: writing %s: %w", d.index, err)
	}

	if err := d.data.Tx(b, nil); err != nil {
		return fmt.Errorf("vga: writing %s: %w", d.data, err)
	}

	return nil
}

type streamConn struct {
	name string
	w    io.Writer
}

// NewStreamConn returns a write-only conn.Conn that copies every transfer
// to w. It is useful for capturing the bytes that would be sent to a port.
func NewStreamConn(name string, w io.Writer) conn.Conn {
	return &streamConn{
		name: name,
		w:    w,
	}
}

func (s *streamConn) String() string {
	return s.name
}

func (s *streamConn) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("vga: port is write-only")
	}
	_, err := s.w.Write(w)
	return err
}

func (s *streamConn) Duplex() conn.Duplex {
	return conn.Half
}
