package octree

import (
	"github.com/bodgit/modex/rgb565"
	"github.com/bodgit/modex/vga"
)

// Palette holds the colours chosen for a photo. Slots 0-63 are the coarse
// buckets indexed by id and slots 64-191 are the promoted fine buckets in
// rank order.
type Palette [vga.PhotoColors]vga.Color

// HardwareIndex returns the DAC entry used for the given palette slot.
func HardwareIndex(slot int) uint8 {
	return uint8(vga.PhotoBase + slot)
}

// Table maps source colours to palette slots.
type Table struct {
	Palette Palette

	// Fine bucket id to palette slot, zero means not promoted as promoted
	// buckets never use the coarse slots
	slots    [FineBuckets]uint8
	promoted []uint16
}

// Promoted returns the ids of the promoted fine buckets in rank order.
func (t *Table) Promoted() []uint16 {
	return append([]uint16(nil), t.promoted...)
}

// Slot returns the palette slot for c. A colour whose fine bucket was
// promoted uses that bucket's slot, anything else uses its coarse bucket.
// No attempt is made to find a closer colour in another bucket.
func (t *Table) Slot(c rgb565.Color) int {
	if s := t.slots[FineID(c)]; s != 0 {
		return int(s)
	}
	return coarseSlot + int(CoarseID(c))
}

// Index returns the DAC entry for c, always in the range 64-255.
func (t *Table) Index(c rgb565.Color) uint8 {
	return HardwareIndex(t.Slot(c))
}
