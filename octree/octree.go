/*
Package octree selects an optimised palette for a photo using the first two
levels of a colour octree.

Every pixel is counted at two granularities at once: a coarse level keeping
the top 2 bits of each channel (64 buckets) and a fine level keeping the top
4 bits of each channel (4096 buckets). The 128 most populated fine buckets
each get their own palette entry and whatever pixels remain fall back to one
of the 64 coarse buckets, giving 192 colours in total.
*/
package octree

import (
	"sort"

	"github.com/bodgit/modex/rgb565"
	"github.com/bodgit/modex/vga"
)

const (
	// CoarseBuckets is the number of buckets at the coarse level
	CoarseBuckets = 64
	// FineBuckets is the number of buckets at the fine level
	FineBuckets = 4096
	// MaxPromoted is the maximum number of fine buckets given a palette entry
	MaxPromoted = vga.PhotoColors - CoarseBuckets

	// Palette slot layout
	coarseSlot = 0
	fineSlot   = CoarseBuckets
)

// Bucket accumulates every pixel sharing a colour id. The channel sums are
// all on a 6-bit scale.
type Bucket struct {
	ID    uint16
	Sum   [3]uint32
	Count uint32
}

func (b *Bucket) add(r, g, bl uint32) {
	b.Sum[0] += r
	b.Sum[1] += g
	b.Sum[2] += bl
	b.Count++
}

func (b *Bucket) sub(o *Bucket) {
	for i := range b.Sum {
		b.Sum[i] -= o.Sum[i]
	}
	b.Count -= o.Count
}

// Color returns the average colour of the bucket.
func (b *Bucket) Color() vga.Color {
	if b.Count == 0 {
		return vga.Color{}
	}
	return vga.Color{
		R: uint8(b.Sum[0] / b.Count),
		G: uint8(b.Sum[1] / b.Count),
		B: uint8(b.Sum[2] / b.Count),
	}
}

// CoarseID returns the coarse bucket id of c, packed as RRGGBB.
func CoarseID(c rgb565.Color) uint16 {
	return uint16(c.R()>>3)<<4 | uint16(c.G()>>4)<<2 | uint16(c.B()>>3)
}

// FineID returns the fine bucket id of c, packed as RRRRGGGGBBBB.
func FineID(c rgb565.Color) uint16 {
	return uint16(c.R()>>1)<<8 | uint16(c.G()>>2)<<4 | uint16(c.B()>>1)
}

// Parent returns the coarse bucket id containing the given fine bucket id.
func Parent(id uint16) uint16 {
	return (id>>10&3)<<4 | (id>>6&3)<<2 | id>>2&3
}

// Quantizer holds the bucket histograms for a single photo. A Quantizer
// must not be shared between concurrent loads.
type Quantizer struct {
	coarse [CoarseBuckets]Bucket
	fine   [FineBuckets]Bucket
}

// New returns a Quantizer ready to accept pixels.
func New() *Quantizer {
	q := new(Quantizer)
	q.Reset()
	return q
}

// Reset clears all buckets so the Quantizer can be used for another photo.
func (q *Quantizer) Reset() {
	for i := range q.coarse {
		q.coarse[i] = Bucket{ID: uint16(i)}
	}
	for i := range q.fine {
		q.fine[i] = Bucket{ID: uint16(i)}
	}
}

// Add counts one pixel.
func (q *Quantizer) Add(c rgb565.Color) {
	// Widen red and blue to 6 bits to match green
	r := uint32(c.R()) << 1
	g := uint32(c.G())
	b := uint32(c.B()) << 1

	q.coarse[CoarseID(c)].add(r, g, b)
	q.fine[FineID(c)].add(r, g, b)
}

// Coarse returns a copy of the coarse level buckets.
func (q *Quantizer) Coarse() []Bucket {
	return append([]Bucket(nil), q.coarse[:]...)
}

// Fine returns a copy of the fine level buckets.
func (q *Quantizer) Fine() []Bucket {
	return append([]Bucket(nil), q.fine[:]...)
}

type byPopularity []*Bucket

func (p byPopularity) Len() int {
	return len(p)
}

func (p byPopularity) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

// Most pixels first, lowest id breaks ties
func (p byPopularity) Less(i, j int) bool {
	if p[i].Count != p[j].Count {
		return p[i].Count > p[j].Count
	}
	return p[i].ID < p[j].ID
}

// Build chooses the palette and returns the lookup table used to remap each
// pixel. The promoted fine buckets are subtracted from their coarse parents
// so the Quantizer should be Reset before being used again.
func (q *Quantizer) Build() *Table {
	ranked := make(byPopularity, 0, FineBuckets)
	for i := range q.fine {
		if q.fine[i].Count > 0 {
			ranked = append(ranked, &q.fine[i])
		}
	}
	sort.Sort(ranked)

	if len(ranked) > MaxPromoted {
		ranked = ranked[:MaxPromoted]
	}

	t := new(Table)
	t.promoted = make([]uint16, 0, len(ranked))

	for rank, b := range ranked {
		slot := fineSlot + rank
		t.Palette[slot] = b.Color()
		t.slots[b.ID] = uint8(slot)
		t.promoted = append(t.promoted, b.ID)

		// Stop these pixels being counted again at the coarse level
		q.coarse[Parent(b.ID)].sub(b)
	}

	for i := range q.coarse {
		if q.coarse[i].Count != 0 {
			t.Palette[coarseSlot+i] = q.coarse[i].Color()
		}
	}

	return t
}
