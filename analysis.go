package modex

import (
	"os"

	"github.com/bodgit/modex/octree"
	"github.com/bodgit/modex/photo"
	"github.com/bodgit/modex/rgb565"
)

// Analysis summarises how well a photo survives quantization.
type Analysis struct {
	Width, Height int
	// Distinct 16-bit colours in the photo
	Colors int
	// Populated buckets before promotion
	Fine, Coarse int
	// Fine buckets given their own palette entry
	Promoted int
	// Coarse buckets still holding pixels after promotion
	Fallback int
	// Mean CIE L*a*b* distance between each pixel and its palette colour
	MeanError float64
}

// Analyse quantizes the photo in file and reports on the result.
func Analyse(file string) (*Analysis, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := photo.DecodeRGB565(f)
	if err != nil {
		return nil, err
	}
	src := photo.FromImage(m)

	a := new(Analysis)
	a.Width, a.Height = src.Size()

	seen := make(map[rgb565.Color]struct{})
	q := octree.New()
	if err := src.Pixels(func(_, _ int, c rgb565.Color) {
		seen[c] = struct{}{}
		q.Add(c)
	}); err != nil {
		return nil, err
	}
	a.Colors = len(seen)

	for _, b := range q.Fine() {
		if b.Count > 0 {
			a.Fine++
		}
	}
	for _, b := range q.Coarse() {
		if b.Count > 0 {
			a.Coarse++
		}
	}

	t := q.Build()
	a.Promoted = len(t.Promoted())
	for _, b := range q.Coarse() {
		if b.Count > 0 {
			a.Fallback++
		}
	}

	p, err := photo.Load(src)
	if err != nil {
		return nil, err
	}

	if a.MeanError, err = photo.MeanError(p, src); err != nil {
		return nil, err
	}

	return a, nil
}
