package photo

import (
	"github.com/bodgit/modex/rgb565"
	"github.com/bodgit/modex/vga"
	"github.com/lucasb-eyer/go-colorful"
)

// MeanError returns the average CIE L*a*b* distance between each pixel of the
// photo and the same pixel of src, a rough measure of how much the chosen
// palette degrades the original.
func MeanError(p *Photo, src Source) (float64, error) {
	if p.Width == 0 || p.Height == 0 {
		return 0, nil
	}

	hw := p.HardwarePalette()

	// Only 256 possible output colours so convert them once
	var lab [vga.Colors]colorful.Color
	for i, c := range hw {
		lab[i], _ = colorful.MakeColor(c)
	}

	var sum float64
	if err := src.Pixels(func(x, y int, c rgb565.Color) {
		want, _ := colorful.MakeColor(c)
		sum += want.DistanceLab(lab[p.ColorIndexAt(x, y)])
	}); err != nil {
		return 0, err
	}

	return sum / float64(p.Width*p.Height), nil
}
