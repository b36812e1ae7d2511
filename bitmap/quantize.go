package bitmap

import (
	"image"
	"image/color"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// Quantize reduces m to at most 256 colours and returns the paletted result.
// Each pixel is mapped to the nearest palette entry as defined by the
// palette's own Convert method, no dithering is applied. Palette entries are
// sorted by value.
func Quantize(m image.Image) *image.Paletted {
	b := m.Bounds()

	// Each bucket becomes the average of its colours
	q := quantize.MedianCutQuantizer{Aggregation: quantize.Mean}
	p := q.Quantize(make(color.Palette, 0, paletteEntries), m)
	if len(p) == 0 {
		p = append(p, color.RGBA{0, 0, 0, 0xff})
	}
	sort.Sort(byValue(p))

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func packRGBA(c color.Color) uint64 {
	r, g, b, a := c.RGBA()
	return uint64(r)<<48 | uint64(g)<<32 | uint64(b)<<16 | uint64(a)
}

// Canonical palette order, independent of how the quantizer built it
type byValue color.Palette

func (p byValue) Len() int {
	return len(p)
}

func (p byValue) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

func (p byValue) Less(i, j int) bool {
	return packRGBA(p[i]) < packRGBA(p[j])
}
