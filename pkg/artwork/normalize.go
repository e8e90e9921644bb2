package artwork

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// normalizeTolerance is the maximum summed per-channel distance from the
// detected background color for a pixel to be flattened to white.
const normalizeTolerance = 30

// Normalize detects the image's background color from its edges and
// flattens every near-background pixel to pure white. Generated artwork
// tends to ship on an off-white wash; after Normalize, white padding added
// by [Crop] is indistinguishable from the original background.
//
// The background color is the per-channel median of all pixels on the four
// border rows and columns. Normalize is idempotent: a white background
// stays white.
func Normalize(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return src
	}

	bg := edgeMedian(src)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	// Pixels near pure white are flattened too, so flattening cannot move a
	// pixel out of reach of a repeat run: Normalize(Normalize(x)) == Normalize(x).
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			if channelDistance(c, bg) <= normalizeTolerance || channelDistance(c, white) <= normalizeTolerance {
				src.SetNRGBA(x, y, white)
			}
		}
	}
	return src
}

// edgeMedian computes the per-channel median color over the outermost row
// and column on each side of the image.
func edgeMedian(img *image.NRGBA) color.NRGBA {
	bounds := img.Bounds()
	var rs, gs, bs []int

	sample := func(x, y int) {
		c := img.NRGBAAt(x, y)
		rs = append(rs, int(c.R))
		gs = append(gs, int(c.G))
		bs = append(bs, int(c.B))
	}

	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		sample(x, bounds.Min.Y)
		sample(x, bounds.Max.Y-1)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		sample(bounds.Min.X, y)
		sample(bounds.Max.X-1, y)
	}

	return color.NRGBA{R: median(rs), G: median(gs), B: median(bs), A: 255}
}

func median(values []int) uint8 {
	sort.Ints(values)
	return uint8(values[len(values)/2])
}

func channelDistance(a, b color.NRGBA) int {
	return abs(int(a.R)-int(b.R)) + abs(int(a.G)-int(b.G)) + abs(int(a.B)-int(b.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
