package artwork

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// contentThreshold classifies a pixel as background when all three
// channels sit at or above it.
const contentThreshold = 245

// targetRatio is the width:height aspect the interests band consumes.
const targetRatio = 2.0

// Crop tightens the frame around an illustration's content and extends it
// to an exact 2:1 aspect.
//
// The content box is the minimal rectangle covering every non-background
// pixel, grown by marginIn*dpi pixels on each side. The shorter dimension
// is then expanded symmetrically until the aspect is exact; where the
// margin or the expansion runs past the image edge the output is padded
// with white, which is why [Normalize] must run first.
//
// An image with no content pixels at all returns EMPTY_CONTENT.
func Crop(img image.Image, marginIn, dpi float64) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	bounds := src.Bounds()

	box, ok := contentBox(src)
	if !ok {
		return nil, errors.New(errors.ErrCodeEmptyContent,
			"image has no content pixels")
	}

	// Breathing room around the content. The box may run past the source;
	// the paste below fills anything outside it with white.
	marginPx := int(math.Round(marginIn * dpi))
	box = image.Rect(
		box.Min.X-marginPx, box.Min.Y-marginPx,
		box.Max.X+marginPx, box.Max.Y+marginPx,
	)

	target := expandToRatio(box)

	out := imaging.New(target.Dx(), target.Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	visible := target.Intersect(bounds)
	if !visible.Empty() {
		patch := imaging.Crop(src, visible)
		out = imaging.Paste(out, patch, image.Pt(
			visible.Min.X-target.Min.X,
			visible.Min.Y-target.Min.Y,
		))
	}
	return out, nil
}

// contentBox returns the minimal rectangle containing every pixel with at
// least one channel below the background threshold.
func contentBox(img *image.NRGBA) (image.Rectangle, bool) {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R >= contentThreshold && c.G >= contentThreshold && c.B >= contentThreshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// expandToRatio grows the shorter dimension of box symmetrically until
// width:height equals targetRatio, up to one pixel of rounding.
func expandToRatio(box image.Rectangle) image.Rectangle {
	w, h := box.Dx(), box.Dy()

	if float64(w) < targetRatio*float64(h) {
		desired := int(math.Round(targetRatio * float64(h)))
		extra := desired - w
		return image.Rect(
			box.Min.X-extra/2, box.Min.Y,
			box.Min.X-extra/2+desired, box.Max.Y,
		)
	}

	desired := int(math.Round(float64(w) / targetRatio))
	extra := desired - h
	return image.Rect(
		box.Min.X, box.Min.Y-extra/2,
		box.Max.X, box.Min.Y-extra/2+desired,
	)
}
