package render

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/fonts"
	"github.com/lanyardlab/badgeforge/pkg/qr"
)

// RasterOption configures raster rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	band image.Image
}

// WithBandImage supplies the processed interests illustration. Without it
// the band zone gets a flat placeholder.
func WithBandImage(img image.Image) RasterOption {
	return func(r *rasterRenderer) { r.band = img }
}

// Raster draws the layout into a pixel buffer at the layout's DPI. Font
// faces come from the same registry the layout was measured against, so
// fitted text lands inside its boxes.
func Raster(l badge.Layout, reg *fonts.Registry, opts ...RasterOption) (image.Image, error) {
	r := rasterRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	dpi := l.DPI
	pxf := func(in float64) float64 { return in * dpi }

	dc := gg.NewContext(int(pxf(l.WidthIn)), int(pxf(l.HeightIn)))
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	drawText := func(f *badge.TextField, color string) error {
		if f == nil || f.Text == "" {
			return nil
		}
		face, err := reg.Face(f.FontFamily, fonts.Regular, f.SizePt*dpi/72.0)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetHexColor(color)

		sizePx := f.SizePt / 72.0 * dpi
		for i, line := range splitLines(f.Text, f.Lines) {
			baseline := pxf(f.YIn) + sizePx + float64(i)*sizePx*1.2
			if f.Align == "center" {
				dc.DrawStringAnchored(line, pxf(f.XIn+f.MaxWidthIn/2), baseline, 0.5, 0)
			} else {
				dc.DrawString(line, pxf(f.XIn), baseline)
			}
		}
		return nil
	}

	if err := drawText(l.EventName, mutedColor); err != nil {
		return nil, err
	}
	name := l.Name
	if err := drawText(&name, inkColor); err != nil {
		return nil, err
	}
	if err := drawText(l.Pronouns, mutedColor); err != nil {
		return nil, err
	}
	if err := drawText(l.Title, inkColor); err != nil {
		return nil, err
	}
	if err := drawText(l.Company, mutedColor); err != nil {
		return nil, err
	}

	if l.Graphic != nil {
		drawLocationGlyph(dc, l.Graphic, pxf)
	}
	if l.Band != nil {
		drawBand(dc, l.Band, r.band, pxf)
	}
	if err := drawTagRow(dc, reg, l.TopTags, l.MarginIn, dpi); err != nil {
		return nil, err
	}
	if err := drawTagRow(dc, reg, l.BottomTags, l.MarginIn, dpi); err != nil {
		return nil, err
	}
	if l.Micro != nil {
		if err := drawMicro(dc, reg, l.Micro, dpi); err != nil {
			return nil, err
		}
	}
	if l.QR != nil {
		qrImg, err := qr.Image(l.QR.URL, int(pxf(l.QR.SizeIn)))
		if err != nil {
			return nil, err
		}
		dc.DrawImage(qrImg, int(pxf(l.QR.XIn)), int(pxf(l.QR.YIn)))
	}

	return dc.Image(), nil
}

// RasterPNG renders the layout and encodes it as PNG.
func RasterPNG(l badge.Layout, reg *fonts.Registry, opts ...RasterOption) ([]byte, error) {
	img, err := Raster(l, reg, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawLocationGlyph(dc *gg.Context, z *badge.ImageZone, pxf func(float64) float64) {
	cx := pxf(z.XIn + z.WidthIn/2)
	cy := pxf(z.YIn + z.HeightIn*0.38)
	r := pxf(z.WidthIn) * 0.30

	dc.SetHexColor(inkColor)
	dc.SetLineWidth(pxf(z.WidthIn) * 0.06)
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	dc.DrawLine(cx, cy+r, cx, pxf(z.YIn+z.HeightIn*0.95))
	dc.Stroke()
	dc.DrawCircle(cx, cy, r*0.35)
	dc.Fill()
}

func drawBand(dc *gg.Context, z *badge.ImageZone, img image.Image, pxf func(float64) float64) {
	x, y := int(pxf(z.XIn)), int(pxf(z.YIn))
	w, h := int(pxf(z.WidthIn)), int(pxf(z.HeightIn))

	if img == nil {
		dc.SetHexColor(placeholderFill)
		dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(h)*0.05)
		dc.Fill()
		return
	}
	resized := imaging.Resize(img, w, h, imaging.CatmullRom)
	dc.DrawImage(resized, x, y)
}

func drawTagRow(dc *gg.Context, reg *fonts.Registry, row *badge.TagRow, marginIn, dpi float64) error {
	if row == nil || len(row.Tags) == 0 {
		return nil
	}
	face, err := reg.Face(fonts.FamilyGoMedium, fonts.Regular, row.FontSizePt*dpi/72.0)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	total := row.GapIn * float64(len(row.Tags)-1)
	for _, chip := range row.Tags {
		total += chip.WidthIn
	}
	chipH := row.FontSizePt/72.0 + 0.08
	x := marginIn + (row.MaxWidthIn-total)/2

	for _, chip := range row.Tags {
		dc.SetHexColor(chip.Color)
		dc.DrawRoundedRectangle(x*dpi, row.YIn*dpi, chip.WidthIn*dpi, chipH*dpi, chipH*dpi/2)
		dc.Fill()

		dc.SetHexColor(chipTextColor)
		dc.DrawStringAnchored(chip.Text, (x+chip.WidthIn/2)*dpi, (row.YIn+chipH/2)*dpi, 0.5, 0.35)
		x += chip.WidthIn + row.GapIn
	}
	return nil
}

func drawMicro(dc *gg.Context, reg *fonts.Registry, m *badge.MicroBadge, dpi float64) error {
	r := m.DiameterIn * dpi / 2
	cx := m.XIn*dpi + r
	cy := m.YIn*dpi + r

	dc.SetHexColor(m.Color)
	dc.DrawCircle(cx, cy, r)
	dc.Fill()

	face, err := reg.Face(fonts.FamilyGoBold, fonts.Regular, m.DiameterIn*dpi*0.3)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetHexColor(chipTextColor)
	dc.DrawStringAnchored(m.Text, cx, cy, 0.5, 0.35)
	return nil
}
