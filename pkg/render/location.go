package render

import (
	"bytes"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

// LocationPNG draws the standalone location graphic: the map-pin glyph with
// the normalized "City, ST" label underneath. Badge sinks draw the glyph
// inline; this asset exists for callers that cache or preview the graphic on
// its own. sizePx is the square canvas edge.
func LocationPNG(reg *fonts.Registry, label string, sizePx int) ([]byte, error) {
	dc := gg.NewContext(sizePx, sizePx)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	s := float64(sizePx)
	glyphH := s * 0.68
	cx := s / 2
	cy := glyphH * 0.38
	r := glyphH * 0.30

	dc.SetHexColor(inkColor)
	dc.SetLineWidth(glyphH * 0.06)
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	dc.DrawLine(cx, cy+r, cx, glyphH*0.95)
	dc.Stroke()
	dc.DrawCircle(cx, cy, r*0.35)
	dc.Fill()

	if label != "" {
		face, err := reg.Face(fonts.FamilyGo, fonts.Regular, s*0.12)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetHexColor(mutedColor)
		dc.DrawStringAnchored(label, cx, s*0.86, 0.5, 0.35)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
