package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/qr"
)

// svgDPI is the CSS pixel density SVG coordinates are expressed in.
const svgDPI = 96.0

const (
	inkColor        = "#2B2B2B"
	mutedColor      = "#6B6B6B"
	chipTextColor   = "#FFFFFF"
	placeholderFill = "#F4F1DE"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	bandHref string
	embedQR  bool
}

// WithBandHref references the interests illustration by URL or relative
// path instead of leaving a placeholder.
func WithBandHref(href string) SVGOption {
	return func(r *svgRenderer) { r.bandHref = href }
}

// WithoutQR suppresses QR embedding; the zone is left empty for a later
// imposition step.
func WithoutQR() SVGOption {
	return func(r *svgRenderer) { r.embedQR = false }
}

// SVG renders the layout as a standalone SVG document.
func SVG(l badge.Layout, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{embedQR: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := px(l.WidthIn), px(l.HeightIn)
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="#FFFFFF"/>`+"\n", w, h)

	renderTextField(&buf, l.EventName, mutedColor)
	name := l.Name
	renderTextField(&buf, &name, inkColor)
	renderTextField(&buf, l.Pronouns, mutedColor)
	renderTextField(&buf, l.Title, inkColor)
	renderTextField(&buf, l.Company, mutedColor)

	if l.Graphic != nil {
		renderLocationGlyph(&buf, l.Graphic)
	}
	if l.Band != nil {
		renderBand(&buf, l.Band, r.bandHref)
	}
	renderTagRow(&buf, l.TopTags, l.MarginIn)
	renderTagRow(&buf, l.BottomTags, l.MarginIn)
	if l.Micro != nil {
		renderMicro(&buf, l.Micro)
	}
	if l.QR != nil && r.embedQR {
		if err := renderQR(&buf, l.QR); err != nil {
			return nil, err
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func px(in float64) float64 { return in * svgDPI }

// ptPx converts a font size in points to SVG pixels.
func ptPx(pt float64) float64 { return pt / 72.0 * svgDPI }

func renderTextField(buf *bytes.Buffer, f *badge.TextField, color string) {
	if f == nil || f.Text == "" {
		return
	}

	anchor := "start"
	x := px(f.XIn)
	if f.Align == "center" {
		anchor = "middle"
		x = px(f.XIn + f.MaxWidthIn/2)
	}
	size := ptPx(f.SizePt)
	weight := "normal"
	if strings.Contains(f.FontFamily, "Bold") {
		weight = "bold"
	}

	lines := splitLines(f.Text, f.Lines)
	for i, line := range lines {
		y := px(f.YIn) + size + float64(i)*size*1.2
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" font-weight="%s" fill="%s" text-anchor="%s">%s</text>`+"\n",
			x, y, html.EscapeString(f.FontFamily), size, weight, color, anchor,
			html.EscapeString(line))
	}
}

// splitLines breaks text at the space nearest its midpoint when the
// composer asked for two lines.
func splitLines(text string, lines int) []string {
	if lines < 2 {
		return []string{text}
	}
	mid := len(text) / 2
	best := -1
	for i, r := range text {
		if r != ' ' {
			continue
		}
		if best == -1 || abs(i-mid) < abs(best-mid) {
			best = i
		}
	}
	if best == -1 {
		return []string{text}
	}
	return []string{text[:best], text[best+1:]}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// renderLocationGlyph draws a map-pin outline in the graphic zone.
func renderLocationGlyph(buf *bytes.Buffer, z *badge.ImageZone) {
	cx := px(z.XIn + z.WidthIn/2)
	cy := px(z.YIn + z.HeightIn*0.38)
	r := px(z.WidthIn) * 0.30
	tipY := px(z.YIn + z.HeightIn*0.95)

	fmt.Fprintf(buf,
		`  <path d="M %.1f %.1f A %.1f %.1f 0 1 1 %.1f %.1f L %.1f %.1f Z" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		cx-r*0.85, cy+r*0.5, r, r, cx+r*0.85, cy+r*0.5, cx, tipY, inkColor)
	fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
		cx, cy, r*0.35, inkColor)
}

func renderBand(buf *bytes.Buffer, z *badge.ImageZone, href string) {
	if href == "" {
		fmt.Fprintf(buf,
			`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s"/>`+"\n",
			px(z.XIn), px(z.YIn), px(z.WidthIn), px(z.HeightIn), placeholderFill)
		return
	}
	fmt.Fprintf(buf,
		`  <image x="%.1f" y="%.1f" width="%.1f" height="%.1f" href="%s" preserveAspectRatio="xMidYMid slice"/>`+"\n",
		px(z.XIn), px(z.YIn), px(z.WidthIn), px(z.HeightIn), html.EscapeString(href))
}

func renderTagRow(buf *bytes.Buffer, row *badge.TagRow, marginIn float64) {
	if row == nil || len(row.Tags) == 0 {
		return
	}

	total := row.GapIn * float64(len(row.Tags)-1)
	for _, chip := range row.Tags {
		total += chip.WidthIn
	}

	chipH := row.FontSizePt/72.0 + 0.08
	x := marginIn + (row.MaxWidthIn-total)/2
	size := ptPx(row.FontSizePt)

	for _, chip := range row.Tags {
		fmt.Fprintf(buf,
			`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>`+"\n",
			px(x), px(row.YIn), px(chip.WidthIn), px(chipH), px(chipH)/2, chip.Color)
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" font-family="Go Medium" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			px(x+chip.WidthIn/2), px(row.YIn+chipH/2), size, chipTextColor,
			html.EscapeString(chip.Text))
		x += chip.WidthIn + row.GapIn
	}
}

func renderMicro(buf *bytes.Buffer, m *badge.MicroBadge) {
	r := px(m.DiameterIn) / 2
	cx := px(m.XIn) + r
	cy := px(m.YIn) + r

	fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, r, m.Color)
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" font-family="Go Bold" font-size="%.1f" font-weight="bold" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		cx, cy, r*0.6, chipTextColor, html.EscapeString(m.Text))
}

func renderQR(buf *bytes.Buffer, z *badge.QRZone) error {
	sizePx := int(px(z.SizeIn))
	data, err := qr.PNG(z.URL, sizePx)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf,
		`  <image x="%.1f" y="%.1f" width="%.1f" height="%.1f" href="data:image/png;base64,%s"/>`+"\n",
		px(z.XIn), px(z.YIn), px(z.SizeIn), px(z.SizeIn),
		base64.StdEncoding.EncodeToString(data))
	return nil
}

// PDF renders the layout as PDF via SVG conversion.
func PDF(l badge.Layout, opts ...SVGOption) ([]byte, error) {
	svg, err := SVG(l, opts...)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}

// PNGFromSVG renders the layout as PNG via SVG conversion, scaled from the
// 96dpi SVG canvas to the layout's DPI.
func PNGFromSVG(l badge.Layout, opts ...SVGOption) ([]byte, error) {
	svg, err := SVG(l, opts...)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, l.DPI/svgDPI)
}
