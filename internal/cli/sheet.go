package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// sheetGutterPx is the spacing between badges on a contact sheet.
const sheetGutterPx = 24

// contactSheet arranges rendered badge PNGs into an N-up proof grid. All
// badges in one batch share a template, so the first image fixes the cell
// size; anything else is scaled to fit.
func contactSheet(pngs [][]byte, cols int) ([]byte, error) {
	if len(pngs) == 0 {
		return nil, fmt.Errorf("no badges to lay out")
	}
	if cols < 1 {
		cols = 1
	}
	if cols > len(pngs) {
		cols = len(pngs)
	}

	badges := make([]image.Image, 0, len(pngs))
	for i, data := range pngs {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode badge %d: %w", i, err)
		}
		badges = append(badges, img)
	}

	cellW := badges[0].Bounds().Dx()
	cellH := badges[0].Bounds().Dy()
	rows := sheetRows(len(badges), cols)

	sheet := imaging.New(
		cols*cellW+(cols+1)*sheetGutterPx,
		rows*cellH+(rows+1)*sheetGutterPx,
		color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	)

	for i, img := range badges {
		if img.Bounds().Dx() != cellW || img.Bounds().Dy() != cellH {
			img = imaging.Fit(img, cellW, cellH, imaging.CatmullRom)
		}
		col := i % cols
		row := i / cols
		x := sheetGutterPx + col*(cellW+sheetGutterPx)
		y := sheetGutterPx + row*(cellH+sheetGutterPx)
		sheet = imaging.Paste(sheet, img, image.Pt(x, y))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetRows returns the number of grid rows needed for n badges.
func sheetRows(n, cols int) int {
	return (n + cols - 1) / cols
}
