package layout

import (
	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

// tagSafetyFactor is the fill ratio a tag row must stay under. Chips get
// rounded ends whose curvature eats into the measured rectangle.
const tagSafetyFactor = 0.93

// Shrink candidates, each ordered largest-first. Font size is the outer
// loop so type stays readable as long as possible; spacing gives way first
// within a size.
var (
	tagFontSizes = []float64{8, 7.5, 7}
	tagPaddings  = []float64{0.12, 0.10, 0.08}
	tagGaps      = []float64{0.08, 0.06, 0.04}
)

// TagFit is a resolved sizing configuration for one row of tag chips.
type TagFit struct {
	FontSizePt float64
	PaddingIn  float64
	GapIn      float64
	// Overflow marks a row that exceeds its width even at the smallest
	// configuration. The smallest configuration is returned regardless.
	Overflow bool
}

// widths of each chip at the fitted configuration, parallel to the input
// labels.
type fittedRow struct {
	TagFit
	ChipWidthsIn []float64
}

// FitTags searches the shrink ladder for the largest configuration whose
// chips fill at most 93% of maxWidthIn. The ladder is exhaustive: every
// font size is tried with every padding and gap combination before the row
// is declared overflowing.
func (e *Engine) FitTags(labels []string, maxWidthIn float64) (TagFit, error) {
	row, err := e.fitTagRow(labels, maxWidthIn)
	if err != nil {
		return TagFit{}, err
	}
	return row.TagFit, nil
}

func (e *Engine) fitTagRow(labels []string, maxWidthIn float64) (fittedRow, error) {
	if len(labels) == 0 {
		return fittedRow{TagFit: TagFit{
			FontSizePt: tagFontSizes[0],
			PaddingIn:  tagPaddings[0],
			GapIn:      tagGaps[0],
		}}, nil
	}

	limit := maxWidthIn * tagSafetyFactor

	for _, size := range tagFontSizes {
		textWidths := make([]float64, len(labels))
		for i, label := range labels {
			w, err := e.measurer.Measure(label, e.tmpl.FontFamily, fonts.Medium, size)
			if err != nil {
				return fittedRow{}, err
			}
			textWidths[i] = w
		}
		for _, padding := range tagPaddings {
			for _, gap := range tagGaps {
				total := gap * float64(len(labels)-1)
				chips := make([]float64, len(labels))
				for i, w := range textWidths {
					chips[i] = w + 2*padding
					total += chips[i]
				}
				if total <= limit {
					return fittedRow{
						TagFit:       TagFit{FontSizePt: size, PaddingIn: padding, GapIn: gap},
						ChipWidthsIn: chips,
					}, nil
				}
			}
		}
	}

	// Nothing fits: keep the smallest configuration and flag the row.
	minSize := tagFontSizes[len(tagFontSizes)-1]
	minPad := tagPaddings[len(tagPaddings)-1]
	chips := make([]float64, len(labels))
	for i, label := range labels {
		w, err := e.measurer.Measure(label, e.tmpl.FontFamily, fonts.Medium, minSize)
		if err != nil {
			return fittedRow{}, err
		}
		chips[i] = w + 2*minPad
	}
	return fittedRow{
		TagFit: TagFit{
			FontSizePt: minSize,
			PaddingIn:  minPad,
			GapIn:      tagGaps[len(tagGaps)-1],
			Overflow:   true,
		},
		ChipWidthsIn: chips,
	}, nil
}
