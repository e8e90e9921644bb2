package layout

import (
	"fmt"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

// Fixed styling for the minor text runs. These never participate in
// fitting, so they live here rather than in the template.
const (
	eventNameSizePt = 7
	pronounsSizePt  = 8
	qrSizeIn        = 0.45
	// Horizontal gap between the location graphic and the title block.
	graphicTextGapIn = 0.10
	// Titles wrap to a second line once they pass 95% of their box; the
	// measurer reports nominal advances and real rasterization runs a
	// touch wider.
	titleWrapThreshold = 0.95
)

// Compose resolves a full badge layout for one attendee. The result is
// final geometry: every text run is fitted and positioned, the interests
// band is scaled into the space the professional block leaves, and tag rows
// carry their chosen chip configuration.
//
// Compose never fails on content that is merely too large; it degrades
// (shrink, truncate, scale, clamp) and records what it did in Overflow and
// Warnings. Only an unregistered font aborts.
func (e *Engine) Compose(r *badge.Resolved) (*badge.Layout, error) {
	t := e.tmpl
	contentWidth := t.ContentWidthIn()

	l := &badge.Layout{
		TemplateID: r.Event.TemplateID,
		EventID:    r.Event.ID,
		AttendeeID: r.Attendee.ID,
		WidthIn:    t.WidthIn,
		HeightIn:   t.HeightIn,
		MarginIn:   t.MarginIn,
		DPI:        t.DPI,
	}

	// ----- Header: event name and optional profile QR -----

	if r.HasQR {
		l.QR = &badge.QRZone{
			URL:    r.Attendee.ProfileURL,
			XIn:    t.WidthIn - t.MarginIn - qrSizeIn,
			YIn:    t.MarginIn,
			SizeIn: qrSizeIn,
		}
	}
	if r.Event.DisplayName != "" {
		header := badge.TextField{
			Text:       r.Event.DisplayName,
			FontFamily: t.FontFamily,
			SizePt:     eventNameSizePt,
			XIn:        t.MarginIn,
			YIn:        t.MarginIn,
			MaxWidthIn: contentWidth,
			Align:      "center",
		}
		if r.HasQR {
			// Make room for the QR square in the corner.
			header.MaxWidthIn = contentWidth - qrSizeIn - graphicTextGapIn
			header.Align = "left"
		}
		l.EventName = &header
	}

	// ----- Name and pronouns -----

	nameFit, err := e.FitName(r.Attendee.Name, contentWidth)
	if err != nil {
		return nil, err
	}
	l.Name = badge.TextField{
		Text:       nameFit.Text,
		FontFamily: t.FontFamilyBold,
		SizePt:     nameFit.SizePt,
		XIn:        t.MarginIn,
		YIn:        t.NameTopIn,
		MaxWidthIn: contentWidth,
		Align:      "center",
		Truncated:  nameFit.Truncated,
	}
	if nameFit.Overflow {
		l.Overflow = true
		l.Warnings = append(l.Warnings, "name exceeds width at minimum size")
	}

	if r.HasPronouns {
		l.Pronouns = &badge.TextField{
			Text:       r.Attendee.Pronouns,
			FontFamily: t.FontFamily,
			SizePt:     pronounsSizePt,
			XIn:        t.MarginIn,
			YIn:        t.NameTopIn + nameFit.SizePt*t.LineHeightFactor/72.0,
			MaxWidthIn: contentWidth,
			Align:      "center",
		}
	}

	// ----- Professional block: location graphic, title, company -----

	textBlock, err := e.composeProfessional(r, l)
	if err != nil {
		return nil, err
	}
	professionalBottom := t.ProfessionalTop + textBlock

	// ----- Interests band -----

	if r.HasInterests {
		e.composeBand(l, professionalBottom)
	}

	// ----- Tag rows and micro badge -----

	if err := e.composeTags(r, l); err != nil {
		return nil, err
	}

	return l, nil
}

// composeProfessional lays out the title/company block with the location
// graphic beside it, returning the block's total height in inches.
func (e *Engine) composeProfessional(r *badge.Resolved, l *badge.Layout) (float64, error) {
	t := e.tmpl

	textX := t.MarginIn
	textMaxWidth := t.ContentWidthIn()
	if r.HasLocation {
		textX += t.GraphicSizeIn + graphicTextGapIn
		textMaxWidth -= t.GraphicSizeIn + graphicTextGapIn
	}

	titleLines := 0
	if r.HasTitle {
		w, err := e.measurer.Measure(r.Attendee.Title, t.FontFamily, fonts.Regular, t.TitleSizePt)
		if err != nil {
			return 0, err
		}
		titleLines = 1
		if w > textMaxWidth*titleWrapThreshold {
			titleLines = t.TitleMaxLines
		}
	}

	titleHeight := float64(titleLines) * t.LineHeightFactor * t.TitleSizePt / 72.0
	companyHeight := 0.0
	if r.HasCompany {
		companyHeight = t.LineHeightFactor * t.CompanySizePt / 72.0
	}

	textBlock := titleHeight
	if r.HasTitle && r.HasCompany {
		textBlock += t.CompanyGapIn
	}
	textBlock += companyHeight

	if r.HasTitle {
		l.Title = &badge.TextField{
			Text:       r.Attendee.Title,
			FontFamily: t.FontFamily,
			SizePt:     t.TitleSizePt,
			XIn:        textX,
			YIn:        t.ProfessionalTop,
			MaxWidthIn: textMaxWidth,
			Lines:      titleLines,
		}
	}
	if r.HasCompany {
		companyY := t.ProfessionalTop + titleHeight
		if r.HasTitle {
			companyY += t.CompanyGapIn
		}
		l.Company = &badge.TextField{
			Text:       r.Attendee.Company,
			FontFamily: t.FontFamily,
			SizePt:     t.CompanySizePt,
			XIn:        textX,
			YIn:        companyY,
			MaxWidthIn: textMaxWidth,
			Lines:      1,
		}
	}

	if r.HasLocation {
		// The glyph centers vertically against the text block; with no
		// title or company it sits flush at the block top.
		offset := textBlock/2 - t.GraphicSizeIn/2
		l.Graphic = &badge.ImageZone{
			Source:   r.Attendee.Location,
			XIn:      t.MarginIn,
			YIn:      t.ProfessionalTop + offset,
			WidthIn:  t.GraphicSizeIn,
			HeightIn: t.GraphicSizeIn,
		}
	}

	return textBlock, nil
}

// composeBand scales the interests illustration into whatever vertical
// space remains between the professional block and the tag zone.
func (e *Engine) composeBand(l *badge.Layout, professionalBottom float64) {
	t := e.tmpl

	bandTop := professionalBottom + t.BandGapIn
	available := t.MaxBandBottomIn() - bandTop
	if available <= 0 {
		// Fully squeezed out. Drop the band rather than emit negative
		// geometry.
		l.Warnings = append(l.Warnings, fmt.Sprintf(
			"no vertical space for interests band (%.2fin available)", available))
		return
	}

	scale := 1.0
	if available < t.BandHeightIn {
		scale = available / t.BandHeightIn
	}
	width := t.BandWidthIn * scale
	height := t.BandHeightIn * scale

	l.Band = &badge.ImageZone{
		XIn:      t.MarginIn + (t.BandWidthIn-width)/2,
		YIn:      bandTop,
		WidthIn:  width,
		HeightIn: height,
		Scale:    scale,
	}
}

// composeTags fits the two standard tag rows and places the micro badge.
func (e *Engine) composeTags(r *badge.Resolved, l *badge.Layout) error {
	t := e.tmpl
	contentWidth := t.ContentWidthIn()
	zoneHeight := t.HeightIn - t.TagZoneTopIn
	rowHeight := zoneHeight / 2

	split := t.TopRowCount
	if split > len(r.StandardTags) {
		split = len(r.StandardTags)
	}
	top, bottom := r.StandardTags[:split], r.StandardTags[split:]

	bottomMaxWidth := contentWidth
	if r.Micro != nil {
		bottomMaxWidth -= t.MicroReserveIn
	}

	if len(top) > 0 {
		row, err := e.fitRow(top, contentWidth, t.TagZoneTopIn)
		if err != nil {
			return err
		}
		l.TopTags = row
		if row.Overflow {
			l.Overflow = true
			l.Warnings = append(l.Warnings, "top tag row exceeds width at minimum size")
		}
	}
	if len(bottom) > 0 {
		row, err := e.fitRow(bottom, bottomMaxWidth, t.TagZoneTopIn+rowHeight)
		if err != nil {
			return err
		}
		l.BottomTags = row
		if row.Overflow {
			l.Overflow = true
			l.Warnings = append(l.Warnings, "bottom tag row exceeds width at minimum size")
		}
	}

	if r.Micro != nil {
		l.Micro = &badge.MicroBadge{
			Text:       r.Micro.Value,
			Color:      r.Micro.Color,
			DiameterIn: t.MicroDiameterIn,
			XIn:        t.WidthIn - t.MarginIn - t.MicroDiameterIn,
			YIn:        t.TagZoneTopIn + (zoneHeight-t.MicroDiameterIn)/2,
		}
	}

	return nil
}

func (e *Engine) fitRow(tags []badge.ResolvedTag, maxWidthIn, yIn float64) (*badge.TagRow, error) {
	labels := make([]string, len(tags))
	for i, tag := range tags {
		labels[i] = tag.Value
	}
	fit, err := e.fitTagRow(labels, maxWidthIn)
	if err != nil {
		return nil, err
	}

	chips := make([]badge.TagChip, len(tags))
	for i, tag := range tags {
		chips[i] = badge.TagChip{Text: tag.Value, Color: tag.Color, WidthIn: fit.ChipWidthsIn[i]}
	}
	return &badge.TagRow{
		Tags:       chips,
		FontSizePt: fit.FontSizePt,
		PaddingIn:  fit.PaddingIn,
		GapIn:      fit.GapIn,
		YIn:        yIn,
		MaxWidthIn: maxWidthIn,
		Overflow:   fit.Overflow,
	}, nil
}
