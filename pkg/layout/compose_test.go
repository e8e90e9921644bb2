package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/badge"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func fullResolved() *badge.Resolved {
	return &badge.Resolved{
		Attendee: badge.Attendee{
			ID:         "att-1",
			Name:       "Ada Lovelace",
			Title:      "Staff Engineer",
			Company:    "Analytical Engines Ltd",
			Location:   "London",
			Pronouns:   "she/her",
			ProfileURL: "https://example.com/ada",
		},
		Event: badge.Event{
			ID:          "ev-1",
			DisplayName: "GopherCon 2026",
			TemplateID:  "default",
		},
		HasTitle:     true,
		HasCompany:   true,
		HasLocation:  true,
		HasPronouns:  true,
		HasQR:        true,
		HasInterests: true,
		StandardTags: []badge.ResolvedTag{
			{Category: "topics", Value: "AI", Color: "#E07A5F"},
			{Category: "topics", Value: "Web", Color: "#E07A5F"},
			{Category: "topics", Value: "Go", Color: "#E07A5F"},
			{Category: "topics", Value: "Infra", Color: "#E07A5F"},
		},
		Micro: &badge.ResolvedTag{Category: "role", Value: "ORG", Color: "#3D405B"},
	}
}

func TestComposeFullBadge(t *testing.T) {
	e := newTestEngine(t)

	l, err := e.Compose(fullResolved())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if l.Overflow || len(l.Warnings) != 0 {
		t.Errorf("Compose() overflow=%v warnings=%v, want clean layout", l.Overflow, l.Warnings)
	}
	if l.Name.Text != "Ada Lovelace" || l.Name.SizePt != 18 {
		t.Errorf("name = %q at %gpt, want full name at max size", l.Name.Text, l.Name.SizePt)
	}
	if l.Name.FontFamily != "Go Bold" {
		t.Errorf("name family = %q, want bold family", l.Name.FontFamily)
	}
	if l.EventName == nil || l.Pronouns == nil || l.Title == nil || l.Company == nil {
		t.Fatal("expected all text blocks present")
	}
	if l.Graphic == nil || l.Band == nil || l.QR == nil || l.Micro == nil {
		t.Fatal("expected graphic, band, QR, and micro present")
	}

	// QR sits in the top-right corner inside the margin.
	if !approx(l.QR.XIn, 3.0-0.15-qrSizeIn) || !approx(l.QR.YIn, 0.15) {
		t.Errorf("QR at (%g, %g), want top-right corner", l.QR.XIn, l.QR.YIn)
	}

	// First three standard tags go up top, the rest below.
	if got := len(l.TopTags.Tags); got != 3 {
		t.Errorf("top row has %d tags, want 3", got)
	}
	if got := len(l.BottomTags.Tags); got != 1 {
		t.Errorf("bottom row has %d tags, want 1", got)
	}

	// The micro badge reserves width on the bottom row only.
	if !approx(l.TopTags.MaxWidthIn, 2.7) {
		t.Errorf("top row max width = %g, want 2.7", l.TopTags.MaxWidthIn)
	}
	if !approx(l.BottomTags.MaxWidthIn, 2.25) {
		t.Errorf("bottom row max width = %g, want 2.25", l.BottomTags.MaxWidthIn)
	}
	if !approx(l.Micro.XIn, 3.0-0.15-0.35) {
		t.Errorf("micro x = %g, want flush right", l.Micro.XIn)
	}
}

func TestComposeMinimalBadge(t *testing.T) {
	e := newTestEngine(t)

	r := &badge.Resolved{
		Attendee: badge.Attendee{Name: "Cher"},
		Event:    badge.Event{ID: "ev-1", TemplateID: "default"},
	}
	l, err := e.Compose(r)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if l.Title != nil || l.Company != nil || l.Graphic != nil || l.Band != nil ||
		l.QR != nil || l.Micro != nil || l.TopTags != nil || l.BottomTags != nil {
		t.Errorf("Compose() = %+v, want name-only layout", l)
	}
	if l.Name.Text != "Cher" {
		t.Errorf("name = %q, want Cher", l.Name.Text)
	}
}

func TestComposeProfessionalBlockHeight(t *testing.T) {
	e := newTestEngine(t)

	// Company only: one 9pt line at 1.2 line height.
	r := &badge.Resolved{
		Attendee:   badge.Attendee{Name: "Cher", Company: "Solo Inc"},
		HasCompany: true,
	}
	l := &badge.Layout{}
	textBlock, err := e.composeProfessional(r, l)
	if err != nil {
		t.Fatalf("composeProfessional() error = %v", err)
	}
	if want := 1.2 * 9.0 / 72.0; !approx(textBlock, want) {
		t.Errorf("textBlock = %g, want %g", textBlock, want)
	}
	if l.Title != nil {
		t.Error("expected no title block")
	}
	if !approx(l.Company.YIn, e.tmpl.ProfessionalTop) {
		t.Errorf("company y = %g, want block top with no title", l.Company.YIn)
	}
}

func TestComposeTitleWrapsToTwoLines(t *testing.T) {
	e := newTestEngine(t)

	r := &badge.Resolved{
		Attendee: badge.Attendee{
			Name:  "Cher",
			Title: strings.Repeat("Principal Engineer ", 3),
		},
		HasTitle: true,
	}
	l := &badge.Layout{}
	if _, err := e.composeProfessional(r, l); err != nil {
		t.Fatalf("composeProfessional() error = %v", err)
	}
	if l.Title.Lines != 2 {
		t.Errorf("title lines = %d, want 2", l.Title.Lines)
	}
}

func TestComposeBandScaling(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name               string
		professionalBottom float64
		wantScale          float64
		wantWidth          float64
		wantX              float64
		wantHeight         float64
	}{
		{
			name: "full height when space allows",
			// bandTop 2.08, available 1.44 >= 1.35
			professionalBottom: 1.98,
			wantScale:          1.0,
			wantWidth:          2.7,
			wantX:              0.15,
			wantHeight:         1.35,
		},
		{
			name: "scaled and centered when squeezed",
			// bandTop 2.62, available 0.90
			professionalBottom: 2.52,
			wantScale:          0.9 / 1.35,
			wantWidth:          1.8,
			wantX:              0.15 + 0.45,
			wantHeight:         0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &badge.Layout{}
			e.composeBand(l, tt.professionalBottom)
			if l.Band == nil {
				t.Fatal("composeBand() dropped the band")
			}
			if !approx(l.Band.Scale, tt.wantScale) {
				t.Errorf("scale = %g, want %g", l.Band.Scale, tt.wantScale)
			}
			if !approx(l.Band.WidthIn, tt.wantWidth) {
				t.Errorf("width = %g, want %g", l.Band.WidthIn, tt.wantWidth)
			}
			if !approx(l.Band.HeightIn, tt.wantHeight) {
				t.Errorf("height = %g, want %g", l.Band.HeightIn, tt.wantHeight)
			}
			if !approx(l.Band.XIn, tt.wantX) {
				t.Errorf("x = %g, want %g", l.Band.XIn, tt.wantX)
			}
			// Bottom edge never crosses into the tag zone.
			if bottom := l.Band.YIn + l.Band.HeightIn; bottom > e.tmpl.MaxBandBottomIn()+1e-9 {
				t.Errorf("band bottom = %g, exceeds %g", bottom, e.tmpl.MaxBandBottomIn())
			}
		})
	}
}

func TestComposeBandNoSpace(t *testing.T) {
	e := newTestEngine(t)

	l := &badge.Layout{}
	e.composeBand(l, 3.60)
	if l.Band != nil {
		t.Error("composeBand() emitted a band with negative space")
	}
	if len(l.Warnings) != 1 {
		t.Errorf("warnings = %v, want one clamp warning", l.Warnings)
	}
}

func TestComposeNameOverflowPropagates(t *testing.T) {
	tmpl := badge.DefaultTemplate()
	// Exaggerated glyph width forces even a first name past the box.
	e := NewEngine(&tmpl, fixedMeasurer{charWidthEm: 8})

	r := &badge.Resolved{Attendee: badge.Attendee{Name: "Maximilian Oberstdorfer"}}
	l, err := e.Compose(r)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !l.Overflow {
		t.Error("Compose() overflow = false, want true")
	}
	if len(l.Warnings) == 0 {
		t.Error("Compose() recorded no warning for accepted overflow")
	}
	if l.Name.Text != "Maximilian" {
		t.Errorf("name = %q, want first name fallback", l.Name.Text)
	}
}
