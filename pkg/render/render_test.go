package render

import (
	"image"
	"strings"
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

func sampleLayout() badge.Layout {
	return badge.Layout{
		TemplateID: "default",
		EventID:    "ev-1",
		AttendeeID: "att-1",
		WidthIn:    3.0,
		HeightIn:   4.0,
		MarginIn:   0.15,
		DPI:        96,
		EventName: &badge.TextField{
			Text: "GopherCon 2026", FontFamily: "Go", SizePt: 7,
			XIn: 0.15, YIn: 0.15, MaxWidthIn: 2.15, Align: "left",
		},
		Name: badge.TextField{
			Text: "Ada Lovelace", FontFamily: "Go Bold", SizePt: 18,
			XIn: 0.15, YIn: 0.55, MaxWidthIn: 2.7, Align: "center",
		},
		Title: &badge.TextField{
			Text: "Staff Engineer", FontFamily: "Go", SizePt: 10,
			XIn: 0.65, YIn: 1.83, MaxWidthIn: 2.2, Lines: 1,
		},
		Graphic: &badge.ImageZone{Source: "London", XIn: 0.15, YIn: 1.83, WidthIn: 0.4, HeightIn: 0.4},
		Band:    &badge.ImageZone{XIn: 0.15, YIn: 2.2, WidthIn: 2.7, HeightIn: 1.32, Scale: 0.98},
		TopTags: &badge.TagRow{
			Tags: []badge.TagChip{
				{Text: "AI", Color: "#E07A5F", WidthIn: 0.37},
				{Text: "Web", Color: "#E07A5F", WidthIn: 0.44},
			},
			FontSizePt: 8, PaddingIn: 0.12, GapIn: 0.08,
			YIn: 3.62, MaxWidthIn: 2.7,
		},
		Micro: &badge.MicroBadge{
			Text: "ORG", Color: "#3D405B", DiameterIn: 0.35, XIn: 2.5, YIn: 3.635,
		},
		QR: &badge.QRZone{URL: "https://example.com/ada", XIn: 2.4, YIn: 0.15, SizeIn: 0.45},
	}
}

func TestSVGStructure(t *testing.T) {
	svg, err := SVG(sampleLayout())
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	out := string(svg)

	for _, want := range []string{
		`viewBox="0 0 288.0 384.0"`,
		"Ada Lovelace",
		"GopherCon 2026",
		"Staff Engineer",
		">AI</text>",
		">ORG</text>",
		"data:image/png;base64,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}

	// Chips plus micro: three colored shapes.
	if got := strings.Count(out, "#E07A5F"); got != 2 {
		t.Errorf("chip fill count = %d, want 2", got)
	}
}

func TestSVGWithoutQR(t *testing.T) {
	svg, err := SVG(sampleLayout(), WithoutQR())
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if strings.Contains(string(svg), "data:image/png") {
		t.Error("SVG output embeds QR despite WithoutQR")
	}
}

func TestSVGBandHref(t *testing.T) {
	svg, err := SVG(sampleLayout(), WithBandHref("assets/band.png"))
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if !strings.Contains(string(svg), `href="assets/band.png"`) {
		t.Error("SVG output missing band href")
	}
}

func TestSVGEscapesText(t *testing.T) {
	l := sampleLayout()
	l.Name.Text = `Dwayne "The Rock" <Johnson>`

	svg, err := SVG(l)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if strings.Contains(string(svg), "<Johnson>") {
		t.Error("SVG output contains unescaped markup")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := JSON(sampleLayout())
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	got, err := badge.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if got.Name.Text != "Ada Lovelace" || got.DPI != 96 {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestRasterDimensions(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	img, err := Raster(sampleLayout(), reg)
	if err != nil {
		t.Fatalf("Raster() error = %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 288 || h != 384 {
		t.Errorf("raster %dx%d, want 288x384 at 96dpi", w, h)
	}
}

func TestRasterDrawsInk(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	img, err := Raster(sampleLayout(), reg)
	if err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	allWhite := true
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && allWhite; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF {
				allWhite = false
				break
			}
		}
	}
	if allWhite {
		t.Error("raster output is blank")
	}
}

func TestRasterUnknownFontFails(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	l := sampleLayout()
	l.Name.FontFamily = "Comic Sans"

	if _, err := Raster(l, reg); err == nil {
		t.Fatal("Raster() error = nil, want unknown font error")
	}
}

func TestRasterWithBandImage(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	band := image.NewNRGBA(image.Rect(0, 0, 40, 20))

	if _, err := Raster(sampleLayout(), reg, WithBandImage(band)); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text  string
		lines int
		want  []string
	}{
		{"Staff Engineer", 1, []string{"Staff Engineer"}},
		{"Principal Platform Engineer", 2, []string{"Principal", "Platform Engineer"}},
		{"Unsplittable", 2, []string{"Unsplittable"}},
	}
	for _, tt := range tests {
		got := splitLines(tt.text, tt.lines)
		if len(got) != len(tt.want) {
			t.Errorf("splitLines(%q, %d) = %v, want %v", tt.text, tt.lines, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitLines(%q, %d) = %v, want %v", tt.text, tt.lines, got, tt.want)
			}
		}
	}
}
