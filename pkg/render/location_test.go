package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

func TestLocationPNG(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	data, err := LocationPNG(reg, "Portland, OR", 128)
	if err != nil {
		t.Fatalf("LocationPNG() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 128 || img.Bounds().Dy() != 128 {
		t.Errorf("size = %dx%d, want 128x128", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// The glyph must leave ink on the canvas.
	ink := false
	for y := 0; y < 128 && !ink; y++ {
		for x := 0; x < 128; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
				ink = true
				break
			}
		}
	}
	if !ink {
		t.Error("location graphic is blank")
	}
}

func TestLocationPNGNoLabel(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := LocationPNG(reg, "", 64); err != nil {
		t.Fatalf("LocationPNG() error: %v", err)
	}
}
