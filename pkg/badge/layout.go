package badge

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Resolved Geometry Descriptor
// =============================================================================

// Layout is the fully resolved geometry/style descriptor for one badge.
//
// Everything a render sink needs is final here: text has been truncated and
// sized, tag rows carry their chosen font/padding/gap, and the interests band
// carries its scaled dimensions and offset. Sinks never measure or fit.
//
// Layouts serialize to JSON for caching, the HTTP API, and the `compose`
// command's output; compose once, render many times.
type Layout struct {
	TemplateID string `json:"template_id" bson:"template_id"`
	EventID    string `json:"event_id,omitempty" bson:"event_id,omitempty"`
	AttendeeID string `json:"attendee_id,omitempty" bson:"attendee_id,omitempty"`

	// Canvas, duplicated from the template so a layout renders standalone.
	WidthIn  float64 `json:"width_in" bson:"width_in"`
	HeightIn float64 `json:"height_in" bson:"height_in"`
	MarginIn float64 `json:"margin_in" bson:"margin_in"`
	DPI      float64 `json:"dpi" bson:"dpi"`

	// Text fields. Absent blocks are nil.
	EventName *TextField `json:"event_name,omitempty" bson:"event_name,omitempty"`
	Name      TextField  `json:"name" bson:"name"`
	Pronouns  *TextField `json:"pronouns,omitempty" bson:"pronouns,omitempty"`
	Title     *TextField `json:"title,omitempty" bson:"title,omitempty"`
	Company   *TextField `json:"company,omitempty" bson:"company,omitempty"`

	// Location graphic, vertically centered against the title/company block.
	Graphic *ImageZone `json:"graphic,omitempty" bson:"graphic,omitempty"`

	// Interests illustration band (exact 2:1 asset).
	Band *ImageZone `json:"band,omitempty" bson:"band,omitempty"`

	// Tag rows and the optional micro badge.
	TopTags    *TagRow     `json:"top_tags,omitempty" bson:"top_tags,omitempty"`
	BottomTags *TagRow     `json:"bottom_tags,omitempty" bson:"bottom_tags,omitempty"`
	Micro      *MicroBadge `json:"micro,omitempty" bson:"micro,omitempty"`

	// Profile QR code.
	QR *QRZone `json:"qr,omitempty" bson:"qr,omitempty"`

	// Degradation flags: the badge still renders, but a fitter exhausted its
	// search space (accepted overflow) or the composer clamped a negative
	// space. Callers log these.
	Overflow bool     `json:"overflow,omitempty" bson:"overflow,omitempty"`
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// TextField is one positioned, fully fitted text run.
type TextField struct {
	Text       string  `json:"text" bson:"text"`
	FontFamily string  `json:"font_family" bson:"font_family"`
	SizePt     float64 `json:"size_pt" bson:"size_pt"`
	XIn        float64 `json:"x_in" bson:"x_in"`
	YIn        float64 `json:"y_in" bson:"y_in"`
	MaxWidthIn float64 `json:"max_width_in" bson:"max_width_in"`
	Lines      int     `json:"lines,omitempty" bson:"lines,omitempty"`
	Align      string  `json:"align,omitempty" bson:"align,omitempty"`
	Color      string  `json:"color,omitempty" bson:"color,omitempty"`
	Truncated  bool    `json:"truncated,omitempty" bson:"truncated,omitempty"`
}

// ImageZone is a positioned, scaled image placement.
type ImageZone struct {
	Source   string  `json:"source,omitempty" bson:"source,omitempty"`
	XIn      float64 `json:"x_in" bson:"x_in"`
	YIn      float64 `json:"y_in" bson:"y_in"`
	WidthIn  float64 `json:"width_in" bson:"width_in"`
	HeightIn float64 `json:"height_in" bson:"height_in"`
	Scale    float64 `json:"scale,omitempty" bson:"scale,omitempty"`
}

// TagRow is a fitted row of standard tags sharing one style configuration.
type TagRow struct {
	Tags       []TagChip `json:"tags" bson:"tags"`
	FontSizePt float64   `json:"font_size_pt" bson:"font_size_pt"`
	PaddingIn  float64   `json:"padding_in" bson:"padding_in"`
	GapIn      float64   `json:"gap_in" bson:"gap_in"`
	YIn        float64   `json:"y_in" bson:"y_in"`
	MaxWidthIn float64   `json:"max_width_in" bson:"max_width_in"`
	Overflow   bool      `json:"overflow,omitempty" bson:"overflow,omitempty"`
}

// TagChip is one pill within a tag row. WidthIn is final chip width,
// text plus horizontal padding, so sinks draw without measuring.
type TagChip struct {
	Text    string  `json:"text" bson:"text"`
	Color   string  `json:"color" bson:"color"`
	WidthIn float64 `json:"width_in" bson:"width_in"`
}

// MicroBadge is the circular micro tag placement.
type MicroBadge struct {
	Text       string  `json:"text" bson:"text"`
	Color      string  `json:"color" bson:"color"`
	DiameterIn float64 `json:"diameter_in" bson:"diameter_in"`
	XIn        float64 `json:"x_in" bson:"x_in"`
	YIn        float64 `json:"y_in" bson:"y_in"`
}

// QRZone is the profile QR code placement.
type QRZone struct {
	URL    string  `json:"url" bson:"url"`
	XIn    float64 `json:"x_in" bson:"x_in"`
	YIn    float64 `json:"y_in" bson:"y_in"`
	SizeIn float64 `json:"size_in" bson:"size_in"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.WidthIn <= 0 || l.HeightIn <= 0 {
		return Layout{}, fmt.Errorf("layout missing canvas dimensions")
	}
	return l, nil
}

// ReadLayoutFile loads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout %s: %w", path, err)
	}
	return nil
}
