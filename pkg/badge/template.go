package badge

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// =============================================================================
// Template - Fixed Canvas Description
// =============================================================================

// Template describes the fixed badge canvas and its zones. All linear values
// are inches; font sizes are points. The engine is unit-agnostic as long as
// the point/inch conversion (72 pt per inch) is applied consistently.
//
// Templates are declared in TOML. [DefaultTemplate] is the standard 3"×4"
// conference badge; a TOML file only needs to override what differs.
type Template struct {
	ID string `toml:"id"`

	// Canvas
	WidthIn  float64 `toml:"width_in"`
	HeightIn float64 `toml:"height_in"`
	MarginIn float64 `toml:"margin_in"`
	DPI      float64 `toml:"dpi"`

	// Fonts: family names as registered with the metrics registry.
	FontFamily     string `toml:"font_family"`
	FontFamilyBold string `toml:"font_family_bold"`

	// Name zone
	NameMaxSizePt float64 `toml:"name_max_size_pt"`
	NameMinSizePt float64 `toml:"name_min_size_pt"`
	NameTopIn     float64 `toml:"name_top_in"`

	// Professional info block (location graphic + title + company)
	TitleSizePt      float64 `toml:"title_size_pt"`
	TitleMaxLines    int     `toml:"title_max_lines"`
	CompanySizePt    float64 `toml:"company_size_pt"`
	LineHeightFactor float64 `toml:"line_height_factor"`
	CompanyGapIn     float64 `toml:"company_gap_in"`
	ProfessionalTop  float64 `toml:"professional_top_in"`
	GraphicSizeIn    float64 `toml:"graphic_size_in"`

	// Interests band (2:1 illustration)
	BandWidthIn  float64 `toml:"band_width_in"`
	BandHeightIn float64 `toml:"band_height_in"`
	BandGapIn    float64 `toml:"band_gap_in"`

	// Tag zones
	TagZoneTopIn    float64 `toml:"tag_zone_top_in"`    // top edge of the bottom tag zone
	TagZoneGapIn    float64 `toml:"tag_zone_gap_in"`    // min gap between band and tags
	MicroDiameterIn float64 `toml:"micro_diameter_in"`  // micro badge circle
	MicroReserveIn  float64 `toml:"micro_reserve_in"`   // width reserved on the bottom row
	TopRowCount     int     `toml:"top_row_tag_count"`  // standard tags on the top row
}

// DefaultTemplate returns the standard 3"×4" badge template.
func DefaultTemplate() Template {
	return Template{
		ID:       "standard-3x4",
		WidthIn:  3.0,
		HeightIn: 4.0,
		MarginIn: 0.15,
		DPI:      288,

		FontFamily:     "Go",
		FontFamilyBold: "Go Bold",

		NameMaxSizePt: 18,
		NameMinSizePt: 12,
		NameTopIn:     0.55,

		TitleSizePt:      10,
		TitleMaxLines:    2,
		CompanySizePt:    9,
		LineHeightFactor: 1.2,
		CompanyGapIn:     0.04,
		ProfessionalTop:  1.83,
		GraphicSizeIn:    0.4,

		BandWidthIn:  2.7,
		BandHeightIn: 1.35,
		BandGapIn:    0.10,

		TagZoneTopIn:    3.62,
		TagZoneGapIn:    0.10,
		MicroDiameterIn: 0.35,
		MicroReserveIn:  0.45,
		TopRowCount:     3,
	}
}

// ContentWidthIn returns the usable width inside the margins.
func (t *Template) ContentWidthIn() float64 {
	return t.WidthIn - 2*t.MarginIn
}

// MaxBandBottomIn returns the lowest allowed bottom edge of the interests
// band: the tag zone top minus the minimum gap.
func (t *Template) MaxBandBottomIn() float64 {
	return t.TagZoneTopIn - t.TagZoneGapIn
}

// Validate checks template values for internal consistency.
func (t *Template) Validate() error {
	if t.WidthIn <= 0 || t.HeightIn <= 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "canvas dimensions must be positive")
	}
	if t.MarginIn < 0 || 2*t.MarginIn >= t.WidthIn {
		return errors.New(errors.ErrCodeInvalidTemplate, "margin %.2f does not fit canvas width %.2f", t.MarginIn, t.WidthIn)
	}
	if t.NameMinSizePt > t.NameMaxSizePt {
		return errors.New(errors.ErrCodeInvalidTemplate, "name min size %.1f exceeds max %.1f", t.NameMinSizePt, t.NameMaxSizePt)
	}
	if t.BandHeightIn <= 0 || t.BandWidthIn <= 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "interests band dimensions must be positive")
	}
	return nil
}

// LoadTemplate reads a TOML template file on top of the defaults, so partial
// files are valid.
func LoadTemplate(path string) (Template, error) {
	t := DefaultTemplate()
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read template %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return Template{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse template %s", path)
	}
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}
