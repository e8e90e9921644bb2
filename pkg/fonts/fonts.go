// Package fonts provides the font metrics registry for badge layout.
//
// Every width the layout engine computes and every glyph the raster renderer
// draws must come from the same parsed font, or the fitting guarantees are
// void. This package is that single source of truth: faces handed to the
// renderer are derived from the same [truetype.Font] the measurer uses.
//
// The registry is populated once at startup and read-only afterwards, which
// makes it safe to share across concurrent badge renders. The embedded Go
// font family (from golang.org/x/image/font/gofont) is registered by
// [NewRegistry] so the engine works without any font files on disk; brand
// fonts are added with [Registry.RegisterTTF].
//
// Bold faces render measurably wider than the regular weight used for
// measurement. That systematic widening is absorbed by the layout engine's
// safety factor, not by measuring the bold variant.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// Weight identifies a font weight within a family.
type Weight string

// Registered weights.
const (
	Regular Weight = "regular"
	Medium  Weight = "medium"
	Bold    Weight = "bold"
)

// Default family names registered by NewRegistry.
const (
	FamilyGo       = "Go"
	FamilyGoMedium = "Go Medium"
	FamilyGoBold   = "Go Bold"
)

// pointsPerInch converts font points to inches.
const pointsPerInch = 72.0

type faceKey struct {
	family string
	weight Weight
	size   float64
}

// Registry holds parsed fonts and caches faces by (family, weight, size).
// Registration must finish before the first Measure or Face call; after
// that the registry is effectively immutable and safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]map[Weight]*truetype.Font
	faces map[faceKey]font.Face
}

// NewRegistry creates a registry with the embedded Go font family
// pre-registered: "Go" (regular), "Go Medium", and "Go Bold". Each family is
// also registered under its own regular weight so callers may address faces
// either as (family, weight) or by the weight-specific family name.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		fonts: make(map[string]map[Weight]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}

	for _, f := range []struct {
		family string
		weight Weight
		data   []byte
	}{
		{FamilyGo, Regular, goregular.TTF},
		{FamilyGo, Medium, gomedium.TTF},
		{FamilyGo, Bold, gobold.TTF},
		{FamilyGoMedium, Regular, gomedium.TTF},
		{FamilyGoBold, Regular, gobold.TTF},
	} {
		if err := r.Register(f.family, f.weight, f.data); err != nil {
			return nil, fmt.Errorf("register embedded %s/%s: %w", f.family, f.weight, err)
		}
	}

	return r, nil
}

// Register parses raw TTF data and stores it under (family, weight).
// Re-registering an existing face replaces it.
func (r *Registry) Register(family string, weight Weight, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font %s/%s: %w", family, weight, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fonts[family] == nil {
		r.fonts[family] = make(map[Weight]*truetype.Font)
	}
	r.fonts[family][weight] = f
	return nil
}

// RegisterTTF loads a TTF file from disk and registers it under (family, weight).
func (r *Registry) RegisterTTF(family string, weight Weight, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return r.Register(family, weight, data)
}

// lookup returns the parsed font for (family, weight), or an UNKNOWN_FONT
// error. There is deliberately no fallback: silently substituting metrics
// would invalidate every width-based fitting decision downstream.
func (r *Registry) lookup(family string, weight Weight) (*truetype.Font, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	weights, ok := r.fonts[family]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownFont, "no metrics registered for font family %q", family)
	}
	f, ok := weights[weight]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownFont, "no metrics registered for %q weight %q", family, weight)
	}
	return f, nil
}

// Face returns a font.Face for (family, weight) at the given point size.
// Faces are cached; the same face drives measurement and rendering.
func (r *Registry) Face(family string, weight Weight, sizePt float64) (font.Face, error) {
	key := faceKey{family, weight, sizePt}

	r.mu.RLock()
	face, ok := r.faces[key]
	r.mu.RUnlock()
	if ok {
		return face, nil
	}

	f, err := r.lookup(family, weight)
	if err != nil {
		return nil, err
	}

	face = truetype.NewFace(f, &truetype.Options{Size: sizePt, DPI: pointsPerInch})

	r.mu.Lock()
	r.faces[key] = face
	r.mu.Unlock()
	return face, nil
}

// Measure returns the rendered width of text in inches at the given point
// size. Deterministic and side-effect-free given a populated registry.
func (r *Registry) Measure(text, family string, weight Weight, sizePt float64) (float64, error) {
	face, err := r.Face(family, weight, sizePt)
	if err != nil {
		return 0, err
	}

	// font.MeasureString returns 26.6 fixed-point pixels; at 72 DPI one
	// pixel is one point.
	widthPt := float64(font.MeasureString(face, text)) / 64.0
	return widthPt / pointsPerInch, nil
}

// Measurer is the measurement interface consumed by the layout engine.
// *Registry implements it; tests may substitute fixed metrics.
type Measurer interface {
	Measure(text, family string, weight Weight, sizePt float64) (float64, error)
}

var _ Measurer = (*Registry)(nil)
