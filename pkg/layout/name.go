package layout

import (
	"strings"

	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

// nameSafetyFactor leaves headroom between measured width and the box so
// hinting and rasterizer rounding never push a fitted name over the edge.
const nameSafetyFactor = 0.92

// NameFit is the result of fitting a display name onto a single line.
type NameFit struct {
	Text      string
	SizePt    float64
	Truncated bool
	// Overflow is set when even the shortest abbreviation at the minimum
	// size does not fit. The name is returned anyway; a wide name beats a
	// missing one.
	Overflow bool
}

// FitName chooses a font size and, if necessary, an abbreviation for name so
// it fits maxWidthIn on one line. Sizes are tried largest-first; only when
// the smallest size fails do the truncation steps run, each re-measured at
// the minimum size, stopping at the first fit.
func (e *Engine) FitName(name string, maxWidthIn float64) (NameFit, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return NameFit{Text: "", SizePt: e.tmpl.NameMaxSizePt}, nil
	}

	sizes := nameSizeCandidates(e.tmpl.NameMaxSizePt, e.tmpl.NameMinSizePt)
	safeWidth := maxWidthIn * nameSafetyFactor

	for _, size := range sizes {
		w, err := e.measurer.Measure(name, e.tmpl.FontFamilyBold, fonts.Regular, size)
		if err != nil {
			return NameFit{}, err
		}
		if w <= safeWidth {
			return NameFit{Text: name, SizePt: size}, nil
		}
	}

	// Shrinking alone was not enough: walk the truncation pipeline at the
	// minimum size. Steps are ordered least to most destructive.
	minSize := e.tmpl.NameMinSizePt
	parsed := parseName(name)

	for _, step := range truncationSteps {
		candidate := step(parsed)
		if candidate == "" || candidate == name {
			continue
		}
		w, err := e.measurer.Measure(candidate, e.tmpl.FontFamilyBold, fonts.Regular, minSize)
		if err != nil {
			return NameFit{}, err
		}
		if w <= safeWidth {
			return NameFit{Text: candidate, SizePt: minSize, Truncated: true}, nil
		}
	}

	// Accepted overflow: return the first name alone, flagged, never empty.
	fallback := parsed.First
	if fallback == "" {
		fallback = name
	}
	return NameFit{Text: fallback, SizePt: minSize, Truncated: fallback != name, Overflow: true}, nil
}

// nameSizeCandidates builds the descending candidate list: the maximum, a
// half-point step, then whole points down to the minimum.
func nameSizeCandidates(maxPt, minPt float64) []float64 {
	if maxPt <= minPt {
		return []float64{minPt}
	}
	sizes := []float64{maxPt, maxPt - 0.5}
	for s := float64(int(maxPt)) - 1; s >= minPt; s-- {
		sizes = append(sizes, s)
	}
	if sizes[len(sizes)-1] != minPt {
		sizes = append(sizes, minPt)
	}
	return sizes
}

// =============================================================================
// Name Parsing
// =============================================================================

// parsedName is a display name split into structural components.
type parsedName struct {
	First      string
	Last       string
	Middles    []string
	Patronymic string
	// EasternOrder marks family-name-first names; reconstruction preserves
	// the original order.
	EasternOrder bool
}

// Connector particles are kept attached to the surname, never abbreviated
// on their own.
var nameConnectors = map[string]bool{
	"bin": true, "ibn": true, "bint": true,
	"al": true, "el": true,
	"de": true, "del": true, "da": true,
	"von": true, "van": true, "zu": true,
}

var patronymicSuffixes = []string{"ovich", "evich", "ovna", "evna", "sson", "dóttir"}

// easternSurnames triggers family-name-first parsing for two-token names.
var easternSurnames = map[string]bool{
	"Zhang": true, "Wang": true, "Li": true, "Liu": true, "Chen": true,
	"Kim": true, "Park": true, "Lee": true,
}

func parseName(full string) parsedName {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return parsedName{}
	case 1:
		return parsedName{First: tokens[0]}
	}

	if len(tokens) == 2 && easternSurnames[tokens[0]] {
		return parsedName{First: tokens[1], Last: tokens[0], EasternOrder: true}
	}

	p := parsedName{First: tokens[0]}

	// The surname is the final token plus any connectors directly before it
	// ("van Beethoven", "al Rashid").
	end := len(tokens) - 1
	p.Last = tokens[end]
	for end-1 >= 1 && nameConnectors[strings.ToLower(tokens[end-1])] {
		end--
		p.Last = tokens[end] + " " + p.Last
	}

	// Interior connectors attach forward to the token that follows them
	// ("bin Khalid" stays one unit).
	var pending string
	for _, tok := range tokens[1:end] {
		if nameConnectors[strings.ToLower(tok)] {
			pending += tok + " "
			continue
		}
		tok = pending + tok
		pending = ""
		if p.Patronymic == "" && isPatronymic(tok) {
			p.Patronymic = tok
			continue
		}
		p.Middles = append(p.Middles, tok)
	}
	if pending != "" {
		p.Middles = append(p.Middles, strings.TrimSpace(pending))
	}
	return p
}

func isPatronymic(tok string) bool {
	lower := strings.ToLower(tok)
	for _, suffix := range patronymicSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// initial returns the first rune of s followed by a period.
func initial(s string) string {
	for _, r := range s {
		return string(r) + "."
	}
	return ""
}

// =============================================================================
// Truncation Pipeline
// =============================================================================

// truncationSteps is the ordered abbreviation pipeline. Each step is a pure
// transform of the parsed name; the fitter re-measures after each and stops
// at the first fit.
var truncationSteps = []func(parsedName) string{
	abbreviateMiddles,
	dropPatronymic,
	abbreviateLast,
	firstPlusLastInitial,
	firstOnly,
}

// abbreviateMiddles replaces each middle name with its initial.
func abbreviateMiddles(p parsedName) string {
	if len(p.Middles) == 0 {
		return ""
	}
	parts := []string{p.First}
	for _, m := range p.Middles {
		parts = append(parts, initial(lastCore(m)))
	}
	if p.Patronymic != "" {
		parts = append(parts, p.Patronymic)
	}
	return joinName(parts, p)
}

// dropPatronymic removes the patronymic token, keeping abbreviated middles.
func dropPatronymic(p parsedName) string {
	if p.Patronymic == "" && len(p.Middles) == 0 {
		return ""
	}
	parts := []string{p.First}
	for _, m := range p.Middles {
		parts = append(parts, initial(lastCore(m)))
	}
	return joinName(parts, p)
}

// abbreviateLast reduces the last name to its initial. The last name is
// never dropped outright at this stage.
func abbreviateLast(p parsedName) string {
	if p.Last == "" {
		return ""
	}
	parts := []string{p.First}
	for _, m := range p.Middles {
		parts = append(parts, initial(lastCore(m)))
	}
	parts = append(parts, initial(lastCore(p.Last)))
	return strings.Join(parts, " ")
}

// firstPlusLastInitial drops all middle content.
func firstPlusLastInitial(p parsedName) string {
	if p.Last == "" {
		return ""
	}
	return p.First + " " + initial(lastCore(p.Last))
}

func firstOnly(p parsedName) string {
	return p.First
}

// lastCore strips connector particles so "von Neumann" abbreviates to "N.".
func lastCore(last string) string {
	tokens := strings.Fields(last)
	for i := len(tokens) - 1; i >= 0; i-- {
		if !nameConnectors[strings.ToLower(tokens[i])] {
			return tokens[i]
		}
	}
	return last
}

// joinName reconstructs a name from parts, honoring eastern ordering where
// the family name leads.
func joinName(parts []string, p parsedName) string {
	if p.Last == "" {
		return strings.Join(parts, " ")
	}
	if p.EasternOrder {
		return p.Last + " " + strings.Join(parts, " ")
	}
	return strings.Join(parts, " ") + " " + p.Last
}
