// Package layout implements the badge fitting and composition engine.
//
// The engine solves one constraint problem per badge: arbitrary-length text
// and variable-presence content must land on a fixed 3"×4" canvas without
// crossing the margin inset. It does this with graceful degradation rather
// than failure — shrink first, truncate second, accept a flagged overflow
// as the final bound.
//
// # Components
//
//   - [Engine.FitName]: chooses a font size and, when needed, a progressive
//     abbreviation for the display name. Single line, never empty.
//   - [Engine.FitTags]: searches a small discrete space (font × padding ×
//     gap) for the largest tag row configuration that fits its row width.
//   - [Engine.Compose]: positions every band — name, pronouns, professional
//     info, interests illustration, tag rows — using the actual measured
//     heights of upstream blocks, and scales the interests band down when
//     vertical space runs out.
//
// Every function is pure given its inputs and the injected font metrics;
// badges can be composed concurrently with no coordination.
//
// # Degradation flags
//
// Fit results carry an Overflow flag instead of returning errors for
// content that cannot fit: a slightly overflowing badge is preferable to no
// badge. The only errors this package produces are configuration-level
// (UNKNOWN_FONT from the metrics registry), which abort the badge.
package layout
