// Package render turns resolved badge layouts into output artifacts.
//
// # Overview
//
// Every sink consumes a [badge.Layout] whose geometry is already final:
// text is fitted and positioned, tag chips carry their widths, the
// interests band its scale. Sinks translate inches to their own units and
// draw; they never measure or fit.
//
// Available sinks:
//
//   - [JSON]: the layout descriptor itself, for caching and the HTTP API
//   - [SVG]: vector output for proofing and print handoff
//   - [Raster]: PNG at the layout's DPI via fogleman/gg, sharing font
//     faces with the measuring registry
//   - [PDF] and [PNGFromSVG]: conversions of the SVG output
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := render.SVG(layout)
//	pdf, err := render.ToPDF(svg)
//
// [badge.Layout]: github.com/lanyardlab/badgeforge/pkg/badge
package render
