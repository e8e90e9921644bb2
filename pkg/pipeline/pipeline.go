// Package pipeline provides the core badge generation pipeline.
//
// This package implements the resolve → compose → render pipeline shared by
// the CLI, the batch command, and the HTTP API. Centralizing it keeps
// caching and degradation behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: validate the attendee record against the event's tag
//     categories and settle every optional-field decision
//  2. Compose: fit text and compute final geometry as a [badge.Layout]
//  3. Render: generate output in various formats (JSON, SVG, PNG, PDF)
//
// Composed layouts are cached by content hash; rendering is repeated per
// format on top of the cached descriptor.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	opts := pipeline.Options{
//	    Event:    event,
//	    Attendee: attendee,
//	    Formats:  []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/lanyardlab/badgeforge/pkg/badge"
)

// LayoutTTL bounds how long composed layouts stay cached. Attendee edits
// change the record hash anyway; the TTL just keeps dead entries from
// accumulating.
const LayoutTTL = 7 * 24 * time.Hour

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Options contains all configuration for one badge run.
type Options struct {
	Event    *badge.Event
	Attendee *badge.Attendee

	// Template overrides the default canvas. Nil means the built-in
	// 3"x4" template.
	Template *badge.Template

	// Formats to render. Defaults to ["json"].
	Formats []string

	// Refresh bypasses the layout cache.
	Refresh bool

	// BandImage is the processed interests illustration for raster
	// output; BandHref references it from vector output.
	BandImage image.Image
	BandHref  string
}

// ValidateAndSetDefaults checks options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Event == nil {
		return fmt.Errorf("event is required")
	}
	if o.Attendee == nil {
		return fmt.Errorf("attendee is required")
	}
	if err := o.Attendee.Validate(); err != nil {
		return err
	}
	if o.Template == nil {
		t := badge.DefaultTemplate()
		o.Template = &t
	}
	if err := o.Template.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return fmt.Errorf("unsupported format %q", f)
		}
	}
	return nil
}

// Result holds everything a pipeline run produced.
type Result struct {
	Layout    *badge.Layout
	Artifacts map[string][]byte

	// RecordHash identifies the resolved input for cache keys and API
	// responses.
	RecordHash string

	CacheInfo struct {
		LayoutHit bool
	}
	Stats struct {
		ComposeTime time.Duration
		RenderTime  time.Duration
	}
}
