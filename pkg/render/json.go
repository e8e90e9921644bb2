package render

import "github.com/lanyardlab/badgeforge/pkg/badge"

// JSON emits the layout descriptor itself. This is the cacheable,
// API-transportable form: compose once, render many times.
func JSON(l badge.Layout) ([]byte, error) {
	return badge.MarshalLayout(l)
}
