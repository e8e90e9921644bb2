package layout

import (
	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

// Engine fits text and composes badge layouts against a single template.
// It is safe for concurrent use; all methods are pure given a fixed
// measurer and template.
type Engine struct {
	tmpl     *badge.Template
	measurer fonts.Measurer
}

// NewEngine builds an engine for tmpl. The measurer supplies text widths;
// pass a [fonts.Registry] in production.
func NewEngine(tmpl *badge.Template, m fonts.Measurer) *Engine {
	return &Engine{tmpl: tmpl, measurer: m}
}

// Template returns the template the engine composes against.
func (e *Engine) Template() *badge.Template {
	return e.tmpl
}
