package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/cache"
	"github.com/lanyardlab/badgeforge/pkg/fonts"
	"github.com/lanyardlab/badgeforge/pkg/layout"
	"github.com/lanyardlab/badgeforge/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, font registry, and logger;
// it stores no pipeline results. Multiple goroutines can safely share one
// Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *fonts.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner. Nil arguments get defaults: a NullCache, the
// DefaultKeyer, a fresh font registry, and the default logger. The embedded
// Go fonts always parse, so building the default registry cannot fail.
func NewRunner(c cache.Cache, keyer cache.Keyer, reg *fonts.Registry, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if reg == nil {
		var err error
		reg, err = fonts.NewRegistry()
		if err != nil {
			panic(fmt.Sprintf("default font registry: %v", err))
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Registry: reg, Logger: logger}
}

// Execute runs the complete resolve → compose → render pipeline with
// layout caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	resolved, err := opts.Attendee.Resolve(opts.Event)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.RecordHash = recordHash(opts)

	composeStart := time.Now()
	l, hit, err := r.composeWithCache(ctx, resolved, opts, result.RecordHash)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Layout = l
	result.CacheInfo.LayoutHit = hit
	result.Stats.ComposeTime = time.Since(composeStart)

	for _, warning := range l.Warnings {
		r.Logger.Warn("layout degraded",
			"attendee", opts.Attendee.ID,
			"detail", warning)
	}
	r.Logger.Info("composed layout",
		"attendee", opts.Attendee.ID,
		"cached", hit,
		"duration", result.Stats.ComposeTime)

	renderStart := time.Now()
	for _, format := range opts.Formats {
		artifact, err := r.renderFormat(*l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = artifact
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"attendee", opts.Attendee.ID,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Compose runs resolve and compose without caching or rendering. The batch
// command uses it to precompute layouts.
func (r *Runner) Compose(opts Options) (*badge.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	resolved, err := opts.Attendee.Resolve(opts.Event)
	if err != nil {
		return nil, err
	}
	engine := layout.NewEngine(opts.Template, r.Registry)
	return engine.Compose(resolved)
}

func (r *Runner) composeWithCache(ctx context.Context, resolved *badge.Resolved, opts Options, hash string) (*badge.Layout, bool, error) {
	key := r.Keyer.LayoutKey(opts.Event.TemplateID, opts.Event.ID, hash)

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		} else if ok {
			if l, err := badge.UnmarshalLayout(data); err == nil {
				return &l, true, nil
			}
			// Corrupt entry; recompose below.
			_ = r.Cache.Delete(ctx, key)
		}
	}

	engine := layout.NewEngine(opts.Template, r.Registry)
	l, err := engine.Compose(resolved)
	if err != nil {
		return nil, false, err
	}

	if data, err := badge.MarshalLayout(*l); err == nil {
		if err := r.Cache.Set(ctx, key, data, LayoutTTL); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		}
	}
	return l, false, nil
}

func (r *Runner) renderFormat(l badge.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return render.JSON(l)
	case FormatSVG:
		return render.SVG(l, render.WithBandHref(opts.BandHref))
	case FormatPNG:
		return render.RasterPNG(l, r.Registry, render.WithBandImage(opts.BandImage))
	case FormatPDF:
		return render.PDF(l, render.WithBandHref(opts.BandHref))
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// recordHash hashes everything that influences composition.
func recordHash(opts Options) string {
	data, _ := json.Marshal(struct {
		Attendee *badge.Attendee `json:"attendee"`
		Event    *badge.Event    `json:"event"`
		Template *badge.Template `json:"template"`
	}{opts.Attendee, opts.Event, opts.Template})
	return cache.Hash(data)
}
