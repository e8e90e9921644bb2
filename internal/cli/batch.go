package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	output    string
	formats   []string
	template  string
	parallel  int    // worker count, default NumCPU
	sheet     string // contact sheet output path (PNG), empty to skip
	sheetCols int    // badges per contact sheet row
	refresh   bool
	noCache   bool
	noTUI     bool
	bandHref  string
}

// batchResult is the outcome of one attendee's pipeline run.
type batchResult struct {
	label    string
	err      error
	warnings []string
	cached   bool
	png      []byte // set when the png format was requested
}

// batchCommand creates the batch command. It composes and renders every
// attendee of an event in parallel; one bad record never aborts the run.
func (c *CLI) batchCommand() *cobra.Command {
	var formatsStr string
	opts := batchOpts{parallel: runtime.NumCPU(), sheetCols: 3}

	cmd := &cobra.Command{
		Use:   "batch <event.json> <attendees.json>",
		Short: "Compose and render every attendee of an event",
		Long: `Compose and render every attendee of an event in parallel.

Badges are independent, so workers share nothing but the font registry and
the cache. A record that fails validation is reported and skipped; the rest
of the batch still renders.

Examples:
  badgeforge batch event.json attendees.json -o out/
  badgeforge batch event.json attendees.json -f png --sheet proof.png
  badgeforge batch event.json attendees.json --parallel 4 --refresh`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, pipeline.FormatPNG)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.sheet != "" && !containsFormat(opts.formats, pipeline.FormatPNG) {
				return fmt.Errorf("--sheet requires the png format")
			}
			if opts.parallel < 1 {
				opts.parallel = 1
			}
			return c.runBatch(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), json, svg, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.template, "template", "", "TOML template file overriding the default canvas")
	cmd.Flags().IntVar(&opts.parallel, "parallel", opts.parallel, "number of concurrent workers")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "write an N-up contact sheet PNG of all badges")
	cmd.Flags().IntVar(&opts.sheetCols, "sheet-cols", opts.sheetCols, "badges per contact sheet row")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the layout cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "plain log output instead of the progress display")
	cmd.Flags().StringVar(&opts.bandHref, "band-href", "", "image reference for the interests band in SVG/PDF output")

	return cmd
}

// runBatch fans attendees out over a bounded worker group and aggregates
// per-badge outcomes.
func (c *CLI) runBatch(ctx context.Context, eventPath, attendeesPath string, opts *batchOpts) error {
	logger := loggerFromContext(ctx)

	ev, attendees, err := loadRecords(eventPath, attendeesPath, "")
	if err != nil {
		return err
	}
	if len(attendees) == 0 {
		printInfo("No attendees in %s", attendeesPath)
		return nil
	}

	tmpl, err := loadTemplateFlag(opts.template)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	logger.Infof("Rendering %d badge(s) for %s with %d worker(s)", len(attendees), ev.DisplayName, opts.parallel)
	prog := newProgress(logger)

	display := newBatchDisplay(len(attendees), opts.noTUI, logger)
	display.start()

	results := make([]batchResult, len(attendees))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallel)
	for i := range attendees {
		g.Go(func() error {
			res := c.renderOne(gctx, runner, ev, &attendees[i], tmpl, opts)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			display.report(res)
			// Per-badge failures are recorded, not propagated; only
			// cancellation stops the group.
			return gctx.Err()
		})
	}
	err = g.Wait()
	display.finish()
	if err != nil {
		return err
	}

	return c.summarizeBatch(prog, results, attendees, opts)
}

// renderOne runs the pipeline for a single attendee and writes its artifacts.
func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, ev *badge.Event, a *badge.Attendee, tmpl *badge.Template, opts *batchOpts) batchResult {
	res := batchResult{label: attendeeLabel(a)}

	result, err := runner.Execute(ctx, pipeline.Options{
		Event:    ev,
		Attendee: a,
		Template: tmpl,
		Formats:  opts.formats,
		Refresh:  opts.refresh,
		BandHref: opts.bandHref,
	})
	if err != nil {
		res.err = err
		return res
	}

	res.warnings = result.Layout.Warnings
	res.cached = result.CacheInfo.LayoutHit
	res.png = result.Artifacts[pipeline.FormatPNG]

	for _, format := range opts.formats {
		path := artifactPath(opts.output, a, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			res.err = fmt.Errorf("write %s: %w", path, err)
			return res
		}
	}
	return res
}

// summarizeBatch prints the outcome, writes the contact sheet, and decides
// the exit status. Only a fully failed batch is an error.
func (c *CLI) summarizeBatch(prog *progress, results []batchResult, attendees []badge.Attendee, opts *batchOpts) error {
	rendered := 0
	warnings := 0
	allCached := true
	var pngs [][]byte

	for _, res := range results {
		if res.err != nil {
			printError("%s: %v", res.label, res.err)
			continue
		}
		rendered++
		if !res.cached {
			allCached = false
		}
		for _, w := range res.warnings {
			printWarning("%s: %s", res.label, w)
			warnings++
		}
		if res.png != nil {
			pngs = append(pngs, res.png)
		}
	}

	if rendered == 0 {
		return fmt.Errorf("all %d badge(s) failed", len(results))
	}

	prog.done(fmt.Sprintf("Rendered %d/%d badge(s)", rendered, len(results)))
	printStats(rendered, warnings, allCached)

	if opts.sheet != "" {
		data, err := contactSheet(pngs, opts.sheetCols)
		if err != nil {
			return fmt.Errorf("contact sheet: %w", err)
		}
		if err := os.WriteFile(opts.sheet, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.sheet, err)
		}
		printSuccess("Contact sheet with %d badge(s)", len(pngs))
		printFile(opts.sheet)
	}
	return nil
}
