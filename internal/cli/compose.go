package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	attendee string // restrict to a single attendee ID
	output   string // output directory
	formats  []string
	template string // TOML template file overriding the default canvas
	refresh  bool   // bypass the layout cache
	noCache  bool   // disable caching entirely
	bandHref string // href for the interests band in vector output
}

// composeCommand creates the compose command. It resolves attendee records
// into layout descriptors and optionally renders them in the same pass.
func (c *CLI) composeCommand() *cobra.Command {
	var formatsStr string
	opts := composeOpts{}

	cmd := &cobra.Command{
		Use:   "compose <event.json> <attendees.json>",
		Short: "Resolve attendee records into badge layout descriptors",
		Long: `Resolve attendee records into badge layout descriptors.

Each attendee produces one layout JSON file describing every geometry
decision for a 3"x4" badge. Additional formats render the layout in the
same pass.

Examples:
  badgeforge compose event.json attendees.json
  badgeforge compose event.json attendees.json -f json,svg -o out/
  badgeforge compose event.json attendees.json --attendee reg-0042`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, pipeline.FormatJSON)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runCompose(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.attendee, "attendee", "", "compose a single attendee by ID")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.template, "template", "", "TOML template file overriding the default canvas")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the layout cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.bandHref, "band-href", "", "image reference for the interests band in SVG/PDF output")

	return cmd
}

// runCompose loads the records, runs the pipeline per attendee, and writes
// one artifact file per attendee and format.
func (c *CLI) runCompose(ctx context.Context, eventPath, attendeesPath string, opts *composeOpts) error {
	logger := loggerFromContext(ctx)

	ev, attendees, err := loadRecords(eventPath, attendeesPath, opts.attendee)
	if err != nil {
		return err
	}
	logger.Infof("Composing %d badge(s) for %s", len(attendees), ev.DisplayName)

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

	prog := newProgress(logger)
	warnings := 0
	allCached := len(attendees) > 0

	for i := range attendees {
		a := &attendees[i]
		result, err := runner.Execute(ctx, pipeline.Options{
			Event:    ev,
			Attendee: a,
			Template: tmpl,
			Formats:  opts.formats,
			Refresh:  opts.refresh,
			BandHref: opts.bandHref,
		})
		if err != nil {
			return fmt.Errorf("attendee %s: %w", attendeeLabel(a), err)
		}
		if !result.CacheInfo.LayoutHit {
			allCached = false
		}
		for _, w := range result.Layout.Warnings {
			printWarning("%s: %s", attendeeLabel(a), w)
			warnings++
		}
		for _, format := range opts.formats {
			path := artifactPath(opts.output, a, format)
			if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printFile(path)
		}
	}

	prog.done(fmt.Sprintf("Composed %d badge(s)", len(attendees)))
	printStats(len(attendees), warnings, allCached)
	if containsFormat(opts.formats, pipeline.FormatJSON) && len(attendees) > 0 {
		first := artifactPath(opts.output, &attendees[0], pipeline.FormatJSON)
		printNextStep("Render to print", fmt.Sprintf("badgeforge render %s -f png", first))
	}
	return nil
}

// loadRecords reads the event and attendee files, optionally filtering to a
// single attendee ID.
func loadRecords(eventPath, attendeesPath, onlyID string) (*badge.Event, []badge.Attendee, error) {
	ev, err := badge.ReadEventFile(eventPath)
	if err != nil {
		return nil, nil, err
	}
	attendees, err := badge.ReadAttendeesFile(attendeesPath)
	if err != nil {
		return nil, nil, err
	}
	if onlyID != "" {
		for i := range attendees {
			if attendees[i].ID == onlyID {
				return ev, attendees[i : i+1], nil
			}
		}
		return nil, nil, fmt.Errorf("attendee %q not found in %s", onlyID, attendeesPath)
	}
	return ev, attendees, nil
}

// loadTemplateFlag resolves the --template flag. Empty means the built-in
// template, signalled by a nil pointer.
func loadTemplateFlag(path string) (*badge.Template, error) {
	if path == "" {
		return nil, nil
	}
	t, err := badge.LoadTemplate(path)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// artifactPath builds the output file name for one attendee and format.
func artifactPath(dir string, a *badge.Attendee, format string) string {
	return filepath.Join(dir, attendeeLabel(a)+"."+format)
}

// attendeeLabel returns a stable file-name-safe identifier for an attendee.
func attendeeLabel(a *badge.Attendee) string {
	if a.ID != "" {
		return a.ID
	}
	return slugify(a.Name)
}

// slugify lowercases and replaces non-alphanumeric runs with single dashes.
func slugify(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "badge"
	}
	return string(out)
}

// containsFormat reports whether formats includes f.
func containsFormat(formats []string, f string) bool {
	for _, v := range formats {
		if v == f {
			return true
		}
	}
	return false
}
