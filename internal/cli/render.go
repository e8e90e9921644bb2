package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
	"github.com/lanyardlab/badgeforge/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: svg, png, pdf, json
	bandPath string   // processed interests artwork for raster output
	bandHref string   // image reference for vector output
	noQR     bool     // omit the QR zone
}

// renderCommand creates the render command for painting a stored layout
// descriptor to printable output.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Render a badge layout descriptor to SVG, PNG, or PDF",
		Long: `Render a badge layout descriptor to printable output.

The layout descriptor carries every geometry decision already resolved, so
rendering never measures text or re-fits anything.

Examples:
  badgeforge render reg-0042.json                      # SVG next to the input
  badgeforge render reg-0042.json -f png,pdf -o badge  # badge.png + badge.pdf
  badgeforge render reg-0042.json -f png --band art.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.bandPath, "band", "", "processed interests artwork PNG for raster output")
	cmd.Flags().StringVar(&opts.bandHref, "band-href", "", "image reference for the interests band in SVG/PDF output")
	cmd.Flags().BoolVar(&opts.noQR, "no-qr", false, "omit the profile QR code")

	return cmd
}

// runRender loads the layout and optional band artwork, then renders every
// requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	l, err := badge.ReadLayoutFile(input)
	if err != nil {
		return err
	}

	var band image.Image
	if opts.bandPath != "" {
		band, err = imaging.Open(opts.bandPath)
		if err != nil {
			return fmt.Errorf("open band artwork: %w", err)
		}
	}

	if len(opts.formats) == 1 {
		return c.renderSingle(ctx, l, opts.formats[0], input, band, opts)
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		data, err := c.renderLayout(l, format, band, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		logger.Infof("Generated %s", path)
		printFile(path)
	}
	return nil
}

// renderSingle renders one format to a single output file (or stdout when
// --output is "-").
func (c *CLI) renderSingle(ctx context.Context, l badge.Layout, format, input string, band image.Image, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := c.renderLayout(l, format, band, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	path := opts.output
	if path == "" {
		path = basePath("", input) + "." + format
	}

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "-" {
		logger.Infof("Generated %s", path)
		printFile(path)
	}
	return nil
}

// renderLayout dispatches to the sink for one format.
func (c *CLI) renderLayout(l badge.Layout, format string, band image.Image, opts *renderOpts) ([]byte, error) {
	var svgOpts []render.SVGOption
	if opts.bandHref != "" {
		svgOpts = append(svgOpts, render.WithBandHref(opts.bandHref))
	}
	if opts.noQR {
		svgOpts = append(svgOpts, render.WithoutQR())
	}

	switch format {
	case pipeline.FormatJSON:
		return render.JSON(l)
	case pipeline.FormatSVG:
		return render.SVG(l, svgOpts...)
	case pipeline.FormatPDF:
		return render.PDF(l, svgOpts...)
	case pipeline.FormatPNG:
		reg, err := c.newRegistry()
		if err != nil {
			return nil, err
		}
		var rasterOpts []render.RasterOption
		if band != nil {
			rasterOpts = append(rasterOpts, render.WithBandImage(band))
		}
		return render.RasterPNG(l, reg, rasterOpts...)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// ===== Output Paths =====

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. "-" means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeOutput writes data to path, creating or truncating the file.
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
