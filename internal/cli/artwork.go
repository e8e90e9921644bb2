package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/lanyardlab/badgeforge/pkg/artwork"
	"github.com/lanyardlab/badgeforge/pkg/cache"
	"github.com/lanyardlab/badgeforge/pkg/render"
)

// assetTTL is how long processed artwork and location graphics stay cached.
// Generated assets are keyed by their full input, so stale entries are only
// a disk-space concern.
const assetTTL = 30 * 24 * time.Hour

// artworkOpts holds the shared flags for the artwork subcommands.
type artworkOpts struct {
	output  string
	margin  float64 // content margin in inches
	dpi     float64
	noCache bool
	refresh bool
}

// artworkCommand creates the artwork command for preparing interest-band
// assets.
func (c *CLI) artworkCommand() *cobra.Command {
	opts := artworkOpts{margin: 0.1, dpi: 288}

	cmd := &cobra.Command{
		Use:   "artwork",
		Short: "Prepare interests artwork and location graphics",
		Long: `Prepare badge image assets.

Generated interest illustrations arrive with arbitrary off-white backgrounds
and loose framing. The prepare pipeline flattens the background to pure white
and crops to the exact 2:1 band shape; fetch does the same for a remote URL.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output PNG path")
	cmd.PersistentFlags().Float64Var(&opts.margin, "margin", opts.margin, "content margin in inches")
	cmd.PersistentFlags().Float64Var(&opts.dpi, "dpi", opts.dpi, "resolution for the margin")
	cmd.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "reprocess even when cached")

	cmd.AddCommand(c.artworkPrepareCommand(&opts))
	cmd.AddCommand(c.artworkFetchCommand(&opts))
	cmd.AddCommand(c.artworkLocationCommand(&opts))

	return cmd
}

// artworkPrepareCommand creates "artwork prepare" for local image files.
func (c *CLI) artworkPrepareCommand(opts *artworkOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare <image>",
		Short: "Normalize and crop a local illustration to the 2:1 band shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := imaging.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			data, err := prepareBand(img, opts.margin, opts.dpi)
			if err != nil {
				return err
			}
			out := opts.output
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_band.png"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			printSuccess("Prepared band artwork")
			printFile(out)
			return nil
		},
	}
}

// artworkFetchCommand creates "artwork fetch" for remote illustrations. The
// processed result is cached by URL, margin, and DPI.
func (c *CLI) artworkFetchCommand(opts *artworkOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a generated illustration and prepare it for the band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			out := opts.output
			if out == "" {
				out = "band.png"
			}

			store, err := c.newCache(opts.noCache)
			if err != nil {
				return err
			}
			defer store.Close()
			key := cache.NewDefaultKeyer().ArtworkKey(url, opts.margin, opts.dpi)

			data, cached, err := c.fetchBand(cmd.Context(), store, key, url, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			printSuccess("Prepared band artwork")
			printStats(1, 0, cached)
			printFile(out)
			return nil
		},
	}
}

// fetchBand returns the processed artwork bytes, consulting the cache first.
func (c *CLI) fetchBand(ctx context.Context, store cache.Cache, key, url string, opts *artworkOpts) ([]byte, bool, error) {
	if !opts.refresh {
		if data, ok, err := store.Get(ctx, key); err != nil {
			c.Logger.Warn("artwork cache read failed", "error", err)
		} else if ok {
			return data, true, nil
		}
	}

	spinner := newSpinnerWithContext(ctx, "Downloading artwork")
	spinner.Start()
	img, err := artwork.NewFetcher().Fetch(ctx, url)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return nil, false, ctx.Err()
		}
		return nil, false, err
	}

	data, err := prepareBand(img, opts.margin, opts.dpi)
	if err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, assetTTL); err != nil {
		c.Logger.Warn("artwork cache write failed", "error", err)
	}
	return data, false, nil
}

// artworkLocationCommand creates "artwork location": the standalone map-pin
// graphic for a normalized "City, ST" string, cached per location and size.
func (c *CLI) artworkLocationCommand(opts *artworkOpts) *cobra.Command {
	var sizePx int

	cmd := &cobra.Command{
		Use:   "location <city-state>",
		Short: "Render the location graphic for a \"City, ST\" string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := strings.TrimSpace(args[0])
			out := opts.output
			if out == "" {
				out = slugify(location) + ".png"
			}

			store, err := c.newCache(opts.noCache)
			if err != nil {
				return err
			}
			defer store.Close()
			key := cache.NewDefaultKeyer().LocationKey(location, sizePx)

			ctx := cmd.Context()
			cached := false
			var data []byte
			if !opts.refresh {
				if hit, ok, err := store.Get(ctx, key); err == nil && ok {
					data, cached = hit, true
				}
			}
			if data == nil {
				reg, err := c.newRegistry()
				if err != nil {
					return err
				}
				data, err = render.LocationPNG(reg, location, sizePx)
				if err != nil {
					return err
				}
				if err := store.Set(ctx, key, data, assetTTL); err != nil {
					c.Logger.Warn("location cache write failed", "error", err)
				}
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered location graphic for %s", location)
			printStats(1, 0, cached)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&sizePx, "size", 128, "square canvas edge in pixels")
	return cmd
}

// prepareBand runs normalize then crop and encodes the result as PNG.
func prepareBand(img image.Image, marginIn, dpi float64) ([]byte, error) {
	flat := artwork.Normalize(img)
	band, err := artwork.Crop(flat, marginIn, dpi)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, band); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
