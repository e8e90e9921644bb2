// Package cli implements the badgeforge command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lanyardlab/badgeforge/pkg/buildinfo"
	"github.com/lanyardlab/badgeforge/pkg/cache"
	"github.com/lanyardlab/badgeforge/pkg/fonts"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
)

// ===== Constants =====

// appName is the application name used for directories and display.
const appName = "badgeforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ===== CLI - Central CLI State =====

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "badgeforge",
		Short:        "Badgeforge turns attendee records into print-ready name badges",
		Long:         `Badgeforge converts attendee and event JSON records into 3"x4" printable name badges, resolving every layout decision (font sizes, truncation, tag styling, artwork crops) into a deterministic layout descriptor that renders to PNG, SVG, or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/badgeforge/config.toml)")

	// Register all subcommands
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.artworkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ===== Runner Factory =====

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	reg, err := c.newRegistry()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, reg, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.resolveCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newRegistry builds the font registry with any TTF fonts from the config
// registered on top of the embedded defaults.
func (c *CLI) newRegistry() (*fonts.Registry, error) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		return nil, err
	}
	if c.config != nil {
		if err := c.config.registerFonts(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ===== Paths =====

// resolveCacheDir prefers the configured cache directory, falling back to the
// XDG default.
func (c *CLI) resolveCacheDir() (string, error) {
	if c.config != nil && c.config.CacheDir != "" {
		return c.config.CacheDir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/badgeforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// ===== Options Helpers =====

// parseFormats parses a comma-separated format string into a slice.
// If empty, it returns the fallback format alone.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !pipeline.ValidFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'json', 'svg', 'png', or 'pdf')", f)
		}
	}
	return nil
}
